// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 decodes the single-wire protocol of the AOSONG DHT11
// temperature and relative humidity sensor.
//
// The sensor transmits by toggling a shared open-drain data line; one
// transmission is a fixed sequence of 84 voltage edges (2 acknowledge edges,
// 40 data bits of 2 edges each, 2 end-of-sequence edges) whose pulse widths
// encode 5 bytes: integral humidity, decimal humidity, integral temperature,
// decimal temperature and an additive checksum. On the DHT11 the decimal
// bytes are always zero and are not decoded.
//
// The driver is split from the hardware: a Dev owns the edge timeline and the
// transmission state machine, while the Line collaborator supplied at
// construction owns the pin, the edge interrupt source and the microsecond
// clock. Edge timestamping at microsecond resolution is the platform's
// problem; see the gpioline and cdevline packages for two implementations.
//
// The dht11.Dev type implements the physic.SenseEnv interface. The
// physic.Env measurement results contain a temperature and humidity value;
// the pressure is not set.
//
// Datasheet: https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
package dht11
