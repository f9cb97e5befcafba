// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht is a container for DHT-family single-wire sensor drivers and
// their platform line drivers.
package dht
