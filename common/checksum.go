// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, a checksum calculation.
package common

// Sum8 calculates the modulo-256 additive checksum of the byte slice
// parameter and returns the calculated value. Additive checksums are used by
// the AOSONG single-wire sensors (DHT11, DHT22, AM2301).
func Sum8(bytes []byte) byte {
	var sum byte
	for _, val := range bytes {
		sum += val
	}
	return sum
}
