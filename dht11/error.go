// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import "fmt"

// TimeoutError is returned when the sensor did not acknowledge the start
// condition or stopped toggling the data line mid-transmission.
type TimeoutError struct{}

func (e *TimeoutError) Error() string {
	return "dht11: no edge on the data line within the expected window"
}

// SequenceError is returned when the captured edges violate the protocol's
// low/high alternation, usually electrical noise or a wiring problem.
type SequenceError struct{}

func (e *SequenceError) Error() string {
	return "dht11: captured edge sequence is not a valid transmission"
}

// ChecksumError is returned when the decoded bytes do not match the
// transmitted checksum.
type ChecksumError struct{}

func (e *ChecksumError) Error() string {
	return "dht11: checksum mismatch, data corrupted in transit"
}

// NotReadyError is returned when a decode was requested while no completed
// transmission was available.
type NotReadyError struct {
	// Status is the state the attempt was in, NoData or Busy.
	Status Status
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("dht11: no completed transmission to decode (%s)", e.Status)
}
