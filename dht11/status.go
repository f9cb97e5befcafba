// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

// Status classifies the outcome of a transmission attempt or the progress of
// one in flight.
//
// NoData, Busy and DataReady describe attempt state and are not failures.
// ErrTimeout, ErrSequenceInvalid and ErrCrc are per-attempt failures; none of
// them is fatal to the device, the caller may retry with StartRead.
type Status uint8

const (
	// OK reports a successfully completed operation.
	OK Status = iota
	// NoData reports that no transmission was ever started, or the last one
	// was aborted.
	NoData
	// Busy reports a transmission in progress.
	Busy
	// DataReady reports a fully captured transmission awaiting decode.
	DataReady
	// ErrTimeout reports that no acknowledge or data edge arrived within the
	// expected window.
	ErrTimeout
	// ErrSequenceInvalid reports captured edges violating the protocol's
	// low/high alternation.
	ErrSequenceInvalid
	// ErrCrc reports a checksum mismatch over the decoded bytes.
	ErrCrc
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case NoData:
		return "no data"
	case Busy:
		return "busy"
	case DataReady:
		return "data ready"
	case ErrTimeout:
		return "timeout"
	case ErrSequenceInvalid:
		return "sequence invalid"
	case ErrCrc:
		return "checksum mismatch"
	default:
		return "unknown status"
	}
}
