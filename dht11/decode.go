// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"github.com/GermanBionicSystems/dht/common"
	"periph.io/x/conn/v3/gpio"
)

/*
 * Wire layout of the 84-slot timeline. Each byte occupies 16 edges, 2 per
 * bit, MSB first. The decimal bytes are present on the wire but always zero
 * on the DHT11 and are not decoded.
 */
const (
	edgesPerByte = 16

	humidityOffset           = 2
	humidityDecimalOffset    = 18 // unused
	temperatureOffset        = 34
	temperatureDecimalOffset = 50 // unused
	checksumOffset           = 66
)

const (
	// 26-28us high pulse for a 0, plus reserve.
	bit0MaxUS = 35
	// 70us high pulse for a 1, plus reserve.
	bit1MaxUS = 80
)

// GetData decodes the captured timeline into a Reading.
//
// It must only succeed on a complete capture: any other CheckStatus result is
// returned as-is without touching the timeline. A structural failure while
// decoding a byte surfaces before the checksum comparison; in particular a
// failure on the checksum byte itself suppresses the comparison rather than
// misreporting it as ErrCrc.
func (d *Dev) GetData() (Reading, Status) {
	if s := d.CheckStatus(); s != DataReady {
		return Reading{}, s
	}

	var r Reading
	var s Status
	if r.HumidityIntegral, s = d.decodeByteAt(humidityOffset); s != OK {
		return Reading{}, s
	}
	// Always 0 on the wire, not decoded.
	r.HumidityDecimal = 0

	if r.TemperatureIntegral, s = d.decodeByteAt(temperatureOffset); s != OK {
		return Reading{}, s
	}
	// Always 0 on the wire, not decoded.
	r.TemperatureDecimal = 0

	if r.Checksum, s = d.decodeByteAt(checksumOffset); s != OK {
		return Reading{}, s
	}
	sum := common.Sum8([]byte{
		r.HumidityIntegral, r.HumidityDecimal,
		r.TemperatureIntegral, r.TemperatureDecimal,
	})
	if sum != r.Checksum {
		return Reading{}, ErrCrc
	}
	return r, OK
}

// decodeByteAt reconstructs the byte whose first edge sits at the given
// timeline offset.
//
// Every bit is a triplet of consecutive edges: the 50us low preamble, the
// high pulse, and the start of the next bit (or of the end-of-sequence
// trailer, for the final bit). The preamble must be low and the pulse high or
// the sequence is invalid; the pulse width classifies the bit against the two
// thresholds, and a pulse wider than the bit-1 bound means the capture lost
// an edge.
func (d *Dev) decodeByteAt(offset int) (uint8, Status) {
	edges := d.edges[offset : offset+edgesPerByte+1]
	var b uint8
	for i := 0; i < edgesPerByte; i += 2 {
		if edges[i].Level != gpio.Low || edges[i+1].Level != gpio.High {
			return 0, ErrSequenceInvalid
		}
		width := edges[i+2].Timestamp - edges[i+1].Timestamp
		if width > bit1MaxUS {
			return 0, ErrTimeout
		}
		b <<= 1
		if width > bit0MaxUS {
			b |= 1
		}
	}
	return b, OK
}
