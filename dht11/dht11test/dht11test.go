// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11test is meant to be used to test drivers and applications
// against a dht11.Dev without hardware: a scripted data line plays a captured
// edge sequence back into the device under a deterministic microsecond clock.
package dht11test

import (
	"time"

	"github.com/GermanBionicSystems/dht/dht11"
	"periph.io/x/conn/v3/gpio"
)

// Line is a scripted implementation of dht11.Line.
//
// When the device under test switches the line back to input (the last step
// of the start condition), the playback edges are delivered synchronously to
// Sink and the virtual clock is moved to the last delivered timestamp. The
// virtual clock otherwise advances Step microseconds on every Now call so
// that the driver's clock-polling loops terminate.
type Line struct {
	// Playback holds the edges delivered on the switch to input. Partial
	// sequences are delivered as-is, which leaves the device mid-capture.
	Playback []dht11.Edge
	// Sink receives played-back edges; wire it to (*dht11.Dev).RecordEdge.
	Sink func(level gpio.Level, timestamp uint32)
	// Step is the clock advance per Now call.
	Step uint32
	// Ops records the line operations in call order: "output", "input",
	// "irq-on", "irq-off", "high", "low", "sleep".
	Ops []string

	now   uint32
	level gpio.Level
}

// NewLine returns a Line playing back the given edges, with a clock step of
// one microsecond.
func NewLine(playback []dht11.Edge) *Line {
	return &Line{Playback: playback, Step: 1, level: gpio.High}
}

// SetNow pins the virtual clock, typically between a partial playback and a
// CheckStatus assertion.
func (l *Line) SetNow(t uint32) {
	l.now = t
}

func (l *Line) ConfigureOutput() {
	l.Ops = append(l.Ops, "output")
}

func (l *Line) ConfigureInput() {
	l.Ops = append(l.Ops, "input")
	for _, e := range l.Playback {
		l.now = e.Timestamp
		l.level = e.Level
		if l.Sink != nil {
			l.Sink(e.Level, e.Timestamp)
		}
	}
}

func (l *Line) EnableEdgeIRQ() {
	l.Ops = append(l.Ops, "irq-on")
}

func (l *Line) DisableEdgeIRQ() {
	l.Ops = append(l.Ops, "irq-off")
}

func (l *Line) SetHigh() {
	l.Ops = append(l.Ops, "high")
	l.level = gpio.High
}

func (l *Line) SetLow() {
	l.Ops = append(l.Ops, "low")
	l.level = gpio.Low
}

func (l *Line) Level() gpio.Level {
	return l.level
}

func (l *Line) Sleep(min, max time.Duration) {
	l.Ops = append(l.Ops, "sleep")
	l.now += uint32(min / time.Microsecond)
}

func (l *Line) Now() uint32 {
	l.now += l.Step
	return l.now
}

func (l *Line) String() string {
	return "dht11test"
}

var _ dht11.Line = &Line{}

// Timing of a generated sequence, in microseconds.
const (
	ackLowWidth   = 80
	ackHighWidth  = 80
	bitLowWidth   = 50
	zeroHighWidth = 27
	oneHighWidth  = 70
)

// Sequence returns the canonical 84-edge capture of a transmission carrying
// the given integral humidity and temperature readings, decimal bytes zero
// and a consistent checksum.
func Sequence(humidity, temperature byte) []dht11.Edge {
	return SequenceBytes(humidity, 0, temperature, 0, humidity+temperature)
}

// SequenceBytes returns the 84-edge capture of a transmission carrying the
// five raw bytes exactly as given, allowing inconsistent checksums.
//
// The first timestamp is arbitrary but non-zero; callers asserting on
// timestamps should only rely on the relative widths.
func SequenceBytes(humidityIntegral, humidityDecimal, temperatureIntegral, temperatureDecimal, checksum byte) []dht11.Edge {
	edges := make([]dht11.Edge, 0, dht11.SequenceEdges)
	t := uint32(1000)
	push := func(level gpio.Level, width uint32) {
		edges = append(edges, dht11.Edge{Timestamp: t, Level: level})
		t += width
	}

	push(gpio.Low, ackLowWidth)
	push(gpio.High, ackHighWidth)
	for _, b := range []byte{humidityIntegral, humidityDecimal, temperatureIntegral, temperatureDecimal, checksum} {
		for bit := 7; bit >= 0; bit-- {
			push(gpio.Low, bitLowWidth)
			if b>>uint(bit)&1 == 1 {
				push(gpio.High, oneHighWidth)
			} else {
				push(gpio.High, zeroHighWidth)
			}
		}
	}
	// End of sequence: 50us low, then back to the free state.
	push(gpio.Low, bitLowWidth)
	push(gpio.High, 0)
	return edges
}
