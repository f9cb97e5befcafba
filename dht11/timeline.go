// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import "periph.io/x/conn/v3/gpio"

// SequenceEdges is the number of data line edges in one full transmission:
// 2 acknowledge edges, 40 data bits of 2 edges each, 2 end-of-sequence edges.
const SequenceEdges = 84

// noData is the cursor sentinel for "no transmission ever started or the last
// one was aborted".
const noData = -1

// Edge is one timestamped transition of the data line. Timestamps are
// monotonic microseconds and wrap at the clock width; all arithmetic on them
// is modular.
type Edge struct {
	// Timestamp is the capture time in microseconds.
	Timestamp uint32
	// Level is the line level after the transition.
	Level gpio.Level
}

// RecordEdge appends one detected transition to the edge timeline. It is the
// only operation safe to invoke from the edge-arrival context (an interrupt
// handler or a capture goroutine) while an attempt is active.
//
// The first recorded edge must be the sensor's acknowledge falling edge; a
// high level at cursor 0 is discarded as noise. Once the timeline is full all
// further edges are discarded until the next StartRead. The cursor advance is
// an atomic store, published before the completion notification, so the
// foreground context never observes the notification ahead of the edges.
func (d *Dev) RecordEdge(level gpio.Level, timestamp uint32) {
	n := d.count.Load()
	if n == 0 && level != gpio.Low {
		return
	}
	if n < 0 || n >= SequenceEdges {
		return
	}
	d.edges[n] = Edge{Timestamp: timestamp, Level: level}
	d.count.Store(n + 1)
	if n+1 == SequenceEdges {
		d.notifyCompleted()
	}
}

// HandleEdge samples the line level and clock and records the transition. It
// mirrors the shape of a level-agnostic edge interrupt handler; platforms
// whose event source already carries a level and timestamp should call
// RecordEdge directly instead.
func (d *Dev) HandleEdge() {
	d.RecordEdge(d.line.Level(), d.line.Now())
}

// EdgeCount returns the number of edges captured for the current attempt.
func (d *Dev) EdgeCount() int {
	if n := d.count.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// notifyCompleted signals the foreground context that the timeline is full.
// The cursor reaches SequenceEdges exactly once per attempt, so the buffered
// one-slot channel never drops a signal; the non-blocking send keeps the
// arrival context from ever stalling.
func (d *Dev) notifyCompleted() {
	select {
	case d.done <- struct{}{}:
	default:
	}
}
