// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

// Package cdevline implements the dht11.Line collaborator on top of the
// Linux GPIO character device.
//
// The kernel timestamps both-edge events in the interrupt path, so the pulse
// widths reaching the decoder do not depend on userspace scheduling the way
// the polling gpioline driver does. Events are requested on the realtime
// clock so that the driver's Now and the kernel's timestamps share a
// timebase; a clock step from NTP during the 5ms transmission will spoil that
// attempt, which the caller recovers from by retrying.
package cdevline

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/GermanBionicSystems/dht/dht11"
	"periph.io/x/conn/v3/gpio"
)

// Line drives a DHT11 data line through a requested gpiocdev line.
//
// Line operations are infallible at the dht11.Line layer; the first error any
// of them hits is latched and available from Err.
type Line struct {
	chip   string
	offset int
	line   *gpiocdev.Line
	dev    *dht11.Dev
	armed  atomic.Bool

	mu      sync.Mutex
	lastErr error
}

// New requests the line at offset on the named chip (e.g. "gpiochip0") and
// returns it with the dht11.Dev decoding it. Close releases the line.
func New(chip string, offset int) (*Line, error) {
	l := &Line{chip: chip, offset: offset}
	req, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithRealtimeEventClock,
		gpiocdev.WithEventHandler(l.handleEvent))
	if err != nil {
		return nil, fmt.Errorf("cdevline: request %s:%d: %w", chip, offset, err)
	}
	l.line = req
	l.dev = dht11.New(l)
	return l, nil
}

// Dev returns the device decoding this line.
func (l *Line) Dev() *dht11.Dev {
	return l.dev
}

// Err returns the first line error hit since the last call, and clears it.
func (l *Line) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.lastErr
	l.lastErr = nil
	return err
}

// Close disarms the line and releases it back to the kernel.
func (l *Line) Close() error {
	l.armed.Store(false)
	if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
		l.line.Close()
		return fmt.Errorf("cdevline: reconfigure %s:%d: %w", l.chip, l.offset, err)
	}
	if err := l.line.Close(); err != nil {
		return fmt.Errorf("cdevline: close %s:%d: %w", l.chip, l.offset, err)
	}
	return nil
}

func (l *Line) latch(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	if l.lastErr == nil {
		l.lastErr = err
	}
	l.mu.Unlock()
}

// handleEvent feeds kernel edge events to the device while an attempt is
// armed. It runs on the request's event goroutine, the driver's edge-arrival
// context.
func (l *Line) handleEvent(evt gpiocdev.LineEvent) {
	if !l.armed.Load() {
		return
	}
	level := gpio.Low
	if evt.Type == gpiocdev.LineEventRisingEdge {
		level = gpio.High
	}
	l.dev.RecordEdge(level, uint32(evt.Timestamp/time.Microsecond))
}

// ConfigureOutput implements dht11.Line, flipping the line to output in the
// free (high) state.
func (l *Line) ConfigureOutput() {
	l.latch(l.line.Reconfigure(gpiocdev.AsOutput(1)))
}

// ConfigureInput implements dht11.Line, flipping the line back to input with
// edge detection.
func (l *Line) ConfigureInput() {
	l.latch(l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithBothEdges))
}

// EnableEdgeIRQ implements dht11.Line. The kernel reports edges for the
// lifetime of the request; arming only opens the gate to the device.
func (l *Line) EnableEdgeIRQ() {
	l.armed.Store(true)
}

// DisableEdgeIRQ implements dht11.Line.
func (l *Line) DisableEdgeIRQ() {
	l.armed.Store(false)
}

// SetHigh implements dht11.Line.
func (l *Line) SetHigh() {
	l.latch(l.line.SetValue(1))
}

// SetLow implements dht11.Line.
func (l *Line) SetLow() {
	l.latch(l.line.SetValue(0))
}

// Level implements dht11.Line.
func (l *Line) Level() gpio.Level {
	v, err := l.line.Value()
	l.latch(err)
	return gpio.Level(v != 0)
}

// Sleep implements dht11.Line.
func (l *Line) Sleep(min, max time.Duration) {
	time.Sleep(min)
}

// Now implements dht11.Line, microseconds on the realtime clock to match the
// kernel's event timestamps.
func (l *Line) Now() uint32 {
	return uint32(time.Now().UnixNano() / int64(time.Microsecond))
}

func (l *Line) String() string {
	return fmt.Sprintf("%s:%d", l.chip, l.offset)
}

var _ dht11.Line = &Line{}
