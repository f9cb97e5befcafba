// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpioline implements the dht11.Line collaborator on top of a
// periph.io gpio.PinIO.
//
// Edge detection is a busy-polling goroutine, not WaitForEdge: the sensor's
// pulses are 26-80us wide and edge waits through sysfs or ioctl routinely
// miss them on a non-realtime kernel. A pin read costs well under a
// microsecond on a Raspberry Pi class host, which is enough resolution to
// classify the pulse widths. The garbage collector is disabled for the
// duration of the capture window to keep pauses out of the timing.
package gpioline

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/GermanBionicSystems/dht/dht11"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// captureWindow bounds the polling goroutine per attempt. It is armed before
// the 18-20ms start signal and must outlive the full 5ms transmission.
const captureWindow = 50 * time.Millisecond

// Line drives a DHT11 data line through a periph.io pin.
//
// Pin operations are infallible at the dht11.Line layer; the first error any
// of them hits is latched and available from Err.
type Line struct {
	pin   gpio.PinIO
	dev   *dht11.Dev
	epoch time.Time

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	lastErr error
}

// New returns a Line for the given pin and the dht11.Dev decoding it. The
// pin is driven high (the line's free state) to validate it is usable.
func New(pin gpio.PinIO) (*Line, error) {
	if err := pin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("gpioline: pin %s unusable: %w", pin, err)
	}
	l := &Line{pin: pin, epoch: time.Now()}
	l.dev = dht11.New(l)
	return l, nil
}

// Open is shorthand for looking the pin up by name in the gpioreg registry.
// host.Init must have been called first.
func Open(name string) (*Line, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpioline: no gpio pin %q", name)
	}
	return New(pin)
}

// Dev returns the device decoding this line.
func (l *Line) Dev() *dht11.Dev {
	return l.dev
}

// Err returns the first pin error hit since the last call, and clears it.
func (l *Line) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.lastErr
	l.lastErr = nil
	return err
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

// ConfigureOutput implements dht11.Line. Direction switches on the first
// drive, periph pins carry the level with Out.
func (l *Line) ConfigureOutput() {}

// ConfigureInput implements dht11.Line. The data line needs a pull-up to
// return to the free state between pulses.
func (l *Line) ConfigureInput() {
	l.latch(l.pin.In(gpio.PullUp, gpio.NoEdge))
}

// EnableEdgeIRQ implements dht11.Line by starting the polling goroutine for
// one capture window.
func (l *Line) EnableEdgeIRQ() {
	l.DisableEdgeIRQ()
	stop := make(chan struct{})
	l.stop = stop
	l.wg.Add(1)
	go l.capture(stop)
}

// DisableEdgeIRQ implements dht11.Line by stopping the polling goroutine, if
// one is running.
func (l *Line) DisableEdgeIRQ() {
	if l.stop == nil {
		return
	}
	close(l.stop)
	l.wg.Wait()
	l.stop = nil
}

// SetHigh implements dht11.Line.
func (l *Line) SetHigh() {
	l.latch(l.pin.Out(gpio.High))
}

// SetLow implements dht11.Line.
func (l *Line) SetLow() {
	l.latch(l.pin.Out(gpio.Low))
}

// Level implements dht11.Line.
func (l *Line) Level() gpio.Level {
	return l.pin.Read()
}

// Sleep implements dht11.Line. It blocks for the minimum; the goroutine
// scheduler provides the slack towards the maximum on its own.
func (l *Line) Sleep(min, max time.Duration) {
	time.Sleep(min)
}

// Now implements dht11.Line, microseconds on a monotonic epoch private to
// this line.
func (l *Line) Now() uint32 {
	return uint32(time.Since(l.epoch).Microseconds())
}

func (l *Line) String() string {
	return l.pin.Name()
}

// capture busy-polls the pin and feeds level transitions to the device until
// disarmed or the capture window closes.
func (l *Line) capture(stop chan struct{}) {
	defer l.wg.Done()

	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	deadline := time.Now().Add(captureWindow)
	prev := l.pin.Read()
	for time.Now().Before(deadline) {
		select {
		case <-stop:
			return
		default:
		}
		level := l.pin.Read()
		if level != prev {
			l.dev.RecordEdge(level, l.Now())
			prev = level
		}
	}
}

var _ dht11.Line = &Line{}
