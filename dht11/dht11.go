// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

/*
 * Communication sequence, per datasheet.
 *
 * Free state is data line high.
 *
 * Start signal: host drives the line low for at least 18ms, then releases it.
 * Acknowledge: the sensor answers within 20-40us with 80us low then 80us high.
 * Data bit: 50us low preamble, then a high pulse whose width carries the bit;
 * 26-28us is a 0, 70us is a 1.
 * End of sequence: 50us low, then the line returns to the free state.
 */
const (
	startSignalMin = 18 * time.Millisecond
	startSignalMax = 20 * time.Millisecond

	// 40us acknowledge window plus reserve.
	ackTimeoutUS = 60

	// Max interval between two edges mid-transmission; wider than any gap the
	// datasheet allows.
	edgeTimeoutUS = 100
)

// completionWait bounds how long Read blocks for the completion signal. A
// healthy transmission finishes in under 10ms; a capture that stalls
// mid-sequence never signals at all.
const completionWait = 100 * time.Millisecond

// Line is the platform shim owning the sensor's data pin, edge interrupt
// source and microsecond clock. One Line serves exactly one Dev.
//
// The state machine treats every operation as infallible: implementations
// whose primitives can fail must validate at construction time and latch any
// later error for the caller to inspect out of band. Sleep may block or
// yield; the driver only requires that at least min and at most max elapse.
// Now must be monotonic; wrapping at the clock width is fine.
type Line interface {
	// ConfigureOutput switches the data pin to output mode.
	ConfigureOutput()
	// ConfigureInput switches the data pin to input mode.
	ConfigureInput()
	// EnableEdgeIRQ arms edge detection on the data pin.
	EnableEdgeIRQ()
	// DisableEdgeIRQ disarms edge detection on the data pin.
	DisableEdgeIRQ()
	// SetHigh drives the data pin high.
	SetHigh()
	// SetLow drives the data pin low.
	SetLow()
	// Level samples the current data pin level.
	Level() gpio.Level
	// Sleep suspends the caller for between min and max.
	Sleep(min, max time.Duration)
	// Now returns the current time in microseconds.
	Now() uint32
}

// Reading holds the raw bytes of one decoded transmission. On the DHT11 the
// decimal bytes carry no usable fractional precision and are always zero.
type Reading struct {
	HumidityIntegral    uint8
	HumidityDecimal     uint8
	TemperatureIntegral uint8
	TemperatureDecimal  uint8
	Checksum            uint8
}

// Dev represents one DHT11 sensor on one data line.
//
// StartRead, CheckStatus, AbortRead, GetData and Read belong to a single
// foreground context; RecordEdge belongs to the edge-arrival context and may
// run concurrently with any of them. Sense and SenseContinuous serialize
// themselves and are safe for concurrent use.
type Dev struct {
	line Line

	// Edge timeline. Slots are append-only during an attempt; count is the
	// cursor, noData when no transmission was started.
	edges [SequenceEdges]Edge
	count atomic.Int32

	// armedAt is the clock reading when capture was armed, used as the
	// timeout reference while no edge has arrived yet.
	armedAt uint32

	// done carries the one-shot completion notification per attempt.
	done chan struct{}

	mu       sync.Mutex
	shutdown chan struct{}
}

// New returns a Dev decoding transmissions on the given line. The line's edge
// events must be routed to RecordEdge (or HandleEdge) by the platform; the
// gpioline and cdevline packages do this wiring for their respective stacks.
func New(line Line) *Dev {
	d := &Dev{line: line, done: make(chan struct{}, 1)}
	d.count.Store(noData)
	return d
}

// StartRead emits the start condition and waits for the sensor's acknowledge.
//
// Any attempt still in flight is aborted first. On return with OK the capture
// is running and the caller either polls CheckStatus or blocks in Read. On
// ErrTimeout the sensor never acknowledged; the attempt is aborted and the
// device is left in the NoData state.
func (d *Dev) StartRead() Status {
	d.AbortRead()

	d.line.ConfigureOutput()
	d.line.EnableEdgeIRQ()
	d.line.SetLow()
	d.line.Sleep(startSignalMin, startSignalMax)
	d.line.SetHigh()

	// Drain a stale notification before re-arming so the next completion is
	// the only one Read can observe.
	select {
	case <-d.done:
	default:
	}
	d.armedAt = d.line.Now()
	d.count.Store(0)
	d.line.ConfigureInput()

	if d.waitForAck() != OK {
		d.AbortRead()
		return ErrTimeout
	}
	return OK
}

// waitForAck spins on the clock until the first edge arrives or the
// acknowledge window closes.
func (d *Dev) waitForAck() Status {
	start := d.line.Now()
	for d.count.Load() == 0 {
		if d.line.Now()-start > ackTimeoutUS {
			return ErrTimeout
		}
	}
	return OK
}

// CheckStatus classifies the progress of the current attempt. It is a pure
// query; its only side effect is reading the clock.
//
// While the capture is underway it reports Busy as long as the most recent
// edge (or the arming of the capture, when no edge has arrived yet) is less
// than the per-edge timeout old, and ErrTimeout once that threshold is
// exceeded without a new edge.
func (d *Dev) CheckStatus() Status {
	n := d.count.Load()
	switch {
	case n == noData:
		return NoData
	case n == SequenceEdges:
		return DataReady
	}

	last := d.armedAt
	if n > 0 {
		last = d.edges[n-1].Timestamp
	}
	if d.line.Now()-last > edgeTimeoutUS {
		return ErrTimeout
	}
	return Busy
}

// AbortRead cancels the current attempt and disarms edge capture. It is
// idempotent and always safe to call; the device is left in the NoData state,
// ready for the next StartRead.
func (d *Dev) AbortRead() {
	d.count.Store(noData)
	d.line.DisableEdgeIRQ()
}

// Read performs one full transmission: start condition, capture, decode. It
// blocks until the sequence completes or stalls.
//
// The core never retries; ErrTimeout, ErrSequenceInvalid and ErrCrc are all
// recoverable by calling Read again, with whatever pacing and backoff suits
// the caller.
func (d *Dev) Read() (Reading, Status) {
	if s := d.StartRead(); s != OK {
		return Reading{}, s
	}
	select {
	case <-d.done:
	case <-time.After(completionWait):
		d.AbortRead()
		return Reading{}, ErrTimeout
	}
	return d.GetData()
}

// Sense implements physic.SenseEnv. It performs one Read and converts the
// result; the pressure is always 0 since the DHT11 does not measure pressure.
// Failure statuses are reported as *TimeoutError, *SequenceError,
// *ChecksumError or *NotReadyError.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0

	d.mu.Lock()
	defer d.mu.Unlock()

	r, s := d.Read()
	switch s {
	case OK:
	case ErrTimeout:
		return &TimeoutError{}
	case ErrSequenceInvalid:
		return &SequenceError{}
	case ErrCrc:
		return &ChecksumError{}
	default:
		return &NotReadyError{Status: s}
	}

	e.Humidity = physic.RelativeHumidity(r.HumidityIntegral) * physic.PercentRH
	e.Temperature = physic.ZeroCelsius + physic.Temperature(r.TemperatureIntegral)*physic.Celsius
	return nil
}

// SenseContinuous returns a channel that receives a measurement every
// interval. The sensor samples at 1Hz, so the minimum interval is one second.
// To end the reads, call Halt().
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < time.Second {
		return nil, errors.New("dht11: invalid interval, the sensor samples at most once per second")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("dht11: SenseContinuous already running")
	}

	d.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	go func(stop chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				close(ch)
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil {
					ch <- e
				}
			}
		}
	}(d.shutdown)
	return ch, nil
}

// Precision implements physic.SenseEnv. The DHT11 reports whole degrees
// Celsius and whole percent relative humidity.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Celsius
	e.Pressure = 0
	e.Humidity = physic.PercentRH
}

// Halt interrupts a running SenseContinuous and aborts any attempt in flight.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	d.AbortRead()
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht11: %v", d.line)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
