// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11_test

import (
	"reflect"
	"testing"

	"github.com/GermanBionicSystems/dht/dht11"
	"github.com/GermanBionicSystems/dht/dht11/dht11test"
	"periph.io/x/conn/v3/physic"
)

// getDev returns a device wired to a scripted line playing back the given
// edge sequence.
func getDev(playback []dht11.Edge) (*dht11.Dev, *dht11test.Line) {
	l := dht11test.NewLine(playback)
	d := dht11.New(l)
	l.Sink = d.RecordEdge
	return d, l
}

func TestCheckStatusFresh(t *testing.T) {
	d, _ := getDev(nil)
	if s := d.CheckStatus(); s != dht11.NoData {
		t.Fatalf("fresh device: CheckStatus() = %s, want %s", s, dht11.NoData)
	}
}

func TestRead(t *testing.T) {
	// Humidity 44 (00101100), temperature 25 (00011001), checksum 69.
	d, _ := getDev(dht11test.Sequence(44, 25))
	r, s := d.Read()
	if s != dht11.OK {
		t.Fatalf("Read() status = %s, want %s", s, dht11.OK)
	}
	want := dht11.Reading{
		HumidityIntegral:    44,
		TemperatureIntegral: 25,
		Checksum:            69,
	}
	if r != want {
		t.Fatalf("Read() = %+v, want %+v", r, want)
	}
}

func TestStartReadSequence(t *testing.T) {
	d, l := getDev(dht11test.Sequence(51, 22))
	if s := d.StartRead(); s != dht11.OK {
		t.Fatalf("StartRead() = %s, want %s", s, dht11.OK)
	}
	// Implicit abort, then the start condition: output mode, irq armed, line
	// driven low for the start signal, released, switched back to input.
	want := []string{"irq-off", "output", "irq-on", "low", "sleep", "high", "input"}
	if !reflect.DeepEqual(l.Ops, want) {
		t.Fatalf("line ops = %v, want %v", l.Ops, want)
	}
	if s := d.CheckStatus(); s != dht11.DataReady {
		t.Fatalf("after full capture: CheckStatus() = %s, want %s", s, dht11.DataReady)
	}
	if n := d.EdgeCount(); n != dht11.SequenceEdges {
		t.Fatalf("EdgeCount() = %d, want %d", n, dht11.SequenceEdges)
	}
}

func TestStartReadAckTimeout(t *testing.T) {
	// No playback: the sensor never acknowledges the start condition.
	d, l := getDev(nil)
	if s := d.StartRead(); s != dht11.ErrTimeout {
		t.Fatalf("StartRead() = %s, want %s", s, dht11.ErrTimeout)
	}
	if s := d.CheckStatus(); s != dht11.NoData {
		t.Fatalf("after ack timeout: CheckStatus() = %s, want %s", s, dht11.NoData)
	}
	if n := d.EdgeCount(); n != 0 {
		t.Fatalf("after ack timeout: EdgeCount() = %d, want 0", n)
	}
	if got := l.Ops[len(l.Ops)-1]; got != "irq-off" {
		t.Fatalf("last line op = %q, want irq disarmed after abort", got)
	}
}

func TestCheckStatusBusyThenTimeout(t *testing.T) {
	// Deliver only the acknowledge and the first few data edges, leaving the
	// capture stalled mid-sequence.
	seq := dht11test.Sequence(44, 25)
	partial := seq[:10]
	d, l := getDev(partial)
	if s := d.StartRead(); s != dht11.OK {
		t.Fatalf("StartRead() = %s, want %s", s, dht11.OK)
	}
	if n := d.EdgeCount(); n != len(partial) {
		t.Fatalf("EdgeCount() = %d, want %d", n, len(partial))
	}

	last := partial[len(partial)-1].Timestamp
	l.Step = 0
	l.SetNow(last + 50)
	if s := d.CheckStatus(); s != dht11.Busy {
		t.Fatalf("50us after last edge: CheckStatus() = %s, want %s", s, dht11.Busy)
	}
	l.SetNow(last + 101)
	if s := d.CheckStatus(); s != dht11.ErrTimeout {
		t.Fatalf("101us after last edge: CheckStatus() = %s, want %s", s, dht11.ErrTimeout)
	}
}

func TestAbortRead(t *testing.T) {
	d, _ := getDev(dht11test.Sequence(44, 25))
	if s := d.StartRead(); s != dht11.OK {
		t.Fatalf("StartRead() = %s, want %s", s, dht11.OK)
	}
	d.AbortRead()
	if s := d.CheckStatus(); s != dht11.NoData {
		t.Fatalf("after abort: CheckStatus() = %s, want %s", s, dht11.NoData)
	}
	// Idempotent.
	d.AbortRead()
	if s := d.CheckStatus(); s != dht11.NoData {
		t.Fatalf("after second abort: CheckStatus() = %s, want %s", s, dht11.NoData)
	}
}

func TestGetDataNotReady(t *testing.T) {
	d, l := getDev(nil)
	if _, s := d.GetData(); s != dht11.NoData {
		t.Fatalf("fresh device: GetData() status = %s, want %s", s, dht11.NoData)
	}

	seq := dht11test.Sequence(44, 25)
	l.Playback = seq[:6]
	if s := d.StartRead(); s != dht11.OK {
		t.Fatalf("StartRead() = %s, want %s", s, dht11.OK)
	}
	l.Step = 0
	l.SetNow(seq[5].Timestamp + 10)
	if _, s := d.GetData(); s != dht11.Busy {
		t.Fatalf("mid-capture: GetData() status = %s, want %s", s, dht11.Busy)
	}
}

func TestReread(t *testing.T) {
	// Every failure leaves the device ready for the next attempt.
	d, l := getDev(nil)
	if _, s := d.Read(); s != dht11.ErrTimeout {
		t.Fatalf("Read() with silent sensor = %s, want %s", s, dht11.ErrTimeout)
	}
	l.Playback = dht11test.Sequence(60, 31)
	r, s := d.Read()
	if s != dht11.OK {
		t.Fatalf("retry Read() = %s, want %s", s, dht11.OK)
	}
	if r.HumidityIntegral != 60 || r.TemperatureIntegral != 31 {
		t.Fatalf("retry Read() = %+v, want 60%%RH 31C", r)
	}
}

func TestSense(t *testing.T) {
	d, _ := getDev(dht11test.Sequence(44, 25))
	e := physic.Env{}
	if err := d.Sense(&e); err != nil {
		t.Fatal(err)
	}
	if expected := 44 * physic.PercentRH; e.Humidity != expected {
		t.Fatalf("humidity %s(%d) != %s(%d)", expected, expected, e.Humidity, e.Humidity)
	}
	if expected := physic.ZeroCelsius + 25*physic.Celsius; e.Temperature != expected {
		t.Fatalf("temperature %s(%d) != %s(%d)", expected, expected, e.Temperature, e.Temperature)
	}
	if e.Pressure != 0 {
		t.Fatalf("pressure %s != 0, this device doesn't measure pressure", e.Pressure)
	}
}

func TestSenseErrors(t *testing.T) {
	d, l := getDev(nil)
	if err := d.Sense(&physic.Env{}); err == nil {
		t.Fatal("Sense() with silent sensor returned nil error")
	} else if _, ok := err.(*dht11.TimeoutError); !ok {
		t.Fatalf("Sense() error = %T, want *dht11.TimeoutError", err)
	}

	l.Playback = dht11test.SequenceBytes(44, 0, 25, 0, 70)
	if err := d.Sense(&physic.Env{}); err == nil {
		t.Fatal("Sense() with corrupt checksum returned nil error")
	} else if _, ok := err.(*dht11.ChecksumError); !ok {
		t.Fatalf("Sense() error = %T, want *dht11.ChecksumError", err)
	}
}

func TestSenseContinuousInterval(t *testing.T) {
	d, _ := getDev(nil)
	if _, err := d.SenseContinuous(100); err == nil {
		t.Fatal("SenseContinuous accepted an interval faster than the sensor's sample rate")
	}
}

func TestBasic(t *testing.T) {
	d, _ := getDev(nil)
	e := physic.Env{}
	d.Precision(&e)
	if e.Temperature != physic.Celsius {
		t.Error("incorrect temperature precision value")
	}
	if e.Humidity != physic.PercentRH {
		t.Error("incorrect humidity precision")
	}
	if e.Pressure != 0 {
		t.Error("this device doesn't measure pressure")
	}
	if len(d.String()) == 0 {
		t.Error("invalid value for String()")
	}
	if err := d.Halt(); err != nil {
		t.Errorf("Halt() = %v", err)
	}
}

func TestStatusString(t *testing.T) {
	statuses := []dht11.Status{
		dht11.OK, dht11.NoData, dht11.Busy, dht11.DataReady,
		dht11.ErrTimeout, dht11.ErrSequenceInvalid, dht11.ErrCrc,
	}
	seen := map[string]dht11.Status{}
	for _, s := range statuses {
		name := s.String()
		if name == "" || name == "unknown status" {
			t.Errorf("status %d has no name", s)
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("statuses %d and %d share the name %q", prev, s, name)
		}
		seen[name] = s
	}
	if dht11.Status(200).String() != "unknown status" {
		t.Error("out-of-range status must map to the unknown name")
	}
}
