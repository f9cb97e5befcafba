// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termgauge renders a labeled gauge bar to the terminal (stdout)
// using ANSI color codes.
//
// Useful to watch a slow environmental sensor live without wiring up a real
// display.
package termgauge

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for a gauge.
type Opts struct {
	// Width is the bar width in terminal cells.
	Width int
	// Palette maps colors to terminal codes.
	Palette *ansi256.Palette

	_ struct{}
}

// Gauge draws one horizontal value bar per call, colored from cold blue to
// hot red along the filled fraction.
type Gauge struct {
	w       io.Writer
	width   int
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Gauge drawing at the console.
func New(opts *Opts) *Gauge {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	width := opts.Width
	if width < 2 {
		width = 40
	}
	return &Gauge{
		w:       colorable.NewColorableStdout(),
		width:   width,
		palette: *p,
	}
}

func (g *Gauge) String() string {
	return "TermGauge"
}

// Halt resets the terminal colors so the display is not corrupted.
func (g *Gauge) Halt() error {
	_, err := g.w.Write([]byte("\n\033[0m"))
	return err
}

// Draw renders one line: the label, the bar filled to fraction (clamped to
// [0,1]), and the value text. The line overdraws itself, so repeated calls
// with the same label animate in place.
func (g *Gauge) Draw(label string, fraction float64, value string) error {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(g.width) + 0.5)

	// Minimize allocations per call; this redraws at sensor rate.
	g.buf.Reset()
	fmt.Fprintf(&g.buf, "\r\033[0m%-12s ", label)
	for i := 0; i < g.width; i++ {
		if i < filled {
			_, _ = io.WriteString(&g.buf, g.palette.Block(cellColor(i, g.width)))
		} else {
			_, _ = io.WriteString(&g.buf, "\033[0m ")
		}
	}
	fmt.Fprintf(&g.buf, "\033[0m %s", value)
	_, err := g.buf.WriteTo(g.w)
	return err
}

// cellColor grades the bar from blue through green to red.
func cellColor(i, width int) color.NRGBA {
	t := float64(i) / float64(width-1)
	switch {
	case t < 0.5:
		k := t * 2
		return color.NRGBA{R: 0, G: byte(255 * k), B: byte(255 * (1 - k)), A: 255}
	default:
		k := (t - 0.5) * 2
		return color.NRGBA{R: byte(255 * k), G: byte(255 * (1 - k)), B: 0, A: 255}
	}
}

var _ fmt.Stringer = &Gauge{}
