// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command dhtwatch shows a DHT11 sensor's readings as live terminal gauges.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dht/gpioline"
	"github.com/GermanBionicSystems/dht/termgauge"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func main() {
	pin := flag.String("pin", "GPIO4", "name of the data line pin")
	interval := flag.Duration("interval", 2*time.Second, "time between readings")
	width := flag.Int("width", 30, "gauge width in terminal cells")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatalf("host.Init: %v", err)
	}
	line, err := gpioline.Open(*pin)
	if err != nil {
		log.Fatal(err)
	}
	dev := line.Dev()
	g := termgauge.New(&termgauge.Opts{Width: *width})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			_ = g.Halt()
			fmt.Println()
			return
		case <-ticker.C:
			e := physic.Env{}
			if err := dev.Sense(&e); err != nil {
				continue
			}
			// The DHT11 range is 20-90%RH and 0-50C.
			h := float64(e.Humidity) / float64(100*physic.PercentRH)
			t := float64(e.Temperature-physic.ZeroCelsius) / float64(50*physic.Celsius)
			_ = g.Draw("humidity", h, fmt.Sprintf("%9s", e.Humidity))
			fmt.Println()
			_ = g.Draw("temperature", t, fmt.Sprintf("%8s", e.Temperature))
			// Move back up so the two gauges redraw in place.
			fmt.Print("\033[1A")
		}
	}
}
