// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command dhtread reads a DHT11 sensor on a GPIO pin and prints the
// temperature and humidity.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/GermanBionicSystems/dht/gpioline"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func main() {
	pin := flag.String("pin", "GPIO4", "name of the data line pin")
	interval := flag.Duration("interval", 5*time.Second, "time between readings")
	retries := flag.Int("retries", 3, "extra attempts per reading; single-wire reads fail routinely")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatalf("host.Init: %v", err)
	}

	line, err := gpioline.Open(*pin)
	if err != nil {
		log.Fatal(err)
	}
	dev := line.Dev()
	log.Printf("reading %s every %s", dev, *interval)

	for {
		e := physic.Env{}
		err := dev.Sense(&e)
		// The sensor needs a second of quiet line between attempts.
		for r := 0; err != nil && r < *retries; r++ {
			time.Sleep(time.Second)
			err = dev.Sense(&e)
		}
		if err != nil {
			if pinErr := line.Err(); pinErr != nil {
				log.Printf("read: %v (pin: %v)", err, pinErr)
			} else {
				log.Printf("read: %v", err)
			}
		} else {
			log.Printf("%8s %9s", e.Temperature, e.Humidity)
		}
		time.Sleep(*interval)
	}
}
