// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

// Command dhtmqtt reads a DHT11 sensor over the Linux GPIO character device
// and publishes JSON readings to MQTT.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dht/cdevline"
	"github.com/GermanBionicSystems/dht/dht11"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (flags override it)")
	chip := flag.String("chip", "", "GPIO character device name")
	line := flag.Int("line", -1, "data pin line offset on the chip")
	broker := flag.String("broker", "", "MQTT broker address")
	topic := flag.String("topic", "", "MQTT topic for readings")
	clientID := flag.String("client-id", "", "MQTT client id")
	interval := flag.Int("interval", 0, "seconds between published readings")
	retries := flag.Int("retries", -1, "extra read attempts per interval")
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			log.Fatalf("fatal: %v", err)
		}
	}
	// Explicitly set flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chip":
			cfg.Chip = *chip
		case "line":
			cfg.Line = *line
		case "broker":
			cfg.Broker = *broker
		case "topic":
			cfg.Topic = *topic
		case "client-id":
			cfg.ClientID = *clientID
		case "interval":
			cfg.IntervalSeconds = *interval
		case "retries":
			cfg.Retries = *retries
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	l, err := cdevline.New(cfg.Chip, cfg.Line)
	if err != nil {
		return err
	}
	defer l.Close()
	dev := l.Dev()

	pub, err := newMQTTPublisher(cfg.Broker, cfg.ClientID, cfg.Topic)
	if err != nil {
		return err
	}
	defer pub.close()

	log.Printf("publishing %s to %s every %ds", dev, cfg.Topic, cfg.IntervalSeconds)

	ticker := time.NewTicker(time.Duration(cfg.IntervalSeconds) * time.Second)
	defer ticker.Stop()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case s := <-sigCh:
			log.Printf("received %v, shutting down", s)
			return nil
		case <-ticker.C:
			r, status := readWithRetries(dev, cfg.Retries)
			if status != dht11.OK {
				if lineErr := l.Err(); lineErr != nil {
					log.Printf("read failed: %s (line: %v)", status, lineErr)
				} else {
					log.Printf("read failed: %s", status)
				}
				continue
			}
			payload, err := formatPayload(r, time.Now())
			if err != nil {
				log.Printf("format payload: %v", err)
				continue
			}
			if err := pub.publish(payload); err != nil {
				// Don't crash on publish failure.
				log.Printf("publish error: %v", err)
			}
		}
	}
}

// readWithRetries performs one read, retrying the recoverable failures with a
// second of quiet line in between.
func readWithRetries(dev *dht11.Dev, retries int) (dht11.Reading, dht11.Status) {
	r, status := dev.Read()
	for attempt := 0; status != dht11.OK && attempt < retries; attempt++ {
		time.Sleep(time.Second)
		r, status = dev.Read()
	}
	return r, status
}
