// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config holds the publisher configuration. Flags override file values.
type config struct {
	// Chip is the GPIO character device name.
	Chip string `yaml:"chip"`
	// Line is the data pin's line offset on the chip.
	Line int `yaml:"line"`
	// Broker is the MQTT broker address, e.g. tcp://192.168.1.200:1883.
	Broker string `yaml:"broker"`
	// Topic receives one JSON reading per interval.
	Topic string `yaml:"topic"`
	// ClientID identifies this publisher to the broker.
	ClientID string `yaml:"client_id"`
	// IntervalSeconds is the publish interval. The sensor samples at 1Hz, so
	// values below 1 are rejected.
	IntervalSeconds int `yaml:"interval_seconds"`
	// Retries is the number of extra read attempts per interval.
	Retries int `yaml:"retries"`
}

func defaultConfig() config {
	return config{
		Chip:            "gpiochip0",
		Line:            4,
		Broker:          "tcp://localhost:1883",
		Topic:           "sensors/dht11",
		ClientID:        "dhtmqtt",
		IntervalSeconds: 60,
		Retries:         3,
	}
}

// loadConfig reads a YAML file over the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.IntervalSeconds < 1 {
		return fmt.Errorf("interval_seconds must be at least 1, got %d", c.IntervalSeconds)
	}
	if c.Broker == "" {
		return fmt.Errorf("broker must not be empty")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic must not be empty")
	}
	return nil
}
