// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GermanBionicSystems/dht/dht11"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dhtmqtt.yaml")
	raw := []byte("chip: gpiochip2\nline: 17\nbroker: tcp://broker:1883\ninterval_seconds: 30\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chip != "gpiochip2" || cfg.Line != 17 {
		t.Errorf("pin config = %s:%d, want gpiochip2:17", cfg.Chip, cfg.Line)
	}
	if cfg.Broker != "tcp://broker:1883" {
		t.Errorf("broker = %q", cfg.Broker)
	}
	if cfg.IntervalSeconds != 30 {
		t.Errorf("interval = %d, want 30", cfg.IntervalSeconds)
	}
	// Unset keys keep their defaults.
	if want := defaultConfig(); cfg.Topic != want.Topic || cfg.ClientID != want.ClientID || cfg.Retries != want.Retries {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dhtmqtt.yaml")
	if err := os.WriteFile(path, []byte("interval_seconds: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("config with a sub-second interval was accepted")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing config file was accepted")
	}
}

func TestFormatPayload(t *testing.T) {
	r := dht11.Reading{HumidityIntegral: 44, TemperatureIntegral: 25, Checksum: 69}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	raw, err := formatPayload(r, now)
	if err != nil {
		t.Fatal(err)
	}
	var got readingPayload
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	want := readingPayload{Timestamp: "2026-08-30T12:00:00Z", TemperatureC: 25, HumidityRH: 44}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}
