// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/GermanBionicSystems/dht/dht11"
)

// publisher sends reading payloads to a broker.
type publisher interface {
	publish(payload []byte) error
	close()
}

// mqttPublisher publishes to an actual MQTT broker.
type mqttPublisher struct {
	client paho.Client
	topic  string
}

// newMQTTPublisher creates a publisher connected to the given broker.
func newMQTTPublisher(broker, clientID, topic string) (*mqttPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return &mqttPublisher{client: client, topic: topic}, nil
}

// publish sends one reading, QoS 0: a lost sample is cheaper than a
// stalled publisher.
func (p *mqttPublisher) publish(payload []byte) error {
	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *mqttPublisher) close() {
	p.client.Disconnect(1000)
}

// readingPayload is the JSON wire format of one published reading.
type readingPayload struct {
	Timestamp    string `json:"timestamp"`
	TemperatureC int    `json:"temperature_c"`
	HumidityRH   int    `json:"humidity_rh"`
}

// formatPayload creates the JSON payload for a decoded reading.
func formatPayload(r dht11.Reading, now time.Time) ([]byte, error) {
	return json.Marshal(readingPayload{
		Timestamp:    now.UTC().Format(time.RFC3339),
		TemperatureC: int(r.TemperatureIntegral),
		HumidityRH:   int(r.HumidityIntegral),
	})
}
