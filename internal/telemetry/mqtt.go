package telemetry

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nerrad567/brewshell/internal/infrastructure/mqtt"
)

// Publisher is the part of mqtt.Client the MQTT sink needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
	Topics() mqtt.Topics
}

// MQTTSink publishes device state and command results to the broker.
//
// State is published retained to {prefix}/state/{device} so a dashboard
// sees the last known reading on subscribe. Command results, but not watch
// snapshots, go to {prefix}/command/{device} with QoS 0.
type MQTTSink struct {
	pub    Publisher
	logger Logger
}

// NewMQTTSink creates a sink publishing through pub.
func NewMQTTSink(pub Publisher) *MQTTSink {
	return &MQTTSink{pub: pub, logger: noopLogger{}}
}

// SetLogger sets the logger for publish failures.
func (s *MQTTSink) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
}

type statePayload struct {
	DeviceID  string         `json:"device_id"`
	Driver    string         `json:"driver"`
	State     map[string]any `json:"state"`
	Timestamp string         `json:"timestamp"`
}

type commandPayload struct {
	DeviceID  string `json:"device_id"`
	Driver    string `json:"driver"`
	Command   string `json:"command"`
	Args      string `json:"args,omitempty"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Record implements Recorder.
func (s *MQTTSink) Record(_ context.Context, ev Event) {
	topics := s.pub.Topics()
	ts := ev.At.UTC().Format(time.RFC3339)

	if len(ev.State) > 0 {
		payload, err := json.Marshal(statePayload{
			DeviceID:  ev.DeviceID,
			Driver:    ev.Driver,
			State:     ev.State,
			Timestamp: ts,
		})
		if err == nil {
			err = s.pub.PublishRetained(topics.DeviceState(ev.DeviceID), payload)
		}
		if err != nil {
			s.logger.Warn("publishing device state", "device", ev.DeviceID, "error", err)
		}
	}

	if ev.Snapshot {
		return
	}

	cp := commandPayload{
		DeviceID:  ev.DeviceID,
		Driver:    ev.Driver,
		Command:   ev.Command,
		Args:      strings.Join(ev.Args, " "),
		OK:        ev.OK(),
		Timestamp: ts,
	}
	if ev.Err != nil {
		cp.Error = ev.Err.Error()
	}
	payload, err := json.Marshal(cp)
	if err == nil {
		err = s.pub.Publish(topics.DeviceCommand(ev.DeviceID), payload, 0, false)
	}
	if err != nil {
		s.logger.Warn("publishing command result", "device", ev.DeviceID, "error", err)
	}
}
