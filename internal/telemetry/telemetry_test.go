package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/brewshell/internal/infrastructure/mqtt"
)

type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

type mockPublisher struct {
	messages []message
	err      error
}

func (m *mockPublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, message{topic, payload, qos, retained})
	return nil
}

func (m *mockPublisher) PublishRetained(topic string, payload []byte) error {
	return m.Publish(topic, payload, 1, true)
}

func (m *mockPublisher) Topics() mqtt.Topics {
	return mqtt.Topics{Prefix: "brewery"}
}

type mockWriter struct {
	calls int
	last  map[string]any
}

func (m *mockWriter) WriteDeviceReading(_, _ string, values map[string]any, _ time.Time) {
	m.calls++
	m.last = values
}

type countingRecorder struct{ n int }

func (c *countingRecorder) Record(context.Context, Event) { c.n++ }

type warnLogger struct{ warnings int }

func (w *warnLogger) Warn(string, ...any) { w.warnings++ }

var at = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func TestMQTTSink_StateAndCommand(t *testing.T) {
	pub := &mockPublisher{}
	sink := NewMQTTSink(pub)

	sink.Record(context.Background(), Event{
		DeviceID: "tank1",
		Driver:   "CN7500",
		Command:  "read",
		State:    map[string]any{"pv": 118.3, "running": true},
		At:       at,
	})

	if len(pub.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.messages))
	}

	state := pub.messages[0]
	if state.topic != "brewery/state/tank1" || !state.retained {
		t.Errorf("state message = %s retained=%v", state.topic, state.retained)
	}
	var sp statePayload
	if err := json.Unmarshal(state.payload, &sp); err != nil {
		t.Fatalf("state payload: %v", err)
	}
	if sp.State["pv"] != 118.3 || sp.Timestamp != "2024-03-09T14:05:07Z" {
		t.Errorf("state payload = %+v", sp)
	}

	cmd := pub.messages[1]
	if cmd.topic != "brewery/command/tank1" || cmd.retained || cmd.qos != 0 {
		t.Errorf("command message = %s qos=%d retained=%v", cmd.topic, cmd.qos, cmd.retained)
	}
	var cp commandPayload
	if err := json.Unmarshal(cmd.payload, &cp); err != nil {
		t.Fatalf("command payload: %v", err)
	}
	if !cp.OK || cp.Command != "read" || cp.Error != "" {
		t.Errorf("command payload = %+v", cp)
	}
}

func TestMQTTSink_FailedCommandPublishesNoState(t *testing.T) {
	pub := &mockPublisher{}
	sink := NewMQTTSink(pub)

	sink.Record(context.Background(), Event{
		DeviceID: "relay1",
		Driver:   "Waveshare",
		Command:  "get_cn",
		Err:      errors.New("timeout"),
		At:       at,
	})

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}
	var cp commandPayload
	if err := json.Unmarshal(pub.messages[0].payload, &cp); err != nil {
		t.Fatalf("command payload: %v", err)
	}
	if cp.OK || cp.Error != "timeout" {
		t.Errorf("command payload = %+v", cp)
	}
}

func TestMQTTSink_PublishErrorIsLogged(t *testing.T) {
	pub := &mockPublisher{err: mqtt.ErrNotConnected}
	logger := &warnLogger{}
	sink := NewMQTTSink(pub)
	sink.SetLogger(logger)

	sink.Record(context.Background(), Event{
		DeviceID: "relay1",
		Command:  "set_state",
		State:    map[string]any{"on": true},
		At:       at,
	})

	if logger.warnings != 2 {
		t.Errorf("warnings = %d, want 2", logger.warnings)
	}
}

func TestInfluxSink(t *testing.T) {
	tests := []struct {
		name      string
		ev        Event
		wantCalls int
	}{
		{"reading", Event{DeviceID: "tank1", State: map[string]any{"pv": 65.0}}, 1},
		{"no state", Event{DeviceID: "tank1"}, 0},
		{"failed", Event{DeviceID: "tank1", State: map[string]any{"pv": 65.0}, Err: errors.New("x")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &mockWriter{}
			NewInfluxSink(w).Record(context.Background(), tt.ev)
			if w.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", w.calls, tt.wantCalls)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	if _, ok := Combine().(Nop); !ok {
		t.Error("Combine() with no recorders should be Nop")
	}
	if _, ok := Combine(nil, nil).(Nop); !ok {
		t.Error("Combine(nil, nil) should be Nop")
	}

	single := &countingRecorder{}
	if Combine(nil, single) != Recorder(single) {
		t.Error("Combine with one recorder should return it unwrapped")
	}

	a, b := &countingRecorder{}, &countingRecorder{}
	Combine(a, nil, b).Record(context.Background(), Event{})
	if a.n != 1 || b.n != 1 {
		t.Errorf("counts = %d, %d, want 1, 1", a.n, b.n)
	}
}

func TestMQTTSink_SnapshotPublishesStateOnly(t *testing.T) {
	pub := &mockPublisher{}
	NewMQTTSink(pub).Record(context.Background(), Event{
		DeviceID: "tank1",
		Command:  "watch",
		State:    map[string]any{"pv": 64.9},
		Snapshot: true,
		At:       at,
	})

	if len(pub.messages) != 1 || pub.messages[0].topic != "brewery/state/tank1" {
		t.Errorf("messages = %+v, want a single state message", pub.messages)
	}
}
