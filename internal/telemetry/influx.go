package telemetry

import (
	"context"
	"time"
)

// ReadingWriter is the part of influxdb.Client the InfluxDB sink needs.
type ReadingWriter interface {
	WriteDeviceReading(deviceID, driver string, values map[string]any, at time.Time)
}

// InfluxSink writes the state of successful commands as device_reading
// points. Failed commands and commands without state are skipped.
type InfluxSink struct {
	w ReadingWriter
}

// NewInfluxSink creates a sink writing through w.
func NewInfluxSink(w ReadingWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

// Record implements Recorder.
func (s *InfluxSink) Record(_ context.Context, ev Event) {
	if ev.Err != nil || len(ev.State) == 0 {
		return
	}
	s.w.WriteDeviceReading(ev.DeviceID, ev.Driver, ev.State, ev.At)
}
