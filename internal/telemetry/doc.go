// Package telemetry fans routed command results out to external sinks.
//
// The router builds an Event for every command it dispatches and for every
// watch snapshot. Recorders deliver it: MQTTSink publishes device state and
// command results, InfluxSink writes readings as time-series points, and the
// history package logs commands to SQLite. Delivery is best effort; a sink
// never fails the command that produced the event.
package telemetry
