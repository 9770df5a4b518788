package telemetry

import (
	"context"
	"time"
)

// Event describes one routed device command, or one snapshot of a
// long-running command such as watch.
type Event struct {
	DeviceID string
	Driver   string
	Command  string
	Args     []string

	// State holds readings or settings reported by the command. Nil when the
	// command failed or produced nothing to record.
	State map[string]any

	// Err is the command error, nil on success.
	Err error

	// Snapshot marks an intermediate reading of a long-running command.
	// The command itself is recorded once more when it ends.
	Snapshot bool

	At time.Time
}

// OK reports whether the command succeeded.
func (e Event) OK() bool {
	return e.Err == nil
}

// Recorder receives events. Implementations must not block the shell for
// long and must not fail the command: sink errors are logged, not returned.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Logger is the logging surface sinks use for delivery failures.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Nop is a Recorder that drops every event.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Event) {}

// Multi fans an event out to several recorders in order.
type Multi []Recorder

// Record implements Recorder.
func (m Multi) Record(ctx context.Context, ev Event) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, ev)
		}
	}
}

// Combine returns a single Recorder for the non-nil recorders given.
func Combine(recorders ...Recorder) Recorder {
	var out Multi
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	default:
		return out
	}
}
