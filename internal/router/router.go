package router

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nerrad567/brewshell/internal/handler"
	"github.com/nerrad567/brewshell/internal/rtu"
	"github.com/nerrad567/brewshell/internal/telemetry"
)

// Command names recorded for the implicit forms.
const (
	CommandRead     = "read"
	CommandSetState = "set_state"
)

// Outcome is the result of one dispatched command line.
type Outcome struct {
	Device  string
	Command string

	// Lines were written to the output in order. Empty on error.
	Lines []string

	Err error
}

// Logger is the logging surface of the router.
type Logger interface {
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

// Options configure a Router.
type Options struct {
	Handler  handler.Options
	Recorder telemetry.Recorder

	// Now timestamps recorded events. Defaults to time.Now.
	Now func() time.Time
}

// Router maps device command lines to handler operations.
//
// The dispatch table is built once from the registry. A Router is meant for
// one command at a time, as the shell runs them.
type Router struct {
	reg      *rtu.Registry
	tables   map[string]handler.Commands
	recorder telemetry.Recorder
	now      func() time.Time
	logger   Logger
}

// New builds the dispatch table for every device in reg.
func New(reg *rtu.Registry, conn handler.Connector, opts Options) (*Router, error) {
	r := &Router{
		reg:      reg,
		tables:   make(map[string]handler.Commands, reg.Len()),
		recorder: opts.Recorder,
		now:      opts.Now,
		logger:   noopLogger{},
	}
	if r.recorder == nil {
		r.recorder = telemetry.Nop{}
	}
	if r.now == nil {
		r.now = time.Now
	}

	for _, dev := range reg.Devices() {
		cmds, err := handler.New(dev, conn, opts.Handler)
		if err != nil {
			return nil, fmt.Errorf("building commands for %s: %w", dev.ID, err)
		}
		r.tables[dev.ID] = cmds
	}
	return r, nil
}

// SetLogger sets the logger for dispatch events.
func (r *Router) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Registry returns the registry the router was built from.
func (r *Router) Registry() *rtu.Registry {
	return r.reg
}

// Commands returns the sub-command names of a device, nullary first.
func (r *Router) Commands(deviceID string) ([]string, bool) {
	cmds, ok := r.tables[deviceID]
	if !ok {
		return nil, false
	}
	return cmds.Names(), true
}

// Route resolves args[0] against the registry and dispatches the line.
func (r *Router) Route(ctx context.Context, args []string, out io.Writer) Outcome {
	if len(args) == 0 || args[0] == "" {
		return Outcome{Err: fmt.Errorf("%w: no device given", ErrUnknownDevice)}
	}

	dev, ok := r.reg.Resolve(args[0])
	if !ok {
		return Outcome{Device: args[0], Err: fmt.Errorf("%w: %q", ErrUnknownDevice, args[0])}
	}
	return r.Dispatch(ctx, dev, args, out)
}

// Dispatch runs one command line for dev. args[0] is the device id.
//
//   - 1 word: the default read.
//   - 2 words: a state literal, else a zero-parameter sub-command.
//   - 3 words: a one-parameter sub-command; the parameter is parsed before
//     any driver call.
//
// Anything else fails without touching the driver. Success lines are written
// to out. Every command that names a known sub-command is recorded,
// successful or not.
func (r *Router) Dispatch(ctx context.Context, dev rtu.Device, args []string, out io.Writer) Outcome {
	outcome := Outcome{Device: dev.ID}

	cmds, ok := r.tables[dev.ID]
	if !ok {
		outcome.Err = fmt.Errorf("%w: %q", ErrUnknownDevice, dev.ID)
		return outcome
	}

	var params []string
	if len(args) > 2 {
		params = args[2:]
	}

	op, name, err := resolve(cmds, args)
	outcome.Command = name
	if err != nil {
		outcome.Err = err
		r.logger.Debug("command rejected", "device", dev.ID, "args", args, "error", err)
		if name != "" {
			r.record(ctx, dev, name, params, nil, err)
		}
		return outcome
	}

	env := handler.Env{
		Out: out,
		Observe: func(state map[string]any) {
			r.recorder.Record(context.WithoutCancel(ctx), telemetry.Event{
				DeviceID: dev.ID,
				Driver:   dev.Kind.String(),
				Command:  name,
				State:    state,
				Snapshot: true,
				At:       r.now(),
			})
		},
	}

	r.logger.Debug("dispatching", "device", dev.ID, "command", name)
	res, err := op(ctx, env)
	if err != nil {
		outcome.Err = fmt.Errorf("%s %s: %w", dev.ID, name, err)
		r.record(ctx, dev, name, params, nil, err)
		return outcome
	}

	if out != nil {
		for _, line := range res.Lines {
			fmt.Fprintln(out, line)
		}
	}
	outcome.Lines = res.Lines
	r.record(ctx, dev, name, params, res.State, nil)
	return outcome
}

// resolve selects the operation for a command line. name is empty when no
// sub-command could be identified.
func resolve(cmds handler.Commands, args []string) (op handler.Op, name string, err error) {
	switch len(args) {
	case 0, 1:
		return cmds.Default, CommandRead, nil

	case 2:
		word := args[1]
		if cmds.State != nil {
			if op, ok := cmds.State(word); ok {
				return op, CommandSetState, nil
			}
		}
		if op, ok := cmds.Nullary[word]; ok {
			return op, word, nil
		}
		if u, ok := cmds.Unary[word]; ok {
			return nil, word, fmt.Errorf("%w: %s expects %s", ErrMissingParameter, word, u.Expected)
		}
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownCommand, word)

	case 3:
		word, param := args[1], args[2]
		if u, ok := cmds.Unary[word]; ok {
			op, ok := u.Bind(param)
			if !ok {
				return nil, word, &ParseError{Command: word, Literal: param, Expected: u.Expected}
			}
			return op, word, nil
		}
		if _, ok := cmds.Nullary[word]; ok {
			return nil, word, fmt.Errorf("%w: %s takes no parameter", ErrTooManyArgs, word)
		}
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownCommand, word)

	default:
		return nil, "", fmt.Errorf("%w: got %d, at most 2 after the device id", ErrTooManyArgs, len(args)-1)
	}
}

// record runs after the command; it must not be cut short by the
// cancellation that ended a watch.
func (r *Router) record(ctx context.Context, dev rtu.Device, name string, params []string, state map[string]any, err error) {
	r.recorder.Record(context.WithoutCancel(ctx), telemetry.Event{
		DeviceID: dev.ID,
		Driver:   dev.Kind.String(),
		Command:  name,
		Args:     params,
		State:    state,
		Err:      err,
		At:       r.now(),
	})
}
