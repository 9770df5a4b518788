package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/nerrad567/brewshell/internal/drivers"
	"github.com/nerrad567/brewshell/internal/rtu"
)

// ErrUnsupportedKind is returned by New for a device whose kind has no handler.
var ErrUnsupportedKind = errors.New("handler: unsupported driver kind")

// Connector opens a fresh driver handle for a device. Handlers close every
// handle they open before the operation returns.
type Connector interface {
	RelayBoard(ctx context.Context, dev rtu.Device) (drivers.RelayBoard, error)
	PID(ctx context.Context, dev rtu.Device) (drivers.PIDController, error)
}

// Result is the outcome of a successful operation.
type Result struct {
	// Lines are printed to the user in order.
	Lines []string

	// State holds the readings or settings the operation produced, keyed by
	// field name. Values are bool, int or float64.
	State map[string]any
}

// Env is what an operation may use besides the driver.
type Env struct {
	// Out receives output from long-running operations as it happens.
	Out io.Writer

	// Observe, if set, is called with each intermediate state a
	// long-running operation produces.
	Observe func(state map[string]any)
}

// Op is one bound device operation. Every call opens its own driver handle.
type Op func(ctx context.Context, env Env) (Result, error)

// Unary is a sub-command taking one parameter.
type Unary struct {
	// Expected describes valid parameters, for error messages.
	Expected string

	// Bind parses the parameter and returns the operation to run. It never
	// touches the driver; ok is false if the parameter does not parse.
	Bind func(param string) (op Op, ok bool)
}

// Commands is the sub-command vocabulary of one device.
type Commands struct {
	// Default runs when no sub-command is given.
	Default Op

	// State recognises a bare state literal and returns the set operation.
	// Nil for kinds without state literals.
	State func(literal string) (Op, bool)

	// Nullary maps zero-parameter sub-commands.
	Nullary map[string]Op

	// Unary maps one-parameter sub-commands.
	Unary map[string]Unary
}

// Options tune handler behaviour.
type Options struct {
	// WatchInterval is the polling interval of the PID watch loop.
	WatchInterval time.Duration

	// Now returns the current time, for watch timestamps.
	Now func() time.Time
}

// DefaultWatchInterval is used when Options.WatchInterval is not set.
const DefaultWatchInterval = 5 * time.Second

func (o Options) withDefaults() Options {
	if o.WatchInterval <= 0 {
		o.WatchInterval = DefaultWatchInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// New builds the command table for a device.
func New(dev rtu.Device, conn Connector, opts Options) (Commands, error) {
	opts = opts.withDefaults()

	switch dev.Kind {
	case rtu.KindRelayBoardA, rtu.KindRelayBoardB:
		return relayCommands(&relay{dev: dev, conn: conn}), nil
	case rtu.KindPIDController:
		return pidCommands(&pid{dev: dev, conn: conn, opts: opts}), nil
	default:
		return Commands{}, fmt.Errorf("%w: %s (device %s)", ErrUnsupportedKind, dev.Kind, dev.ID)
	}
}

// Names returns the sub-command names of a table in sorted order, nullary
// first.
func (c Commands) Names() []string {
	nullary := make([]string, 0, len(c.Nullary))
	for name := range c.Nullary {
		nullary = append(nullary, name)
	}
	unary := make([]string, 0, len(c.Unary))
	for name := range c.Unary {
		unary = append(unary, name)
	}
	sort.Strings(nullary)
	sort.Strings(unary)
	return append(nullary, unary...)
}
