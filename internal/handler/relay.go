package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nerrad567/brewshell/internal/drivers"
	"github.com/nerrad567/brewshell/internal/rtu"
)

type relay struct {
	dev  rtu.Device
	conn Connector
}

func relayCommands(r *relay) Commands {
	return Commands{
		Default: r.get,
		State: func(literal string) (Op, bool) {
			state, ok := drivers.ParseState(literal)
			if !ok {
				return nil, false
			}
			return r.set(state), true
		},
		Nullary: map[string]Op{
			"list_all":          r.listAll,
			"get_cn":            r.getCN,
			"software_revision": r.softwareRevision,
		},
		Unary: map[string]Unary{
			"set_all": {
				Expected: "on, off, 1 or 0",
				Bind: func(param string) (Op, bool) {
					state, ok := drivers.ParseState(param)
					if !ok {
						return nil, false
					}
					return r.setAll(state), true
				},
			},
			"set_cn": {
				Expected: "controller number 0-254",
				Bind: func(param string) (Op, bool) {
					cn, ok := parseControllerNum(param)
					if !ok {
						return nil, false
					}
					return r.setCN(cn), true
				},
			},
		},
	}
}

// parseControllerNum accepts 0-254; 255 is the broadcast address.
func parseControllerNum(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > 254 {
		return 0, false
	}
	return uint8(n), true
}

func (r *relay) with(ctx context.Context, fn func(drivers.RelayBoard) (Result, error)) (Result, error) {
	board, err := r.conn.RelayBoard(ctx, r.dev)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = board.Close() }()

	return fn(board)
}

func relayLine(addr uint8, state drivers.State) string {
	return fmt.Sprintf("Relay %d: %s", addr, state)
}

func (r *relay) get(ctx context.Context, _ Env) (Result, error) {
	return r.with(ctx, func(b drivers.RelayBoard) (Result, error) {
		state, err := b.GetRelay(r.dev.Addr)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Lines: []string{relayLine(r.dev.Addr, state)},
			State: map[string]any{"relay": int(r.dev.Addr), "on": bool(state)},
		}, nil
	})
}

func (r *relay) set(state drivers.State) Op {
	return func(ctx context.Context, _ Env) (Result, error) {
		return r.with(ctx, func(b drivers.RelayBoard) (Result, error) {
			if err := b.SetRelay(r.dev.Addr, state); err != nil {
				return Result{}, err
			}
			return Result{
				Lines: []string{relayLine(r.dev.Addr, state)},
				State: map[string]any{"relay": int(r.dev.Addr), "on": bool(state)},
			}, nil
		})
	}
}

// listAll reads every relay on the device's controller, not just its own.
func (r *relay) listAll(ctx context.Context, _ Env) (Result, error) {
	return r.with(ctx, func(b drivers.RelayBoard) (Result, error) {
		states, err := b.GetAllRelays()
		if err != nil {
			return Result{}, err
		}

		res := Result{
			Lines: make([]string, 0, len(states)),
			State: make(map[string]any, len(states)),
		}
		for i, s := range states {
			res.Lines = append(res.Lines, relayLine(uint8(i), s))
			res.State[fmt.Sprintf("relay_%d", i)] = bool(s)
		}
		return res, nil
	})
}

func (r *relay) setAll(state drivers.State) Op {
	return func(ctx context.Context, _ Env) (Result, error) {
		return r.with(ctx, func(b drivers.RelayBoard) (Result, error) {
			if err := b.SetAllRelays(state); err != nil {
				return Result{}, err
			}
			return Result{
				Lines: []string{fmt.Sprintf("All relays: %s", state)},
				State: map[string]any{"all_on": bool(state)},
			}, nil
		})
	}
}

func (r *relay) getCN(ctx context.Context, _ Env) (Result, error) {
	return r.with(ctx, func(b drivers.RelayBoard) (Result, error) {
		cn, err := b.GetAddress()
		if err != nil {
			return Result{}, err
		}
		return Result{
			Lines: []string{fmt.Sprintf("Controller number: %d", cn)},
			State: map[string]any{"controller_number": int(cn)},
		}, nil
	})
}

// setCN changes the board's address. The RTU conf is not rewritten; the
// user is reminded to do it.
func (r *relay) setCN(cn uint8) Op {
	return func(ctx context.Context, _ Env) (Result, error) {
		return r.with(ctx, func(b drivers.RelayBoard) (Result, error) {
			if err := b.SetAddress(cn); err != nil {
				return Result{}, err
			}
			return Result{
				Lines: []string{
					fmt.Sprintf("Controller number set to %d", cn),
					fmt.Sprintf("Update controller_address for %s in the RTU conf and restart brewshell", r.dev.ID),
				},
				State: map[string]any{"controller_number": int(cn)},
			}, nil
		})
	}
}

func (r *relay) softwareRevision(ctx context.Context, _ Env) (Result, error) {
	return r.with(ctx, func(b drivers.RelayBoard) (Result, error) {
		rev, err := b.SoftwareRevision()
		if err != nil {
			return Result{}, err
		}
		return Result{Lines: []string{"Software revision: " + rev.String()}}, nil
	})
}
