package handler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/brewshell/internal/drivers"
	"github.com/nerrad567/brewshell/internal/rtu"
)

type pid struct {
	dev  rtu.Device
	conn Connector
	opts Options
}

func pidCommands(p *pid) Commands {
	return Commands{
		Default: p.read,
		Nullary: map[string]Op{
			"pv":         p.pv,
			"sv":         p.sv,
			"is_running": p.isRunning,
			"run":        p.run,
			"stop":       p.stop,
			"watch":      p.watch,
		},
		Unary: map[string]Unary{
			"set": {
				Expected: "a number",
				Bind: func(param string) (Op, bool) {
					sv, ok := parseSetpoint(param)
					if !ok {
						return nil, false
					}
					return p.set(sv), true
				},
			},
			"degrees": {
				Expected: "F or C",
				Bind: func(param string) (Op, bool) {
					unit, ok := drivers.ParseDegree(param)
					if !ok {
						return nil, false
					}
					return p.degrees(unit), true
				},
			},
		},
	}
}

func parseSetpoint(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func (p *pid) with(ctx context.Context, fn func(drivers.PIDController) (Result, error)) (Result, error) {
	ctrl, err := p.conn.PID(ctx, p.dev)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = ctrl.Close() }()

	return fn(ctrl)
}

// snapshot reads PV, SV and run state on one handle. A failed read is shown
// inline and left out of the state; it does not fail the snapshot.
func snapshot(c drivers.PIDController) Result {
	state := make(map[string]any, 3)
	fields := make([]string, 0, 3)

	if v, err := c.GetPV(); err != nil {
		fields = append(fields, "PV: Error: "+err.Error())
	} else {
		fields = append(fields, "PV: "+formatTemp(v))
		state["pv"] = v
	}

	if v, err := c.GetSV(); err != nil {
		fields = append(fields, "SV: Error: "+err.Error())
	} else {
		fields = append(fields, "SV: "+formatTemp(v))
		state["sv"] = v
	}

	if v, err := c.IsRunning(); err != nil {
		fields = append(fields, "Running: Error: "+err.Error())
	} else {
		fields = append(fields, fmt.Sprintf("Running: %t", v))
		state["running"] = v
	}

	return Result{Lines: []string{strings.Join(fields, ", ")}, State: state}
}

func (p *pid) read(ctx context.Context, _ Env) (Result, error) {
	return p.with(ctx, func(c drivers.PIDController) (Result, error) {
		return snapshot(c), nil
	})
}

func (p *pid) pv(ctx context.Context, _ Env) (Result, error) {
	return p.with(ctx, func(c drivers.PIDController) (Result, error) {
		v, err := c.GetPV()
		if err != nil {
			return Result{}, err
		}
		return Result{
			Lines: []string{"PV: " + formatTemp(v)},
			State: map[string]any{"pv": v},
		}, nil
	})
}

func (p *pid) sv(ctx context.Context, _ Env) (Result, error) {
	return p.with(ctx, func(c drivers.PIDController) (Result, error) {
		v, err := c.GetSV()
		if err != nil {
			return Result{}, err
		}
		return Result{
			Lines: []string{"SV: " + formatTemp(v)},
			State: map[string]any{"sv": v},
		}, nil
	})
}

func (p *pid) isRunning(ctx context.Context, _ Env) (Result, error) {
	return p.with(ctx, func(c drivers.PIDController) (Result, error) {
		v, err := c.IsRunning()
		if err != nil {
			return Result{}, err
		}
		return Result{
			Lines: []string{fmt.Sprintf("Running: %t", v)},
			State: map[string]any{"running": v},
		}, nil
	})
}

func (p *pid) run(ctx context.Context, _ Env) (Result, error) {
	return p.with(ctx, func(c drivers.PIDController) (Result, error) {
		if err := c.Run(); err != nil {
			return Result{}, err
		}
		return Result{
			Lines: []string{"Controller running"},
			State: map[string]any{"running": true},
		}, nil
	})
}

func (p *pid) stop(ctx context.Context, _ Env) (Result, error) {
	return p.with(ctx, func(c drivers.PIDController) (Result, error) {
		if err := c.Stop(); err != nil {
			return Result{}, err
		}
		return Result{
			Lines: []string{"Controller stopped"},
			State: map[string]any{"running": false},
		}, nil
	})
}

func (p *pid) set(sv float64) Op {
	return func(ctx context.Context, _ Env) (Result, error) {
		return p.with(ctx, func(c drivers.PIDController) (Result, error) {
			if err := c.SetSV(sv); err != nil {
				return Result{}, err
			}
			return Result{
				Lines: []string{"SV set to " + strconv.FormatFloat(sv, 'f', -1, 64)},
				State: map[string]any{"sv": sv},
			}, nil
		})
	}
}

func (p *pid) degrees(unit drivers.Degree) Op {
	return func(ctx context.Context, _ Env) (Result, error) {
		return p.with(ctx, func(c drivers.PIDController) (Result, error) {
			if err := c.SetDegrees(unit); err != nil {
				return Result{}, err
			}
			return Result{Lines: []string{"Degree mode set to " + unit.String()}}, nil
		})
	}
}
