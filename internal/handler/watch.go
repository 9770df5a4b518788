package handler

import (
	"context"
	"fmt"
	"time"
)

// WatchTimeLayout is the timestamp format of watch lines.
const WatchTimeLayout = "01/02/06 03:04:05 PM"

// watch polls the controller until ctx is cancelled. Each cycle opens a new
// handle. A connection failure ends the loop with that error; cancellation
// ends it without one.
func (p *pid) watch(ctx context.Context, env Env) (Result, error) {
	ticker := time.NewTicker(p.opts.WatchInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return Result{}, nil
		}

		snap, err := p.read(ctx, env)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, nil
			}
			return Result{}, err
		}

		if env.Out != nil {
			fmt.Fprintf(env.Out, "%s  %s\n", p.opts.Now().Format(WatchTimeLayout), snap.Lines[0])
		}
		if env.Observe != nil {
			env.Observe(snap.State)
		}

		select {
		case <-ctx.Done():
			return Result{}, nil
		case <-ticker.C:
		}
	}
}
