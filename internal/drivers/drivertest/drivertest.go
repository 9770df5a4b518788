// Package drivertest provides in-memory drivers and a connector that records
// every call, for tests of code above the driver boundary.
package drivertest

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/brewshell/internal/drivers"
	"github.com/nerrad567/brewshell/internal/rtu"
)

// ErrConnect is returned by Connector once its open limit is reached.
var ErrConnect = errors.New("drivertest: connection refused")

// Relay is an in-memory relay board.
type Relay struct {
	States   []drivers.State
	Address  uint8
	Revision drivers.Revision

	// Err, when set, fails every operation.
	Err error

	Calls  []string
	Closed int
}

// NewRelay creates a board with n relays, all off.
func NewRelay(n int, address uint8) *Relay {
	return &Relay{
		States:   make([]drivers.State, n),
		Address:  address,
		Revision: drivers.Revision{Major: 2},
	}
}

func (r *Relay) call(format string, args ...any) error {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
	return r.Err
}

func (r *Relay) GetRelay(addr uint8) (drivers.State, error) {
	if err := r.call("GetRelay(%d)", addr); err != nil {
		return drivers.Off, err
	}
	if int(addr) >= len(r.States) {
		return drivers.Off, drivers.ErrOutOfRange
	}
	return r.States[addr], nil
}

func (r *Relay) SetRelay(addr uint8, state drivers.State) error {
	if err := r.call("SetRelay(%d, %s)", addr, state); err != nil {
		return err
	}
	if int(addr) >= len(r.States) {
		return drivers.ErrOutOfRange
	}
	r.States[addr] = state
	return nil
}

func (r *Relay) GetAllRelays() ([]drivers.State, error) {
	if err := r.call("GetAllRelays()"); err != nil {
		return nil, err
	}
	return append([]drivers.State(nil), r.States...), nil
}

func (r *Relay) SetAllRelays(state drivers.State) error {
	if err := r.call("SetAllRelays(%s)", state); err != nil {
		return err
	}
	for i := range r.States {
		r.States[i] = state
	}
	return nil
}

func (r *Relay) GetAddress() (uint8, error) {
	if err := r.call("GetAddress()"); err != nil {
		return 0, err
	}
	return r.Address, nil
}

func (r *Relay) SetAddress(addr uint8) error {
	if err := r.call("SetAddress(%d)", addr); err != nil {
		return err
	}
	r.Address = addr
	return nil
}

func (r *Relay) SoftwareRevision() (drivers.Revision, error) {
	if err := r.call("SoftwareRevision()"); err != nil {
		return drivers.Revision{}, err
	}
	return r.Revision, nil
}

func (r *Relay) Close() error {
	r.Closed++
	return nil
}

// PID is an in-memory PID controller.
type PID struct {
	PV      float64
	SV      float64
	Running bool
	Degrees drivers.Degree

	// Err fails every operation; the per-field errors fail one read.
	Err        error
	PVErr      error
	SVErr      error
	RunningErr error

	Calls  []string
	Closed int
}

func (p *PID) call(format string, args ...any) error {
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
	return p.Err
}

func (p *PID) GetPV() (float64, error) {
	if err := p.call("GetPV()"); err != nil {
		return 0, err
	}
	if p.PVErr != nil {
		return 0, p.PVErr
	}
	return p.PV, nil
}

func (p *PID) GetSV() (float64, error) {
	if err := p.call("GetSV()"); err != nil {
		return 0, err
	}
	if p.SVErr != nil {
		return 0, p.SVErr
	}
	return p.SV, nil
}

func (p *PID) SetSV(sv float64) error {
	if err := p.call("SetSV(%v)", sv); err != nil {
		return err
	}
	p.SV = sv
	return nil
}

func (p *PID) IsRunning() (bool, error) {
	if err := p.call("IsRunning()"); err != nil {
		return false, err
	}
	if p.RunningErr != nil {
		return false, p.RunningErr
	}
	return p.Running, nil
}

func (p *PID) Run() error {
	if err := p.call("Run()"); err != nil {
		return err
	}
	p.Running = true
	return nil
}

func (p *PID) Stop() error {
	if err := p.call("Stop()"); err != nil {
		return err
	}
	p.Running = false
	return nil
}

func (p *PID) SetDegrees(unit drivers.Degree) error {
	if err := p.call("SetDegrees(%s)", unit); err != nil {
		return err
	}
	p.Degrees = unit
	return nil
}

func (p *PID) Close() error {
	p.Closed++
	return nil
}

// Connector hands out the same in-memory boards for every device and counts
// how often a handle was opened.
type Connector struct {
	Board      *Relay
	Controller *PID

	// MaxOpens, when positive, makes every open after that many fail with
	// ErrConnect.
	MaxOpens int

	Opens   int
	Devices []string
}

func (c *Connector) open(dev rtu.Device) error {
	if c.MaxOpens > 0 && c.Opens >= c.MaxOpens {
		return fmt.Errorf("opening %s: %w", dev.Port, ErrConnect)
	}
	c.Opens++
	c.Devices = append(c.Devices, dev.ID)
	return nil
}

// RelayBoard returns c.Board.
func (c *Connector) RelayBoard(_ context.Context, dev rtu.Device) (drivers.RelayBoard, error) {
	if c.Board == nil {
		return nil, fmt.Errorf("no relay board for %s: %w", dev.ID, ErrConnect)
	}
	if err := c.open(dev); err != nil {
		return nil, err
	}
	return c.Board, nil
}

// PID returns c.Controller.
func (c *Connector) PID(_ context.Context, dev rtu.Device) (drivers.PIDController, error) {
	if c.Controller == nil {
		return nil, fmt.Errorf("no PID controller for %s: %w", dev.ID, ErrConnect)
	}
	if err := c.open(dev); err != nil {
		return nil, err
	}
	return c.Controller, nil
}

// DriverCalls returns the number of driver operations made on any board.
func (c *Connector) DriverCalls() int {
	n := 0
	if c.Board != nil {
		n += len(c.Board.Calls)
	}
	if c.Controller != nil {
		n += len(c.Controller.Calls)
	}
	return n
}

var (
	_ drivers.RelayBoard    = (*Relay)(nil)
	_ drivers.PIDController = (*PID)(nil)
)
