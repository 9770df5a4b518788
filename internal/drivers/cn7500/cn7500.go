// Package cn7500 drives the Omega CN7500 PID temperature controller over
// Modbus RTU.
package cn7500

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/goburrow/modbus"

	"github.com/nerrad567/brewshell/internal/drivers"
)

// Registers and coils. Temperatures are signed tenths of a degree.
const (
	regPV uint16 = 0x1000
	regSV uint16 = 0x1001

	coilDegrees uint16 = 0x0811 // on = Celsius
	coilRunStop uint16 = 0x0814 // on = running

	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000

	scale = 10.0
)

// Client is the subset of modbus.Client the controller uses.
type Client interface {
	ReadCoils(address, quantity uint16) ([]byte, error)
	WriteSingleCoil(address, value uint16) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// Config holds connection parameters for one controller.
type Config struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
	Address  uint8
}

// Controller is an open handle to a CN7500.
type Controller struct {
	client Client
	close  func() error
}

// Open connects to the controller (8N1).
func Open(cfg Config) (*Controller, error) {
	handler := modbus.NewRTUClientHandler(cfg.Port)
	handler.BaudRate = cfg.BaudRate
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = cfg.Address
	handler.Timeout = cfg.Timeout

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("cn7500: opening %s: %w", cfg.Port, err)
	}

	return New(modbus.NewClient(handler), handler.Close), nil
}

// New wraps a Modbus client. closeFn may be nil.
func New(client Client, closeFn func() error) *Controller {
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return &Controller{client: client, close: closeFn}
}

func (c *Controller) readTemp(reg uint16, what string) (float64, error) {
	data, err := c.client.ReadHoldingRegisters(reg, 1)
	if err != nil {
		return 0, fmt.Errorf("cn7500: reading %s: %w", what, err)
	}
	if len(data) < 2 {
		return 0, fmt.Errorf("cn7500: reading %s: %w", what, drivers.ErrBadResponse)
	}
	raw := int16(binary.BigEndian.Uint16(data))
	return float64(raw) / scale, nil
}

func (c *Controller) writeCoil(coil uint16, on bool, what string) error {
	v := coilOff
	if on {
		v = coilOn
	}
	if _, err := c.client.WriteSingleCoil(coil, v); err != nil {
		return fmt.Errorf("cn7500: %s: %w", what, err)
	}
	return nil
}

// GetPV returns the process value.
func (c *Controller) GetPV() (float64, error) {
	return c.readTemp(regPV, "process value")
}

// GetSV returns the setpoint.
func (c *Controller) GetSV() (float64, error) {
	return c.readTemp(regSV, "setpoint")
}

// SetSV writes the setpoint, rounded to a tenth of a degree.
func (c *Controller) SetSV(sv float64) error {
	raw := math.Round(sv * scale)
	if math.IsNaN(raw) || raw < math.MinInt16 || raw > math.MaxInt16 {
		return fmt.Errorf("cn7500: setpoint %v: %w", sv, drivers.ErrOutOfRange)
	}

	if _, err := c.client.WriteSingleRegister(regSV, uint16(int16(raw))); err != nil {
		return fmt.Errorf("cn7500: writing setpoint: %w", err)
	}
	return nil
}

// IsRunning reports whether the control output is running.
func (c *Controller) IsRunning() (bool, error) {
	data, err := c.client.ReadCoils(coilRunStop, 1)
	if err != nil {
		return false, fmt.Errorf("cn7500: reading run state: %w", err)
	}
	if len(data) < 1 {
		return false, fmt.Errorf("cn7500: reading run state: %w", drivers.ErrBadResponse)
	}
	return data[0]&0x01 == 0x01, nil
}

// Run starts the control output.
func (c *Controller) Run() error {
	return c.writeCoil(coilRunStop, true, "run")
}

// Stop stops the control output.
func (c *Controller) Stop() error {
	return c.writeCoil(coilRunStop, false, "stop")
}

// SetDegrees sets the display unit.
func (c *Controller) SetDegrees(unit drivers.Degree) error {
	return c.writeCoil(coilDegrees, unit == drivers.Celsius, "setting degrees")
}

// Close releases the serial port.
func (c *Controller) Close() error {
	return c.close()
}

var _ drivers.PIDController = (*Controller)(nil)
