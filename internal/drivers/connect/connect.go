// Package connect opens driver handles for configured devices.
package connect

import (
	"context"
	"fmt"

	"github.com/nerrad567/brewshell/internal/drivers"
	"github.com/nerrad567/brewshell/internal/drivers/cn7500"
	"github.com/nerrad567/brewshell/internal/drivers/str1"
	"github.com/nerrad567/brewshell/internal/drivers/waveshare"
	"github.com/nerrad567/brewshell/internal/rtu"
)

// Logger defines the logging interface used by Serial.
type Logger interface {
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

// Serial opens real serial connections. Every call opens a new port; the
// caller closes it when the command is done.
type Serial struct {
	logger Logger
}

// NewSerial creates a connector.
func NewSerial() *Serial {
	return &Serial{logger: noopLogger{}}
}

// SetLogger sets the logger for connection events.
func (s *Serial) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
}

// RelayBoard opens the relay board a device lives on.
func (s *Serial) RelayBoard(ctx context.Context, dev rtu.Device) (drivers.RelayBoard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("opening relay board",
		"device", dev.ID, "driver", dev.Kind.String(),
		"port", dev.Port, "controller", dev.ControllerAddr)

	switch dev.Kind {
	case rtu.KindRelayBoardA:
		board, err := waveshare.Open(waveshare.Config{
			Port:     dev.Port,
			BaudRate: dev.BaudRate,
			Timeout:  dev.Timeout,
			Address:  dev.ControllerAddr,
		})
		if err != nil {
			return nil, err
		}
		return board, nil
	case rtu.KindRelayBoardB:
		board, err := str1.Open(str1.Config{
			Port:     dev.Port,
			BaudRate: dev.BaudRate,
			Timeout:  dev.Timeout,
			Address:  dev.ControllerAddr,
		})
		if err != nil {
			return nil, err
		}
		return board, nil
	default:
		return nil, fmt.Errorf("connect: device %s is a %s, not a relay board: %w", dev.ID, dev.Kind, rtu.ErrUnknownDriver)
	}
}

// PID opens the PID controller for a device.
func (s *Serial) PID(ctx context.Context, dev rtu.Device) (drivers.PIDController, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dev.Kind != rtu.KindPIDController {
		return nil, fmt.Errorf("connect: device %s is a %s, not a PID controller: %w", dev.ID, dev.Kind, rtu.ErrUnknownDriver)
	}

	s.logger.Debug("opening PID controller",
		"device", dev.ID, "port", dev.Port, "address", dev.ControllerAddr)

	ctrl, err := cn7500.Open(cn7500.Config{
		Port:     dev.Port,
		BaudRate: dev.BaudRate,
		Timeout:  dev.Timeout,
		Address:  dev.ControllerAddr,
	})
	if err != nil {
		return nil, err
	}
	return ctrl, nil
}
