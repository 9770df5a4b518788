// Package str1 drives STR1xx serial relay boards (16 channels) using their
// framed packet protocol over a raw serial port.
package str1

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/nerrad567/brewshell/internal/drivers"
)

// RelayCount is the number of relays on one board.
const RelayCount = 16

// Config holds connection parameters for one board.
type Config struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
	Address  uint8
}

// Board is an open handle to an STR1 board.
type Board struct {
	port io.ReadWriteCloser
	cn   byte
}

// Open opens the serial port for the board.
func Open(cfg Config) (*Board, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.BaudRate,
		ReadTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("str1: opening %s: %w", cfg.Port, err)
	}
	return New(port, cfg.Address), nil
}

// New wraps an already open port.
func New(port io.ReadWriteCloser, controllerNum uint8) *Board {
	return &Board{port: port, cn: controllerNum}
}

func (b *Board) send(payload ...byte) error {
	if _, err := b.port.Write(encode(payload)); err != nil {
		return fmt.Errorf("str1: writing command 0x%02X: %w", payload[0], err)
	}
	return nil
}

func (b *Board) readRelays(start, count uint8) ([]drivers.State, error) {
	if err := b.send(cmdGetRelays, b.cn, start, count); err != nil {
		return nil, err
	}

	payload, err := readFrame(b.port)
	if err != nil {
		return nil, err
	}
	if len(payload) != int(count) {
		return nil, fmt.Errorf("str1: got %d relay states, want %d: %w", len(payload), count, drivers.ErrBadResponse)
	}

	states := make([]drivers.State, count)
	for i, v := range payload {
		states[i] = drivers.State(v != 0)
	}
	return states, nil
}

// GetRelay reads a single relay.
func (b *Board) GetRelay(addr uint8) (drivers.State, error) {
	if err := checkRelay(addr); err != nil {
		return drivers.Off, err
	}

	states, err := b.readRelays(addr, 1)
	if err != nil {
		return drivers.Off, err
	}
	return states[0], nil
}

// SetRelay switches a single relay. The board does not acknowledge.
func (b *Board) SetRelay(addr uint8, state drivers.State) error {
	if err := checkRelay(addr); err != nil {
		return err
	}

	var v byte
	if state == drivers.On {
		v = 1
	}
	return b.send(cmdSetRelay, b.cn, addr, v)
}

// GetAllRelays reads all relays in one request.
func (b *Board) GetAllRelays() ([]drivers.State, error) {
	return b.readRelays(0, RelayCount)
}

// SetAllRelays sets every relay in turn; the board has no all-relays command.
func (b *Board) SetAllRelays(state drivers.State) error {
	for addr := uint8(0); addr < RelayCount; addr++ {
		if err := b.SetRelay(addr, state); err != nil {
			return err
		}
	}
	return nil
}

// GetAddress is not supported; the board cannot report its controller number.
func (b *Board) GetAddress() (uint8, error) {
	return 0, fmt.Errorf("str1: get controller number: %w", drivers.ErrUnsupported)
}

// SetAddress changes the board's controller number.
func (b *Board) SetAddress(addr uint8) error {
	if addr == 0xFF {
		return fmt.Errorf("str1: controller number %d: %w", addr, drivers.ErrOutOfRange)
	}
	return b.send(cmdSetControllerNum, b.cn, addr)
}

// SoftwareRevision is not supported.
func (b *Board) SoftwareRevision() (drivers.Revision, error) {
	return drivers.Revision{}, fmt.Errorf("str1: software revision: %w", drivers.ErrUnsupported)
}

// Close releases the serial port.
func (b *Board) Close() error {
	return b.port.Close()
}

func checkRelay(addr uint8) error {
	if addr >= RelayCount {
		return fmt.Errorf("str1: relay %d: %w", addr, drivers.ErrOutOfRange)
	}
	return nil
}

var _ drivers.RelayBoard = (*Board)(nil)
