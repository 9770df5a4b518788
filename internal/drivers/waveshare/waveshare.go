// Package waveshare drives the Waveshare 8-channel Modbus RTU relay board.
//
// Register map:
//
//	coils 0x0000-0x0007   relay 0-7 (FC 01 read, FC 05 write)
//	coil  0x00FF          all relays (FC 05 write)
//	holding 0x4000        device address (broadcast slave 0x00)
//	holding 0x8000        software revision, version*100
package waveshare

import (
	"fmt"
	"time"

	"github.com/goburrow/modbus"

	"github.com/nerrad567/brewshell/internal/drivers"
)

// RelayCount is the number of relays on one board.
const RelayCount = 8

const (
	coilAllRelays    uint16 = 0x00FF
	regDeviceAddress uint16 = 0x4000
	regRevision      uint16 = 0x8000

	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000

	broadcastSlave byte = 0x00
)

// Client is the subset of modbus.Client the board uses.
type Client interface {
	ReadCoils(address, quantity uint16) ([]byte, error)
	WriteSingleCoil(address, value uint16) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// Conn is an open Modbus connection whose slave id can be switched between
// requests. The address register is only reachable through the broadcast
// slave.
type Conn interface {
	Client
	SetSlave(id byte)
	Close() error
}

// Config holds connection parameters for one board.
type Config struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
	Address  uint8
}

// Board is an open handle to a Waveshare relay board.
type Board struct {
	conn Conn
	addr byte
}

// Open connects to the board over Modbus RTU (8N1).
func Open(cfg Config) (*Board, error) {
	handler := modbus.NewRTUClientHandler(cfg.Port)
	handler.BaudRate = cfg.BaudRate
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = cfg.Address
	handler.Timeout = cfg.Timeout

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("waveshare: opening %s: %w", cfg.Port, err)
	}

	return New(&rtuConn{handler: handler, Client: modbus.NewClient(handler)}, cfg.Address), nil
}

// New wraps an existing connection. Used by Open and by tests.
func New(conn Conn, address uint8) *Board {
	return &Board{conn: conn, addr: address}
}

// GetRelay reads a single relay.
func (b *Board) GetRelay(addr uint8) (drivers.State, error) {
	if err := checkRelay(addr); err != nil {
		return drivers.Off, err
	}

	data, err := b.conn.ReadCoils(uint16(addr), 1)
	if err != nil {
		return drivers.Off, fmt.Errorf("waveshare: reading relay %d: %w", addr, err)
	}
	if len(data) < 1 {
		return drivers.Off, fmt.Errorf("waveshare: reading relay %d: %w", addr, drivers.ErrBadResponse)
	}

	return drivers.State(data[0]&0x01 == 0x01), nil
}

// SetRelay switches a single relay.
func (b *Board) SetRelay(addr uint8, state drivers.State) error {
	if err := checkRelay(addr); err != nil {
		return err
	}

	if _, err := b.conn.WriteSingleCoil(uint16(addr), coilValue(state)); err != nil {
		return fmt.Errorf("waveshare: setting relay %d: %w", addr, err)
	}
	return nil
}

// GetAllRelays reads every relay in one request.
func (b *Board) GetAllRelays() ([]drivers.State, error) {
	data, err := b.conn.ReadCoils(0, RelayCount)
	if err != nil {
		return nil, fmt.Errorf("waveshare: reading relays: %w", err)
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("waveshare: reading relays: %w", drivers.ErrBadResponse)
	}

	states := make([]drivers.State, RelayCount)
	for i := range states {
		states[i] = drivers.State(data[0]&(1<<i) != 0)
	}
	return states, nil
}

// SetAllRelays switches every relay through the all-relays coil.
func (b *Board) SetAllRelays(state drivers.State) error {
	if _, err := b.conn.WriteSingleCoil(coilAllRelays, coilValue(state)); err != nil {
		return fmt.Errorf("waveshare: setting all relays: %w", err)
	}
	return nil
}

// GetAddress reads the address the board is currently set to. Any board on
// the bus answers the broadcast read, so only one board may be connected.
func (b *Board) GetAddress() (uint8, error) {
	b.conn.SetSlave(broadcastSlave)
	defer b.conn.SetSlave(b.addr)

	data, err := b.conn.ReadHoldingRegisters(regDeviceAddress, 1)
	if err != nil {
		return 0, fmt.Errorf("waveshare: reading device address: %w", err)
	}
	if len(data) < 2 {
		return 0, fmt.Errorf("waveshare: reading device address: %w", drivers.ErrBadResponse)
	}

	return data[1], nil
}

// SetAddress writes a new device address. The board answers on the new
// address from the next request.
func (b *Board) SetAddress(addr uint8) error {
	if addr == 0 || addr == 0xFF {
		return fmt.Errorf("waveshare: device address %d: %w", addr, drivers.ErrOutOfRange)
	}

	b.conn.SetSlave(broadcastSlave)
	defer b.conn.SetSlave(b.addr)

	if _, err := b.conn.WriteSingleRegister(regDeviceAddress, uint16(addr)); err != nil {
		return fmt.Errorf("waveshare: writing device address: %w", err)
	}
	return nil
}

// SoftwareRevision reads the firmware revision.
func (b *Board) SoftwareRevision() (drivers.Revision, error) {
	data, err := b.conn.ReadHoldingRegisters(regRevision, 1)
	if err != nil {
		return drivers.Revision{}, fmt.Errorf("waveshare: reading software revision: %w", err)
	}
	if len(data) < 2 {
		return drivers.Revision{}, fmt.Errorf("waveshare: reading software revision: %w", drivers.ErrBadResponse)
	}

	v := int(data[0])<<8 | int(data[1])
	return drivers.Revision{Major: v / 100, Minor: v % 100}, nil
}

// Close releases the serial port.
func (b *Board) Close() error {
	return b.conn.Close()
}

func checkRelay(addr uint8) error {
	if addr >= RelayCount {
		return fmt.Errorf("waveshare: relay %d: %w", addr, drivers.ErrOutOfRange)
	}
	return nil
}

func coilValue(state drivers.State) uint16 {
	if state == drivers.On {
		return coilOn
	}
	return coilOff
}

// rtuConn binds a modbus.Client to the handler that owns its port.
type rtuConn struct {
	modbus.Client
	handler *modbus.RTUClientHandler
}

func (c *rtuConn) SetSlave(id byte) {
	c.handler.SlaveId = id
}

func (c *rtuConn) Close() error {
	return c.handler.Close()
}

var _ drivers.RelayBoard = (*Board)(nil)
