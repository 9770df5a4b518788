package cn7500

import (
	"errors"
	"math"
	"testing"

	"github.com/nerrad567/brewshell/internal/drivers"
)

type mockClient struct {
	registers map[uint16]uint16
	coils     map[uint16]bool
	err       error
}

func newMockClient() *mockClient {
	return &mockClient{registers: map[uint16]uint16{}, coils: map[uint16]bool{}}
}

func (m *mockClient) ReadCoils(address, quantity uint16) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.coils[address] {
		return []byte{0x01}, nil
	}
	return []byte{0x00}, nil
}

func (m *mockClient) WriteSingleCoil(address, value uint16) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.coils[address] = value == coilOn
	return nil, nil
}

func (m *mockClient) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	v := m.registers[address]
	return []byte{byte(v >> 8), byte(v)}, nil
}

func (m *mockClient) WriteSingleRegister(address, value uint16) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.registers[address] = value
	return nil, nil
}

func TestController_ReadTemperatures(t *testing.T) {
	m := newMockClient()
	m.registers[regPV] = 1183
	neg := int16(-52)
	m.registers[regSV] = uint16(neg)
	c := New(m, nil)

	pv, err := c.GetPV()
	if err != nil {
		t.Fatalf("GetPV() error = %v", err)
	}
	if pv != 118.3 {
		t.Errorf("GetPV() = %v, want 118.3", pv)
	}

	sv, err := c.GetSV()
	if err != nil {
		t.Fatalf("GetSV() error = %v", err)
	}
	if sv != -5.2 {
		t.Errorf("GetSV() = %v, want -5.2", sv)
	}
}

func TestController_SetSV(t *testing.T) {
	tests := []struct {
		name    string
		sv      float64
		want    uint16
		wantErr bool
	}{
		{"whole", 65, 650, false},
		{"tenths", 65.5, 655, false},
		{"rounded", 65.46, 655, false},
		{"negative", -1.5, uint16(0xFFF1), false},
		{"too high", 4000, 0, true},
		{"nan", math.NaN(), 0, true},
		{"inf", math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockClient()
			err := New(m, nil).SetSV(tt.sv)
			if tt.wantErr {
				if !errors.Is(err, drivers.ErrOutOfRange) {
					t.Errorf("SetSV(%v) error = %v, want ErrOutOfRange", tt.sv, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetSV(%v) error = %v", tt.sv, err)
			}
			if got := m.registers[regSV]; got != tt.want {
				t.Errorf("register = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestController_RunStop(t *testing.T) {
	m := newMockClient()
	c := New(m, nil)

	if err := c.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	running, err := c.IsRunning()
	if err != nil || !running {
		t.Errorf("IsRunning() after Run = %v, %v; want true", running, err)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	running, err = c.IsRunning()
	if err != nil || running {
		t.Errorf("IsRunning() after Stop = %v, %v; want false", running, err)
	}
}

func TestController_SetDegrees(t *testing.T) {
	m := newMockClient()
	c := New(m, nil)

	if err := c.SetDegrees(drivers.Celsius); err != nil {
		t.Fatalf("SetDegrees(C) error = %v", err)
	}
	if !m.coils[coilDegrees] {
		t.Error("Celsius should set the degrees coil")
	}

	if err := c.SetDegrees(drivers.Fahrenheit); err != nil {
		t.Fatalf("SetDegrees(F) error = %v", err)
	}
	if m.coils[coilDegrees] {
		t.Error("Fahrenheit should clear the degrees coil")
	}
}

func TestController_TransportError(t *testing.T) {
	m := newMockClient()
	m.err = errors.New("modbus: response timed out")
	c := New(m, nil)

	if _, err := c.GetPV(); !errors.Is(err, m.err) {
		t.Errorf("GetPV() error = %v, want wrapped transport error", err)
	}
	if err := c.Run(); !errors.Is(err, m.err) {
		t.Errorf("Run() error = %v, want wrapped transport error", err)
	}
}

func TestController_Close(t *testing.T) {
	closed := false
	c := New(newMockClient(), func() error {
		closed = true
		return nil
	})

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !closed {
		t.Error("Close() did not call the close function")
	}
}
