package handler

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nerrad567/brewshell/internal/drivers"
	"github.com/nerrad567/brewshell/internal/drivers/drivertest"
	"github.com/nerrad567/brewshell/internal/rtu"
)

var pidDev = rtu.Device{
	ID:             "tank1",
	Name:           "Mash tun",
	Kind:           rtu.KindPIDController,
	ControllerAddr: 22,
	Port:           "/dev/ttyUSB0",
	BaudRate:       19200,
}

func newPIDCommands(t *testing.T, opts Options) (Commands, *drivertest.Connector) {
	t.Helper()
	conn := &drivertest.Connector{Controller: &drivertest.PID{PV: 118.3, SV: 65.5, Running: true}}
	cmds, err := New(pidDev, conn, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return cmds, conn
}

func TestPID_DefaultRead(t *testing.T) {
	cmds, conn := newPIDCommands(t, Options{})

	res, err := cmds.Default(context.Background(), Env{})
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if want := "PV: 118.3, SV: 65.5, Running: true"; res.Lines[0] != want {
		t.Errorf("line = %q, want %q", res.Lines[0], want)
	}
	want := map[string]any{"pv": 118.3, "sv": 65.5, "running": true}
	if !reflect.DeepEqual(res.State, want) {
		t.Errorf("State = %v, want %v", res.State, want)
	}
	if conn.Opens != 1 || conn.Controller.Closed != 1 {
		t.Errorf("opens = %d, closes = %d; want one handle for all three reads", conn.Opens, conn.Controller.Closed)
	}
}

func TestPID_DefaultReadInlineErrors(t *testing.T) {
	cmds, conn := newPIDCommands(t, Options{})
	conn.Controller.SVErr = drivers.ErrBadResponse

	res, err := cmds.Default(context.Background(), Env{})
	if err != nil {
		t.Fatalf("Default() error = %v, want field errors inline", err)
	}
	line := res.Lines[0]
	if !strings.HasPrefix(line, "PV: 118.3, SV: Error: ") || !strings.HasSuffix(line, "Running: true") {
		t.Errorf("line = %q", line)
	}
	if _, ok := res.State["sv"]; ok {
		t.Error("failed field should be left out of the state")
	}
}

func TestPID_NullaryCommands(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		running bool
	}{
		{"pv", "PV: 118.3", true},
		{"sv", "SV: 65.5", true},
		{"is_running", "Running: true", true},
		{"stop", "Controller stopped", false},
		{"run", "Controller running", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, conn := newPIDCommands(t, Options{})
			if tt.name == "run" {
				conn.Controller.Running = false
			}

			res, err := cmds.Nullary[tt.name](context.Background(), Env{})
			if err != nil {
				t.Fatalf("%s error = %v", tt.name, err)
			}
			if res.Lines[0] != tt.line {
				t.Errorf("line = %q, want %q", res.Lines[0], tt.line)
			}
			if conn.Controller.Running != tt.running {
				t.Errorf("running = %v, want %v", conn.Controller.Running, tt.running)
			}
		})
	}
}

func TestPID_Set(t *testing.T) {
	cmds, conn := newPIDCommands(t, Options{})

	op, ok := cmds.Unary["set"].Bind("65.5")
	if !ok {
		t.Fatal("set 65.5 did not parse")
	}
	res, err := op(context.Background(), Env{})
	if err != nil {
		t.Fatalf("set error = %v", err)
	}
	if res.Lines[0] != "SV set to 65.5" {
		t.Errorf("line = %q", res.Lines[0])
	}
	if want := []string{"SetSV(65.5)"}; !reflect.DeepEqual(conn.Controller.Calls, want) {
		t.Errorf("calls = %v, want %v", conn.Controller.Calls, want)
	}
}

func TestPID_SetParsing(t *testing.T) {
	cmds, conn := newPIDCommands(t, Options{})
	bind := cmds.Unary["set"].Bind

	for _, s := range []string{"abc", "", "NaN", "Inf", "-inf", "65,5"} {
		if _, ok := bind(s); ok {
			t.Errorf("set %q parsed, want rejected", s)
		}
	}
	for _, s := range []string{"65", "-3.5", "1e2"} {
		if _, ok := bind(s); !ok {
			t.Errorf("set %q rejected, want parsed", s)
		}
	}
	if conn.Opens != 0 {
		t.Errorf("binding opened %d handles", conn.Opens)
	}
}

func TestPID_Degrees(t *testing.T) {
	tests := []struct {
		param string
		want  drivers.Degree
		line  string
	}{
		{"F", drivers.Fahrenheit, "Degree mode set to Fahrenheit"},
		{"c", drivers.Celsius, "Degree mode set to Celsius"},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			cmds, conn := newPIDCommands(t, Options{})
			conn.Controller.Degrees = drivers.Degree(-1)

			op, ok := cmds.Unary["degrees"].Bind(tt.param)
			if !ok {
				t.Fatalf("degrees %q did not parse", tt.param)
			}
			res, err := op(context.Background(), Env{})
			if err != nil {
				t.Fatalf("degrees error = %v", err)
			}
			if res.Lines[0] != tt.line {
				t.Errorf("line = %q, want %q", res.Lines[0], tt.line)
			}
			if conn.Controller.Degrees != tt.want {
				t.Errorf("degrees = %v, want %v", conn.Controller.Degrees, tt.want)
			}
		})
	}

	cmds, _ := newPIDCommands(t, Options{})
	if _, ok := cmds.Unary["degrees"].Bind("K"); ok {
		t.Error("degrees K parsed, want rejected")
	}
}

func TestPID_NoStateLiterals(t *testing.T) {
	cmds, _ := newPIDCommands(t, Options{})
	if cmds.State != nil {
		t.Error("PID commands should have no state literal setter")
	}
}

func TestPID_DriverError(t *testing.T) {
	cmds, conn := newPIDCommands(t, Options{})
	conn.Controller.Err = errors.New("modbus: response timed out")

	if _, err := cmds.Nullary["run"](context.Background(), Env{}); !errors.Is(err, conn.Controller.Err) {
		t.Errorf("run error = %v, want driver error", err)
	}
	if conn.Controller.Closed != 1 {
		t.Errorf("closes = %d, want 1", conn.Controller.Closed)
	}
}
