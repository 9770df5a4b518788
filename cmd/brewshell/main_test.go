package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/brewshell/internal/drivers/drivertest"
	"github.com/nerrad567/brewshell/internal/rtu"
)

const testRTUConf = `
id: test-rtu
name: Test Brew House
devices:
  - id: relay1
    name: Mash pump
    driver: waveshare
    controller_address: 5
    device_address: 2
    port: /dev/ttyUSB0
  - id: tank1
    name: HLT
    driver: cn7500
    controller_address: 1
    port: /dev/ttyUSB1
`

// writeConfigs writes an app config and RTU conf into a temp dir and returns
// the app config path.
func writeConfigs(t *testing.T, rtuConf string) string {
	t.Helper()
	dir := t.TempDir()

	rtuPath := filepath.Join(dir, "rtu_conf.yaml")
	if err := os.WriteFile(rtuPath, []byte(rtuConf), 0600); err != nil {
		t.Fatalf("failed to write rtu conf: %v", err)
	}

	cfg := `
rtu:
  config_file: "` + rtuPath + `"
logging:
  output: discard
database:
  enabled: true
  path: "` + filepath.Join(dir, "history.db") + `"
`
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return cfgPath
}

func testConnector() *drivertest.Connector {
	return &drivertest.Connector{
		Board:      drivertest.NewRelay(8, 5),
		Controller: &drivertest.PID{PV: 118.3, SV: 65.5, Running: true},
	}
}

func execRoot(t *testing.T, opts *options, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmdWith(opts)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("BREWSHELL_CONFIG", "")
	if got := getConfigPath(""); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want default", got)
	}

	t.Setenv("BREWSHELL_CONFIG", "/etc/brewshell/config.yaml")
	if got := getConfigPath(""); got != "/etc/brewshell/config.yaml" {
		t.Errorf("getConfigPath() = %q, want env value", got)
	}
	if got := getConfigPath("/tmp/flag.yaml"); got != "/tmp/flag.yaml" {
		t.Errorf("getConfigPath() = %q, want flag value", got)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	_, _, err := execRoot(t, &options{}, "--config", "/nonexistent/path/config.yaml", "devices")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestRun_InvalidRTUConf(t *testing.T) {
	cfgPath := writeConfigs(t, `
devices:
  - id: relay1
    driver: waveshare
    device_address: 12
    port: /dev/ttyUSB0
`)

	_, _, err := execRoot(t, &options{connector: testConnector()}, "--config", cfgPath, "devices")
	if !errors.Is(err, rtu.ErrInvalidConfig) {
		t.Fatalf("error = %v, want rtu.ErrInvalidConfig", err)
	}
}

func TestDevicesCommand(t *testing.T) {
	cfgPath := writeConfigs(t, testRTUConf)

	out, _, err := execRoot(t, &options{connector: testConnector()}, "--config", cfgPath, "devices")
	if err != nil {
		t.Fatalf("devices error = %v", err)
	}
	for _, want := range []string{"relay1", "Mash pump", "tank1", "CN7500"} {
		if !strings.Contains(out, want) {
			t.Errorf("devices output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCommand(t *testing.T) {
	cfgPath := writeConfigs(t, testRTUConf)
	conn := testConnector()
	opts := &options{connector: conn}

	out, errOut, err := execRoot(t, opts, "--config", cfgPath, "run", "relay1", "on")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if out != "Relay 2: On\n" || errOut != "" {
		t.Errorf("stdout = %q, stderr = %q", out, errOut)
	}

	out, _, err = execRoot(t, opts, "--config", cfgPath, "run", "tank1")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if out != "PV: 118.3, SV: 65.5, Running: true\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunCommand_ErrorKeepsExitStatus(t *testing.T) {
	cfgPath := writeConfigs(t, testRTUConf)
	conn := testConnector()

	_, errOut, err := execRoot(t, &options{connector: conn}, "--config", cfgPath, "run", "tank1", "set", "abc")
	if err != nil {
		t.Fatalf("command error must not fail the process: %v", err)
	}
	if !strings.Contains(errOut, "Error: ") || !strings.Contains(errOut, `"abc"`) {
		t.Errorf("stderr = %q", errOut)
	}
	if conn.DriverCalls() != 0 {
		t.Errorf("driver calls = %d, want 0", conn.DriverCalls())
	}
}

func TestRunCommand_HistoryPersists(t *testing.T) {
	cfgPath := writeConfigs(t, testRTUConf)
	opts := &options{connector: testConnector()}

	if _, _, err := execRoot(t, opts, "--config", cfgPath, "run", "tank1", "set", "65.5"); err != nil {
		t.Fatalf("run error = %v", err)
	}

	out, errOut, err := execRoot(t, opts, "--config", cfgPath, "run", "history", "tank1")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if errOut != "" {
		t.Fatalf("stderr = %q", errOut)
	}
	if !strings.Contains(out, "set") || !strings.Contains(out, "65.5") {
		t.Errorf("history output:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execRoot(t, &options{}, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "brewshell "+version) {
		t.Errorf("version output = %q", out)
	}
}
