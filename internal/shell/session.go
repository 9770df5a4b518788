package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nerrad567/brewshell/internal/handler"
	"github.com/nerrad567/brewshell/internal/history"
	"github.com/nerrad567/brewshell/internal/router"
)

// TimeLayout is the format of the time built-in.
const TimeLayout = handler.WatchTimeLayout

// Built-in command names. Device ids must not use them.
const (
	cmdHelp     = "help"
	cmdCommands = "commands"
	cmdDevices  = "devices"
	cmdTime     = "time"
	cmdHistory  = "history"
	cmdQuit     = "quit"
	cmdExit     = "exit"
)

type builtin struct {
	help string
	run  func(s *Session, ctx context.Context, args []string, out io.Writer) error
}

var builtins map[string]builtin

// The table is filled in init because help reads it.
func init() {
	builtins = map[string]builtin{
		cmdHelp:     {"displays help information", (*Session).runHelp},
		cmdCommands: {"lists the commands page", (*Session).runCommands},
		cmdDevices:  {"lists all configured devices", (*Session).runDevices},
		cmdTime:     {"prints the current time", (*Session).runTime},
		cmdHistory:  {"shows recent commands: history [device] [limit]", (*Session).runHistory},
		cmdQuit:     {"quits the shell", nil},
		cmdExit:     {"exits the shell", nil},
	}
}

// BuiltinNames returns the names of the built-in commands in display order.
func BuiltinNames() []string {
	return []string{cmdHelp, cmdQuit, cmdExit, cmdCommands, cmdDevices, cmdTime, cmdHistory}
}

// Options configure a Session.
type Options struct {
	// History backs the history built-in. Nil disables it.
	History history.Repository

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Session executes command lines: built-ins first, then device commands
// through the router. It holds no terminal state, so the interactive shell
// and one-shot runs share it.
type Session struct {
	router  *router.Router
	history history.Repository
	now     func() time.Time

	errStyle lipgloss.Style
}

// NewSession creates a Session. It fails if a configured device id shadows
// a built-in command.
func NewSession(r *router.Router, opts Options) (*Session, error) {
	for _, dev := range r.Registry().Devices() {
		if _, ok := builtins[dev.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrReservedName, dev.ID)
		}
	}

	s := &Session{
		router:   r,
		history:  opts.History,
		now:      opts.Now,
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Execute runs one command line. Output goes to stdout; errors are printed
// to stderr as "Error: ..." and never end the session. quit reports whether
// the line asked the shell to exit.
func (s *Session) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) (quit bool) {
	if len(args) == 0 {
		return false
	}

	if b, ok := builtins[args[0]]; ok {
		if b.run == nil {
			return true
		}
		if err := b.run(s, ctx, args[1:], stdout); err != nil {
			s.printError(stderr, err)
		}
		return false
	}

	if out := s.router.Route(ctx, args, stdout); out.Err != nil {
		s.printError(stderr, out.Err)
	}
	return false
}

func (s *Session) printError(w io.Writer, err error) {
	fmt.Fprintln(w, s.errStyle.Render("Error: "+err.Error()))
}

func noArgs(name string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s takes no arguments", ErrUsage, name)
	}
	return nil
}

func (s *Session) runHelp(_ context.Context, args []string, out io.Writer) error {
	if err := noArgs(cmdHelp, args); err != nil {
		return err
	}
	fmt.Fprintln(out, "Type a device id to read it, or a device id followed by a command.")
	fmt.Fprintln(out, "Use 'devices' to list device ids and 'commands' for what each device accepts.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Command", "Help"}, builtinRows()))
	return nil
}

func builtinRows() [][]string {
	names := BuiltinNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, builtins[name].help})
	}
	return rows
}

func (s *Session) runCommands(_ context.Context, args []string, out io.Writer) error {
	if err := noArgs(cmdCommands, args); err != nil {
		return err
	}
	fmt.Fprint(out, renderCommandsPage(builtinRows()))
	return nil
}

func (s *Session) runDevices(_ context.Context, args []string, out io.Writer) error {
	if err := noArgs(cmdDevices, args); err != nil {
		return err
	}
	fmt.Fprintln(out, renderDevices(s.router.Registry().Devices()))
	return nil
}

func (s *Session) runTime(_ context.Context, args []string, out io.Writer) error {
	if err := noArgs(cmdTime, args); err != nil {
		return err
	}
	fmt.Fprintln(out, s.now().Format(TimeLayout))
	return nil
}

// runHistory accepts "history", "history <device>", "history <limit>" and
// "history <device> <limit>".
func (s *Session) runHistory(ctx context.Context, args []string, out io.Writer) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}

	filter, err := s.parseHistoryArgs(args)
	if err != nil {
		return err
	}

	entries, err := s.history.Recent(ctx, filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No commands recorded")
		return nil
	}
	fmt.Fprintln(out, renderHistory(entries))
	return nil
}

func (s *Session) parseHistoryArgs(args []string) (history.Filter, error) {
	var filter history.Filter

	parseLimit := func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: history limit must be a positive number, got %q", ErrUsage, v)
		}
		filter.Limit = n
		return nil
	}

	switch len(args) {
	case 0:
	case 1:
		if _, err := strconv.Atoi(args[0]); err == nil {
			err := parseLimit(args[0])
			return filter, err
		}
		filter.DeviceID = args[0]
	case 2:
		filter.DeviceID = args[0]
		if err := parseLimit(args[1]); err != nil {
			return filter, err
		}
	default:
		return filter, fmt.Errorf("%w: history [device] [limit]", ErrUsage)
	}

	if filter.DeviceID != "" {
		if _, ok := s.router.Registry().Resolve(filter.DeviceID); !ok {
			return filter, fmt.Errorf("%w: %q", router.ErrUnknownDevice, filter.DeviceID)
		}
	}
	return filter, nil
}
