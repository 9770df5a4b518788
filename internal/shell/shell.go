package shell

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/abiosoft/ishell"

	"github.com/nerrad567/brewshell/internal/infrastructure/config"
)

// Shell is the interactive prompt.
//
// Built-ins are registered as ishell commands. Every other line goes through
// ishell's not-found hook to the router, so device ids need no registration.
type Shell struct {
	ish  *ishell.Shell
	sess *Session
	ctx  context.Context
}

// New creates a Shell over sess. ctx bounds the whole session; each command
// additionally gets its own interrupt-cancelled context.
func New(ctx context.Context, sess *Session, cfg config.ShellConfig) *Shell {
	ish := ishell.New()
	ish.SetPrompt(cfg.Prompt)
	if cfg.HistoryFile != "" {
		ish.SetHistoryPath(cfg.HistoryFile)
	}

	// ishell ships its own help, exit and clear.
	for _, name := range []string{"help", "exit", "clear"} {
		ish.DeleteCmd(name)
	}

	sh := &Shell{ish: ish, sess: sess, ctx: ctx}

	for _, name := range BuiltinNames() {
		ish.AddCmd(&ishell.Cmd{
			Name: name,
			Help: builtins[name].help,
			Func: func(c *ishell.Context) {
				sh.execute(c, append([]string{name}, c.Args...))
			},
		})
	}

	ish.NotFound(func(c *ishell.Context) {
		sh.execute(c, c.RawArgs)
	})

	ish.Interrupt(func(c *ishell.Context, count int, _ string) {
		if count >= 2 {
			c.Stop()
			return
		}
		c.Println("Press Ctrl-C again or type quit to exit")
	})

	return sh
}

// execute runs one line with Ctrl-C bound to the command, so interrupting a
// watch returns to the prompt instead of killing the process.
func (sh *Shell) execute(c *ishell.Context, args []string) {
	ctx, stop := signal.NotifyContext(sh.ctx, os.Interrupt)
	defer stop()

	if sh.sess.Execute(ctx, args, os.Stdout, os.Stderr) {
		c.Stop()
	}
}

// Run prints the banner and reads commands until quit, exit or EOF.
func (sh *Shell) Run(banner string) {
	if banner != "" {
		sh.ish.Println(banner)
	}
	sh.ish.Println("Type help for help, quit to exit.")
	sh.ish.Run()
	sh.ish.Close()
}

// Banner describes the loaded RTU for the start of a session.
func Banner(version, rtuName string, devices int) string {
	return fmt.Sprintf("brewshell %s: %s, %d devices", version, rtuName, devices)
}
