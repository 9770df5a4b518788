package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nerrad567/brewshell/internal/handler"
	"github.com/nerrad567/brewshell/internal/shell"
)

// options shared by all subcommands.
type options struct {
	configPath string

	// connector replaces the serial connector in tests.
	connector handler.Connector
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&options{})
}

func newRootCmdWith(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "brewshell",
		Short:         "Interactive shell for brewery relay boards and PID controllers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			a, err := setup(ctx, getConfigPath(opts.configPath), opts.connector)
			if err != nil {
				return err
			}
			defer a.close()

			name := a.rtu.Name
			if name == "" {
				name = a.rtu.ID
			}
			sh := shell.New(ctx, a.session, a.cfg.Shell)
			sh.Run(shell.Banner(version, name, len(a.rtu.Devices)))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default $BREWSHELL_CONFIG or "+defaultConfigPath+")")

	root.AddCommand(
		newRunCmd(opts),
		newDevicesCmd(opts),
		newVersionCmd(),
	)
	return root
}

// newRunCmd runs one device command and exits. Command errors are printed
// but do not change the exit status.
func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <device> [command] [parameter]",
		Short: "Run a single device command",
		Example: `  brewshell run relay1 on
  brewshell run tank1 set 65.5
  brewshell run tank1 watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, args)
		},
	}
}

func newDevicesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the configured devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, opts, []string{"devices"})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "brewshell %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func execute(cmd *cobra.Command, opts *options, args []string) error {
	a, err := setup(commandContext(cmd), getConfigPath(opts.configPath), opts.connector)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	a.session.Execute(ctx, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
