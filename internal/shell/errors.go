package shell

import "errors"

// Domain errors for the shell package.
var (
	// ErrReservedName is returned when a device id collides with a built-in
	// command.
	ErrReservedName = errors.New("shell: device id is a reserved command name")

	// ErrUsage is returned when a built-in is given arguments it does not
	// accept.
	ErrUsage = errors.New("shell: usage")

	// ErrHistoryDisabled is returned by history when no database is
	// configured.
	ErrHistoryDisabled = errors.New("shell: command history is disabled")
)
