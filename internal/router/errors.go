package router

import (
	"errors"
	"fmt"
)

// Domain errors for the router package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(out.Err, router.ErrUnknownDevice) {
//	    // not a configured device id
//	}
var (
	// ErrUnknownDevice is returned when the first word is not a device id.
	ErrUnknownDevice = errors.New("router: unknown device")

	// ErrUnknownCommand is returned when a sub-command is not in the
	// device's vocabulary.
	ErrUnknownCommand = errors.New("router: unknown command")

	// ErrTooManyArgs is returned for more than two words after the device id,
	// or a parameter given to a sub-command that takes none.
	ErrTooManyArgs = errors.New("router: too many arguments")

	// ErrMissingParameter is returned when a sub-command that takes a
	// parameter is given none.
	ErrMissingParameter = errors.New("router: missing parameter")

	// ErrInvalidParameter is matched by every *ParseError.
	ErrInvalidParameter = errors.New("router: invalid parameter")
)

// ParseError reports a parameter that did not parse. No driver call was made.
type ParseError struct {
	Command  string
	Literal  string
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid parameter %q for %s: expected %s", e.Literal, e.Command, e.Expected)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *ParseError) Unwrap() error {
	return ErrInvalidParameter
}
