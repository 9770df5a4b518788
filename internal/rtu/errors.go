package rtu

import "errors"

// Domain errors for the rtu package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, rtu.ErrInvalidConfig) {
//	    // the RTU conf must be fixed before the shell can start
//	}
var (
	// ErrInvalidConfig is returned when the RTU conf fails validation.
	ErrInvalidConfig = errors.New("rtu: invalid configuration")

	// ErrDuplicateID is returned when two devices share an id.
	ErrDuplicateID = errors.New("rtu: duplicate device id")

	// ErrUnknownDriver is returned when a driver name is not recognised.
	ErrUnknownDriver = errors.New("rtu: unknown driver")
)
