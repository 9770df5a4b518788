package drivers

import "errors"

// Driver errors. Transport errors from the serial and Modbus libraries are
// wrapped and passed through unchanged.
var (
	// ErrUnsupported is returned when a board has no such operation.
	ErrUnsupported = errors.New("driver: operation not supported by this board")

	// ErrBadResponse is returned when a board reply cannot be decoded.
	ErrBadResponse = errors.New("driver: bad response")

	// ErrOutOfRange is returned when an argument is outside the board's range.
	ErrOutOfRange = errors.New("driver: value out of range")
)
