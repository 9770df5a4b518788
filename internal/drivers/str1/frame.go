package str1

import (
	"fmt"
	"io"

	"github.com/nerrad567/brewshell/internal/drivers"
)

// Packet layout, both directions:
//
//	MA0 MA1 BC payload... CS MAE
//
// BC counts the bytes from BC through CS. CS is the low byte of the sum of
// BC and the payload. Requests start 0x55 0xAA, replies 0x22 0x33, and both
// end 0x77.
const (
	reqMA0 byte = 0x55
	reqMA1 byte = 0xAA
	resMA0 byte = 0x22
	resMA1 byte = 0x33
	endMAE byte = 0x77

	maxPayload = 64
)

// Command codes.
const (
	cmdSetControllerNum byte = 0x01
	cmdGetRelays        byte = 0x14
	cmdSetRelay         byte = 0x17
)

func checksum(bc byte, payload []byte) byte {
	sum := int(bc)
	for _, b := range payload {
		sum += int(b)
	}
	return byte(sum & 0xFF)
}

func encode(payload []byte) []byte {
	bc := byte(len(payload) + 2)
	out := make([]byte, 0, len(payload)+5)
	out = append(out, reqMA0, reqMA1, bc)
	out = append(out, payload...)
	return append(out, checksum(bc, payload), endMAE)
}

// readFrame reads one reply packet and returns its payload.
func readFrame(r io.Reader) ([]byte, error) {
	head := make([]byte, 3)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("str1: reading reply header: %w", err)
	}
	if head[0] != resMA0 || head[1] != resMA1 {
		return nil, fmt.Errorf("str1: reply header % X: %w", head[:2], drivers.ErrBadResponse)
	}

	bc := head[2]
	if bc < 2 || int(bc)-2 > maxPayload {
		return nil, fmt.Errorf("str1: reply byte count %d: %w", bc, drivers.ErrBadResponse)
	}

	// payload, CS and MAE
	rest := make([]byte, bc)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, fmt.Errorf("str1: reading reply: %w", err)
	}

	payload := rest[:bc-2]
	if cs := rest[bc-2]; cs != checksum(bc, payload) {
		return nil, fmt.Errorf("str1: reply checksum 0x%02X: %w", cs, drivers.ErrBadResponse)
	}
	if rest[bc-1] != endMAE {
		return nil, fmt.Errorf("str1: reply trailer 0x%02X: %w", rest[bc-1], drivers.ErrBadResponse)
	}

	return payload, nil
}
