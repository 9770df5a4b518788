package str1

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nerrad567/brewshell/internal/drivers"
)

// fakePort is an in-memory serial port: writes are captured, reads are served
// from a canned reply.
type fakePort struct {
	written bytes.Buffer
	reply   bytes.Reader
	closed  bool
}

func newFakePort(reply []byte) *fakePort {
	p := &fakePort{}
	p.reply.Reset(reply)
	return p
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.reply.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.written.Write(b) }
func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func reply(payload ...byte) []byte {
	bc := byte(len(payload) + 2)
	out := []byte{resMA0, resMA1, bc}
	out = append(out, payload...)
	return append(out, checksum(bc, payload), endMAE)
}

func TestEncode(t *testing.T) {
	got := encode([]byte{cmdSetRelay, 0xFE, 0x02, 0x01})
	// BC=6, CS=(6+0x17+0xFE+0x02+0x01)&0xFF=0x1E
	want := []byte{0x55, 0xAA, 0x06, 0x17, 0xFE, 0x02, 0x01, 0x1E, 0x77}
	if !bytes.Equal(got, want) {
		t.Errorf("encode() = % X, want % X", got, want)
	}
}

func TestReadFrame_Errors(t *testing.T) {
	good := reply(0x01)

	badHeader := append([]byte{}, good...)
	badHeader[0] = 0x00

	badChecksum := append([]byte{}, good...)
	badChecksum[len(badChecksum)-2]++

	badTrailer := append([]byte{}, good...)
	badTrailer[len(badTrailer)-1] = 0x00

	tests := []struct {
		name    string
		data    []byte
		wantBad bool
	}{
		{"bad header", badHeader, true},
		{"bad checksum", badChecksum, true},
		{"bad trailer", badTrailer, true},
		{"short byte count", []byte{resMA0, resMA1, 0x01}, true},
		{"truncated", good[:4], false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readFrame(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("readFrame() expected error, got nil")
			}
			if errors.Is(err, drivers.ErrBadResponse) != tt.wantBad {
				t.Errorf("readFrame() error = %v, ErrBadResponse = %v", err, tt.wantBad)
			}
		})
	}
}

func TestBoard_GetRelay(t *testing.T) {
	port := newFakePort(reply(0x01))
	b := New(port, 254)

	got, err := b.GetRelay(15)
	if err != nil {
		t.Fatalf("GetRelay() error = %v", err)
	}
	if got != drivers.On {
		t.Errorf("GetRelay() = %v, want On", got)
	}

	wantReq := encode([]byte{cmdGetRelays, 254, 15, 1})
	if !bytes.Equal(port.written.Bytes(), wantReq) {
		t.Errorf("request = % X, want % X", port.written.Bytes(), wantReq)
	}
}

func TestBoard_GetAllRelays(t *testing.T) {
	states := make([]byte, RelayCount)
	states[3] = 1
	states[12] = 1
	b := New(newFakePort(reply(states...)), 1)

	got, err := b.GetAllRelays()
	if err != nil {
		t.Fatalf("GetAllRelays() error = %v", err)
	}
	if len(got) != RelayCount {
		t.Fatalf("len = %d, want %d", len(got), RelayCount)
	}
	for i, s := range got {
		want := drivers.State(i == 3 || i == 12)
		if s != want {
			t.Errorf("relay %d = %v, want %v", i, s, want)
		}
	}
}

func TestBoard_GetAllRelays_WrongCount(t *testing.T) {
	b := New(newFakePort(reply(0x00, 0x01)), 1)

	if _, err := b.GetAllRelays(); !errors.Is(err, drivers.ErrBadResponse) {
		t.Errorf("GetAllRelays() error = %v, want ErrBadResponse", err)
	}
}

func TestBoard_SetAllRelays(t *testing.T) {
	port := newFakePort(nil)
	b := New(port, 7)

	if err := b.SetAllRelays(drivers.On); err != nil {
		t.Fatalf("SetAllRelays() error = %v", err)
	}

	var want bytes.Buffer
	for i := byte(0); i < RelayCount; i++ {
		want.Write(encode([]byte{cmdSetRelay, 7, i, 1}))
	}
	if !bytes.Equal(port.written.Bytes(), want.Bytes()) {
		t.Errorf("SetAllRelays wrote % X", port.written.Bytes())
	}
}

func TestBoard_SetAddress(t *testing.T) {
	port := newFakePort(nil)
	b := New(port, 254)

	if err := b.SetAddress(3); err != nil {
		t.Fatalf("SetAddress() error = %v", err)
	}
	want := encode([]byte{cmdSetControllerNum, 254, 3})
	if !bytes.Equal(port.written.Bytes(), want) {
		t.Errorf("SetAddress wrote % X, want % X", port.written.Bytes(), want)
	}

	if err := b.SetAddress(255); !errors.Is(err, drivers.ErrOutOfRange) {
		t.Errorf("SetAddress(255) error = %v, want ErrOutOfRange", err)
	}
}

func TestBoard_Unsupported(t *testing.T) {
	b := New(newFakePort(nil), 1)

	if _, err := b.GetAddress(); !errors.Is(err, drivers.ErrUnsupported) {
		t.Errorf("GetAddress() error = %v, want ErrUnsupported", err)
	}
	if _, err := b.SoftwareRevision(); !errors.Is(err, drivers.ErrUnsupported) {
		t.Errorf("SoftwareRevision() error = %v, want ErrUnsupported", err)
	}
}

func TestBoard_RelayOutOfRange(t *testing.T) {
	port := newFakePort(nil)
	b := New(port, 1)

	if err := b.SetRelay(16, drivers.On); !errors.Is(err, drivers.ErrOutOfRange) {
		t.Errorf("SetRelay(16) error = %v, want ErrOutOfRange", err)
	}
	if port.written.Len() != 0 {
		t.Error("out of range SetRelay wrote to the port")
	}
}
