// Package serialbridge implements the canlink transport over a serial
// CAN bridge adapter, applying the 20-byte frame codec on both
// directions.
package serialbridge

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/minicar/canlink/pkg/canlink"
	"github.com/minicar/canlink/pkg/canlink/frame"
)

// DefaultBaudRate matches the adapter's factory setting. The line rate
// is configuration, not a protocol invariant.
const DefaultBaudRate = 115200

// readTimeout bounds a single poll of the port.
const readTimeout = 10 * time.Millisecond

// Transport exchanges fixed 20-byte frames over a serial port.
type Transport struct {
	port   io.ReadWriteCloser
	buf    [frame.Size]byte
	fill   int
	closed bool
}

var _ canlink.Transport = (*Transport)(nil)

// Open opens the serial device and returns the transport. Failure here
// is fatal to the caller: without a link there is no session.
func Open(device string, baudRate int) (*Transport, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("serialbridge: open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("serialbridge: set read timeout: %w", err)
	}
	glog.Infof("serial bridge open on %s at %d baud", device, baudRate)
	return New(port), nil
}

// New wraps an already opened port. The port's Read must either time out
// on its own or return short reads; it must not block forever.
func New(port io.ReadWriteCloser) *Transport {
	return &Transport{port: port}
}

// Send implements canlink.Transport.
func (t *Transport) Send(msg canlink.Message) error {
	if t.closed {
		return canlink.ErrClosed
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	f := frame.Encode(msg.ID, msg.Data)
	n, err := t.port.Write(f[:])
	if err != nil {
		return fmt.Errorf("serialbridge: write: %w", err)
	}
	if n != frame.Size {
		return fmt.Errorf("serialbridge: short write (%d of %d)", n, frame.Size)
	}
	return nil
}

// TryReceive implements canlink.Transport. The adapter emits frames as
// contiguous 20-byte records; partial reads are reassembled across
// calls until a full frame is buffered.
func (t *Transport) TryReceive() (canlink.Message, bool, error) {
	if t.closed {
		return canlink.Message{}, false, canlink.ErrClosed
	}
	n, err := t.port.Read(t.buf[t.fill:])
	if err != nil {
		return canlink.Message{}, false, fmt.Errorf("serialbridge: read: %w", err)
	}
	t.fill += n
	if t.fill < frame.Size {
		return canlink.Message{}, false, nil
	}

	id, payload, err := frame.Decode(t.buf[:])
	if err == frame.ErrInvalidHeader {
		// lost alignment; skip to the next sync byte and keep filling
		t.resync()
		return canlink.Message{}, false, err
	}
	t.fill = 0
	if err != nil {
		return canlink.Message{}, false, err
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	return canlink.Message{ID: id, Data: data}, true, nil
}

// resync discards buffered bytes up to the next candidate sync byte.
func (t *Transport) resync() {
	for i := 1; i < t.fill; i++ {
		if t.buf[i] == 0xAA {
			t.fill = copy(t.buf[:], t.buf[i:t.fill])
			return
		}
	}
	t.fill = 0
}

// Close implements canlink.Transport.
func (t *Transport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.port.Close()
}
