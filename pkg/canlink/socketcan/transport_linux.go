//go:build linux

// Package socketcan implements the canlink transport over a native
// Linux SocketCAN interface.
package socketcan

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.einride.tech/can"
	sc "go.einride.tech/can/pkg/socketcan"

	"github.com/minicar/canlink/pkg/canlink"
)

const sendTimeout = 100 * time.Millisecond

// Transport exchanges frames with a SocketCAN interface such as can0.
// A background goroutine owns the blocking receive path and feeds a
// buffered channel so TryReceive stays non-blocking.
type Transport struct {
	conn net.Conn
	tx   *sc.Transmitter

	recvCh chan canlink.Message

	mu     sync.Mutex
	closed bool
}

var _ canlink.Transport = (*Transport)(nil)

// Open binds to the named CAN interface. Failure is fatal to the
// caller.
func Open(iface string) (*Transport, error) {
	conn, err := sc.Dial("can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan: dial %s: %w", iface, err)
	}
	t := &Transport{
		conn:   conn,
		tx:     sc.NewTransmitter(conn),
		recvCh: make(chan canlink.Message, 64),
	}
	go t.readLoop(sc.NewReceiver(conn))
	glog.Infof("socketcan open on %s", iface)
	return t, nil
}

func (t *Transport) readLoop(rx *sc.Receiver) {
	for rx.Receive() {
		f := rx.Frame()
		if f.IsExtended || f.IsRemote {
			continue
		}
		msg := canlink.Message{
			ID:   uint16(f.ID & uint32(canlink.MaxID)),
			Data: append([]byte(nil), f.Data[:f.Length]...),
		}
		select {
		case t.recvCh <- msg:
		default:
			// controller lagging; drop like a full RX queue
		}
	}
	if err := rx.Err(); err != nil {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if !closed {
			glog.Errorf("socketcan receive stopped: %v", err)
		}
	}
	close(t.recvCh)
}

// Send implements canlink.Transport.
func (t *Transport) Send(msg canlink.Message) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return canlink.ErrClosed
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	var f can.Frame
	f.ID = uint32(msg.ID)
	f.Length = uint8(len(msg.Data))
	copy(f.Data[:], msg.Data)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := t.tx.TransmitFrame(ctx, f); err != nil {
		return fmt.Errorf("socketcan: transmit: %w", err)
	}
	return nil
}

// TryReceive implements canlink.Transport.
func (t *Transport) TryReceive() (canlink.Message, bool, error) {
	select {
	case msg, ok := <-t.recvCh:
		if !ok {
			return canlink.Message{}, false, canlink.ErrClosed
		}
		return msg, true, nil
	default:
		return canlink.Message{}, false, nil
	}
}

// Close implements canlink.Transport.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	return t.conn.Close()
}
