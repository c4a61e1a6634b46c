package canlink

import "sync"

// Loopback is an in-memory transport pair for tests and demo mode.
// Messages sent on one end are received on the other.
type Loopback struct {
	mu     *sync.Mutex // shared with the peer
	peer   *Loopback
	ch     chan Message
	closed bool
}

var _ Transport = (*Loopback)(nil)

// NewLoopback creates two linked transport ends.
func NewLoopback() (a, b *Loopback) {
	mu := new(sync.Mutex)
	a = &Loopback{mu: mu, ch: make(chan Message, 64)}
	b = &Loopback{mu: mu, ch: make(chan Message, 64)}
	a.peer, b.peer = b, a
	return a, b
}

// Send implements Transport.
func (l *Loopback) Send(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.peer.closed {
		return ErrClosed
	}
	data := make([]byte, len(msg.Data))
	copy(data, msg.Data)
	select {
	case l.peer.ch <- Message{ID: msg.ID, Data: data}:
	default:
		// peer not draining; drop like a saturated bus
	}
	return nil
}

// TryReceive implements Transport. Messages buffered before the peer
// closed remain readable.
func (l *Loopback) TryReceive() (Message, bool, error) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return Message{}, false, ErrClosed
	}
	select {
	case msg := <-l.ch:
		return msg, true, nil
	default:
		return Message{}, false, nil
	}
}

// Close implements Transport.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
