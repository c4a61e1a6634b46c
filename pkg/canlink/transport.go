package canlink

import "errors"

// Message is a normalized CAN message: an 11-bit identifier plus up to
// 8 payload bytes.
type Message struct {
	ID   uint16
	Data []byte
}

// Validate returns an error if the message violates CAN limits.
func (m Message) Validate() error {
	if m.ID > MaxID {
		return ErrInvalidID
	}
	if len(m.Data) > MaxDataLen {
		return ErrInvalidLen
	}
	return nil
}

var (
	// ErrInvalidID indicates the identifier exceeds 11 bits.
	ErrInvalidID = errors.New("canlink: invalid identifier")
	// ErrInvalidLen indicates the payload exceeds 8 bytes.
	ErrInvalidLen = errors.New("canlink: invalid data length")
	// ErrClosed indicates the transport has been closed.
	ErrClosed = errors.New("canlink: closed")
)

// Transport moves messages between the controller and the vehicle.
// Implementations: the serial bridge adapter (serialbridge), native
// SocketCAN (socketcan) and the in-memory Loopback.
//
// Transports are used from a single control loop goroutine; Send may
// additionally be called by the loop owner before the loop starts.
type Transport interface {
	// Send transmits one message. Write failures are reported but the
	// message is never retried by the transport.
	Send(Message) error
	// TryReceive polls for one inbound message within a bounded timeout.
	// It returns (msg, true, nil) when a message arrived, (_, false, nil)
	// when the link is silent, and (_, false, err) for I/O errors or
	// undecodable frames. Errors are non-fatal unless the transport is
	// closed.
	TryReceive() (Message, bool, error)
	// Close releases the underlying link. Further Send/TryReceive return
	// ErrClosed.
	Close() error
}
