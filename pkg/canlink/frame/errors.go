package frame

// Error describes a malformed bridge frame. All Error values are
// non-fatal: the receiver drops the frame and keeps reading.
type Error struct {
	reason string
}

// Error implements error.
func (e *Error) Error() string {
	return "frame: " + e.reason
}

var (
	// ErrFrameSize indicates the input is not exactly Size bytes.
	ErrFrameSize = &Error{"not 20 bytes"}
	// ErrInvalidHeader indicates the sync bytes are wrong.
	ErrInvalidHeader = &Error{"invalid sync header"}
	// ErrChecksum indicates the checksum does not match the content.
	ErrChecksum = &Error{"checksum mismatch"}
)

// IsFrameError reports whether err is a frame validation error, as
// opposed to an I/O failure of the underlying link.
func IsFrameError(err error) bool {
	_, ok := err.(*Error)
	return ok
}
