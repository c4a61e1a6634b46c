//go:build !linux

// Package socketcan implements the canlink transport over a native
// Linux SocketCAN interface.
package socketcan

import (
	"errors"

	"github.com/minicar/canlink/pkg/canlink"
)

// Transport is only available on Linux.
type Transport struct{}

// Open always fails on non-Linux systems; use the serial bridge there.
func Open(iface string) (*Transport, error) {
	return nil, errors.New("socketcan: only supported on linux")
}

// Send implements canlink.Transport.
func (t *Transport) Send(canlink.Message) error { return canlink.ErrClosed }

// TryReceive implements canlink.Transport.
func (t *Transport) TryReceive() (canlink.Message, bool, error) {
	return canlink.Message{}, false, canlink.ErrClosed
}

// Close implements canlink.Transport.
func (t *Transport) Close() error { return nil }
