// Package canlink defines the common message model and transport
// abstraction shared by the native CAN and serial-bridge paths.
package canlink

// A vehicle link exchanges classical CAN frames with 11-bit identifiers.
// The controller only uses a handful of well-known identifiers; they are
// fixed by the motor firmware and listed in ids.go.
//
// Producer: carcli / carwebd (controller side)
// Consumer: vehicle motor firmware
