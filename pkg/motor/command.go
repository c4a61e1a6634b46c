// Package motor maps logical motor commands onto CAN messages understood
// by the vehicle firmware.
package motor

import (
	"fmt"

	"github.com/minicar/canlink/pkg/canlink"
)

// Command is a motor command code. The numeric values are fixed by the
// STM32 motor firmware and shared with the receiver-side decoder; both
// sides must use this table.
type Command byte

const (
	Stop Command = iota
	Forward
	Backward
	TurnLeft
	TurnRight
)

var commandNames = map[Command]string{
	Stop:      "stop",
	Forward:   "forward",
	Backward:  "backward",
	TurnLeft:  "left",
	TurnRight: "right",
}

// String returns the lowercase command name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", byte(c))
}

// IsMoving reports whether the command drives the motors.
func (c Command) IsMoving() bool {
	return c > Stop && c <= TurnRight
}

// ParseCommand converts a command name (as used by the web API and the
// drive shell) to its code.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return Stop, fmt.Errorf("motor: unknown command %q", name)
}

// ClampSpeed bounds a speed percentage to [0, 100].
func ClampSpeed(speed int) byte {
	if speed < 0 {
		return 0
	}
	if speed > 100 {
		return 100
	}
	return byte(speed)
}

// Encode builds the motor command message: byte 0 is the command code,
// byte 1 the speed percent, the rest zero. Stop always carries speed 0.
func Encode(cmd Command, speed int) canlink.Message {
	data := make([]byte, 8)
	data[0] = byte(cmd)
	if cmd != Stop {
		data[1] = ClampSpeed(speed)
	}
	return canlink.Message{ID: canlink.IDMotorCmd, Data: data}
}

// EncodeEmergencyStop builds the emergency stop message.
func EncodeEmergencyStop() canlink.Message {
	return canlink.Message{
		ID:   canlink.IDEmergencyStop,
		Data: []byte{0xFF, 0, 0, 0, 0, 0, 0, 0},
	}
}

// EncodeConfig builds the firmware configuration message: max speed
// percent followed by the heartbeat timeout in milliseconds, big endian.
func EncodeConfig(maxSpeed byte, timeoutMS uint16) canlink.Message {
	data := make([]byte, 8)
	data[0] = maxSpeed
	data[1] = byte(timeoutMS >> 8)
	data[2] = byte(timeoutMS)
	return canlink.Message{ID: canlink.IDConfig, Data: data}
}

// EncodeHeartbeat builds the controller-side liveness message.
func EncodeHeartbeat() canlink.Message {
	return canlink.Message{ID: canlink.IDHeartbeatOut, Data: make([]byte, 8)}
}
