package canlink

// Well-known CAN identifiers used by the vehicle motor firmware.
const (
	// IDMotorCmd carries motor direction/speed commands.
	IDMotorCmd uint16 = 0x100
	// IDEmergencyStop immediately halts the motors.
	IDEmergencyStop uint16 = 0x101
	// IDConfig updates firmware parameters (max speed, heartbeat timeout).
	IDConfig uint16 = 0x102
	// IDHeartbeatOut is the periodic liveness frame sent by the controller.
	IDHeartbeatOut uint16 = 0x103
	// IDHeartbeatIn is the liveness frame reported by the vehicle.
	IDHeartbeatIn uint16 = 0x104
)

// MaxID is the largest valid 11-bit CAN identifier.
const MaxID uint16 = 0x7FF

// MaxDataLen is the classical CAN payload limit.
const MaxDataLen = 8
