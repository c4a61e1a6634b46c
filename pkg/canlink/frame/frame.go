// Package frame encodes and decodes the fixed 20-byte frame used by the
// serial CAN bridge adapter.
package frame

// Size is the fixed length of every bridge frame, independent of the
// payload length.
const Size = 20

// Wire layout. The adapter always exchanges exactly Size bytes:
//
//	0     0xAA  sync
//	1     0x55  sync
//	2     0x01  adapter marker
//	3     CAN id high byte
//	4     0x01  adapter marker
//	5     CAN id low byte
//	6     0x01  adapter marker
//	7..8  0x00
//	9     DLC (0..8)
//	10..17 payload window, zero padded beyond DLC
//	18    0x00
//	19    checksum = (sum of bytes 0..18 + 1) mod 256
const (
	sync0 = 0xAA
	sync1 = 0x55
	mark  = 0x01

	offIDHigh  = 3
	offIDLow   = 5
	offDLC     = 9
	offPayload = 10
	offSum     = 19
)

// Encode builds the wire frame for id and payload. The caller guarantees
// id <= 0x7FF and len(payload) <= 8; the command encoder upholds both.
func Encode(id uint16, payload []byte) [Size]byte {
	var f [Size]byte
	f[0], f[1] = sync0, sync1
	f[2], f[4], f[6] = mark, mark, mark
	f[offIDHigh] = byte(id >> 8)
	f[offIDLow] = byte(id)
	f[offDLC] = byte(len(payload))
	copy(f[offPayload:offPayload+8], payload)
	f[offSum] = Checksum(f[:offSum])
	return f
}

// Decode validates raw and extracts the CAN identifier and payload.
// The returned payload aliases raw.
func Decode(raw []byte) (id uint16, payload []byte, err error) {
	if len(raw) != Size {
		return 0, nil, ErrFrameSize
	}
	if raw[0] != sync0 || raw[1] != sync1 {
		return 0, nil, ErrInvalidHeader
	}
	if Checksum(raw[:offSum]) != raw[offSum] {
		return 0, nil, ErrChecksum
	}
	// DLC is untrusted input; clamp so a corrupt-but-checksummed value
	// can never index outside the payload window.
	dlc := raw[offDLC]
	if dlc > 8 {
		dlc = 8
	}
	id = uint16(raw[offIDHigh])<<8 | uint16(raw[offIDLow])
	id &= 0x7FF
	return id, raw[offPayload : offPayload+int(dlc)], nil
}

// Checksum computes the adapter checksum over the given bytes: their sum
// plus one, truncated to 8 bits.
func Checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum + 1
}
