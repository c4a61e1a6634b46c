package serialbridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minicar/canlink/pkg/canlink"
	"github.com/minicar/canlink/pkg/canlink/frame"
)

// fakePort scripts inbound chunks and records writes. Read returns one
// scripted chunk per call and 0 bytes once the script is exhausted,
// mimicking the port read timeout.
type fakePort struct {
	chunks [][]byte
	wrote  []byte
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		return 0, nil
	}
	n := copy(b, p.chunks[0])
	if n < len(p.chunks[0]) {
		p.chunks[0] = p.chunks[0][n:]
	} else {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.wrote = append(p.wrote, b...)
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestSendWritesOneFrame(t *testing.T) {
	port := &fakePort{}
	tr := New(port)
	require.NoError(t, tr.Send(canlink.Message{ID: 0x100, Data: []byte{1, 50, 0, 0, 0, 0, 0, 0}}))
	require.Len(t, port.wrote, frame.Size)

	id, payload, err := frame.Decode(port.wrote)
	require.NoError(t, err)
	require.Equal(t, uint16(0x100), id)
	require.Equal(t, []byte{1, 50, 0, 0, 0, 0, 0, 0}, payload)
}

func TestSendRejectsInvalid(t *testing.T) {
	tr := New(&fakePort{})
	require.Equal(t, canlink.ErrInvalidID, tr.Send(canlink.Message{ID: 0x800}))
	require.Equal(t, canlink.ErrInvalidLen, tr.Send(canlink.Message{ID: 1, Data: make([]byte, 9)}))
}

func TestReceiveReassemblesFragments(t *testing.T) {
	f := frame.Encode(0x104, make([]byte, 8))
	port := &fakePort{chunks: [][]byte{f[:7], f[7:15], f[15:]}}
	tr := New(port)

	// first two polls: incomplete frame
	for i := 0; i < 2; i++ {
		_, ok, err := tr.TryReceive()
		require.NoError(t, err)
		require.False(t, ok)
	}
	msg, ok, err := tr.TryReceive()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, canlink.IDHeartbeatIn, msg.ID)
	require.Equal(t, make([]byte, 8), msg.Data)

	// silence afterwards
	_, ok, err = tr.TryReceive()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReceiveChecksumMismatch(t *testing.T) {
	f := frame.Encode(0x104, make([]byte, 8))
	raw := make([]byte, frame.Size)
	copy(raw, f[:])
	raw[10] ^= 0x01
	tr := New(&fakePort{chunks: [][]byte{raw}})

	_, ok, err := tr.TryReceive()
	require.False(t, ok)
	require.Equal(t, frame.ErrChecksum, err)
}

func TestReceiveResyncsAfterGarbage(t *testing.T) {
	f := frame.Encode(0x103, nil)
	// three garbage bytes prepended, then a clean frame
	stream := append([]byte{0x00, 0x13, 0x37}, f[:]...)
	tr := New(&fakePort{chunks: [][]byte{stream}})

	var got canlink.Message
	var gotOK bool
	for i := 0; i < 6 && !gotOK; i++ {
		msg, ok, err := tr.TryReceive()
		if err != nil {
			require.Equal(t, frame.ErrInvalidHeader, err)
			continue
		}
		got, gotOK = msg, ok
	}
	require.True(t, gotOK)
	require.Equal(t, canlink.IDHeartbeatOut, got.ID)
}

func TestCloseReleasesPort(t *testing.T) {
	port := &fakePort{}
	tr := New(port)
	require.NoError(t, tr.Close())
	require.True(t, port.closed)
	require.Equal(t, canlink.ErrClosed, tr.Send(canlink.Message{ID: 1}))
	_, _, err := tr.TryReceive()
	require.Equal(t, canlink.ErrClosed, err)
}
