package heartbeat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minicar/canlink/pkg/canlink"
)

func at(seconds float64) time.Time {
	base := time.Unix(1000, 0)
	return base.Add(time.Duration(seconds * float64(time.Second)))
}

func TestLifecycle(t *testing.T) {
	s := NewSupervisor(time.Second, 5*time.Second)
	require.Equal(t, Unknown, s.State())

	// no receives yet: timeout never fires
	require.False(t, s.CheckTimeout(at(0)))
	require.False(t, s.CheckTimeout(at(100)))
	require.Equal(t, Unknown, s.State())

	// first vehicle heartbeat at t=2
	require.True(t, s.OnReceive(canlink.IDHeartbeatIn, at(2)))
	require.Equal(t, Healthy, s.State())

	// silence: still healthy at t=7 (exactly at the boundary)
	require.False(t, s.CheckTimeout(at(7)))
	require.Equal(t, Healthy, s.State())

	// t=7.1 crosses the timeout and latches
	require.True(t, s.CheckTimeout(at(7.1)))
	require.Equal(t, Unhealthy, s.State())

	// latched: no repeated reports while silent
	require.False(t, s.CheckTimeout(at(8)))
	require.False(t, s.CheckTimeout(at(60)))
	require.Equal(t, Unhealthy, s.State())

	// recovery
	require.True(t, s.OnReceive(canlink.IDHeartbeatIn, at(8)))
	require.Equal(t, Healthy, s.State())
}

func TestOnReceiveIgnoresOtherIDs(t *testing.T) {
	s := NewSupervisor(0, 0)
	require.False(t, s.OnReceive(canlink.IDMotorCmd, at(1)))
	require.False(t, s.OnReceive(canlink.IDHeartbeatOut, at(1)))
	require.Equal(t, Unknown, s.State())
	require.False(t, s.CheckTimeout(at(100)))
}

func TestTickCadence(t *testing.T) {
	s := NewSupervisor(time.Second, 0)

	// first tick transmits immediately
	require.True(t, s.Tick(at(0)))
	require.False(t, s.Tick(at(0.5)))
	require.False(t, s.Tick(at(0.99)))
	require.True(t, s.Tick(at(1)))
	require.False(t, s.Tick(at(1.5)))
	require.True(t, s.Tick(at(2.5)))
}

func TestTickIndependentOfHealth(t *testing.T) {
	s := NewSupervisor(time.Second, 2*time.Second)
	require.True(t, s.Tick(at(0)))
	require.True(t, s.OnReceive(canlink.IDHeartbeatIn, at(0)))
	require.True(t, s.CheckTimeout(at(10)))
	require.Equal(t, Unhealthy, s.State())

	// still beating while unhealthy
	require.True(t, s.Tick(at(10)))
}

func TestDefaults(t *testing.T) {
	s := NewSupervisor(0, 0)
	require.Equal(t, DefaultTxInterval, s.TxInterval)
	require.Equal(t, DefaultRxTimeout, s.RxTimeout)

	s = NewSupervisor(200*time.Millisecond, 0)
	require.Equal(t, time.Second, s.RxTimeout)
}
