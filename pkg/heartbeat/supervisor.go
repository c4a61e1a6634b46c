// Package heartbeat tracks link liveness between the controller and the
// vehicle using periodic heartbeat frames.
package heartbeat

import (
	"time"

	"github.com/minicar/canlink/pkg/canlink"
)

// State is the derived health of the link.
type State int

const (
	// Unknown means no heartbeat has been received yet.
	Unknown State = iota
	// Healthy means a heartbeat arrived within RxTimeout.
	Healthy
	// Unhealthy means the link went silent for longer than RxTimeout.
	// Only a fresh heartbeat clears it.
	Unhealthy
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Unhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Default intervals. The firmware expects a heartbeat every second and
// the controller tolerates five missed beats before declaring the link
// down.
const (
	DefaultTxInterval = time.Second
	DefaultRxTimeout  = 5 * DefaultTxInterval
)

// Supervisor derives link health from transmit/receive timestamps.
// It never reads the wall clock; callers pass the current time in, which
// keeps the state machine deterministic under test. A Supervisor belongs
// to a single control loop and is not safe for concurrent use.
type Supervisor struct {
	TxInterval time.Duration
	RxTimeout  time.Duration

	lastTx time.Time
	lastRx time.Time
	state  State
}

// NewSupervisor creates a Supervisor. Zero intervals fall back to the
// defaults; a zero rxTimeout with a custom txInterval becomes five times
// the transmit interval.
func NewSupervisor(txInterval, rxTimeout time.Duration) *Supervisor {
	if txInterval <= 0 {
		txInterval = DefaultTxInterval
	}
	if rxTimeout <= 0 {
		rxTimeout = 5 * txInterval
	}
	return &Supervisor{TxInterval: txInterval, RxTimeout: rxTimeout}
}

// State returns the current health state.
func (s *Supervisor) State() State {
	return s.state
}

// Tick reports whether a heartbeat frame is due at now, and if so
// records the transmission. Transmission is unconditional: the
// controller keeps beating even while the link is unhealthy so the
// vehicle can observe recovery.
func (s *Supervisor) Tick(now time.Time) bool {
	if !s.lastTx.IsZero() && now.Sub(s.lastTx) < s.TxInterval {
		return false
	}
	s.lastTx = now
	return true
}

// OnReceive records an inbound message. Only the vehicle heartbeat id
// affects health; it reports true when the state changed.
func (s *Supervisor) OnReceive(id uint16, now time.Time) bool {
	if id != canlink.IDHeartbeatIn {
		return false
	}
	s.lastRx = now
	changed := s.state != Healthy
	s.state = Healthy
	return changed
}

// CheckTimeout latches the state to Unhealthy when the link has been
// silent for longer than RxTimeout. The receive timestamp is cleared on
// the transition so the timeout is reported once, not on every
// subsequent call.
func (s *Supervisor) CheckTimeout(now time.Time) bool {
	if s.lastRx.IsZero() {
		return false
	}
	if now.Sub(s.lastRx) <= s.RxTimeout {
		return false
	}
	s.state = Unhealthy
	s.lastRx = time.Time{}
	return true
}
