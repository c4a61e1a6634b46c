package bridge

import (
	"strings"
	"sync"
	"time"
)

// Status is the shared telemetry record of a session. The control loop
// writes it and the web/telemetry readers snapshot it concurrently, so
// every access goes through the mutex.
type Status struct {
	mu          sync.Mutex
	connected   bool
	lastCommand string
	heartbeatOK bool
	received    uint64
}

// Snapshot is a point-in-time copy of Status, shaped like the /status
// JSON document.
type Snapshot struct {
	Connected        bool   `json:"connected"`
	LastCommand      string `json:"last_command"`
	HeartbeatOK      bool   `json:"heartbeat_ok"`
	MessagesReceived uint64 `json:"messages_received"`
	Timestamp        int64  `json:"timestamp"`
}

// NewStatus creates a Status with the initial last command.
func NewStatus() *Status {
	return &Status{lastCommand: "STOP"}
}

// Snapshot copies the record under the lock.
func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Connected:        s.connected,
		LastCommand:      s.lastCommand,
		HeartbeatOK:      s.heartbeatOK,
		MessagesReceived: s.received,
		Timestamp:        time.Now().Unix(),
	}
}

func (s *Status) setConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.mu.Unlock()
}

func (s *Status) setLastCommand(name string) {
	s.mu.Lock()
	s.lastCommand = strings.ToUpper(name)
	s.mu.Unlock()
}

func (s *Status) setHeartbeatOK(ok bool) {
	s.mu.Lock()
	s.heartbeatOK = ok
	s.mu.Unlock()
}

func (s *Status) countReceived() {
	s.mu.Lock()
	s.received++
	s.mu.Unlock()
}
