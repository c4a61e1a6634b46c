// Package bridge runs the control loop tying the command encoder, the
// heartbeat supervisor and a transport together.
package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/minicar/canlink/pkg/canlink"
	"github.com/minicar/canlink/pkg/heartbeat"
	"github.com/minicar/canlink/pkg/motor"
)

// DefaultPollInterval bounds CPU usage and polling latency of the
// control loop.
const DefaultPollInterval = 10 * time.Millisecond

// ErrQueueFull is returned when commands are enqueued faster than the
// loop drains them. Delivery is at most once; the caller decides whether
// to re-send.
var ErrQueueFull = errors.New("bridge: command queue full")

type outbound struct {
	msg  canlink.Message
	name string
}

// Session owns a transport and the supervisor state exclusively and
// polls both cooperatively. Commands are enqueued from any goroutine via
// Drive/EmergencyStop/Config; everything else happens on the loop
// goroutine.
type Session struct {
	PollInterval time.Duration

	transport  canlink.Transport
	supervisor *heartbeat.Supervisor
	status     *Status
	sendCh     chan outbound
}

// NewSession creates a session over the given transport.
func NewSession(transport canlink.Transport, supervisor *heartbeat.Supervisor) *Session {
	if supervisor == nil {
		supervisor = heartbeat.NewSupervisor(0, 0)
	}
	return &Session{
		PollInterval: DefaultPollInterval,
		transport:    transport,
		supervisor:   supervisor,
		status:       NewStatus(),
		sendCh:       make(chan outbound, 16),
	}
}

// Status exposes the shared telemetry record.
func (s *Session) Status() *Status {
	return s.status
}

// Drive enqueues a motor command.
func (s *Session) Drive(cmd motor.Command, speed int) error {
	return s.enqueue(outbound{msg: motor.Encode(cmd, speed), name: cmd.String()})
}

// EmergencyStop enqueues the emergency stop command.
func (s *Session) EmergencyStop() error {
	return s.enqueue(outbound{msg: motor.EncodeEmergencyStop(), name: "estop"})
}

// Config enqueues a firmware configuration update.
func (s *Session) Config(maxSpeed byte, timeoutMS uint16) error {
	return s.enqueue(outbound{msg: motor.EncodeConfig(maxSpeed, timeoutMS)})
}

func (s *Session) enqueue(out outbound) error {
	select {
	case s.sendCh <- out:
		return nil
	default:
		return ErrQueueFull
	}
}

// Name implements framework.Named.
func (s *Session) Name() string {
	return "bridge"
}

// Run implements framework.Runnable. On exit, for any reason, one final
// Stop command is sent and the transport is closed.
func (s *Session) Run(ctx context.Context) error {
	s.status.setConnected(true)
	defer func() {
		s.status.setConnected(false)
		if err := s.transport.Send(motor.Encode(motor.Stop, 0)); err != nil {
			glog.Warningf("final stop not sent: %v", err)
		}
		s.transport.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.drainInbound(); err != nil {
			return err
		}

		now := time.Now()
		if s.supervisor.Tick(now) {
			if err := s.transport.Send(motor.EncodeHeartbeat()); err != nil {
				glog.Warningf("heartbeat not sent: %v", err)
			}
		}
		if s.supervisor.CheckTimeout(now) {
			glog.Warning("vehicle heartbeat timed out")
			s.status.setHeartbeatOK(false)
		}

		s.drainOutbound()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.PollInterval):
		}
	}
}

func (s *Session) drainInbound() error {
	for {
		msg, ok, err := s.transport.TryReceive()
		if err != nil {
			if err == canlink.ErrClosed {
				return err
			}
			// malformed frame or transient read failure: drop and go on
			glog.Warningf("receive: %v", err)
			return nil
		}
		if !ok {
			return nil
		}
		s.handleInbound(msg)
	}
}

func (s *Session) handleInbound(msg canlink.Message) {
	s.status.countReceived()
	if glog.V(2) {
		glog.Infof("RX id=0x%03X data=% 02X", msg.ID, msg.Data)
	}
	if msg.ID == canlink.IDHeartbeatIn {
		if s.supervisor.OnReceive(msg.ID, time.Now()) {
			glog.Info("vehicle heartbeat acquired")
		}
		s.status.setHeartbeatOK(true)
		return
	}
	// everything else is vehicle telemetry; surfaced via the log sink
	glog.V(1).Infof("telemetry id=0x%03X data=% 02X", msg.ID, msg.Data)
}

func (s *Session) drainOutbound() {
	for {
		select {
		case out := <-s.sendCh:
			if err := s.transport.Send(out.msg); err != nil {
				// at-most-once: log, never retry
				glog.Warningf("send id=0x%03X: %v", out.msg.ID, err)
				continue
			}
			if glog.V(2) {
				glog.Infof("TX id=0x%03X data=% 02X", out.msg.ID, out.msg.Data)
			}
			if out.name != "" {
				s.status.setLastCommand(out.name)
			}
		default:
			return
		}
	}
}
