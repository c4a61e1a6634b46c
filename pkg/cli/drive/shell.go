// Package drive provides the ishell backed interactive shell of carcli.
package drive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/minicar/canlink/pkg/bridge"
	"github.com/minicar/canlink/pkg/motor"
)

// Shell drives a bridge session interactively.
type Shell struct {
	Session *bridge.Session

	sh      *ishell.Shell
	label   string
	speed   int
	lastCmd motor.Command
}

const shellKey = "$shell"

// New creates a shell. label names the transport in the prompt and
// speed is the initial default speed percentage.
func New(session *bridge.Session, label string, speed int) *Shell {
	s := &Shell{
		Session: session,
		sh:      ishell.New(),
		label:   label,
		speed:   int(motor.ClampSpeed(speed)),
		lastCmd: motor.Stop,
	}
	s.sh.Set(shellKey, s)
	s.addCmds()
	s.updatePrompt()
	return s
}

func shellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func (s *Shell) updatePrompt() {
	s.sh.SetPrompt(fmt.Sprintf("[%s:%d%%] > ", s.label, s.speed))
}

func (s *Shell) addCmds() {
	for _, cmd := range []motor.Command{motor.Forward, motor.Backward, motor.TurnLeft, motor.TurnRight} {
		cmd := cmd
		s.sh.AddCmd(&ishell.Cmd{
			Name: cmd.String(),
			Help: fmt.Sprintf("%s [speed]", cmd),
			Func: func(c *ishell.Context) { shellFrom(c).drive(c, cmd) },
		})
	}
	s.sh.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "stop the motors",
		Func: func(c *ishell.Context) { shellFrom(c).drive(c, motor.Stop) },
	})
	s.sh.AddCmd(&ishell.Cmd{
		Name: "speed",
		Help: "speed <0-100|+n|-n>, adjusts and re-sends the last moving command",
		Func: func(c *ishell.Context) { shellFrom(c).setSpeed(c) },
	})
	s.sh.AddCmd(&ishell.Cmd{
		Name: "estop",
		Help: "emergency stop",
		Func: func(c *ishell.Context) {
			sh := shellFrom(c)
			if err := sh.Session.EmergencyStop(); err != nil {
				c.Err(err)
				return
			}
			sh.lastCmd = motor.Stop
			c.Println("emergency stop sent")
		},
	})
	s.sh.AddCmd(&ishell.Cmd{
		Name: "config",
		Help: "config <max-speed> <timeout-ms>",
		Func: func(c *ishell.Context) { shellFrom(c).config(c) },
	})
	s.sh.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "show link status",
		Func: func(c *ishell.Context) {
			snap := shellFrom(c).Session.Status().Snapshot()
			c.Printf("connected:   %v\n", snap.Connected)
			c.Printf("heartbeat:   %v\n", snap.HeartbeatOK)
			c.Printf("last:        %s\n", snap.LastCommand)
			c.Printf("received:    %d\n", snap.MessagesReceived)
		},
	})
}

func (s *Shell) drive(c *ishell.Context, cmd motor.Command) {
	speed := s.speed
	if len(c.Args) > 0 {
		n, err := strconv.Atoi(c.Args[0])
		if err != nil {
			c.Err(fmt.Errorf("bad speed %q", c.Args[0]))
			return
		}
		speed = n
	}
	if err := s.Session.Drive(cmd, speed); err != nil {
		c.Err(err)
		return
	}
	s.lastCmd = cmd
	if cmd.IsMoving() {
		c.Printf("%s at %d%%\n", cmd, motor.ClampSpeed(speed))
	} else {
		c.Println("stopped")
	}
}

func (s *Shell) setSpeed(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(fmt.Errorf("usage: speed <0-100|+n|-n>"))
		return
	}
	arg := c.Args[0]
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "+"))
	if err != nil {
		c.Err(fmt.Errorf("bad speed %q", arg))
		return
	}
	if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
		n += s.speed
	}
	s.speed = int(motor.ClampSpeed(n))
	s.updatePrompt()
	c.Printf("speed set to %d%%\n", s.speed)
	// keep the car moving at the new speed
	if s.lastCmd.IsMoving() {
		if err := s.Session.Drive(s.lastCmd, s.speed); err != nil {
			c.Err(err)
		}
	}
}

func (s *Shell) config(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Err(fmt.Errorf("usage: config <max-speed> <timeout-ms>"))
		return
	}
	maxSpeed, err := strconv.Atoi(c.Args[0])
	if err != nil || maxSpeed < 0 || maxSpeed > 100 {
		c.Err(fmt.Errorf("bad max speed %q", c.Args[0]))
		return
	}
	timeoutMS, err := strconv.Atoi(c.Args[1])
	if err != nil || timeoutMS < 0 || timeoutMS > 0xFFFF {
		c.Err(fmt.Errorf("bad timeout %q", c.Args[1]))
		return
	}
	if err := s.Session.Config(byte(maxSpeed), uint16(timeoutMS)); err != nil {
		c.Err(err)
		return
	}
	c.Printf("config sent: max speed %d%%, timeout %dms\n", maxSpeed, timeoutMS)
}

// Run starts the interactive shell and blocks until the user exits.
func (s *Shell) Run() {
	s.sh.Println("minicar drive shell, type 'help' for commands")
	s.sh.Run()
}
