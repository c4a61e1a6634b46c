// Package web exposes the HTTP control surface of carwebd: motor
// commands, emergency stop, firmware config and status telemetry.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/minicar/canlink/pkg/bridge"
	"github.com/minicar/canlink/pkg/framework"
	"github.com/minicar/canlink/pkg/motor"
)

// DefaultSpeed is applied when a command request omits the speed field,
// matching the firmware's power-on default.
const DefaultSpeed = 50

type commandRequest struct {
	Command string `json:"command"`
	Speed   *int   `json:"speed"`
}

type configRequest struct {
	MaxSpeed  *int `json:"max_speed"`
	TimeoutMS *int `json:"timeout_ms"`
}

// Server runs the HTTP API bound to a bridge session.
type Server struct {
	Addr string

	engine *gin.Engine
}

// NewServer creates the server listening on addr.
func NewServer(addr string, session *bridge.Session) *Server {
	return &Server{Addr: addr, engine: NewRouter(session)}
}

// NewRouter builds the gin engine. Split out so tests can drive it with
// httptest without a listener.
func NewRouter(session *bridge.Session) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(controlPage))
	})

	r.POST("/command", func(c *gin.Context) {
		var req commandRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		cmd, err := motor.ParseCommand(req.Command)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid command"})
			return
		}
		speed := DefaultSpeed
		if req.Speed != nil {
			speed = *req.Speed
		}
		if cmd == motor.Stop {
			speed = 0
		}
		if err := session.Drive(cmd, speed); err != nil {
			glog.Warningf("command %s not queued: %v", cmd, err)
			c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "CAN send failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"command": cmd.String(),
			"speed":   int(motor.ClampSpeed(speed)),
		})
	})

	r.POST("/estop", func(c *gin.Context) {
		if err := session.EmergencyStop(); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "CAN send failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	r.POST("/config", func(c *gin.Context) {
		var req configRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		maxSpeed, timeoutMS := 100, 1000
		if req.MaxSpeed != nil {
			maxSpeed = *req.MaxSpeed
		}
		if req.TimeoutMS != nil {
			timeoutMS = *req.TimeoutMS
		}
		if maxSpeed < 0 || maxSpeed > 100 || timeoutMS < 0 || timeoutMS > 0xFFFF {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid config"})
			return
		}
		if err := session.Config(byte(maxSpeed), uint16(timeoutMS)); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "CAN send failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"max_speed":  maxSpeed,
			"timeout_ms": timeoutMS,
		})
	})

	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, session.Status().Snapshot())
	})

	r.GET("/ws", gin.WrapH(statusStream(session.Status())))

	return r
}

// statusStream pushes one status snapshot per second until the peer
// goes away.
func statusStream(status *bridge.Status) websocket.Handler {
	return func(ws *websocket.Conn) {
		defer ws.Close()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			payload, err := json.Marshal(status.Snapshot())
			if err != nil {
				return
			}
			if err := websocket.Message.Send(ws, string(payload)); err != nil {
				return
			}
			<-ticker.C
		}
	}
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "web"
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.engine}
	glog.Infof("web control listening on %s", s.Addr)
	return framework.RunWithContextCancel(ctx, func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}, func() error {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}
