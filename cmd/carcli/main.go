package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/minicar/canlink/pkg/bridge"
	"github.com/minicar/canlink/pkg/canlink/serialbridge"
	"github.com/minicar/canlink/pkg/cli/drive"
	"github.com/minicar/canlink/pkg/config"
	"github.com/minicar/canlink/pkg/framework"
	"github.com/minicar/canlink/pkg/heartbeat"
)

var (
	transportKind = flag.String("transport", "serial", "Vehicle link: serial, can or demo.")
	device        = flag.String("device", "/dev/ttyUSB0", "Serial device or CAN interface name.")
	baudRate      = flag.Int("baud", serialbridge.DefaultBaudRate, "Serial line rate.")
	speed         = flag.Int("speed", 50, "Initial speed percentage.")
	txInterval    = flag.Duration("heartbeat-interval", heartbeat.DefaultTxInterval, "Heartbeat send interval.")
	rxTimeout     = flag.Duration("heartbeat-timeout", heartbeat.DefaultRxTimeout, "Vehicle heartbeat timeout.")
)

func main() {
	flag.Parse()

	transport, err := config.TransportConfig{
		Kind:     *transportKind,
		Device:   *device,
		BaudRate: *baudRate,
	}.Open()
	if err != nil {
		glog.Exitf("open transport: %v", err)
	}

	session := bridge.NewSession(transport, heartbeat.NewSupervisor(*txInterval, *rxTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	runner := framework.NewRunnerWith(ctx).HandleSignals().Go(session)

	// push the boot configuration the firmware expects
	if err := session.Config(100, 1000); err != nil {
		glog.Warningf("initial config not sent: %v", err)
	}

	drive.New(session, *transportKind, *speed).Run()

	cancel()
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
