package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/minicar/canlink/pkg/bridge"
	"github.com/minicar/canlink/pkg/config"
	"github.com/minicar/canlink/pkg/framework"
	"github.com/minicar/canlink/pkg/heartbeat"
	"github.com/minicar/canlink/pkg/telemetry/mqtt"
	"github.com/minicar/canlink/pkg/web"
)

var configPath = flag.String("config", "", "Path to the YAML configuration file.")

func main() {
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		glog.Exit(err)
	}
	transport, err := conf.Transport.Open()
	if err != nil {
		glog.Exitf("open transport: %v", err)
	}

	session := bridge.NewSession(transport,
		heartbeat.NewSupervisor(conf.Heartbeat.TxInterval, conf.Heartbeat.RxTimeout))

	runner := framework.NewRunner().HandleSignals().
		Go(session, web.NewServer(conf.HTTP.Listen, session))

	if conf.MQTT.Broker != "" {
		pub, err := mqtt.NewPublisher(conf.MQTT.Broker, session.Status())
		if err != nil {
			glog.Exitf("telemetry: %v", err)
		}
		if conf.MQTT.Interval > 0 {
			pub.Interval = conf.MQTT.Interval
		}
		runner.Go(pub)
	}

	glog.Infof("web control on %s", conf.HTTP.Listen)
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
