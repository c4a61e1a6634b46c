// Package config loads the carwebd configuration file and builds the
// transport it describes.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/minicar/canlink/pkg/canlink"
	"github.com/minicar/canlink/pkg/canlink/serialbridge"
	"github.com/minicar/canlink/pkg/canlink/socketcan"
)

// Config collects runtime settings for carwebd.
type Config struct {
	Transport TransportConfig `mapstructure:"transport"`
	Heartbeat HeartbeatConfig `mapstructure:"heartbeat"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
}

// TransportConfig selects and parameterizes the vehicle link.
type TransportConfig struct {
	// Kind is one of "serial", "can" or "demo".
	Kind string `mapstructure:"kind"`
	// Device is the serial device path or the CAN interface name.
	Device string `mapstructure:"device"`
	// BaudRate applies to the serial bridge only.
	BaudRate int `mapstructure:"baud_rate"`
}

// HeartbeatConfig tunes the liveness supervisor.
type HeartbeatConfig struct {
	TxInterval time.Duration `mapstructure:"tx_interval"`
	RxTimeout  time.Duration `mapstructure:"rx_timeout"`
}

// HTTPConfig configures the web control server.
type HTTPConfig struct {
	Listen string `mapstructure:"listen"`
}

// MQTTConfig configures the optional telemetry publisher. An empty
// broker disables it.
type MQTTConfig struct {
	Broker   string        `mapstructure:"broker"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads the YAML config at path. Any value can be overridden via
// MINICAR_* environment variables (MINICAR_TRANSPORT_DEVICE, ...). An
// empty path yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("transport.kind", "serial")
	v.SetDefault("transport.device", "/dev/ttyUSB0")
	v.SetDefault("transport.baud_rate", serialbridge.DefaultBaudRate)
	v.SetDefault("heartbeat.tx_interval", "1s")
	v.SetDefault("heartbeat.rx_timeout", "5s")
	v.SetDefault("http.listen", ":5000")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.interval", "1s")

	v.SetEnvPrefix("MINICAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &conf, nil
}

// Open builds the transport described by the config.
func (c TransportConfig) Open() (canlink.Transport, error) {
	switch c.Kind {
	case "serial":
		return serialbridge.Open(c.Device, c.BaudRate)
	case "can":
		return socketcan.Open(c.Device)
	case "demo":
		return canlink.Demo(), nil
	default:
		return nil, fmt.Errorf("config: unknown transport kind %q", c.Kind)
	}
}
