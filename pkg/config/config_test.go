package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "serial", conf.Transport.Kind)
	require.Equal(t, "/dev/ttyUSB0", conf.Transport.Device)
	require.Equal(t, 115200, conf.Transport.BaudRate)
	require.Equal(t, time.Second, conf.Heartbeat.TxInterval)
	require.Equal(t, 5*time.Second, conf.Heartbeat.RxTimeout)
	require.Equal(t, ":5000", conf.HTTP.Listen)
	require.Empty(t, conf.MQTT.Broker)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carwebd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transport:
  kind: can
  device: can0
heartbeat:
  tx_interval: 500ms
  rx_timeout: 3s
http:
  listen: ":8080"
mqtt:
  broker: mqtt://broker.local/fleet
`), 0o644))

	conf, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "can", conf.Transport.Kind)
	require.Equal(t, "can0", conf.Transport.Device)
	require.Equal(t, 500*time.Millisecond, conf.Heartbeat.TxInterval)
	require.Equal(t, 3*time.Second, conf.Heartbeat.RxTimeout)
	require.Equal(t, ":8080", conf.HTTP.Listen)
	require.Equal(t, "mqtt://broker.local/fleet", conf.MQTT.Broker)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestOpenDemoTransport(t *testing.T) {
	tr, err := TransportConfig{Kind: "demo"}.Open()
	require.NoError(t, err)
	require.NoError(t, tr.Close())
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := TransportConfig{Kind: "carrier-pigeon"}.Open()
	require.Error(t, err)
}
