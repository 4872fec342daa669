package sonos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mdzio/go-logging"
	"github.com/stretchr/testify/require"

	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

// Test configuration (environment variables)
const (
	// LOG_LEVEL: OFF, ERROR, WARNING, INFO, DEBUG, TRACE

	// hostname or IP address of a renderer to query, e.g. 192.168.0.20
	deviceHost = "DEVICE_HOST"
)

func init() {
	var l logging.LogLevel
	if err := l.Set(os.Getenv("LOG_LEVEL")); err == nil {
		logging.SetLevel(l)
	}
}

func deviceAddr(t *testing.T) string {
	host := os.Getenv(deviceHost)
	if len(host) == 0 {
		t.Skip("environment variable " + deviceHost + " not set")
	}
	return host
}

// TestDeviceQueries only reads state, playback is left untouched.
func TestDeviceQueries(t *testing.T) {
	host := deviceAddr(t)
	tr, err := NewAVTransportForHost(soap.NewClient(5*time.Second), host)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	snapshot, err := FetchSnapshot(ctx, tr)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot.TransportInfo.CurrentTransportState)
	require.Empty(t, snapshot.Errors)

	_, err = snapshot.TransportSettings.Mode()
	require.NoError(t, err)
}
