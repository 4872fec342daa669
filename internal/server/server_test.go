package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mdzio/go-logging"
	"github.com/stretchr/testify/require"

	"github.com/strefethen/sonos-transport/internal/config"
	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

type faultingExecutor struct {
	err error
}

func (e faultingExecutor) Execute(ctx context.Context, req soap.ActionRequest) ([]byte, error) {
	return nil, e.err
}

func testConfig() config.Config {
	return config.Config{
		Host:             "127.0.0.1",
		Port:             "0",
		DeviceHost:       "10.0.0.2",
		SonosTimeoutMs:   1000,
		RequestTimeoutMs: 2000,
		LogLevel:         logging.InfoLevel,
	}
}

func serve(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestNewHandlerHealth(t *testing.T) {
	handler, shutdown, err := NewHandler(testConfig(), Options{Executor: faultingExecutor{}})
	require.NoError(t, err)
	defer func() { require.NoError(t, shutdown(context.Background())) }()

	rec, payload := serve(t, handler, http.MethodGet, "/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "healthy", payload["status"])
	require.Equal(t, "http://10.0.0.2:1400/MediaRenderer/AVTransport/Control", payload["control_url"])
	require.NotEmpty(t, rec.Header().Get("x-request-id"))
}

func TestNewHandlerMapsDeviceFault(t *testing.T) {
	exec := faultingExecutor{err: &soap.DeviceFault{Action: "Pause", Code: 701, Description: "Transition not available"}}
	handler, _, err := NewHandler(testConfig(), Options{Executor: exec})
	require.NoError(t, err)

	rec, payload := serve(t, handler, http.MethodPost, "/v1/transport/pause/", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "SONOS_REJECTED", payload["error"].(map[string]any)["code"])
}

// stalledExecutor blocks until the request deadline passes.
type stalledExecutor struct{}

func (stalledExecutor) Execute(ctx context.Context, req soap.ActionRequest) ([]byte, error) {
	<-ctx.Done()
	return nil, &soap.TransportError{Action: req.Action(), Err: ctx.Err()}
}

type headerCounter struct {
	*httptest.ResponseRecorder
	calls int
}

func (h *headerCounter) WriteHeader(code int) {
	h.calls++
	h.ResponseRecorder.WriteHeader(code)
}

func TestNewHandlerRequestDeadline(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeoutMs = 30
	handler, _, err := NewHandler(cfg, Options{Executor: stalledExecutor{}})
	require.NoError(t, err)

	rec := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transport/stop", nil))

	require.Equal(t, 1, rec.calls)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "SONOS_TIMEOUT", payload["error"].(map[string]any)["code"])
}

func TestNewHandlerNotFound(t *testing.T) {
	handler, _, err := NewHandler(testConfig(), Options{Executor: faultingExecutor{}})
	require.NoError(t, err)

	rec, payload := serve(t, handler, http.MethodGet, "/v1/nothing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", payload["error"].(map[string]any)["code"])
}

func TestNewHandlerRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule = []config.ScheduleEntry{{Cron: "0 7 * * *", Action: "teleport"}}

	_, _, err := NewHandler(cfg, Options{Executor: faultingExecutor{}})
	require.ErrorContains(t, err, "unknown schedule action")
}

func TestNewHandlerRequiresDeviceHost(t *testing.T) {
	cfg := testConfig()
	cfg.DeviceHost = ""

	_, _, err := NewHandler(cfg, Options{Executor: faultingExecutor{}})
	require.Error(t, err)
}
