package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goran-ethernal/ChainDecoder/internal/logger"
	"github.com/goran-ethernal/ChainDecoder/pkg/config"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()

	s := NewServer(&config.MetricsConfig{Path: "/metrics"}, logger.NewNopLogger())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return string(body)
}

func TestCounters(t *testing.T) {
	EventsDecodedInc("counter-token", "Transfer")
	EventsDecodedInc("counter-token", "Transfer")
	DecodeErrorsInc("counter-token", "unknown_event")
	APIRequestsInc("/counter", http.StatusNotFound)
	DecodeDuration("counter-token", 10*time.Millisecond)

	body := scrape(t)
	require.Contains(t, body, `chaindecoder_events_decoded_total{contract="counter-token",event="Transfer"} 2`)
	require.Contains(t, body, `chaindecoder_decode_errors_total{contract="counter-token",kind="unknown_event"} 1`)
	require.Contains(t, body, `chaindecoder_api_requests_total{route="/counter",status="404"} 1`)
	require.Contains(t, body, `chaindecoder_decode_duration_seconds_count{contract="counter-token"} 1`)
}

func TestUpdateSystemMetrics(t *testing.T) {
	UpdateSystemMetrics()

	body := scrape(t)
	require.Contains(t, body, "chaindecoder_uptime_seconds")
	require.Contains(t, body, "chaindecoder_goroutines")
	require.Contains(t, body, `chaindecoder_memory_usage_bytes{type="heap_inuse"}`)
}

func TestServer_Health(t *testing.T) {
	s := NewServer(&config.MetricsConfig{Path: "/metrics"}, logger.NewNopLogger())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", string(body))
}

func TestServer_StartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewServer(&config.MetricsConfig{
		Enabled:       true,
		ListenAddress: "127.0.0.1:0",
		Path:          "/metrics",
	}, logger.NewNopLogger())

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.Addr())

	resp, err := http.Get(fmt.Sprintf("http://%s/health", s.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(ctx))
}

func TestServer_Disabled(t *testing.T) {
	s := NewServer(&config.MetricsConfig{}, logger.NewNopLogger())

	require.NoError(t, s.Start(context.Background()))
	require.Nil(t, s.Addr())
	require.NoError(t, s.Stop(context.Background()))
}
