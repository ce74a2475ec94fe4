package monitor_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robalyx/leo/internal/metrics"
	"github.com/robalyx/leo/internal/monitor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pinger struct {
	err error
}

func (p pinger) PingContext(context.Context) error {
	return p.err
}

func serve(t *testing.T, s *monitor.Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	healthy := monitor.NewServer(":0", pinger{}, zap.NewNop())
	unhealthy := monitor.NewServer(":0", pinger{err: errors.New("connection refused")}, zap.NewNop())

	tests := []struct {
		name     string
		server   *monitor.Server
		path     string
		wantCode int
		wantBody string
	}{
		{name: "live", server: healthy, path: "/health/live", wantCode: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "ready", server: healthy, path: "/health/ready", wantCode: http.StatusOK, wantBody: `"status":"ready"`},
		{
			name:     "not ready",
			server:   unhealthy,
			path:     "/health/ready",
			wantCode: http.StatusServiceUnavailable,
			wantBody: `"failed_check":"postgres"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, tt.server, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	metrics.GrantsTotal.WithLabelValues("reaction").Inc()

	rec := serve(t, monitor.NewServer(":0", pinger{}, zap.NewNop()), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leo_reputation_grants_total")
}
