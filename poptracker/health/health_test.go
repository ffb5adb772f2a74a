package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedStatus(t *testing.T) *Status {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewStatus()
	s.now = func() time.Time { return now }
	s.state.StartedAt = now.Add(-90 * time.Second)
	return s
}

func get(t *testing.T, status *Status, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	NewRouter(status).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth_Healthy(t *testing.T) {
	status := fixedStatus(t)
	status.SetReady(true)
	status.SetDiscordConnected(true)
	status.ObserveStore(nil)
	status.MarkPing()

	rec, body := get(t, status, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(90), body["uptime"])
	assert.Equal(t, true, body["discordConnected"])
	assert.Equal(t, true, body["databaseConnected"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["lastPing"])
}

func TestHealth_Unhealthy(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Status)
	}{
		{
			name:  "not ready",
			setup: func(s *Status) { s.ObserveStore(nil) },
		},
		{
			name: "store down",
			setup: func(s *Status) {
				s.SetReady(true)
				s.ObserveStore(errors.New("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := fixedStatus(t)
			tt.setup(status)

			rec, body := get(t, status, "/health")

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Equal(t, "unhealthy", body["status"])
			assert.Nil(t, body["lastPing"])
		})
	}
}

func TestHealth_UnknownPath(t *testing.T) {
	rec, _ := get(t, fixedStatus(t), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := get(t, fixedStatus(t), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

type flakyPinger struct {
	calls atomic.Int32
}

func (p *flakyPinger) Ping(context.Context) error {
	if p.calls.Add(1) == 1 {
		return errors.New("down")
	}
	return nil
}

func TestMonitor_RecordsOutcome(t *testing.T) {
	status := NewStatus()
	pinger := &flakyPinger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		status.Monitor(ctx, pinger, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return pinger.calls.Load() >= 2 && status.Snapshot().DatabaseConnected
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
