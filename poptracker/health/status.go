package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Snapshot is a point in time copy of a Status.
type Snapshot struct {
	Ready             bool
	DiscordConnected  bool
	DatabaseConnected bool
	LastPing          time.Time
	StartedAt         time.Time
}

// Status is the process health shared by the bot, the progress service and
// the HTTP server. The zero value is not usable; use NewStatus.
type Status struct {
	mu    sync.RWMutex
	state Snapshot
	now   func() time.Time
}

func NewStatus() *Status {
	s := &Status{now: time.Now}
	s.state.StartedAt = s.now()
	return s
}

func (s *Status) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Ready = ready
}

func (s *Status) SetDiscordConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DiscordConnected != connected {
		slog.Info("Discord connection changed",
			slog.String("type", "health"),
			slog.Bool("connected", connected))
	}
	s.state.DiscordConnected = connected
}

// MarkPing records a heartbeat from the chat gateway.
func (s *Status) MarkPing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastPing = s.now()
}

// ObserveStore updates the database flag from the outcome of a store call.
func (s *Status) ObserveStore(err error) {
	connected := err == nil
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DatabaseConnected != connected {
		attrs := []any{slog.String("type", "health"), slog.Bool("connected", connected)}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}
		slog.Warn("Database connection changed", attrs...)
	}
	s.state.DatabaseConnected = connected
}

func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Healthy reports whether the process is ready and its store reachable.
func (s *Status) Healthy() bool {
	snap := s.Snapshot()
	return snap.Ready && snap.DatabaseConnected
}

// Uptime is the time since NewStatus.
func (s *Status) Uptime() time.Duration {
	return s.now().Sub(s.Snapshot().StartedAt)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor pings p immediately and then every interval until ctx is done,
// recording each outcome with ObserveStore.
func (s *Status) Monitor(ctx context.Context, p Pinger, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		s.ObserveStore(p.Ping(pingCtx))
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
