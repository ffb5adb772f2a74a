package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type response struct {
	Status            string     `json:"status"`
	Uptime            float64    `json:"uptime"`
	DiscordConnected  bool       `json:"discordConnected"`
	LastPing          *time.Time `json:"lastPing"`
	DatabaseConnected bool       `json:"databaseConnected"`
}

// NewRouter serves GET /health and GET /metrics.
func NewRouter(status *Status) chi.Router {
	r := chi.NewRouter()
	r.Get("/health", healthHandler(status))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func healthHandler(status *Status) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snap := status.Snapshot()
		resp := response{
			Status:            "healthy",
			Uptime:            status.Uptime().Seconds(),
			DiscordConnected:  snap.DiscordConnected,
			DatabaseConnected: snap.DatabaseConnected,
		}
		if !snap.LastPing.IsZero() {
			lastPing := snap.LastPing.UTC()
			resp.LastPing = &lastPing
		}

		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
			resp.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("Failed to write health response",
				slog.String("type", "health"),
				slog.Any("error", err))
		}
	}
}

// Server is the health HTTP listener.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, status *Status) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(status),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start listens in the background. Listener errors other than a clean
// shutdown are logged.
func (s *Server) Start() {
	go func() {
		slog.Info("Health server listening",
			slog.String("type", "health"),
			slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health server stopped",
				slog.String("type", "health"),
				slog.Any("error", err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
