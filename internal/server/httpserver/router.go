package httpserver

import (
	"net/http"
	"time"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/telemetry/logger"
)

// StatusSource reports the supervisor's lifecycle for /healthz.
type StatusSource interface {
	State() domain.State
	StartedAt() time.Time
	ChildPID() int
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Status  StatusSource
	Metrics http.Handler
	Logger  logger.Logger
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status        string  `json:"status" yaml:"status"`
	State         string  `json:"state" yaml:"state"`
	ChildPID      int     `json:"child_pid,omitempty" yaml:"child_pid,omitempty"`
	ChildRunning  bool    `json:"child_running" yaml:"child_running"`
	UptimeSeconds float64 `json:"uptime_seconds" yaml:"uptime_seconds"`
	Time          string  `json:"time" yaml:"time"`
}

// NewRouter builds the status routes.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(cfg.Status))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return Chain(mux, RequestID(), Recover(log), AccessLog(log))
}

// healthHandler answers 200 while the supervisor is active and 503 otherwise.
func healthHandler(src StatusSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		state := src.State()
		pid := src.ChildPID()

		resp := HealthResponse{
			Status:       "ok",
			State:        state.String(),
			ChildPID:     pid,
			ChildRunning: pid > 0,
			Time:         now.UTC().Format(time.RFC3339),
		}
		if started := src.StartedAt(); !started.IsZero() {
			resp.UptimeSeconds = now.Sub(started).Seconds()
		}

		status := http.StatusOK
		if state != domain.StateActive {
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	})
}
