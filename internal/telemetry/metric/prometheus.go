// Package metric provides Prometheus metrics for pumpd.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pumpd"

// Result label values for action metrics.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
	ResultNoop   = "noop"
)

// UnknownCommand is the label used for any unrecognized command text.
const UnknownCommand = "unknown"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Command listener
	ConnectionsAccepted prometheus.Counter
	AcceptErrors        prometheus.Counter
	Commands            *prometheus.CounterVec

	// External actions
	Actions        *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec

	// Child process
	ChildRunning prometheus.Gauge
	ChildExits   prometheus.Counter

	// Shutdown
	ShutdownSignals prometheus.Counter
}

// NewRegistry creates a registry with every pumpd metric plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Connections accepted on the command port.",
		}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_errors_total",
			Help:      "Accept failures on the command port, excluding shutdown.",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands read from connections, by command text.",
		}, []string{"command"}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "External action invocations, by action and result.",
		}, []string{"action", "result"}),
		ActionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Wall time of external action invocations.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"action"}),
		ChildRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "child_running",
			Help:      "1 while the supervised child process is alive.",
		}),
		ChildExits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "child_exits_total",
			Help:      "Child process exits observed by the reaper.",
		}),
		ShutdownSignals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shutdown_signals_total",
			Help:      "Termination signals received, including repeats.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsAccepted,
		r.AcceptErrors,
		r.Commands,
		r.Actions,
		r.ActionDuration,
		r.ChildRunning,
		r.ChildExits,
		r.ShutdownSignals,
	)

	return r
}

// Register adds a custom collector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry in the Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// CommandLabel maps command text to a bounded label value.
func CommandLabel(cmd string, known bool) string {
	if !known {
		return UnknownCommand
	}
	return cmd
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry, created on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
