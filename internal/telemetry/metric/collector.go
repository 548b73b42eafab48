// Package metric provides Prometheus metrics for pumpd.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robojar/pumpd/internal/core/domain"
)

// StatusSource is the read-only view of the supervisor the collector needs.
type StatusSource interface {
	State() domain.State
	StartedAt() time.Time
}

// Collector reports supervisor lifecycle state and uptime at scrape time.
type Collector struct {
	src        StatusSource
	stateDesc  *prometheus.Desc
	uptimeDesc *prometheus.Desc
}

// NewCollector creates a collector reading from src.
func NewCollector(src StatusSource) *Collector {
	return &Collector{
		src: src,
		stateDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "state"),
			"Supervisor lifecycle state; the series for the current state is 1.",
			[]string{"state"}, nil,
		),
		uptimeDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Seconds since the supervisor became active.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.stateDesc
	ch <- c.uptimeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	current := c.src.State()
	for _, s := range []domain.State{
		domain.StateInit,
		domain.StateActive,
		domain.StateShuttingDown,
		domain.StateTornDown,
	} {
		v := 0.0
		if s == current {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.stateDesc, prometheus.GaugeValue, v, s.String())
	}

	uptime := 0.0
	if started := c.src.StartedAt(); !started.IsZero() {
		uptime = time.Since(started).Seconds()
	}
	ch <- prometheus.MustNewConstMetric(c.uptimeDesc, prometheus.GaugeValue, uptime)
}
