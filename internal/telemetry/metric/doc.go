// Package metric provides Prometheus metrics for pumpd.
//
//   - prometheus.go: the Registry holding every pumpd metric and its HTTP handler
//   - collector.go: a custom collector reporting supervisor state on scrape
//
// Every metric lives on a private prometheus.Registry so tests can build
// independent instances. Label values are bounded: unknown commands are
// counted under a single "unknown" label.
package metric
