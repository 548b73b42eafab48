// Package httpserver provides pumpd's optional status endpoint.
//
// It is disabled unless server.http.addr is set and serves two routes:
//
//	GET /metrics  Prometheus exposition of the pumpd registry
//	GET /healthz  JSON lifecycle state, child PID and uptime
//
// The endpoint is read-only; commands are only accepted on the TCP command
// port.
package httpserver
