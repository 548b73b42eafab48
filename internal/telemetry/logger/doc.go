// Package logger provides structured logging for pumpd.
//
// It is a thin layer over log/slog:
//
//   - logger.go: Logger interface, handler construction, runtime level changes
//   - context.go: connection IDs carried through context.Context
//   - redact.go: masking of attributes whose key names look sensitive
//
// Output is text by default (operators read it on a console) and JSON when
// log.format is "json".
package logger
