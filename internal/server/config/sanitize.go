// Package config provides pumpd configuration.
package config

import (
	"strings"

	"github.com/robojar/pumpd/internal/telemetry/logger"
)

// LogAttrs flattens cfg into slog key/value pairs for the startup log line.
// Command-line arguments of the form key=value, or --key=value, have their
// value masked when the key looks sensitive.
func LogAttrs(cfg *ServerConfig) []any {
	return []any{
		"command_port", cfg.Server.Command.Port,
		"read_buffer", cfg.Server.Command.ReadBuffer,
		"http_addr", cfg.Server.HTTP.Addr,
		"child", sanitizeArgv(cfg.Child.Command),
		"start_pump", sanitizeArgv(cfg.Actions.StartPump),
		"stop_pump", sanitizeArgv(cfg.Actions.StopPump),
		"log_level", cfg.Log.Level,
	}
}

func sanitizeArgv(argv []string) string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = maskArg(arg)
	}
	return strings.Join(out, " ")
}

func maskArg(arg string) string {
	key, _, ok := strings.Cut(arg, "=")
	if !ok || !logger.IsSensitiveKey(strings.TrimLeft(key, "-")) {
		return arg
	}
	return key + "=****"
}
