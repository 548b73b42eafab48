// Package config provides pumpd configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/telemetry/logger"
)

// MaxReadBuffer caps server.command.read_buffer.
const MaxReadBuffer = 64 * 1024

// Verify validates the configuration. The returned error matches
// domain.ErrInvalidConfig.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyServer(&cfg.Server)...)
	errs = append(errs, verifyChild(&cfg.Child)...)
	errs = append(errs, verifyLog(&cfg.Log)...)

	if err := errors.Join(errs...); err != nil {
		return domain.ErrInvalidConfig.Wrap(err)
	}
	return nil
}

func verifyServer(cfg *ServerSection) []error {
	var errs []error
	if cfg.Command.Port < 1 || cfg.Command.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.command.port must be in 1..65535, got %d", cfg.Command.Port))
	}
	if cfg.Command.ReadBuffer < 1 || cfg.Command.ReadBuffer > MaxReadBuffer {
		errs = append(errs, fmt.Errorf("server.command.read_buffer must be in 1..%d, got %d", MaxReadBuffer, cfg.Command.ReadBuffer))
	}
	if cfg.HTTP.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
			errs = append(errs, fmt.Errorf("server.http.addr: %w", err))
		}
	}
	return errs
}

func verifyChild(cfg *ChildSection) []error {
	if len(cfg.Command) == 0 || strings.TrimSpace(cfg.Command[0]) == "" {
		return []error{errors.New("child.command is required")}
	}
	return nil
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level))
	}
	switch strings.ToLower(cfg.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", cfg.Format))
	}
	return errs
}
