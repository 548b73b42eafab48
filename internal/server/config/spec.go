// Package config provides pumpd configuration.
package config

import "github.com/robojar/pumpd/internal/core/domain"

// ServerConfig is the root configuration for pumpd.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Child   ChildSection   `koanf:"child"`
	Actions ActionsSection `koanf:"actions"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the network endpoints.
type ServerSection struct {
	Command CommandConfig `koanf:"command"`
	HTTP    HTTPConfig    `koanf:"http"`
}

// CommandConfig configures the one-shot TCP command listener.
type CommandConfig struct {
	// Port is bound on all interfaces.
	Port int `koanf:"port"`

	// ReadBuffer is the size of the single read performed per connection.
	// Longer commands are truncated at this boundary.
	ReadBuffer int `koanf:"read_buffer"`
}

// HTTPConfig configures the optional status endpoint.
// An empty Addr disables it.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// ChildSection configures the supervised child process.
type ChildSection struct {
	// Command is the interpreter followed by the script, e.g. ["python3", "app.py"].
	// Working directory and environment are inherited.
	Command []string `koanf:"command"`
}

// ActionsSection maps each action to the program that implements it.
// An empty list makes the action a no-op.
type ActionsSection struct {
	StartPump []string `koanf:"start_pump"`
	StopPump  []string `koanf:"stop_pump"`
}

// Programs returns the action table keyed by domain action.
func (a ActionsSection) Programs() map[domain.Action][]string {
	return map[domain.Action][]string{
		domain.ActionStartPump: a.StartPump,
		domain.ActionStopPump:  a.StopPump,
	}
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
