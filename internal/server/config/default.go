// Package config provides pumpd configuration.
package config

// Default configuration values.
const (
	DefaultCommandPort = 6000
	DefaultReadBuffer  = 1024

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// DefaultChildCommand is the interpreter and script launched as the child.
func DefaultChildCommand() []string {
	return []string{"python3", "app.py"}
}

// DefaultStartPumpCommand is the program behind START_PUMP.
func DefaultStartPumpCommand() []string {
	return []string{"python", "ultrasonic.py"}
}

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Command: CommandConfig{
				Port:       DefaultCommandPort,
				ReadBuffer: DefaultReadBuffer,
			},
		},
		Child: ChildSection{
			Command: DefaultChildCommand(),
		},
		Actions: ActionsSection{
			StartPump: DefaultStartPumpCommand(),
			StopPump:  []string{},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns the defaults as a flat koanf map. The loader applies it
// as the lowest-priority layer and unmarshals into a zero ServerConfig, so a
// shorter list from a file replaces a default list instead of overlaying it.
func DefaultMap() map[string]any {
	return map[string]any{
		"server.command.port":        DefaultCommandPort,
		"server.command.read_buffer": DefaultReadBuffer,
		"server.http.addr":           "",
		"child.command":              DefaultChildCommand(),
		"actions.start_pump":         DefaultStartPumpCommand(),
		"actions.stop_pump":          []string{},
		"log.level":                  DefaultLogLevel,
		"log.format":                 DefaultLogFormat,
	}
}
