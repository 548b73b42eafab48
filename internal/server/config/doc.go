// Package config provides pumpd configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values, as a struct and as a koanf map
//   - verify.go: validation run before anything is started
//   - sanitize.go: flattening for the startup log line, with secrets masked
//
// Configuration is loaded via internal/infra/confloader from defaults, an
// optional YAML file, PUMPD_* environment variables and command-line flags.
package config
