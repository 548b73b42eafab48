// Package confloader loads pumpd configuration with koanf.
//
// Layers, lowest priority first:
//
//  1. Defaults (a flat map supplied by the caller)
//  2. YAML configuration file
//  3. PUMPD_* environment variables
//  4. Command-line overrides
//
// Environment keys are lower-cased and "_" becomes the key delimiter, so
// PUMPD_SERVER_COMMAND_PORT sets server.command.port. A doubled "__" stands
// for a literal underscore: PUMPD_SERVER_COMMAND_READ__BUFFER sets
// server.command.read_buffer. Keys registered with WithListKeys are split on
// whitespace, so PUMPD_CHILD_COMMAND="python3 app.py" yields a two-element list.
//
// Watcher reports writes to the configuration file so that a running
// process can pick up the settings it supports changing live.
package confloader
