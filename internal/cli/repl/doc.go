// Package repl provides pumpctl's interactive shell.
//
// Every line typed is sent to pumpd as one command over its own connection,
// with the line ending stripped and nothing else changed. A few words are
// handled locally: help, history, exit and quit.
package repl
