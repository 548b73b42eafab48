// Package main provides the entry point for pumpd.
//
// pumpd launches the pump controller application as a child process, accepts
// one-shot commands such as START_PUMP on a TCP port, and on SIGINT or
// SIGTERM stops and reaps the child before exiting. It exits 0 after an
// orderly shutdown and 1 when startup fails.
package main
