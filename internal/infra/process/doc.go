// Package process owns the single child program launched by pumpd.
//
// A Child is started once, reaped by a background goroutine as soon as it
// exits, and stopped at most once with SIGTERM followed by an unbounded wait
// for the reaper. The child inherits pumpd's stdout, stderr, environment and
// working directory unless Options say otherwise. There is no restart.
package process
