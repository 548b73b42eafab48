package domain

import "sync/atomic"

// State is the supervisor lifecycle state.
//
// Transitions only move forward: Init -> Active -> ShuttingDown -> TornDown.
type State int32

const (
	StateInit State = iota
	StateActive
	StateShuttingDown
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateActive:
		return "active"
	case StateShuttingDown:
		return "shutting_down"
	case StateTornDown:
		return "torn_down"
	default:
		return "unknown"
	}
}

// ShutdownFlag is set exactly once when shutdown begins and is never reset.
// The zero value is ready to use and reads false.
type ShutdownFlag struct {
	v atomic.Bool
}

// Set raises the flag. It returns true only for the call that raised it.
func (f *ShutdownFlag) Set() bool {
	return f.v.CompareAndSwap(false, true)
}

// IsSet reports whether shutdown has begun.
func (f *ShutdownFlag) IsSet() bool {
	return f.v.Load()
}
