package service

import (
	"context"
	"fmt"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/telemetry/logger"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

// ActionInvoker runs the external side effect bound to an action.
//
// Invoke blocks for the full duration of the action. Implementations decide
// what an action does; an action with nothing configured is a successful
// no-op.
type ActionInvoker interface {
	Invoke(ctx context.Context, action domain.Action) error
}

// ActionInvokerFunc adapts a function to ActionInvoker.
type ActionInvokerFunc func(ctx context.Context, action domain.Action) error

// Invoke calls f.
func (f ActionInvokerFunc) Invoke(ctx context.Context, action domain.Action) error {
	return f(ctx, action)
}

// DispatchResult reports what a single dispatch did.
type DispatchResult struct {
	Command domain.Command
	Action  domain.Action
	Known   bool
	Err     error
}

// Dispatcher maps command text to actions.
type Dispatcher struct {
	invoker ActionInvoker
	metrics *metric.Registry
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchMetrics records per-command counters.
func WithDispatchMetrics(m *metric.Registry) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher creates a Dispatcher that runs actions through invoker.
func NewDispatcher(invoker ActionInvoker, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{invoker: invoker}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch interprets raw as a command and, if it is recognized, invokes the
// mapped action synchronously. Unrecognized text is logged and ignored.
// Action failures are logged and reported in the result; they never
// propagate further.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) DispatchResult {
	cmd := domain.ParseCommand(raw)
	action, known := cmd.Action()
	res := DispatchResult{Command: cmd, Action: action, Known: known}

	if d.metrics != nil {
		d.metrics.Commands.WithLabelValues(metric.CommandLabel(string(cmd), known)).Inc()
	}

	log := logger.L(ctx)
	if !known {
		log.Warn("unknown command", "command", fmt.Sprintf("%q", string(raw)), "bytes", len(raw))
		return res
	}

	log.Info("command received", "command", string(cmd), "action", string(action))
	if err := d.invoker.Invoke(ctx, action); err != nil {
		log.Error("action failed", "action", string(action), "error", err)
		res.Err = err
	}
	return res
}
