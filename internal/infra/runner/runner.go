// Package runner executes the external programs bound to pumpd actions.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/telemetry/logger"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

// ExecInvoker runs each action as a child program and waits for it.
//
// Invocations are not cancelled: the context only carries logging fields.
// Concurrent connections may run the same action concurrently.
type ExecInvoker struct {
	programs map[domain.Action][]string
	dir      string
	stdout   io.Writer
	stderr   io.Writer
	metrics  *metric.Registry
}

// Option configures an ExecInvoker.
type Option func(*ExecInvoker)

// WithDir sets the working directory for action programs.
func WithDir(dir string) Option {
	return func(e *ExecInvoker) {
		e.dir = dir
	}
}

// WithOutput redirects action program output. Both default to pumpd's own.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *ExecInvoker) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithMetrics records action counters and durations.
func WithMetrics(m *metric.Registry) Option {
	return func(e *ExecInvoker) {
		e.metrics = m
	}
}

// New creates an ExecInvoker from an action to argv table.
// An action mapped to an empty argv is a no-op.
func New(programs map[domain.Action][]string, opts ...Option) *ExecInvoker {
	cp := make(map[domain.Action][]string, len(programs))
	for a, argv := range programs {
		cp[a] = append([]string(nil), argv...)
	}
	e := &ExecInvoker{
		programs: cp,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Program returns the argv bound to action.
func (e *ExecInvoker) Program(action domain.Action) []string {
	return e.programs[action]
}

// Invoke runs the program bound to action to completion. A non-zero exit
// status is returned as an error.
func (e *ExecInvoker) Invoke(ctx context.Context, action domain.Action) error {
	log := logger.L(ctx).With("action", string(action))

	argv, ok := e.programs[action]
	if !ok {
		return fmt.Errorf("action %q not configured", action)
	}
	if len(argv) == 0 {
		log.Debug("action has no program, nothing to do")
		e.record(action, metric.ResultNoop, 0)
		return nil
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = e.dir
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	log.Debug("running action", "argv", argv)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		e.record(action, metric.ResultFailed, elapsed)
		return fmt.Errorf("run %s: %w", argv[0], err)
	}

	e.record(action, metric.ResultOK, elapsed)
	log.Info("action completed", "duration", elapsed)
	return nil
}

func (e *ExecInvoker) record(action domain.Action, result string, elapsed time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.Actions.WithLabelValues(string(action), result).Inc()
	if result != metric.ResultNoop {
		e.metrics.ActionDuration.WithLabelValues(string(action)).Observe(elapsed.Seconds())
	}
}
