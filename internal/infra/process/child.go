package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/telemetry/logger"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

// Options configure a Child.
type Options struct {
	// Argv is the program and its arguments. Argv[0] is resolved through PATH.
	Argv []string

	Dir    string
	Env    []string // appended to the inherited environment
	Stdout io.Writer
	Stderr io.Writer

	Logger  logger.Logger
	Metrics *metric.Registry
}

// ExitStatus describes how the child ended.
type ExitStatus struct {
	PID      int
	Code     int // -1 when killed by a signal
	Signal   syscall.Signal
	Err      error
	ExitedAt time.Time
}

// Child supervises one external program.
type Child struct {
	opts Options
	log  logger.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	pid     int
	started bool
	status  *ExitStatus

	exited   chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// New creates a Child. Nothing is started until Start.
func New(opts Options) *Child {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Child{
		opts:   opts,
		log:    log.With("component", "child"),
		exited: make(chan struct{}),
	}
}

// Start launches the program and records its handle.
//
// Errors wrapping domain.ErrChildUnavailable mean the program could not be
// executed (missing, not executable); callers may continue without a child.
// Errors wrapping domain.ErrChildSpawn mean the process could not be
// created at all and are fatal.
func (c *Child) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return domain.ErrChildSpawn.WithDetails("already started")
	}
	if len(c.opts.Argv) == 0 || c.opts.Argv[0] == "" {
		return domain.ErrChildSpawn.WithDetails("empty command")
	}
	c.started = true

	cmd := exec.Command(c.opts.Argv[0], c.opts.Argv[1:]...)
	cmd.Dir = c.opts.Dir
	if len(c.opts.Env) > 0 {
		cmd.Env = append(os.Environ(), c.opts.Env...)
	}
	cmd.Stdout = c.opts.Stdout
	cmd.Stderr = c.opts.Stderr
	// Own process group: a terminal ^C reaches pumpd, which then stops the
	// child itself.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		close(c.exited)
		if unavailable(err) {
			c.log.Error("child program unavailable", "argv", c.opts.Argv, "error", err)
			return domain.ErrChildUnavailable.Wrap(err)
		}
		return domain.ErrChildSpawn.Wrap(err)
	}

	c.cmd = cmd
	c.pid = cmd.Process.Pid
	if c.opts.Metrics != nil {
		c.opts.Metrics.ChildRunning.Set(1)
	}
	c.log.Info("child started", "pid", c.pid, "argv", c.opts.Argv)

	go c.reap(cmd)
	return nil
}

func unavailable(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

func (c *Child) reap(cmd *exec.Cmd) {
	err := cmd.Wait()

	st := &ExitStatus{PID: cmd.Process.Pid, Code: -1, ExitedAt: time.Now()}
	if ps := cmd.ProcessState; ps != nil {
		st.Code = ps.ExitCode()
		if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			st.Signal = ws.Signal()
		}
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		st.Err = err
	}

	c.mu.Lock()
	c.status = st
	c.pid = 0
	c.mu.Unlock()

	if c.opts.Metrics != nil {
		c.opts.Metrics.ChildRunning.Set(0)
		c.opts.Metrics.ChildExits.Inc()
	}

	args := []any{"pid", st.PID, "code", st.Code}
	if st.Signal != 0 {
		args = append(args, "signal", st.Signal.String())
	}
	if st.Err != nil {
		args = append(args, "error", st.Err)
	}
	c.log.Info("child exited", args...)

	close(c.exited)
}

// Stop sends SIGTERM to the child and blocks until it has been reaped.
// There is no escalation: a child that ignores SIGTERM blocks Stop until ctx
// is done. Stop is a no-op when no child was started and only signals once.
func (c *Child) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		c.stopErr = c.stop(ctx)
	})
	return c.stopErr
}

func (c *Child) stop(ctx context.Context) error {
	c.mu.Lock()
	pid := c.pid
	started := c.started
	c.mu.Unlock()

	if !started {
		return nil
	}

	if pid > 0 {
		c.log.Info("stopping child", "pid", pid)
		if err := unix.Kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
			return fmt.Errorf("signal child %d: %w", pid, err)
		}
	}

	select {
	case <-c.exited:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for child %d: %w", pid, ctx.Err())
	}
}

// PID returns the child's process ID, or 0 if it is not running.
func (c *Child) PID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pid
}

// Running reports whether the child is alive.
func (c *Child) Running() bool {
	return c.PID() > 0
}

// Exited returns a channel closed once the child has been reaped, or
// immediately after a failed Start.
func (c *Child) Exited() <-chan struct{} {
	return c.exited
}

// Status returns the exit status, or nil while the child is running or was
// never started.
func (c *Child) Status() *ExitStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
