// Package shutdown turns termination signals into an orderly teardown.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Signals are the signals treated as a shutdown request.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// Handler handles graceful shutdown.
type Handler struct {
	timeout   time.Duration
	hooks     []func(context.Context) error
	onSignal  []func(os.Signal, int)
	mu        sync.Mutex
	sigCh     chan os.Signal
	requested chan struct{}
	reqOnce   sync.Once
	notify    sync.Once
	stopOnce  sync.Once
	runOnce   sync.Once
	stopCh    chan struct{}
	done      chan struct{}
	signal    os.Signal
	count     int
	err       error
}

// NewHandler creates a new shutdown handler. A zero timeout leaves the hook
// context without a deadline.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout:   timeout,
		hooks:     make([]func(context.Context) error, 0),
		sigCh:     make(chan os.Signal, 4),
		requested: make(chan struct{}),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// OnSignal registers a callback run for every received shutdown signal with
// the running count of signals seen, starting at 1.
func (h *Handler) OnSignal(fn func(sig os.Signal, count int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSignal = append(h.onSignal, fn)
}

// Notify installs the signal handler. It is idempotent and should be called
// as early as possible so that a signal arriving during startup is not lost.
// The handler stays installed until Stop so that later signals do not fall
// back to the default action and kill the process mid-teardown.
func (h *Handler) Notify() {
	h.notify.Do(func() {
		signal.Notify(h.sigCh, Signals...)
		go h.loop()
	})
}

func (h *Handler) loop() {
	for {
		select {
		case sig := <-h.sigCh:
			h.mu.Lock()
			h.count++
			n := h.count
			if h.signal == nil {
				h.signal = sig
			}
			callbacks := make([]func(os.Signal, int), len(h.onSignal))
			copy(callbacks, h.onSignal)
			h.mu.Unlock()

			for _, cb := range callbacks {
				cb(sig, n)
			}
			h.request()
		case <-h.stopCh:
			return
		}
	}
}

// Trigger requests shutdown without a signal.
func (h *Handler) Trigger() {
	h.request()
}

func (h *Handler) request() {
	h.reqOnce.Do(func() { close(h.requested) })
}

// Requested returns a channel closed once shutdown has been requested.
func (h *Handler) Requested() <-chan struct{} {
	return h.requested
}

// Signal returns the first shutdown signal received, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.signal
}

// SignalCount returns how many shutdown signals have been received.
func (h *Handler) SignalCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Wait blocks until shutdown is requested by a signal, Trigger, or ctx, then
// runs the hooks. The hooks run at most once; concurrent and later callers
// wait for that run and receive its result.
func (h *Handler) Wait(ctx context.Context) error {
	h.Notify()

	select {
	case <-h.requested:
	case <-ctx.Done():
		h.request()
	}

	h.runOnce.Do(func() {
		h.err = h.runHooks()
		close(h.done)
	})
	<-h.done
	return h.err
}

func (h *Handler) runHooks() error {
	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	h.mu.Lock()
	hooks := make([]func(context.Context) error, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// Stop uninstalls the signal handler.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigCh)
		close(h.stopCh)
	})
}
