package supervisor

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/core/service"
	"github.com/robojar/pumpd/internal/infra/process"
	"github.com/robojar/pumpd/internal/infra/runner"
	"github.com/robojar/pumpd/internal/infra/shutdown"
	"github.com/robojar/pumpd/internal/server/cmdserver"
	"github.com/robojar/pumpd/internal/server/config"
	"github.com/robojar/pumpd/internal/server/httpserver"
	"github.com/robojar/pumpd/internal/telemetry/logger"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

// Options configure a Supervisor.
type Options struct {
	Config *config.ServerConfig

	// Invoker runs actions. Defaults to a runner.ExecInvoker built from
	// Config.Actions.
	Invoker service.ActionInvoker

	// Shutdown receives termination signals. Defaults to a handler with no
	// teardown deadline.
	Shutdown *shutdown.Handler

	Metrics *metric.Registry
	Logger  logger.Logger
}

// Supervisor is the pumpd context object.
type Supervisor struct {
	cfg      *config.ServerConfig
	log      logger.Logger
	metrics  *metric.Registry
	shutdown *shutdown.Handler

	flag      domain.ShutdownFlag
	state     atomic.Int32
	startedAt atomic.Int64

	child    *process.Child
	listener *cmdserver.Server
	status   *httpserver.Server
	invoker  service.ActionInvoker

	ready     chan struct{}
	readyOnce sync.Once
	ran       atomic.Bool
}

// New creates a Supervisor. Nothing runs until Run.
func New(opts Options) *Supervisor {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metric.Global()
	}
	h := opts.Shutdown
	if h == nil {
		h = shutdown.NewHandler(0)
	}
	inv := opts.Invoker
	if inv == nil {
		inv = runner.New(cfg.Actions.Programs(), runner.WithMetrics(reg))
	}

	s := &Supervisor{
		cfg:      cfg,
		log:      log,
		metrics:  reg,
		shutdown: h,
		invoker:  inv,
		ready:    make(chan struct{}),
	}
	s.state.Store(int32(domain.StateInit))

	s.child = process.New(process.Options{
		Argv:    cfg.Child.Command,
		Logger:  log,
		Metrics: reg,
	})

	d := service.NewDispatcher(inv, service.WithDispatchMetrics(reg))
	s.listener = cmdserver.New(cmdserver.Config{
		Port:       cfg.Server.Command.Port,
		ReadBuffer: cfg.Server.Command.ReadBuffer,
	}, d, &s.flag, cmdserver.WithLogger(log), cmdserver.WithMetrics(reg))

	if err := reg.Register(metric.NewCollector(s)); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			log.Warn("status collector not registered", "error", err)
		}
	}

	return s
}

// Run starts every component and blocks until shutdown completes.
//
// It returns nil after an orderly teardown, whether triggered by SIGINT,
// SIGTERM, Shutdown or ctx. Fatal startup failures (the child process
// cannot be created, a socket cannot be bound) are returned after releasing
// whatever was already started.
func (s *Supervisor) Run(ctx context.Context) error {
	if !s.ran.CompareAndSwap(false, true) {
		return errors.New("supervisor: Run called twice")
	}

	// Signals are handled from the very start; one arriving during startup
	// is acted on once Wait is reached.
	s.shutdown.Notify()
	defer s.shutdown.Stop()
	s.shutdown.OnSignal(s.onSignal)

	if err := s.child.Start(); err != nil {
		if !errors.Is(err, domain.ErrChildUnavailable) {
			return err
		}
		s.log.Warn("continuing without child process", "argv", s.cfg.Child.Command, "error", err)
	}

	if err := s.listener.Listen(ctx); err != nil {
		s.stopChild(context.Background())
		return err
	}

	if addr := s.cfg.Server.HTTP.Addr; addr != "" {
		s.status = httpserver.New(addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Status:  s,
			Metrics: s.metrics.Handler(),
			Logger:  s.log,
		}))
		if err := s.status.Listen(ctx); err != nil {
			_ = s.listener.Close()
			s.stopChild(context.Background())
			return err
		}
		go func() {
			if err := s.status.Serve(); err != nil {
				s.log.Error("status server stopped", "error", err)
			}
		}()
		s.log.Info("status endpoint listening", "address", s.status.Addr().String())
	}

	// Hooks run in reverse: flag, child, listener, status server.
	if s.status != nil {
		s.shutdown.OnShutdown(s.status.Shutdown)
	}
	s.shutdown.OnShutdown(func(context.Context) error {
		return s.listener.Close()
	})
	s.shutdown.OnShutdown(func(ctx context.Context) error {
		return s.child.Stop(ctx)
	})
	s.shutdown.OnShutdown(func(context.Context) error {
		s.flag.Set()
		s.setState(domain.StateShuttingDown)
		s.log.Info("shutdown started")
		return nil
	})

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- s.listener.Serve()
	}()

	s.startedAt.Store(time.Now().UnixNano())
	s.setState(domain.StateActive)
	s.readyOnce.Do(func() { close(s.ready) })
	s.log.Info("pumpd active",
		"command_addr", s.listener.Addr().String(),
		"child_pid", s.child.PID(),
	)

	err := s.shutdown.Wait(ctx)
	if serveErr := <-serveDone; serveErr != nil {
		err = errors.Join(err, serveErr)
	}

	s.setState(domain.StateTornDown)
	if err != nil {
		s.log.Error("shutdown finished with errors", "error", err)
		return err
	}
	s.log.Info("shutdown complete")
	return nil
}

func (s *Supervisor) onSignal(sig os.Signal, count int) {
	s.metrics.ShutdownSignals.Inc()
	if count == 1 {
		s.log.Info("shutdown signal received", "signal", sig.String())
		return
	}
	s.log.Warn("shutdown already in progress, signal ignored", "signal", sig.String(), "count", count)
}

func (s *Supervisor) stopChild(ctx context.Context) {
	if err := s.child.Stop(ctx); err != nil {
		s.log.Error("stop child failed", "error", err)
	}
}

func (s *Supervisor) setState(st domain.State) {
	s.state.Store(int32(st))
}

// Shutdown requests an orderly shutdown, as a signal would.
func (s *Supervisor) Shutdown() {
	s.shutdown.Trigger()
}

// Ready returns a channel closed once the supervisor is active.
func (s *Supervisor) Ready() <-chan struct{} {
	return s.ready
}

// Flag returns the shutdown flag.
func (s *Supervisor) Flag() *domain.ShutdownFlag {
	return &s.flag
}

// State returns the lifecycle state.
func (s *Supervisor) State() domain.State {
	return domain.State(s.state.Load())
}

// StartedAt returns when the supervisor became active, or the zero time.
func (s *Supervisor) StartedAt() time.Time {
	ns := s.startedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ChildPID returns the child's process ID, or 0 when there is no live child.
func (s *Supervisor) ChildPID() int {
	return s.child.PID()
}

// CommandAddr returns the command listener address once bound.
func (s *Supervisor) CommandAddr() net.Addr {
	return s.listener.Addr()
}

// StatusAddr returns the status endpoint address, or nil when disabled.
func (s *Supervisor) StatusAddr() net.Addr {
	if s.status == nil {
		return nil
	}
	return s.status.Addr()
}
