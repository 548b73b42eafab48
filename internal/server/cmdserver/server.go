package cmdserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/core/service"
	"github.com/robojar/pumpd/internal/telemetry/logger"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

// DefaultReadBuffer is the single-read buffer size.
const DefaultReadBuffer = 1024

// Dispatcher handles the bytes read from one connection.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw []byte) service.DispatchResult
}

// Config holds listener settings.
type Config struct {
	// Port is bound on all local interfaces. Zero picks a free port.
	Port int

	// ReadBuffer is the maximum number of bytes read from a connection.
	ReadBuffer int
}

// Server is the command listener.
type Server struct {
	cfg        Config
	dispatcher Dispatcher
	flag       *domain.ShutdownFlag
	log        logger.Logger
	metrics    *metric.Registry

	mu        sync.Mutex
	ln        net.Listener
	closeOnce sync.Once
	closeErr  error

	acceptLog rate.Sometimes
	wg        sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics records connection and accept-error counters.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a command listener. The accept loop stops once flag is set.
func New(cfg Config, d Dispatcher, flag *domain.ShutdownFlag, opts ...Option) *Server {
	if cfg.ReadBuffer <= 0 {
		cfg.ReadBuffer = DefaultReadBuffer
	}
	if flag == nil {
		flag = &domain.ShutdownFlag{}
	}
	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		flag:       flag,
		log:        logger.Default(),
		acceptLog:  rate.Sometimes{First: 1, Interval: time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "cmdserver")
	return s
}

// Listen creates, binds and listens on the command socket. Failures wrap
// domain.ErrListen and are not retried.
func (s *Server) Listen(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(s.cfg.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return domain.ErrListen.WithDetails(addr).Wrap(err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.log.Info("command listener bound", "address", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop until the shutdown flag is set or the listener
// is closed; both end the loop with a nil error. Other accept failures are
// counted, logged at most once per second, and the loop tries again.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return domain.ErrListen.WithDetails("Serve called before Listen")
	}

	for !s.flag.IsSet() {
		conn, err := ln.Accept()
		if err != nil {
			if s.flag.IsSet() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if s.metrics != nil {
				s.metrics.AcceptErrors.Inc()
			}
			s.acceptLog.Do(func() {
				s.log.Warn("accept failed", "error", err)
			})
			continue
		}

		if s.metrics != nil {
			s.metrics.ConnectionsAccepted.Inc()
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}

	return nil
}

// handleConn performs the single read and dispatch for one connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	id := logger.NewConnID()
	log := s.log.With("conn_id", id, "remote", conn.RemoteAddr().String())
	defer func() {
		if r := recover(); r != nil {
			log.Error("connection handler panicked", "panic", fmt.Sprint(r))
		}
	}()

	buf := make([]byte, s.cfg.ReadBuffer)
	n, err := conn.Read(buf)
	if n <= 0 {
		if err != nil {
			log.Debug("connection closed without data", "error", err)
		}
		return
	}

	ctx := logger.WithConnID(logger.WithLogger(context.Background(), s.log), id)
	s.dispatcher.Dispatch(ctx, buf[:n])
}

// Close closes the listener exactly once. Handlers already running are not
// interrupted.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		ln := s.ln
		s.mu.Unlock()
		if ln == nil {
			return
		}
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.closeErr = err
		}
		s.log.Info("command listener closed")
	})
	return s.closeErr
}

// Wait blocks until every connection handler started so far has returned
// or ctx is done. Teardown does not call it; tests and drains may.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
