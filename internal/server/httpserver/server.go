package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/robojar/pumpd/internal/core/domain"
)

// Server represents the HTTP status server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	ln         net.Listener
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		handler: handler,
	}
}

// Listen binds the server address. Errors wrap domain.ErrListen.
func (s *Server) Listen(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return domain.ErrListen.WithDetails(s.httpServer.Addr).Wrap(err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve serves requests on the bound listener until Shutdown. A normal
// shutdown returns nil.
func (s *Server) Serve() error {
	if s.ln == nil {
		return domain.ErrListen.WithDetails("Serve called before Listen")
	}
	if err := s.httpServer.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
