package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
)

// Applied by Shutdown when the caller's context has no deadline.
const defaultShutdownTimeout = 10 * time.Second

// Server owns the todo API's listener and its drain on shutdown.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer prepares a server for cfg. net/http's own error output, such as
// TLS handshake or header parse failures, goes to logger at warn. A nil
// logger discards everything.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	return &Server{srv: srv, logger: logger}
}

// Addr is the configured host:port.
func (s *Server) Addr() string { return s.srv.Addr }

// Start listens on Addr and serves until Shutdown, after which it returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve is Start on a listener the caller opened.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("todo API listening", slog.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving todo API: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("draining todo API")
	return s.srv.Shutdown(ctx)
}
