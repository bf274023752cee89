// Package server runs the HTTP surface of `simplelog serve`: the offline
// cache handler plus health and introspection endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 3 * time.Second
)

type Options struct {
	Addr        string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler
	Logger      *slog.Logger
}

type Server struct {
	opts   Options
	srv    *http.Server
	logger *slog.Logger
}

func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("server addr is required")
	}
	if opts.Handler == nil {
		return nil, fmt.Errorf("server handler is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	handler := opts.Handler
	for _, md := range opts.Middlewares {
		handler = md(handler)
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return &Server{opts: opts, srv: srv, logger: opts.Logger}, nil
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down", "addr", ln.Addr().String())
		return s.srv.Shutdown(ctx)
	})

	eg.Go(func() error {
		s.logger.Info("listen and serve", "addr", ln.Addr().String())

		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	return eg.Wait()
}
