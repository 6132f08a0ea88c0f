package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/ga4lens/ga4lens/dataset"
)

// ============================================================================
// SERVER — the single-page dashboard
// ============================================================================

// Server serves the dashboard page, the JSON API, and rendered charts.
type Server struct {
	log *slog.Logger
	cfg Config

	handler *Handler

	httpSrv      *http.Server
	shutdownOnce sync.Once
}

// New builds a Server: validates the config and loads the fallback dataset.
// A fallback dataset that cannot be parsed is fatal here, not at request time.
func New(log *slog.Logger, cfg Config) (*Server, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fallback, err := dataset.LoadFile(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	log.Info("loaded fallback dataset",
		"path", cfg.DataPath,
		"records", fallback.Len(),
		"columns", len(fallback.Columns()),
	)

	cache := NewDatasetCache(cfg.CacheTTL.Std())
	return &Server{
		log:     log,
		cfg:     cfg,
		handler: NewHandler(log, cfg, fallback, cache),
	}, nil
}

// Serve runs the HTTP server on the listener until ctx is canceled, then
// shuts down gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	s.handler.Register(mux)

	s.httpSrv = &http.Server{Handler: mux}

	go s.handler.cache.Start()
	defer s.handler.cache.Stop()

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	s.log.Info("dashboard listening", "address", listener.Addr().String())
	err := s.httpSrv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) shutdown() {
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Std())
		defer cancel()
		if s.httpSrv != nil {
			_ = s.httpSrv.Shutdown(ctx)
		}
	})
}
