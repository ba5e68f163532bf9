// Package server composes the web modules into one HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/meusanuncios/anuncios/internal/services/ai"
	authapp "github.com/meusanuncios/anuncios/internal/services/auth/app"
	"github.com/meusanuncios/anuncios/internal/services/auth/sharegrant"
	billingapp "github.com/meusanuncios/anuncios/internal/services/billing/app"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// TrustForwardedProto enables X-Forwarded-Proto scheme detection
	// behind a TLS-terminating proxy.
	TrustForwardedProto bool
}

// Services carries the application services the web layer serves.
type Services struct {
	Auth     *authapp.Service
	Listings *listapp.Service
	Billing  *billingapp.Service
	Parser   *ai.Parser
	Grants   sharegrant.Config
}

// Server hosts the composed web handler.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// New builds a web server from the given services.
func New(config Config, services Services) (*Server, error) {
	if services.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if services.Listings == nil {
		return nil, errors.New("listing service is required")
	}
	if services.Billing == nil {
		return nil, errors.New("billing service is required")
	}

	handler, err := newHandler(config, services)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	httpAddr := config.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends. On
// cancellation it performs a bounded shutdown so in-flight requests
// drain before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
