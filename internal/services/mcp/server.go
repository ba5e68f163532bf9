// Package mcp exposes the listing parser and the SAC simulator as a
// Model Context Protocol tool server.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/meusanuncios/anuncios/internal/services/ai"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
)

const (
	serverName    = "Anúncios MCP"
	serverVersion = "0.1.0"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string
}

// ListingBrowser lists the collections a user can read.
type ListingBrowser interface {
	ListAccessibleCollections(ctx context.Context, actorID string) ([]listapp.AccessibleCollection, error)
}

// TextParser turns pasted ad text into a listing draft.
type TextParser interface {
	ParseListingText(ctx context.Context, userID, text string) (ai.Draft, error)
}

// Server hosts the MCP tool server.
type Server struct {
	mcpServer     *mcp.Server
	defaultUserID string
}

// New creates an MCP server backed by the in-process services.
func New(listings ListingBrowser, parser TextParser, defaultUserID string) (*Server, error) {
	if listings == nil {
		return nil, errors.New("listing service is required")
	}
	if parser == nil {
		return nil, errors.New("parser is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	server := &Server{mcpServer: mcpServer, defaultUserID: strings.TrimSpace(defaultUserID)}

	registerParseTools(mcpServer, parser, server.resolveUserID)
	registerSimulatorTools(mcpServer)
	registerCollectionResources(mcpServer, listings, server.resolveUserID)

	return server, nil
}

// Run serves MCP on the configured transport until the context ends.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	switch cfg.Transport {
	case TransportHTTP:
		return s.serveHTTP(ctx, cfg.HTTPAddr)
	case TransportStdio, "":
		log.Printf("mcp server listening on stdio")
		return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("unsupported transport %q", cfg.Transport)
	}
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = "localhost:8081"
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("mcp server listening on http://%s", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown mcp http server: %w", err)
		}
		return nil
	}
}

// resolveUserID prefers the caller-provided user and falls back to the
// configured default.
func (s *Server) resolveUserID(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		return requested, nil
	}
	if s.defaultUserID != "" {
		return s.defaultUserID, nil
	}
	return "", errors.New("user_id is required: pass it in the call or configure a default user")
}
