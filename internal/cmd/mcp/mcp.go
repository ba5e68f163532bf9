// Package mcp parses MCP server flags and launches the tool server.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	entrypoint "github.com/meusanuncios/anuncios/internal/platform/cmd"
	"github.com/meusanuncios/anuncios/internal/services/ai"
	billingapp "github.com/meusanuncios/anuncios/internal/services/billing/app"
	billingsqlite "github.com/meusanuncios/anuncios/internal/services/billing/storage/sqlite"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	listsqlite "github.com/meusanuncios/anuncios/internal/services/listing/storage/sqlite"
	mcpserver "github.com/meusanuncios/anuncios/internal/services/mcp"
)

// Config holds MCP command configuration.
type Config struct {
	Transport string `env:"ANUNCIOS_MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr  string `env:"ANUNCIOS_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	DBDir     string `env:"ANUNCIOS_DB_DIR"        envDefault:"data"`
	UserID    string `env:"ANUNCIOS_MCP_USER_ID"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport (stdio or http)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address for the http transport")
	fs.StringVar(&cfg.DBDir, "db-dir", cfg.DBDir, "Directory holding the sqlite databases")
	fs.StringVar(&cfg.UserID, "user-id", cfg.UserID, "Default user for tool calls")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP tool server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		billingStore, err := billingsqlite.Open(filepath.Join(cfg.DBDir, "billing.db"))
		if err != nil {
			return fmt.Errorf("open billing store: %w", err)
		}
		defer billingStore.Close()
		billing := billingapp.NewService(billingStore)

		listingStore, err := listsqlite.Open(filepath.Join(cfg.DBDir, "listing.db"))
		if err != nil {
			return fmt.Errorf("open listing store: %w", err)
		}
		defer listingStore.Close()
		listings := listapp.NewService(listingStore, billing)

		providerCfg, err := ai.LoadProviderConfigFromEnv()
		if err != nil {
			return err
		}
		parser := ai.NewParser(ai.NewOpenAIProvider(providerCfg), billing)

		server, err := mcpserver.New(listings, parser, cfg.UserID)
		if err != nil {
			return fmt.Errorf("init mcp server: %w", err)
		}
		return server.Run(ctx, mcpserver.Config{
			Transport: mcpserver.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
		})
	})
}
