// Package server parses web server flags and launches the service.
package server

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	entrypoint "github.com/meusanuncios/anuncios/internal/platform/cmd"
	"github.com/meusanuncios/anuncios/internal/services/ai"
	authapp "github.com/meusanuncios/anuncios/internal/services/auth/app"
	"github.com/meusanuncios/anuncios/internal/services/auth/passkey"
	"github.com/meusanuncios/anuncios/internal/services/auth/sharegrant"
	authsqlite "github.com/meusanuncios/anuncios/internal/services/auth/storage/sqlite"
	billingapp "github.com/meusanuncios/anuncios/internal/services/billing/app"
	billingsqlite "github.com/meusanuncios/anuncios/internal/services/billing/storage/sqlite"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	listsqlite "github.com/meusanuncios/anuncios/internal/services/listing/storage/sqlite"
	webserver "github.com/meusanuncios/anuncios/internal/services/web/server"
)

// Config holds web server command configuration.
type Config struct {
	HTTPAddr            string `env:"ANUNCIOS_HTTP_ADDR"             envDefault:"localhost:8080"`
	DBDir               string `env:"ANUNCIOS_DB_DIR"                envDefault:"data"`
	TrustForwardedProto bool   `env:"ANUNCIOS_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBDir, "db-dir", cfg.DBDir, "Directory holding the sqlite databases")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		services, closeStores, err := buildServices(cfg)
		if err != nil {
			return err
		}
		defer closeStores()

		server, err := webserver.New(webserver.Config{
			HTTPAddr:            cfg.HTTPAddr,
			TrustForwardedProto: cfg.TrustForwardedProto,
		}, services)
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

func buildServices(cfg Config) (webserver.Services, func(), error) {
	if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
		return webserver.Services{}, nil, fmt.Errorf("create db dir: %w", err)
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	authStore, err := authsqlite.Open(filepath.Join(cfg.DBDir, "auth.db"))
	if err != nil {
		return webserver.Services{}, nil, fmt.Errorf("open auth store: %w", err)
	}
	closers = append(closers, func() { _ = authStore.Close() })

	auth, err := authapp.NewService(authStore, passkey.LoadConfigFromEnv())
	if err != nil {
		closeAll()
		return webserver.Services{}, nil, fmt.Errorf("init auth service: %w", err)
	}

	billingStore, err := billingsqlite.Open(filepath.Join(cfg.DBDir, "billing.db"))
	if err != nil {
		closeAll()
		return webserver.Services{}, nil, fmt.Errorf("open billing store: %w", err)
	}
	closers = append(closers, func() { _ = billingStore.Close() })
	billing := billingapp.NewService(billingStore)

	listingStore, err := listsqlite.Open(filepath.Join(cfg.DBDir, "listing.db"))
	if err != nil {
		closeAll()
		return webserver.Services{}, nil, fmt.Errorf("open listing store: %w", err)
	}
	closers = append(closers, func() { _ = listingStore.Close() })
	listings := listapp.NewService(listingStore, billing)

	providerCfg, err := ai.LoadProviderConfigFromEnv()
	if err != nil {
		closeAll()
		return webserver.Services{}, nil, err
	}
	parser := ai.NewParser(ai.NewOpenAIProvider(providerCfg), billing)

	grants, err := sharegrant.LoadConfigFromEnv(time.Now)
	if err != nil {
		closeAll()
		return webserver.Services{}, nil, err
	}

	return webserver.Services{
		Auth:     auth,
		Listings: listings,
		Billing:  billing,
		Parser:   parser,
		Grants:   grants,
	}, closeAll, nil
}
