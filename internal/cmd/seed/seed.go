// Package seed populates a development database with demo data.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	entrypoint "github.com/meusanuncios/anuncios/internal/platform/cmd"
	authapp "github.com/meusanuncios/anuncios/internal/services/auth/app"
	"github.com/meusanuncios/anuncios/internal/services/auth/passkey"
	authsqlite "github.com/meusanuncios/anuncios/internal/services/auth/storage/sqlite"
	"github.com/meusanuncios/anuncios/internal/services/auth/user"
	billingapp "github.com/meusanuncios/anuncios/internal/services/billing/app"
	billingsqlite "github.com/meusanuncios/anuncios/internal/services/billing/storage/sqlite"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	liststorage "github.com/meusanuncios/anuncios/internal/services/listing/storage"
	listsqlite "github.com/meusanuncios/anuncios/internal/services/listing/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBDir string `env:"ANUNCIOS_DB_DIR" envDefault:"data"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBDir, "db-dir", cfg.DBDir, "Directory holding the sqlite databases")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds demo users, collections, and listings.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return seed(ctx, cfg)
	})
}

func seed(ctx context.Context, cfg Config) error {
	if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	authStore, err := authsqlite.Open(filepath.Join(cfg.DBDir, "auth.db"))
	if err != nil {
		return fmt.Errorf("open auth store: %w", err)
	}
	defer authStore.Close()
	auth, err := authapp.NewService(authStore, passkey.LoadConfigFromEnv())
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

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

	ana, err := auth.RegisterUser(ctx, user.CreateUserInput{Username: "ana", DisplayName: "Ana", Locale: "pt-BR"})
	if err != nil {
		return fmt.Errorf("register ana: %w", err)
	}
	bruno, err := auth.RegisterUser(ctx, user.CreateUserInput{Username: "bruno", DisplayName: "Bruno", Locale: "pt-BR"})
	if err != nil {
		return fmt.Errorf("register bruno: %w", err)
	}

	// Ana gets a pro subscription so the seed can exceed free limits.
	if _, err := billing.Activate(ctx, ana.ID, time.Now().UTC().AddDate(1, 0, 0)); err != nil {
		return fmt.Errorf("activate pro for ana: %w", err)
	}

	bh, err := listings.CreateCollection(ctx, ana.ID, "Imóveis BH", liststorage.OwnerKindUser, ana.ID)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	praia, err := listings.CreateCollection(ctx, ana.ID, "Litoral", liststorage.OwnerKindUser, ana.ID)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	for _, listing := range demoListings(bh.ID, praia.ID, ana.ID) {
		if _, err := listings.CreateListing(ctx, ana.ID, listing); err != nil {
			return fmt.Errorf("create listing %q: %w", listing.Title, err)
		}
	}

	if _, err := listings.GrantShare(ctx, ana.ID, bh.ID, bruno.ID, liststorage.ShareRoleViewer); err != nil {
		return fmt.Errorf("share collection: %w", err)
	}

	log.Printf("seeded users ana=%s bruno=%s collections=%s,%s", ana.ID, bruno.ID, bh.ID, praia.ID)
	return nil
}

func demoListings(bhID, praiaID, createdBy string) []liststorage.Listing {
	return []liststorage.Listing{
		{
			CollectionID:  bhID,
			CreatedBy:     createdBy,
			Title:         "Apartamento 3 quartos na Savassi",
			Street:        "Rua Pernambuco",
			Neighborhood:  "Savassi",
			City:          "Belo Horizonte",
			PriceCents:    85000000,
			CondoFeeCents: 120000,
			IPTUCents:     450000,
			AreaM2:        98,
			Bedrooms:      3,
			Bathrooms:     2,
			ParkingSpots:  2,
			Amenities:     []string{"academia", "salão de festas"},
			ContactName:   "Carlos Imóveis",
			ContactPhone:  "+55 31 99999-0001",
		},
		{
			CollectionID: bhID,
			CreatedBy:    createdBy,
			Title:        "Cobertura duplex em Lourdes",
			Neighborhood: "Lourdes",
			City:         "Belo Horizonte",
			PriceCents:   198000000,
			AreaM2:       210,
			Bedrooms:     4,
			Bathrooms:    4,
			ParkingSpots: 3,
			Amenities:    []string{"piscina", "churrasqueira", "vista panorâmica"},
		},
		{
			CollectionID: praiaID,
			CreatedBy:    createdBy,
			Title:        "Casa pé na areia em Guarapari",
			City:         "Guarapari",
			PriceCents:   120000000,
			AreaM2:       180,
			Bedrooms:     4,
			Bathrooms:    3,
			Notes:        "Precisa de reforma no telhado",
		},
	}
}
