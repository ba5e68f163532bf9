// Command seed fills a development database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/meusanuncios/anuncios/internal/cmd/seed"
)

func main() {
	log.SetPrefix("[SEED] ")
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := seed.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := seed.Run(ctx, cfg); err != nil {
		log.Fatalf("run: %v", err)
	}
}
