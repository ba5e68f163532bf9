// Command server runs the Anúncios web application.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/meusanuncios/anuncios/internal/cmd/server"
)

func main() {
	log.SetPrefix("[SERVER] ")
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := server.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := server.Run(ctx, cfg); err != nil {
		log.Fatalf("run: %v", err)
	}
}
