// Command mcp runs the Anúncios Model Context Protocol server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/meusanuncios/anuncios/internal/cmd/mcp"
)

func main() {
	log.SetPrefix("[MCP] ")
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := mcp.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := mcp.Run(ctx, cfg); err != nil {
		log.Fatalf("run: %v", err)
	}
}
