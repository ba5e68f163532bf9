package mcp

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("Transport = %q, want %q", cfg.Transport, "stdio")
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8081")
	}
	if cfg.UserID != "" {
		t.Fatalf("UserID = %q, want empty", cfg.UserID)
	}
}

func TestParseConfigOverrideTransport(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-transport", "http", "-user-id", "user-1"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Transport != "http" {
		t.Fatalf("Transport = %q, want %q", cfg.Transport, "http")
	}
	if cfg.UserID != "user-1" {
		t.Fatalf("UserID = %q, want %q", cfg.UserID, "user-1")
	}
}
