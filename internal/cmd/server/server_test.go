package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8080")
	}
	if cfg.DBDir != "data" {
		t.Fatalf("DBDir = %q, want %q", cfg.DBDir, "data")
	}
	if cfg.TrustForwardedProto {
		t.Fatal("TrustForwardedProto = true, want false")
	}
}

func TestParseConfigOverrideHTTPAddr(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9002"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("ANUNCIOS_DB_DIR", "/tmp/anuncios-test")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBDir != "/tmp/anuncios-test" {
		t.Fatalf("DBDir = %q, want env override", cfg.DBDir)
	}
}

func TestFlagBeatsEnv(t *testing.T) {
	t.Setenv("ANUNCIOS_HTTP_ADDR", "env-host:1234")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "flag-host:5678"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "flag-host:5678" {
		t.Fatalf("HTTPAddr = %q, want flag override", cfg.HTTPAddr)
	}
}
