package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestRunWithTelemetryRequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryRequiresRun(t *testing.T) {
	err := RunWithTelemetry(context.Background(), ServiceServer, nil)
	if err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	t.Setenv("ANUNCIOS_OTEL_ENDPOINT", "")
	wantErr := errors.New("boom")

	err := RunWithTelemetry(context.Background(), ServiceServer, func(context.Context) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected run error, got %v", err)
	}
}

func TestParseConfigFromArgs(t *testing.T) {
	type cfg struct {
		Port int `env:"ANUNCIOS_ENTRYPOINT_TEST_PORT" envDefault:"8080"`
	}
	var parsed cfg
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := ParseConfigFromArgs(&parsed, fs, nil); err != nil {
		t.Fatalf("parse config from args: %v", err)
	}
	if parsed.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", parsed.Port)
	}
}
