package passkey

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg := LoadConfigFromEnv()
	if cfg.RPID != "localhost" {
		t.Fatalf("rp id = %q, want localhost", cfg.RPID)
	}
	if cfg.RPDisplayName == "" {
		t.Fatal("rp display name should default to the app name")
	}
	if len(cfg.RPOrigins) == 0 {
		t.Fatal("rp origins should have a default")
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("session ttl = %v, want 5m", cfg.SessionTTL)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("ANUNCIOS_WEBAUTHN_RP_ID", "anuncios.example.com")
	t.Setenv("ANUNCIOS_WEBAUTHN_RP_ORIGINS", "https://anuncios.example.com,https://www.anuncios.example.com")
	t.Setenv("ANUNCIOS_WEBAUTHN_SESSION_TTL", "10m")

	cfg := LoadConfigFromEnv()
	if cfg.RPID != "anuncios.example.com" {
		t.Fatalf("rp id = %q", cfg.RPID)
	}
	if len(cfg.RPOrigins) != 2 {
		t.Fatalf("origins = %v", cfg.RPOrigins)
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
}
