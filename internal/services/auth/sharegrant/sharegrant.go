// Package sharegrant mints and verifies signed collection share links.
//
// A grant is a short-lived EdDSA JWT naming a collection and the role
// the claimant receives. The link itself carries the grant, so no
// server state exists until a signed grant is claimed.
package sharegrant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/platform/id"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer     string        `env:"ANUNCIOS_SHARE_GRANT_ISSUER"      envDefault:"anuncios"`
	Audience   string        `env:"ANUNCIOS_SHARE_GRANT_AUDIENCE"    envDefault:"anuncios-web"`
	PrivateKey string        `env:"ANUNCIOS_SHARE_GRANT_PRIVATE_KEY"`
	TTL        time.Duration `env:"ANUNCIOS_SHARE_GRANT_TTL"         envDefault:"168h"`
}

// Config defines how share grants are minted and verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PrivateKey
	TTL      time.Duration
	Now      func() time.Time
}

// Claims captures a validated share grant.
type Claims struct {
	Issuer       string
	Audience     []string
	ExpiresAt    time.Time
	IssuedAt     time.Time
	JWTID        string
	CollectionID string
	Role         string
	GrantedBy    string
}

// grantClaims is the internal claims type used for JWT signing and parsing.
type grantClaims struct {
	jwt.RegisteredClaims
	CollectionID string `json:"collection_id"`
	Role         string `json:"role"`
	GrantedBy    string `json:"granted_by"`
}

// LoadConfigFromEnv reads share grant configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse share grant env: %w", err)
	}
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if privateKey == "" {
		return Config{}, fmt.Errorf("ANUNCIOS_SHARE_GRANT_PRIVATE_KEY is required")
	}
	keyBytes, err := decodeBase64(privateKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode share grant private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return Config{}, fmt.Errorf("share grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if raw.TTL <= 0 {
		return Config{}, fmt.Errorf("share grant ttl must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   strings.TrimSpace(raw.Issuer),
		Audience: strings.TrimSpace(raw.Audience),
		Key:      ed25519.PrivateKey(keyBytes),
		TTL:      raw.TTL,
		Now:      now,
	}, nil
}

// GenerateKey returns a new base64-encoded ed25519 private key suitable
// for ANUNCIOS_SHARE_GRANT_PRIVATE_KEY.
func GenerateKey() (string, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate share grant key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(privateKey), nil
}

// Mint signs a share grant for a collection and role.
func Mint(cfg Config, collectionID, role, grantedBy string) (string, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PrivateKeySize {
		return "", errors.New("share grant signer is not configured")
	}
	if strings.TrimSpace(collectionID) == "" {
		return "", errors.New("collection id is required")
	}
	if strings.TrimSpace(role) == "" {
		return "", errors.New("role is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate grant id: %w", err)
	}

	now := cfg.Now().UTC()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        jti,
		},
		CollectionID: strings.TrimSpace(collectionID),
		Role:         strings.TrimSpace(role),
		GrantedBy:    strings.TrimSpace(grantedBy),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(cfg.Key)
	if err != nil {
		return "", fmt.Errorf("sign share grant: %w", err)
	}
	return signed, nil
}

// Verify checks a share grant signature and claims. The collection and
// role the grant names are returned, not taken as input, so claim
// handlers act on what was actually signed.
func Verify(cfg Config, grant string) (Claims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return Claims{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PrivateKeySize {
		return Claims{}, errors.New("share grant verifier is not configured")
	}
	publicKey := cfg.Key.Public()

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return publicKey, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeShareGrantMismatch,
			"share grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeShareGrantMismatch,
			"share grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if parsed.ID == "" {
		return Claims{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeShareGrantExpired, "share grant is expired")
	}

	if strings.TrimSpace(parsed.CollectionID) == "" {
		return Claims{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant collection is required")
	}
	if strings.TrimSpace(parsed.Role) == "" {
		return Claims{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant role is required")
	}

	claims := Claims{
		Issuer:       parsed.Issuer,
		Audience:     []string(parsed.Audience),
		ExpiresAt:    exp,
		JWTID:        parsed.ID,
		CollectionID: parsed.CollectionID,
		Role:         parsed.Role,
		GrantedBy:    parsed.GrantedBy,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeShareGrantInvalid, "share grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeShareGrantInvalid, "share grant alg is invalid")
	}
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return apperrors.New(apperrors.CodeShareGrantInvalid, "share grant is malformed")
	}
	return apperrors.Wrap(apperrors.CodeShareGrantInvalid, "share grant is invalid", err)
}

func audienceContains(audience jwt.ClaimStrings, want string) bool {
	for _, value := range audience {
		if value == want {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
