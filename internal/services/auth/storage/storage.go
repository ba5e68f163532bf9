// Package storage defines persistence contracts for auth state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/meusanuncios/anuncios/internal/services/auth/user"
)

var (
	// ErrNotFound indicates a requested auth record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained auth record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// PasskeyCredential stores one WebAuthn credential as opaque JSON.
type PasskeyCredential struct {
	CredentialID   string
	UserID         string
	CredentialJSON string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastUsedAt     *time.Time
}

// PasskeySession stores an in-flight WebAuthn ceremony.
type PasskeySession struct {
	ID          string
	Kind        string
	UserID      string
	SessionJSON string
	ExpiresAt   time.Time
}

// WebSession stores one logged-in browser session. Sessions slide on
// use up to the absolute expiry.
type WebSession struct {
	ID             string
	UserID         string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	AbsoluteExpiry time.Time
}

// UserStore persists user identities.
type UserStore interface {
	CreateUser(ctx context.Context, record user.User) error
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	UpdateUser(ctx context.Context, record user.User) error
}

// PasskeyStore persists WebAuthn credentials and ceremony sessions.
type PasskeyStore interface {
	PutPasskeyCredential(ctx context.Context, credential PasskeyCredential) error
	GetPasskeyCredential(ctx context.Context, credentialID string) (PasskeyCredential, error)
	ListPasskeyCredentials(ctx context.Context, userID string) ([]PasskeyCredential, error)
	PutPasskeySession(ctx context.Context, session PasskeySession) error
	GetPasskeySession(ctx context.Context, id string) (PasskeySession, error)
	DeletePasskeySession(ctx context.Context, id string) error
}

// WebSessionStore persists browser sessions.
type WebSessionStore interface {
	CreateWebSession(ctx context.Context, session WebSession) error
	GetWebSession(ctx context.Context, id string) (WebSession, error)
	TouchWebSession(ctx context.Context, id string, expiresAt time.Time) error
	DeleteWebSession(ctx context.Context, id string) error
	DeleteExpiredWebSessions(ctx context.Context, now time.Time) (int, error)
}

// Store combines auth persistence contracts.
type Store interface {
	UserStore
	PasskeyStore
	WebSessionStore
}
