// Package app implements auth service business rules over storage.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/platform/id"
	"github.com/meusanuncios/anuncios/internal/services/auth/passkey"
	"github.com/meusanuncios/anuncios/internal/services/auth/storage"
	"github.com/meusanuncios/anuncios/internal/services/auth/user"
)

const (
	// WebSessionTTL is the sliding window a session stays valid without use.
	WebSessionTTL = 24 * time.Hour
	// WebSessionAbsoluteTTL caps session lifetime regardless of activity.
	WebSessionAbsoluteTTL = 30 * 24 * time.Hour
)

// Service applies auth business rules: user registration, passkey
// ceremonies, and browser sessions.
type Service struct {
	store         storage.Store
	passkeys      passkeyProvider
	parser        passkeyParser
	passkeyConfig passkey.Config
	newID         func() (string, error)
	now           func() time.Time
}

// NewService creates an auth service backed by the given store and
// WebAuthn relying party configuration.
func NewService(store storage.Store, cfg passkey.Config) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("auth store is required")
	}
	provider, err := webauthn.New(&webauthn.Config{
		RPDisplayName: cfg.RPDisplayName,
		RPID:          cfg.RPID,
		RPOrigins:     cfg.RPOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("configure webauthn: %w", err)
	}
	return &Service{
		store:         store,
		passkeys:      provider,
		parser:        defaultPasskeyParser{},
		passkeyConfig: cfg,
		newID:         id.NewID,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

// RegisterUser creates a new user identity.
func (s *Service) RegisterUser(ctx context.Context, input user.CreateUserInput) (user.User, error) {
	record, err := user.CreateUser(input, s.now, s.newID)
	if err != nil {
		return user.User{}, err
	}
	if err := s.store.CreateUser(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return user.User{}, apperrors.New(apperrors.CodeUserUsernameTaken, "username is already taken")
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return record, nil
}

// GetUser returns one user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (user.User, error) {
	record, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", err)
		}
		return user.User{}, err
	}
	return record, nil
}

// GetUserByUsername returns one user by canonical username.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	record, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", err)
		}
		return user.User{}, err
	}
	return record, nil
}

// UpdateProfile changes a user's display name and locale.
func (s *Service) UpdateProfile(ctx context.Context, userID, displayName, locale string) (user.User, error) {
	record, err := s.GetUser(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName != "" {
		record.DisplayName = displayName
	}
	locale = strings.TrimSpace(locale)
	if locale != "" {
		record.Locale = locale
	}
	record.UpdatedAt = s.now()
	if err := s.store.UpdateUser(ctx, record); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	return record, nil
}

// CreateWebSession opens a sliding browser session for a user.
func (s *Service) CreateWebSession(ctx context.Context, userID string) (storage.WebSession, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return storage.WebSession{}, err
	}
	sessionID, err := s.newID()
	if err != nil {
		return storage.WebSession{}, fmt.Errorf("generate session id: %w", err)
	}
	now := s.now()
	session := storage.WebSession{
		ID:             sessionID,
		UserID:         userID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(WebSessionTTL),
		AbsoluteExpiry: now.Add(WebSessionAbsoluteTTL),
	}
	if err := s.store.CreateWebSession(ctx, session); err != nil {
		return storage.WebSession{}, fmt.Errorf("create web session: %w", err)
	}
	return session, nil
}

// ValidateWebSession resolves a session to its user and slides the
// expiry forward. Expired sessions are deleted.
func (s *Service) ValidateWebSession(ctx context.Context, sessionID string) (user.User, storage.WebSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return user.User{}, storage.WebSession{}, apperrors.New(apperrors.CodeAuthSessionInvalid, "session id is required")
	}
	session, err := s.store.GetWebSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, storage.WebSession{}, apperrors.Wrap(apperrors.CodeAuthSessionInvalid, "session not found", err)
		}
		return user.User{}, storage.WebSession{}, err
	}
	now := s.now()
	if !session.ExpiresAt.After(now) || !session.AbsoluteExpiry.After(now) {
		_ = s.store.DeleteWebSession(ctx, sessionID)
		return user.User{}, storage.WebSession{}, apperrors.New(apperrors.CodeAuthSessionExpired, "session expired")
	}

	slid := now.Add(WebSessionTTL)
	if slid.After(session.AbsoluteExpiry) {
		slid = session.AbsoluteExpiry
	}
	if err := s.store.TouchWebSession(ctx, sessionID, slid); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return user.User{}, storage.WebSession{}, err
	}
	session.ExpiresAt = slid

	record, err := s.GetUser(ctx, session.UserID)
	if err != nil {
		return user.User{}, storage.WebSession{}, err
	}
	return record, session, nil
}

// Logout deletes a browser session. Unknown sessions are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return s.store.DeleteWebSession(ctx, sessionID)
}

// PurgeExpiredSessions removes sessions past either expiry window.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredWebSessions(ctx, s.now())
}
