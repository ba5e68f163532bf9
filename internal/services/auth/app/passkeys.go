package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/auth/passkey"
	"github.com/meusanuncios/anuncios/internal/services/auth/storage"
	"github.com/meusanuncios/anuncios/internal/services/auth/user"
)

// PasskeyCeremony carries a pending ceremony back to the browser.
type PasskeyCeremony struct {
	SessionID   string
	OptionsJSON []byte
}

type passkeyProvider interface {
	BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error)
	CreateCredential(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)
	BeginLogin(user webauthn.User, opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	ValidatePasskeyLogin(handler webauthn.DiscoverableUserHandler, session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (webauthn.User, *webauthn.Credential, error)
}

type passkeyParser interface {
	ParseCredentialCreationResponseBytes(data []byte) (*protocol.ParsedCredentialCreationData, error)
	ParseCredentialRequestResponseBytes(data []byte) (*protocol.ParsedCredentialAssertionData, error)
}

type defaultPasskeyParser struct{}

func (defaultPasskeyParser) ParseCredentialCreationResponseBytes(data []byte) (*protocol.ParsedCredentialCreationData, error) {
	return protocol.ParseCredentialCreationResponseBytes(data)
}

func (defaultPasskeyParser) ParseCredentialRequestResponseBytes(data []byte) (*protocol.ParsedCredentialAssertionData, error) {
	return protocol.ParseCredentialRequestResponseBytes(data)
}

// BeginPasskeyRegistration starts a credential creation ceremony for an
// existing user.
func (s *Service) BeginPasskeyRegistration(ctx context.Context, userID string) (PasskeyCeremony, error) {
	baseUser, err := s.GetUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return PasskeyCeremony{}, err
	}
	record, err := s.loadPasskeyUser(ctx, baseUser)
	if err != nil {
		return PasskeyCeremony{}, fmt.Errorf("load passkey user: %w", err)
	}

	options := []webauthn.RegistrationOption{
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
	}
	if len(record.credentials) > 0 {
		options = append(options, webauthn.WithExclusions(webauthn.Credentials(record.credentials).CredentialDescriptors()))
	}

	creation, session, err := s.passkeys.BeginRegistration(record, options...)
	if err != nil {
		return PasskeyCeremony{}, fmt.Errorf("begin passkey registration: %w", err)
	}
	return s.storeCeremony(ctx, passkey.SessionKindRegistration, baseUser.ID, session, creation)
}

// FinishPasskeyRegistration validates the browser response and stores
// the new credential.
func (s *Service) FinishPasskeyRegistration(ctx context.Context, sessionID string, credentialResponse []byte) (user.User, string, error) {
	if len(credentialResponse) == 0 {
		return user.User{}, "", apperrors.New(apperrors.CodeAuthSessionInvalid, "credential response is required")
	}
	session, err := s.loadPasskeySession(ctx, sessionID, passkey.SessionKindRegistration)
	if err != nil {
		return user.User{}, "", err
	}
	if session.UserID == "" {
		return user.User{}, "", apperrors.New(apperrors.CodeAuthSessionInvalid, "registration session missing user")
	}

	baseUser, err := s.GetUser(ctx, session.UserID)
	if err != nil {
		return user.User{}, "", err
	}
	record, err := s.loadPasskeyUser(ctx, baseUser)
	if err != nil {
		return user.User{}, "", fmt.Errorf("load passkey user: %w", err)
	}

	parsed, err := s.parser.ParseCredentialCreationResponseBytes(credentialResponse)
	if err != nil {
		return user.User{}, "", apperrors.Wrap(apperrors.CodeAuthSessionInvalid, "parse credential response", err)
	}
	credential, err := s.passkeys.CreateCredential(record, session.Data, parsed)
	if err != nil {
		return user.User{}, "", apperrors.Wrap(apperrors.CodeAuthSessionInvalid, "validate credential response", err)
	}

	if err := s.storePasskeyCredential(ctx, baseUser.ID, *credential, false); err != nil {
		return user.User{}, "", fmt.Errorf("store passkey credential: %w", err)
	}
	_ = s.store.DeletePasskeySession(ctx, strings.TrimSpace(sessionID))

	return baseUser, encodeCredentialID(credential.ID), nil
}

// BeginPasskeyLogin starts an assertion ceremony. An empty username
// begins a discoverable (usernameless) login.
func (s *Service) BeginPasskeyLogin(ctx context.Context, username string) (PasskeyCeremony, error) {
	username = strings.TrimSpace(username)

	var (
		assertion *protocol.CredentialAssertion
		session   *webauthn.SessionData
		userID    string
		err       error
	)
	if username == "" {
		assertion, session, err = s.passkeys.BeginDiscoverableLogin()
	} else {
		var baseUser user.User
		baseUser, err = s.GetUserByUsername(ctx, username)
		if err != nil {
			return PasskeyCeremony{}, err
		}
		var record *passkeyUser
		record, err = s.loadPasskeyUser(ctx, baseUser)
		if err != nil {
			return PasskeyCeremony{}, fmt.Errorf("load passkey user: %w", err)
		}
		userID = baseUser.ID
		assertion, session, err = s.passkeys.BeginLogin(record)
	}
	if err != nil {
		return PasskeyCeremony{}, fmt.Errorf("begin passkey login: %w", err)
	}
	return s.storeCeremony(ctx, passkey.SessionKindLogin, userID, session, assertion)
}

// FinishPasskeyLogin validates the assertion and returns the
// authenticated user.
func (s *Service) FinishPasskeyLogin(ctx context.Context, sessionID string, credentialResponse []byte) (user.User, string, error) {
	if len(credentialResponse) == 0 {
		return user.User{}, "", apperrors.New(apperrors.CodeAuthSessionInvalid, "credential response is required")
	}
	session, err := s.loadPasskeySession(ctx, sessionID, passkey.SessionKindLogin)
	if err != nil {
		return user.User{}, "", err
	}

	parsed, err := s.parser.ParseCredentialRequestResponseBytes(credentialResponse)
	if err != nil {
		return user.User{}, "", apperrors.Wrap(apperrors.CodeAuthSessionInvalid, "parse credential response", err)
	}

	validatedUser, validatedCredential, err := s.passkeys.ValidatePasskeyLogin(s.passkeyUserHandler(ctx), session.Data, parsed)
	if err != nil {
		return user.User{}, "", apperrors.Wrap(apperrors.CodeAuthSessionInvalid, "validate passkey login", err)
	}
	record, ok := validatedUser.(*passkeyUser)
	if !ok {
		return user.User{}, "", fmt.Errorf("passkey user type mismatch")
	}

	if err := s.storePasskeyCredential(ctx, record.user.ID, *validatedCredential, true); err != nil {
		return user.User{}, "", fmt.Errorf("store passkey credential: %w", err)
	}
	_ = s.store.DeletePasskeySession(ctx, strings.TrimSpace(sessionID))

	return record.user, encodeCredentialID(validatedCredential.ID), nil
}

// ListPasskeys returns stored credential records for a user.
func (s *Service) ListPasskeys(ctx context.Context, userID string) ([]storage.PasskeyCredential, error) {
	return s.store.ListPasskeyCredentials(ctx, strings.TrimSpace(userID))
}

type passkeyUser struct {
	user        user.User
	credentials []webauthn.Credential
}

func (u *passkeyUser) WebAuthnID() []byte { return []byte(u.user.ID) }

func (u *passkeyUser) WebAuthnName() string { return u.user.Username }

func (u *passkeyUser) WebAuthnDisplayName() string { return u.user.DisplayName }

func (u *passkeyUser) WebAuthnIcon() string { return "" }

func (u *passkeyUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }

func (s *Service) loadPasskeyUser(ctx context.Context, base user.User) (*passkeyUser, error) {
	records, err := s.store.ListPasskeyCredentials(ctx, base.ID)
	if err != nil {
		return nil, err
	}
	credentials, err := decodeStoredCredentials(records)
	if err != nil {
		return nil, err
	}
	return &passkeyUser{user: base, credentials: credentials}, nil
}

func decodeStoredCredentials(records []storage.PasskeyCredential) ([]webauthn.Credential, error) {
	if len(records) == 0 {
		return nil, nil
	}
	credentials := make([]webauthn.Credential, 0, len(records))
	for _, record := range records {
		var credential webauthn.Credential
		if err := json.Unmarshal([]byte(record.CredentialJSON), &credential); err != nil {
			return nil, fmt.Errorf("decode credential %s: %w", record.CredentialID, err)
		}
		credentials = append(credentials, credential)
	}
	return credentials, nil
}

func (s *Service) storePasskeyCredential(ctx context.Context, userID string, credential webauthn.Credential, used bool) error {
	credentialID := encodeCredentialID(credential.ID)
	now := s.now()
	stored, err := s.store.GetPasskeyCredential(ctx, credentialID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) && used {
		return fmt.Errorf("passkey credential not found")
	}

	createdAt := now
	if err == nil {
		createdAt = stored.CreatedAt
	}
	credentialJSON, err := json.Marshal(credential)
	if err != nil {
		return err
	}
	var lastUsed *time.Time
	if used {
		value := now
		lastUsed = &value
	}
	return s.store.PutPasskeyCredential(ctx, storage.PasskeyCredential{
		CredentialID:   credentialID,
		UserID:         userID,
		CredentialJSON: string(credentialJSON),
		CreatedAt:      createdAt,
		UpdatedAt:      now,
		LastUsedAt:     lastUsed,
	})
}

func (s *Service) storeCeremony(ctx context.Context, kind passkey.SessionKind, userID string, session *webauthn.SessionData, options any) (PasskeyCeremony, error) {
	if session == nil {
		return PasskeyCeremony{}, fmt.Errorf("session data is required")
	}
	sessionID, err := s.newID()
	if err != nil {
		return PasskeyCeremony{}, fmt.Errorf("generate ceremony session id: %w", err)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return PasskeyCeremony{}, fmt.Errorf("encode ceremony session: %w", err)
	}
	if err := s.store.PutPasskeySession(ctx, storage.PasskeySession{
		ID:          sessionID,
		Kind:        string(kind),
		UserID:      userID,
		SessionJSON: string(payload),
		ExpiresAt:   s.now().Add(s.passkeyConfig.SessionTTL),
	}); err != nil {
		return PasskeyCeremony{}, fmt.Errorf("store ceremony session: %w", err)
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return PasskeyCeremony{}, fmt.Errorf("encode ceremony options: %w", err)
	}
	return PasskeyCeremony{SessionID: sessionID, OptionsJSON: optionsJSON}, nil
}

type loadedSession struct {
	Data   webauthn.SessionData
	UserID string
}

func (s *Service) loadPasskeySession(ctx context.Context, sessionID string, expectedKind passkey.SessionKind) (loadedSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return loadedSession{}, apperrors.New(apperrors.CodeAuthSessionInvalid, "ceremony session id is required")
	}
	stored, err := s.store.GetPasskeySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return loadedSession{}, apperrors.Wrap(apperrors.CodeAuthSessionInvalid, "ceremony session not found", err)
		}
		return loadedSession{}, fmt.Errorf("load ceremony session: %w", err)
	}
	if stored.Kind != string(expectedKind) {
		return loadedSession{}, apperrors.New(apperrors.CodeAuthSessionInvalid, "ceremony session kind mismatch")
	}
	if stored.ExpiresAt.Before(s.now()) {
		_ = s.store.DeletePasskeySession(ctx, sessionID)
		return loadedSession{}, apperrors.New(apperrors.CodeAuthSessionExpired, "ceremony session expired")
	}

	var session webauthn.SessionData
	if err := json.Unmarshal([]byte(stored.SessionJSON), &session); err != nil {
		return loadedSession{}, fmt.Errorf("decode ceremony session: %w", err)
	}
	return loadedSession{Data: session, UserID: stored.UserID}, nil
}

func (s *Service) passkeyUserHandler(ctx context.Context) webauthn.DiscoverableUserHandler {
	return func(_, userHandle []byte) (webauthn.User, error) {
		userID := strings.TrimSpace(string(userHandle))
		if userID == "" {
			return nil, fmt.Errorf("user handle is required")
		}
		baseUser, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.loadPasskeyUser(ctx, baseUser)
	}
}

func encodeCredentialID(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}
