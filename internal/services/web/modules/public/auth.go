package public

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	authapp "github.com/meusanuncios/anuncios/internal/services/auth/app"
	"github.com/meusanuncios/anuncios/internal/services/auth/storage"
	"github.com/meusanuncios/anuncios/internal/services/auth/user"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/httpx"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/sessioncookie"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

const maxAuthBodyBytes = 64 << 10

// AuthService covers the auth operations the pages need.
type AuthService interface {
	RegisterUser(ctx context.Context, input user.CreateUserInput) (user.User, error)
	BeginPasskeyRegistration(ctx context.Context, userID string) (authapp.PasskeyCeremony, error)
	FinishPasskeyRegistration(ctx context.Context, sessionID string, credentialResponse []byte) (user.User, string, error)
	BeginPasskeyLogin(ctx context.Context, username string) (authapp.PasskeyCeremony, error)
	FinishPasskeyLogin(ctx context.Context, sessionID string, credentialResponse []byte) (user.User, string, error)
	CreateWebSession(ctx context.Context, userID string) (storage.WebSession, error)
	Logout(ctx context.Context, sessionID string) error
}

type authHandlers struct {
	modulehandler.Base
	auth AuthService
}

// ceremonyResponse is the begin-endpoint payload. Options carry the
// WebAuthn options JSON base64url-encoded for the browser script.
type ceremonyResponse struct {
	SessionID string `json:"session_id"`
	Options   string `json:"options"`
}

type finishRequest struct {
	SessionID  string          `json:"session_id"`
	Credential json.RawMessage `json:"credential"`
}

type finishResponse struct {
	Redirect string `json:"redirect"`
}

func (h authHandlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.RequestUserID(r) != "" {
		httpx.WriteRedirect(w, r, routepath.Collections)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "auth.login.title"), http.StatusOK, webtemplates.LoginPage(loc))
}

func (h authHandlers) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.RequestUserID(r) != "" {
		httpx.WriteRedirect(w, r, routepath.Collections)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "auth.register.title"), http.StatusOK, webtemplates.RegisterPage(loc))
}

func (h authHandlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessioncookie.Read(r); ok {
		_ = h.auth.Logout(r.Context(), sessionID)
	}
	sessioncookie.Clear(w, r)
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h authHandlers) handleBeginRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSONBody(r, &payload); err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	registered, err := h.auth.RegisterUser(r.Context(), user.CreateUserInput{
		Username:    payload.Username,
		DisplayName: payload.DisplayName,
	})
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	ceremony, err := h.auth.BeginPasskeyRegistration(r.Context(), registered.ID)
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, encodeCeremony(ceremony))
}

func (h authHandlers) handleFinishRegister(w http.ResponseWriter, r *http.Request) {
	h.finishCeremony(w, r, h.auth.FinishPasskeyRegistration)
}

func (h authHandlers) handleBeginLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
	}
	if err := decodeJSONBody(r, &payload); err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	ceremony, err := h.auth.BeginPasskeyLogin(r.Context(), payload.Username)
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, encodeCeremony(ceremony))
}

func (h authHandlers) handleFinishLogin(w http.ResponseWriter, r *http.Request) {
	h.finishCeremony(w, r, h.auth.FinishPasskeyLogin)
}

func (h authHandlers) finishCeremony(w http.ResponseWriter, r *http.Request, finish func(context.Context, string, []byte) (user.User, string, error)) {
	var payload finishRequest
	if err := decodeJSONBody(r, &payload); err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	if strings.TrimSpace(payload.SessionID) == "" || len(payload.Credential) == 0 {
		_ = httpx.WriteJSONError(w, apperrors.New(apperrors.CodeAuthSessionInvalid, "session id and credential are required"))
		return
	}
	authed, _, err := finish(r.Context(), payload.SessionID, payload.Credential)
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	session, err := h.auth.CreateWebSession(r.Context(), authed.ID)
	if err != nil {
		_ = httpx.WriteJSONError(w, err)
		return
	}
	sessioncookie.Write(w, r, session.ID)
	_ = httpx.WriteJSON(w, http.StatusOK, finishResponse{Redirect: routepath.Collections})
}

func encodeCeremony(ceremony authapp.PasskeyCeremony) ceremonyResponse {
	return ceremonyResponse{
		SessionID: ceremony.SessionID,
		Options:   base64.RawURLEncoding.EncodeToString(ceremony.OptionsJSON),
	}
}

func decodeJSONBody(r *http.Request, target any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBodyBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "read request body", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "decode request body", err)
	}
	return nil
}
