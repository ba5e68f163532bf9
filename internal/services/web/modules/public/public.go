// Package public serves the unauthenticated surface: landing page,
// login and registration pages, and the passkey ceremony endpoints.
package public

import (
	"net/http"

	"github.com/meusanuncios/anuncios/internal/services/web/module"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

// Module provides the public routes mounted at the site root.
type Module struct {
	auth AuthService
	base modulehandler.Base
}

// New returns a public module.
func New(auth AuthService, base modulehandler.Base) Module {
	return Module{auth: auth, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires landing, auth pages, ceremony endpoints, and the 404
// fallback for unmatched paths.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{Base: m.base}
	a := authHandlers{Base: m.base, auth: m.auth}
	mux.HandleFunc(http.MethodGet+" /{$}", h.handleLanding)
	mux.HandleFunc(http.MethodGet+" "+routepath.Login, a.handleLoginPage)
	mux.HandleFunc(http.MethodGet+" "+routepath.Register, a.handleRegisterPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, a.handleLogout)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthBeginRegister, a.handleBeginRegister)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthFinishRegister, a.handleFinishRegister)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthBeginLogin, a.handleBeginLogin)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthFinishLogin, a.handleFinishLogin)
	mux.HandleFunc("/", h.handleNotFound)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

type handlers struct {
	modulehandler.Base
}

// Signed-in visitors land on their collections instead.
func (h handlers) handleLanding(w http.ResponseWriter, r *http.Request) {
	if h.RequestUserID(r) != "" {
		http.Redirect(w, r, routepath.Collections, http.StatusSeeOther)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "landing.title"), http.StatusOK, webtemplates.Landing(loc))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
