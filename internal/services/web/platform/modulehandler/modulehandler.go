// Package modulehandler provides a composable base for protected web
// module handlers.
//
// Protected modules share common handler infrastructure for user
// resolution, localization, page rendering, and error handling. This
// package extracts that shared scaffold so modules embed it rather
// than duplicating it.
package modulehandler

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/platform/i18n/catalog"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	webi18n "github.com/meusanuncios/anuncios/internal/services/web/platform/i18n"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/pagerender"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/weberror"
)

// Base carries the shared request-scoped resolvers used by protected
// module handlers.
type Base struct {
	resolveUserID   module.ResolveUserID
	resolveLanguage module.ResolveLanguage
	resolveViewer   module.ResolveViewer
}

// NewBase builds a handler base from explicit resolver functions.
func NewBase(resolveUserID module.ResolveUserID, resolveLanguage module.ResolveLanguage, resolveViewer module.ResolveViewer) Base {
	return Base{
		resolveUserID:   resolveUserID,
		resolveLanguage: resolveLanguage,
		resolveViewer:   resolveViewer,
	}
}

// NewTestBase builds a handler base with fixed resolvers for tests.
func NewTestBase(userID string) Base {
	return Base{
		resolveUserID:   func(*http.Request) string { return userID },
		resolveLanguage: func(*http.Request) string { return "" },
		resolveViewer: func(*http.Request) module.Viewer {
			return module.Viewer{Username: userID, SignedIn: userID != ""}
		},
	}
}

// ResolveRequestViewer resolves app chrome viewer state for a request.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
}

// ResolveRequestLanguage returns the effective request language.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.resolveLanguage == nil {
		return ""
	}
	return b.resolveLanguage(r)
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (catalog.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r, b.resolveLanguage)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, &b)
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, &b)
}

// RequestUserID extracts the authenticated user ID from the request.
func (b Base) RequestUserID(r *http.Request) string {
	if r == nil || b.resolveUserID == nil {
		return ""
	}
	return strings.TrimSpace(b.resolveUserID(r))
}

// WritePage renders a full module page, HTMX-aware.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, &b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}
