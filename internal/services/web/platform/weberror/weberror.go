// Package weberror renders shared app-shell error responses for web modules.
package weberror

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/platform/i18n/catalog"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/httpx"
	webi18n "github.com/meusanuncios/anuncios/internal/services/web/platform/i18n"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

// Resolver supplies viewer and language state for error rendering.
type Resolver interface {
	ResolveRequestViewer(r *http.Request) module.Viewer
	ResolveRequestLanguage(r *http.Request) string
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc catalog.Localizer, err error) string {
	statusCode := http.StatusInternalServerError
	if err != nil {
		statusCode = apperrors.GetCode(err).HTTPStatus()
	}
	if loc != nil {
		if localized := strings.TrimSpace(webtemplates.ErrorPageTitle(statusCode, loc)); localized != "" {
			return localized
		}
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// WriteAppError writes a localized app-shell error page for full-page and
// HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, resolver Resolver) {
	if w == nil {
		return
	}
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}

	var resolveLanguage module.ResolveLanguage
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, resolveLanguage)
	fragment := webtemplates.ErrorState(statusCode, loc)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	if httpx.IsHTMXRequest(r) {
		content := webtemplates.MainContent()
		if err := content.Render(templ.WithChildren(requestContext(r), fragment), w); err != nil {
			http.Error(w, PublicMessage(loc, err), statusCode)
		}
		return
	}

	viewer := module.Viewer{}
	if resolver != nil {
		viewer = resolver.ResolveRequestViewer(r)
	}
	title := webtemplates.ErrorPageTitle(statusCode, loc)
	layout := webtemplates.Layout(title, lang, viewer, nil, loc)
	if err := layout.Render(templ.WithChildren(requestContext(r), fragment), w); err != nil {
		http.Error(w, PublicMessage(loc, err), statusCode)
	}
}

// WriteModuleError maps a domain error to its HTTP status and renders it.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolver Resolver) {
	if w == nil {
		return
	}
	WriteAppError(w, r, apperrors.GetCode(err).HTTPStatus(), resolver)
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
