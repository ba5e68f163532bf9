package templates

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorPageTitle returns the browser page title for error pages.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	return T(loc, errorMessageKey(statusCode))
}

// ErrorState renders the in-shell error fragment for a status code.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="error-state"><h1>`)
		h.rawf("%d", statusCode)
		h.raw("</h1><p>")
		h.text(T(loc, errorMessageKey(statusCode)))
		h.raw("</p></section>")
		return h.err
	})
}

func errorMessageKey(statusCode int) string {
	switch statusCode {
	case http.StatusNotFound:
		return "error.http.not_found"
	case http.StatusUnauthorized:
		return "error.http.unauthorized"
	case http.StatusForbidden:
		return "error.http.forbidden"
	case http.StatusPaymentRequired:
		return "error.http.quota"
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return "error.http.unavailable"
	default:
		return "error.http.internal"
	}
}
