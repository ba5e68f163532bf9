package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/web/module"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// Toast is a one-time notice rendered at the top of a page.
type Toast struct {
	Kind    string
	Message string
}

// Layout renders the full page shell around the child component.
func Layout(title, lang string, viewer module.Viewer, toast *Toast, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<!DOCTYPE html><html")
		h.attr("lang", lang)
		h.raw("><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>")
		h.text(pageTitle(title, loc))
		h.raw("</title><link rel=\"stylesheet\" href=\"/static/app.css\"><script src=\"https://unpkg.com/htmx.org@2.0.4\" defer></script></head><body>")
		renderNav(h, viewer, loc)
		if toast != nil && toast.Message != "" {
			h.raw(`<div class="toast toast-`)
			h.text(toast.Kind)
			h.raw(`">`)
			h.text(toast.Message)
			h.raw("</div>")
		}
		h.raw(`<main id="main" class="container">`)
		if h.err != nil {
			return h.err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		h.raw("</main></body></html>")
		return h.err
	})
}

// MainContent renders only the main container, used for HTMX swaps.
func MainContent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<main id="main" class="container">`)
		if h.err != nil {
			return h.err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		h.raw("</main>")
		return h.err
	})
}

func pageTitle(title string, loc Localizer) string {
	app := T(loc, "layout.app_name")
	if title == "" {
		return app
	}
	return title + " · " + app
}

func renderNav(h *html, viewer module.Viewer, loc Localizer) {
	h.raw(`<nav class="nav"><a class="brand" href="`)
	h.text(routepath.Root)
	h.raw(`">`)
	h.text(T(loc, "layout.app_name"))
	h.raw("</a><div class=\"nav-links\">")
	navLink(h, routepath.Simulator, T(loc, "layout.nav.simulator"))
	if viewer.SignedIn {
		navLink(h, routepath.Collections, T(loc, "layout.nav.collections"))
		navLink(h, routepath.Settings, T(loc, "layout.nav.settings"))
		h.raw(`<form method="post" action="`)
		h.text(routepath.Logout)
		h.raw(`" class="inline"><button type="submit">`)
		h.text(T(loc, "layout.nav.logout"))
		h.raw("</button></form>")
	} else {
		navLink(h, routepath.Login, T(loc, "layout.nav.login"))
	}
	h.raw("</div></nav>")
}

func navLink(h *html, href, label string) {
	h.raw(`<a href="`)
	h.text(href)
	h.raw(`">`)
	h.text(label)
	h.raw("</a>")
}
