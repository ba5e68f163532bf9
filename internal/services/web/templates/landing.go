package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// Landing renders the public landing page body.
func Landing(loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="hero"><h1>`)
		h.text(T(loc, "landing.title"))
		h.raw("</h1><p>")
		h.text(T(loc, "landing.tagline"))
		h.raw(`</p><a class="button" href="`)
		h.text(routepath.Register)
		h.raw(`">`)
		h.text(T(loc, "landing.cta"))
		h.raw("</a></section>")
		return h.err
	})
}
