package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// ClaimPage asks the signed-in user to accept a share invite.
func ClaimPage(loc Localizer, collectionName, grant string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<section><h1>")
		h.text(T(loc, "claim.title"))
		h.raw("</h1><p>")
		h.text(T(loc, "claim.description", collectionName))
		h.raw(`</p><form method="post" action="`)
		h.text(routepath.Claim)
		h.raw(`"><input type="hidden" name="grant"`)
		h.attr("value", grant)
		h.raw(`><button type="submit">`)
		h.text(T(loc, "claim.accept"))
		h.raw("</button></form></section>")
		return h.err
	})
}
