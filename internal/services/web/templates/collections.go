package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// CollectionView carries one collection row for rendering.
type CollectionView struct {
	ID       string
	Name     string
	Role     string
	OrgOwned bool
	Shared   bool
}

// ShareView carries one share row for rendering.
type ShareView struct {
	ID       string
	Username string
	Role     string
}

// CollectionsPage renders the collections index with the create form.
func CollectionsPage(loc Localizer, collections []CollectionView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<section><h1>")
		h.text(T(loc, "collections.title"))
		h.raw("</h1><ul class=\"collection-list\">")
		for _, collection := range collections {
			h.raw(`<li><a href="`)
			h.text(routepath.CollectionsPrefix + collection.ID)
			h.raw(`">`)
			h.text(collection.Name)
			h.raw("</a>")
			if collection.OrgOwned {
				h.raw(`<span class="badge">`)
				h.text(T(loc, "collections.org_badge"))
				h.raw("</span>")
			}
			if collection.Shared {
				h.raw(`<span class="badge">`)
				h.text(T(loc, "collections.shared_badge"))
				h.raw("</span>")
			}
			h.raw("</li>")
		}
		h.raw("</ul>")
		h.raw(`<form method="post" action="`)
		h.text(routepath.Collections)
		h.raw(`"><label for="name">`)
		h.text(T(loc, "collections.new"))
		h.raw(`</label><input id="name" name="name" required><button type="submit">`)
		h.text(T(loc, "collections.create"))
		h.raw("</button></form></section>")
		return h.err
	})
}

// CollectionHeader renders the rename/delete/export controls for one collection.
func CollectionHeader(loc Localizer, collection CollectionView, isOwner bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		base := routepath.CollectionsPrefix + collection.ID
		h.raw(`<header class="collection-header"><h1>`)
		h.text(collection.Name)
		h.raw("</h1>")
		if isOwner {
			h.raw(`<form method="post" action="`)
			h.text(base + "/rename")
			h.raw(`" class="inline"><input name="name"`)
			h.attr("value", collection.Name)
			h.raw(`><button type="submit">`)
			h.text(T(loc, "collections.rename"))
			h.raw("</button></form>")
			h.raw(`<form method="post" action="`)
			h.text(base + "/delete")
			h.raw(`" class="inline"><button type="submit">`)
			h.text(T(loc, "collections.delete"))
			h.raw("</button></form>")
		}
		h.raw(`<a class="button" href="`)
		h.text(base + "/export")
		h.raw(`">`)
		h.text(T(loc, "collections.export"))
		h.raw("</a></header>")
		return h.err
	})
}

// SharesFragment renders share management for a collection.
func SharesFragment(loc Localizer, collectionID string, shares []ShareView, shareLink string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		base := routepath.CollectionsPrefix + collectionID
		h.raw(`<section class="shares"><h2>`)
		h.text(T(loc, "collections.share.title"))
		h.raw("</h2><ul>")
		for _, share := range shares {
			h.raw("<li>")
			h.text(share.Username)
			h.raw(" · ")
			h.text(shareRoleLabel(loc, share.Role))
			h.raw(`<form method="post" action="`)
			h.text(base + "/shares/" + share.ID + "/revoke")
			h.raw(`" class="inline"><button type="submit">`)
			h.text(T(loc, "collections.share.revoke"))
			h.raw("</button></form></li>")
		}
		h.raw("</ul>")
		h.raw(`<form method="post" action="`)
		h.text(base + "/shares")
		h.raw(`"><label for="share-username">`)
		h.text(T(loc, "collections.share.username"))
		h.raw(`</label><input id="share-username" name="username" required><label for="share-role">`)
		h.text(T(loc, "collections.share.role"))
		h.raw(`</label><select id="share-role" name="role"><option value="viewer">`)
		h.text(T(loc, "collections.share.role_viewer"))
		h.raw(`</option><option value="editor">`)
		h.text(T(loc, "collections.share.role_editor"))
		h.raw(`</option></select><button type="submit">`)
		h.text(T(loc, "collections.share.grant"))
		h.raw("</button></form>")
		h.raw(`<form method="post" action="`)
		h.text(base + "/share-link")
		h.raw(`" class="inline"><input type="hidden" name="role" value="viewer"><button type="submit">`)
		h.text(T(loc, "collections.share.link"))
		h.raw("</button></form>")
		if shareLink != "" {
			h.raw(`<p class="share-link"><code>`)
			h.text(shareLink)
			h.raw("</code></p>")
		}
		h.raw("</section>")
		return h.err
	})
}

// ImportForm renders the JSON import control for a collection.
func ImportForm(loc Localizer, collectionID string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<form method="post" action="`)
		h.text(routepath.CollectionsPrefix + collectionID + "/import")
		h.raw(`" class="import-form"><textarea name="payload" rows="4"></textarea><button type="submit">`)
		h.text(T(loc, "collections.import"))
		h.raw("</button></form>")
		return h.err
	})
}

func shareRoleLabel(loc Localizer, role string) string {
	if role == "editor" {
		return T(loc, "collections.share.role_editor")
	}
	return T(loc, "collections.share.role_viewer")
}
