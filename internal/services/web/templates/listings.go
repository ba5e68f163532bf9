package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/platform/i18n/money"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// ListingView carries one listing row for rendering.
type ListingView struct {
	ID            string
	Title         string
	Street        string
	Neighborhood  string
	City          string
	PriceCents    int64
	CondoFeeCents int64
	IPTUCents     int64
	AreaM2        float64
	Bedrooms      int
	Bathrooms     int
	ParkingSpots  int
	Amenities     []string
	ContactName   string
	ContactPhone  string
	URL           string
	Notes         string
	Archived      bool

	// ParseNote is the AI confidence remark shown with a prefilled form.
	ParseNote string
}

// ListingTable renders all listings in a collection.
func ListingTable(loc Localizer, locale string, listings []ListingView, moveTargets []CollectionView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		if len(listings) == 0 {
			h.raw(`<p class="empty">`)
			h.text(T(loc, "anuncios.empty"))
			h.raw("</p>")
			return h.err
		}
		h.raw(`<table class="listings"><thead><tr><th>`)
		h.text(T(loc, "anuncios.field.title"))
		h.raw("</th><th>")
		h.text(T(loc, "anuncios.field.price"))
		h.raw("</th><th>")
		h.text(T(loc, "anuncios.field.neighborhood"))
		h.raw("</th><th>")
		h.text(T(loc, "anuncios.field.area"))
		h.raw("</th><th>")
		h.text(T(loc, "anuncios.field.bedrooms"))
		h.raw("</th><th></th></tr></thead><tbody>")
		for _, listing := range listings {
			h.raw("<tr")
			if listing.Archived {
				h.raw(` class="archived"`)
			}
			h.raw(`><td><a href="`)
			h.text(routepath.ListingsPrefix + listing.ID)
			h.raw(`">`)
			h.text(listing.Title)
			h.raw("</a>")
			if listing.Archived {
				h.raw(`<span class="badge">`)
				h.text(T(loc, "anuncios.status.archived"))
				h.raw("</span>")
			}
			h.raw("</td><td>")
			h.text(money.FormatBRL(locale, listing.PriceCents))
			h.raw("</td><td>")
			h.text(listing.Neighborhood)
			h.raw("</td><td>")
			h.text(strconv.FormatFloat(listing.AreaM2, 'f', -1, 64))
			h.raw("</td><td>")
			h.text(strconv.Itoa(listing.Bedrooms))
			h.raw("</td><td>")
			renderListingActions(h, loc, listing, moveTargets)
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table>")
		return h.err
	})
}

func renderListingActions(h *html, loc Localizer, listing ListingView, moveTargets []CollectionView) {
	base := routepath.ListingsPrefix + listing.ID
	if listing.Archived {
		h.raw(`<form method="post" action="`)
		h.text(base + "/unarchive")
		h.raw(`" class="inline"><button type="submit">`)
		h.text(T(loc, "anuncios.unarchive"))
		h.raw("</button></form>")
	} else {
		h.raw(`<form method="post" action="`)
		h.text(base + "/archive")
		h.raw(`" class="inline"><button type="submit">`)
		h.text(T(loc, "anuncios.archive"))
		h.raw("</button></form>")
	}
	h.raw(`<form method="post" action="`)
	h.text(base + "/delete")
	h.raw(`" class="inline"><button type="submit">`)
	h.text(T(loc, "anuncios.delete"))
	h.raw("</button></form>")
	if len(moveTargets) > 0 {
		h.raw(`<form method="post" action="`)
		h.text(base + "/move")
		h.raw(`" class="inline"><select name="collection_id">`)
		for _, target := range moveTargets {
			h.raw(`<option value="`)
			h.text(target.ID)
			h.raw(`">`)
			h.text(target.Name)
			h.raw("</option>")
		}
		h.raw(`</select><button type="submit">`)
		h.text(T(loc, "anuncios.move"))
		h.raw("</button></form>")
	}
}

// ParseBox renders the paste-and-parse form that prefills the listing
// form via an HTMX swap.
func ParseBox(loc Localizer, collectionID string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="parse-box"><form method="post" action="`)
		h.text(routepath.CollectionsPrefix + collectionID + "/parse")
		h.raw(`" hx-post="`)
		h.text(routepath.CollectionsPrefix + collectionID + "/parse")
		h.raw(`" hx-target="#listing-form" hx-swap="outerHTML"><label for="source-text">`)
		h.text(T(loc, "anuncios.paste_label"))
		h.raw(`</label><textarea id="source-text" name="source_text" rows="6"></textarea><button type="submit">`)
		h.text(T(loc, "anuncios.parse"))
		h.raw("</button></form></section>")
		return h.err
	})
}

// ListingForm renders the create/edit form, optionally prefilled.
func ListingForm(loc Localizer, collectionID string, listing ListingView, sourceText string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		action := routepath.CollectionsPrefix + collectionID + "/listings"
		if listing.ID != "" {
			action = routepath.ListingsPrefix + listing.ID
		}
		h.raw(`<form id="listing-form" method="post" action="`)
		h.text(action)
		h.raw(`">`)
		if listing.ParseNote != "" {
			h.raw(`<p class="parse-note">`)
			h.text(listing.ParseNote)
			h.raw(`</p>`)
		}
		textField(h, loc, "anuncios.field.title", "title", listing.Title, true)
		centsField(h, loc, "anuncios.field.price", "price_cents", listing.PriceCents)
		centsField(h, loc, "anuncios.field.condo_fee", "condo_fee_cents", listing.CondoFeeCents)
		centsField(h, loc, "anuncios.field.iptu", "iptu_cents", listing.IPTUCents)
		numberField(h, loc, "anuncios.field.area", "area_m2", strconv.FormatFloat(listing.AreaM2, 'f', -1, 64), "0.01")
		numberField(h, loc, "anuncios.field.bedrooms", "bedrooms", strconv.Itoa(listing.Bedrooms), "1")
		numberField(h, loc, "anuncios.field.bathrooms", "bathrooms", strconv.Itoa(listing.Bathrooms), "1")
		numberField(h, loc, "anuncios.field.parking", "parking_spots", strconv.Itoa(listing.ParkingSpots), "1")
		textField(h, loc, "anuncios.field.street", "street", listing.Street, false)
		textField(h, loc, "anuncios.field.neighborhood", "neighborhood", listing.Neighborhood, false)
		textField(h, loc, "anuncios.field.city", "city", listing.City, false)
		textField(h, loc, "anuncios.field.amenities", "amenities", joinAmenities(listing.Amenities), false)
		textField(h, loc, "anuncios.field.contact_name", "contact_name", listing.ContactName, false)
		textField(h, loc, "anuncios.field.contact_phone", "contact_phone", listing.ContactPhone, false)
		textField(h, loc, "anuncios.field.url", "url", listing.URL, false)
		h.raw(`<label for="notes">`)
		h.text(T(loc, "anuncios.field.notes"))
		h.raw(`</label><textarea id="notes" name="notes" rows="3">`)
		h.text(listing.Notes)
		h.raw("</textarea>")
		if sourceText != "" {
			h.raw(`<input type="hidden" name="source_text"`)
			h.attr("value", sourceText)
			h.raw(">")
		}
		h.raw(`<button type="submit">`)
		h.text(T(loc, "anuncios.save"))
		h.raw("</button></form>")
		return h.err
	})
}

func textField(h *html, loc Localizer, key, name, value string, required bool) {
	h.raw(`<label for="`)
	h.text(name)
	h.raw(`">`)
	h.text(T(loc, key))
	h.raw(`</label><input id="`)
	h.text(name)
	h.raw(`" name="`)
	h.text(name)
	h.raw(`"`)
	h.attr("value", value)
	if required {
		h.raw(" required")
	}
	h.raw(">")
}

func centsField(h *html, loc Localizer, key, name string, cents int64) {
	value := ""
	if cents > 0 {
		value = strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
	}
	numberField(h, loc, key, name, value, "0.01")
}

func numberField(h *html, loc Localizer, key, name, value, step string) {
	if value == "0" {
		value = ""
	}
	h.raw(`<label for="`)
	h.text(name)
	h.raw(`">`)
	h.text(T(loc, key))
	h.raw(`</label><input type="number" id="`)
	h.text(name)
	h.raw(`" name="`)
	h.text(name)
	h.raw(`" step="`)
	h.text(step)
	h.raw(`" min="0"`)
	h.attr("value", value)
	h.raw(">")
}

func joinAmenities(amenities []string) string {
	out := ""
	for i, amenity := range amenities {
		if i > 0 {
			out += ", "
		}
		out += amenity
	}
	return out
}
