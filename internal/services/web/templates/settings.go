package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// ProfileView carries profile form values.
type ProfileView struct {
	Username    string
	DisplayName string
	Locale      string
	Locales     []string
}

// PlanView carries the plan page state.
type PlanView struct {
	Plan             string
	CollectionsUsed  int
	CollectionsLimit string
	ListingsUsed     int
	ListingsLimit    string
	ParsesUsed       int
	ParsesLimit      string
}

// SettingsPage renders the profile form and plan block.
func SettingsPage(loc Localizer, profile ProfileView, plan PlanView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<section><h1>")
		h.text(T(loc, "settings.title"))
		h.raw("</h1><h2>")
		h.text(T(loc, "settings.profile"))
		h.raw(`</h2><form method="post" action="`)
		h.text(routepath.SettingsProfile)
		h.raw(`"><label for="username">`)
		h.text(T(loc, "auth.username"))
		h.raw(`</label><input id="username" name="username" disabled`)
		h.attr("value", profile.Username)
		h.raw(`><label for="display-name">`)
		h.text(T(loc, "auth.display_name"))
		h.raw(`</label><input id="display-name" name="display_name"`)
		h.attr("value", profile.DisplayName)
		h.raw(`><label for="locale">Idioma</label><select id="locale" name="locale">`)
		for _, locale := range profile.Locales {
			h.raw(`<option value="`)
			h.text(locale)
			h.raw(`"`)
			if locale == profile.Locale {
				h.raw(" selected")
			}
			h.raw(">")
			h.text(locale)
			h.raw("</option>")
		}
		h.raw(`</select><button type="submit">`)
		h.text(T(loc, "anuncios.save"))
		h.raw("</button></form>")

		h.raw("<h2>")
		h.text(T(loc, "settings.plan"))
		h.raw(`</h2><p class="plan-name">`)
		if plan.Plan == "pro" {
			h.text(T(loc, "settings.plan.pro"))
		} else {
			h.text(T(loc, "settings.plan.free"))
		}
		h.raw(`</p><ul class="usage"><li>`)
		h.text(T(loc, "settings.usage.collections", plan.CollectionsUsed, plan.CollectionsLimit))
		h.raw("</li><li>")
		h.text(T(loc, "settings.usage.listings", plan.ListingsUsed, plan.ListingsLimit))
		h.raw("</li><li>")
		h.text(T(loc, "settings.usage.parses", plan.ParsesUsed, plan.ParsesLimit))
		h.raw("</li></ul>")
		if plan.Plan == "pro" {
			h.raw(`<form method="post" action="`)
			h.text(routepath.SettingsPlan + "/cancel")
			h.raw(`"><button type="submit">`)
			h.text(T(loc, "settings.plan.cancel"))
			h.raw("</button></form>")
		} else {
			h.raw(`<form method="post" action="`)
			h.text(routepath.SettingsPlan + "/activate")
			h.raw(`"><button type="submit">`)
			h.text(T(loc, "settings.plan.activate"))
			h.raw("</button></form>")
		}
		h.raw("</section>")
		return h.err
	})
}
