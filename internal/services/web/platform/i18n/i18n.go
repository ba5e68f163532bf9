// Package i18n resolves the request locale and message localizer.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/meusanuncios/anuncios/internal/platform/i18n/catalog"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/requestmeta"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "anuncios_lang"
)

// ResolveLocalizer determines the effective locale for a request and
// returns a localizer for it. Priority: resolver (signed-in profile),
// lang query param, language cookie, Accept-Language, base locale. A
// lang param is persisted as a cookie so the choice sticks.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request, resolve module.ResolveLanguage) (catalog.Localizer, string) {
	bundle := catalog.Default()
	locale := resolveLocale(r, resolve, bundle)
	if r != nil && w != nil {
		if param := strings.TrimSpace(r.URL.Query().Get(LangParam)); param != "" && bundle.HasLocale(normalizeLocale(param)) {
			setLanguageCookie(w, r, normalizeLocale(param))
		}
	}
	return bundle.Localizer(locale), locale
}

func resolveLocale(r *http.Request, resolve module.ResolveLanguage, bundle *catalog.Bundle) string {
	if r == nil {
		return catalog.BaseLocale
	}
	if resolve != nil {
		if locale := normalizeLocale(resolve(r)); locale != "" && bundle.HasLocale(locale) {
			return locale
		}
	}
	if param := normalizeLocale(r.URL.Query().Get(LangParam)); param != "" && bundle.HasLocale(param) {
		return param
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil && cookie != nil {
		if locale := normalizeLocale(cookie.Value); locale != "" && bundle.HasLocale(locale) {
			return locale
		}
	}
	if locale := matchAcceptLanguage(r.Header.Get("Accept-Language"), bundle); locale != "" {
		return locale
	}
	return catalog.BaseLocale
}

func matchAcceptLanguage(header string, bundle *catalog.Bundle) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	var locales []string
	var supportedTags []language.Tag
	for _, locale := range bundle.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		locales = append(locales, locale)
		supportedTags = append(supportedTags, tag)
	}
	if len(supportedTags) == 0 {
		return ""
	}
	matcher := language.NewMatcher(supportedTags)
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return locales[index]
}

func normalizeLocale(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	tag, err := language.Parse(value)
	if err != nil {
		return value
	}
	return tag.String()
}

func setLanguageCookie(w http.ResponseWriter, r *http.Request, locale string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60 * 60 * 24 * 365,
	})
}
