package catalog

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedHasBaseLocale(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("en-US") {
		t.Fatal("expected en-US locale")
	}
}

func TestLocalizerFallsBackToBase(t *testing.T) {
	loc := Default().Localizer("fr-FR")
	if loc.Locale() != BaseLocale {
		t.Fatalf("expected fallback to %s, got %s", BaseLocale, loc.Locale())
	}
	if got := loc.Sprintf("collections.title"); got != "Coleções" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestLocalizerUnknownKeyReturnsKey(t *testing.T) {
	loc := Default().Localizer("en-US")
	if got := loc.Sprintf("no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key passthrough, got %q", got)
	}
}

func TestLocalizerFormatsArguments(t *testing.T) {
	loc := Default().Localizer("en-US")
	got := loc.Sprintf("sim.payoff_month", 87)
	if !strings.Contains(got, "87") {
		t.Fatalf("expected formatted month, got %q", got)
	}
}

func TestAllBaseKeysPresentInEveryLocale(t *testing.T) {
	bundle := Default()
	base := bundle.locales[BaseLocale]
	for _, locale := range bundle.Locales() {
		messages := bundle.locales[locale]
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Errorf("locale %s is missing key %s", locale, key)
			}
		}
	}
}
