// Package catalog loads embedded locale catalogs and builds localizers.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "pt-BR"

// Localizer resolves user-facing messages for one locale.
type Localizer interface {
	// Sprintf formats the message registered under key, falling back to the
	// base locale and finally to the key itself.
	Sprintf(key string, args ...any) string
	// Locale returns the BCP 47 locale string this localizer serves.
	Locale() string
}

// Bundle contains all locale catalogs loaded from the embedded files.
type Bundle struct {
	locales map[string]map[string]string
}

//go:embed locales/*/messages.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded catalog bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads catalog files from the provided filesystem.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/messages.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]map[string]string{}}
	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		locale, messages, err := parseCatalogFile(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if locale != filepath.Base(filepath.Dir(path)) {
			return nil, fmt.Errorf("catalog %s: locale %q must match path locale", path, locale)
		}
		bundle.locales[locale] = messages
	}

	if _, ok := bundle.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}

// HasLocale reports whether the bundle carries the given locale.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}

// Locales returns the sorted locales available in the bundle.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Localizer builds a localizer for the given locale, falling back to the
// base locale when the requested one is unavailable.
func (b *Bundle) Localizer(locale string) Localizer {
	locale = strings.TrimSpace(locale)
	messages, ok := b.locales[locale]
	if !ok {
		locale = BaseLocale
		messages = b.locales[BaseLocale]
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return localizer{
		locale:   locale,
		messages: messages,
		base:     b.locales[BaseLocale],
		printer:  message.NewPrinter(tag),
	}
}

type localizer struct {
	locale   string
	messages map[string]string
	base     map[string]string
	printer  *message.Printer
}

func (l localizer) Locale() string { return l.locale }

func (l localizer) Sprintf(key string, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	format, ok := l.messages[key]
	if !ok {
		format, ok = l.base[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return l.printer.Sprintf(format, args...)
}

// parseCatalogFile reads the minimal YAML subset used by locale catalogs:
// a `locale:` header followed by a flat `messages:` map of quoted strings.
func parseCatalogFile(content string) (string, map[string]string, error) {
	locale := ""
	messages := map[string]string{}
	state := ""

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := parseQuotedValue(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return "", nil, fmt.Errorf("parse locale: %w", err)
			}
			locale = value
		case line == "messages:":
			state = "messages"
		default:
			if state != "messages" {
				return "", nil, fmt.Errorf("unexpected line %q", line)
			}
			idx := strings.Index(line, ":")
			if idx <= 0 {
				return "", nil, fmt.Errorf("invalid message entry %q", line)
			}
			key := strings.TrimSpace(line[:idx])
			value, err := parseQuotedValue(strings.TrimSpace(line[idx+1:]))
			if err != nil {
				return "", nil, fmt.Errorf("parse message %q: %w", key, err)
			}
			messages[key] = value
		}
	}

	if locale == "" {
		return "", nil, fmt.Errorf("missing locale")
	}
	if len(messages) == 0 {
		return "", nil, fmt.Errorf("missing messages")
	}
	return locale, messages, nil
}

func parseQuotedValue(raw string) (string, error) {
	if !strings.HasPrefix(raw, `"`) || !strings.HasSuffix(raw, `"`) || len(raw) < 2 {
		return "", fmt.Errorf("value %q must be double-quoted", raw)
	}
	return strconv.Unquote(raw)
}
