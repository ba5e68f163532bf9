// Package templates renders the HTML surface with templ components.
package templates

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Localizer provides translated strings for web components.
type Localizer interface {
	Sprintf(key string, args ...any) string
}

// T returns a translated string or the key itself when no localizer is set.
func T(loc Localizer, key string, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if len(args) > 0 {
		return fmt.Sprintf(key, args...)
	}
	return key
}

// html accumulates markup and remembers the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) rawf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes a key="value" pair with an escaped value.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}
