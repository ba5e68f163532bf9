package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

func TestChainAppliesInDeclarationOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), nil, tag("inner"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "handler" {
		t.Fatalf("order = %v", order)
	}
}

func TestRequestIDInjectsAndEchoes(t *testing.T) {
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("request id missing on request")
		}
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id missing on response")
	}

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "fixed-id")
	handler.ServeHTTP(w, r)
	if got := w.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Fatalf("request id = %q, want fixed-id", got)
	}
}

func TestRecoverPanicWrites500(t *testing.T) {
	handler := RecoverPanic()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestRequireMethod(t *testing.T) {
	handler := RequireMethod(http.MethodPost)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("status = %d allow = %q", w.Code, w.Header().Get("Allow"))
	}
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	err := apperrors.New(apperrors.CodeNotFound, "collection not found")
	if writeErr := WriteJSONError(w, err); writeErr != nil {
		t.Fatalf("write error: %v", writeErr)
	}
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["code"] != string(apperrors.CodeNotFound) {
		t.Fatalf("body = %v", body)
	}
}

func TestWriteRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	WriteRedirect(w, httptest.NewRequest(http.MethodPost, "/x", nil), "/destino")
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/destino" {
		t.Fatalf("status = %d location = %q", w.Code, w.Header().Get("Location"))
	}

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	r.Header.Set("HX-Request", "true")
	WriteRedirect(w, r, "/destino")
	if w.Code != http.StatusOK || w.Header().Get("HX-Redirect") != "/destino" {
		t.Fatalf("htmx status = %d redirect = %q", w.Code, w.Header().Get("HX-Redirect"))
	}
}

func TestIsHTMXRequest(t *testing.T) {
	if IsHTMXRequest(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatal("plain request reported as htmx")
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("HX-Request", "true")
	if !IsHTMXRequest(r) {
		t.Fatal("htmx request not detected")
	}
}
