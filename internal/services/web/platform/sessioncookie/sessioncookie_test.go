package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteAndRead(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	Write(w, r, "session-1")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != Name || cookies[0].Value != "session-1" {
		t.Fatalf("cookies = %+v", cookies)
	}
	if !cookies[0].HttpOnly || cookies[0].SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie attributes = %+v", cookies[0])
	}

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	value, ok := Read(r2)
	if !ok || value != "session-1" {
		t.Fatalf("Read() = %q, %t", value, ok)
	}
}

func TestReadMissingOrBlank(t *testing.T) {
	if _, ok := Read(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("missing cookie should not read")
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: Name, Value: "   "})
	if _, ok := Read(r); ok {
		t.Fatal("blank cookie should not read")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	w := httptest.NewRecorder()
	Clear(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}

func TestSecureOnHTTPS(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	Write(w, r, "session-1")
	if !w.Result().Cookies()[0].Secure {
		t.Fatal("cookie should be secure over https")
	}
}
