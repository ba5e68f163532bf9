package claim

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/auth/sharegrant"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
)

type fakeShareService struct {
	collection  storage.Collection
	describeErr error
	claimErr    error
	claimed     []storage.Share
}

func (f *fakeShareService) DescribeSharedCollection(_ context.Context, collectionID string) (storage.Collection, error) {
	if f.describeErr != nil {
		return storage.Collection{}, f.describeErr
	}
	if f.collection.ID != collectionID {
		return storage.Collection{}, apperrors.New(apperrors.CodeNotFound, "collection not found")
	}
	return f.collection, nil
}

func (f *fakeShareService) ClaimShareGrant(_ context.Context, userID, collectionID string, role storage.ShareRole) (storage.Share, error) {
	if f.claimErr != nil {
		return storage.Share{}, f.claimErr
	}
	share := storage.Share{ID: "share-1", CollectionID: collectionID, GranteeUserID: userID, Role: role}
	f.claimed = append(f.claimed, share)
	return share, nil
}

func testConfig(t *testing.T) sharegrant.Config {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return sharegrant.Config{
		Issuer:   "anuncios",
		Audience: "anuncios-web",
		Key:      key,
		TTL:      time.Hour,
	}
}

func mountClaim(t *testing.T, listings ShareService, grants sharegrant.Config, userID string) http.Handler {
	t.Helper()
	mount, err := New(listings, grants, modulehandler.NewTestBase(userID)).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return mount.Handler
}

func TestClaimPageShowsCollection(t *testing.T) {
	grants := testConfig(t)
	grant, err := sharegrant.Mint(grants, "col-1", "viewer", "user-9")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	listings := &fakeShareService{collection: storage.Collection{ID: "col-1", Name: "Imóveis BH"}}
	handler := mountClaim(t, listings, grants, "user-1")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compartilhado?grant="+url.QueryEscape(grant), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200:\n%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "Imóveis BH") {
		t.Fatalf("page missing collection name:\n%s", body)
	}
	if !strings.Contains(body, `name="grant"`) {
		t.Fatal("page missing grant field")
	}
}

func TestClaimPageAnonymousRedirectsToLogin(t *testing.T) {
	handler := mountClaim(t, &fakeShareService{}, testConfig(t), "")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compartilhado?grant=abc", nil))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/login" {
		t.Fatalf("location = %q", got)
	}
}

func TestClaimPageRejectsForgedGrant(t *testing.T) {
	grants := testConfig(t)
	other := testConfig(t)
	grant, err := sharegrant.Mint(other, "col-1", "viewer", "user-9")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	handler := mountClaim(t, &fakeShareService{}, grants, "user-1")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compartilhado?grant="+url.QueryEscape(grant), nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestClaimPageRejectsExpiredGrant(t *testing.T) {
	grants := testConfig(t)
	past := grants
	past.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	grant, err := sharegrant.Mint(past, "col-1", "viewer", "user-9")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	handler := mountClaim(t, &fakeShareService{}, grants, "user-1")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compartilhado?grant="+url.QueryEscape(grant), nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestClaimAcceptsGrantAndRedirects(t *testing.T) {
	grants := testConfig(t)
	grant, err := sharegrant.Mint(grants, "col-1", "editor", "user-9")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	listings := &fakeShareService{collection: storage.Collection{ID: "col-1", Name: "Imóveis BH"}}
	handler := mountClaim(t, listings, grants, "user-1")

	form := url.Values{"grant": {grant}}
	r := httptest.NewRequest(http.MethodPost, "/compartilhado", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303:\n%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != "/app/colecoes/col-1" {
		t.Fatalf("location = %q", got)
	}
	if len(listings.claimed) != 1 || listings.claimed[0].Role != storage.ShareRoleEditor {
		t.Fatalf("claimed = %+v", listings.claimed)
	}
}

func TestClaimSelfGrantError(t *testing.T) {
	grants := testConfig(t)
	grant, err := sharegrant.Mint(grants, "col-1", "viewer", "user-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	listings := &fakeShareService{
		collection: storage.Collection{ID: "col-1"},
		claimErr:   apperrors.New(apperrors.CodeShareSelfGrant, "cannot claim own collection"),
	}
	handler := mountClaim(t, listings, grants, "user-1")

	form := url.Values{"grant": {grant}}
	r := httptest.NewRequest(http.MethodPost, "/compartilhado", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
