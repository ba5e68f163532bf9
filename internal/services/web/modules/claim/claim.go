// Package claim converts share-link grants into collection shares.
package claim

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/auth/sharegrant"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	flashnotice "github.com/meusanuncios/anuncios/internal/services/web/platform/flash"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/httpx"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

// ShareService covers the listing operations the claim flow needs.
type ShareService interface {
	DescribeSharedCollection(ctx context.Context, collectionID string) (storage.Collection, error)
	ClaimShareGrant(ctx context.Context, userID, collectionID string, role storage.ShareRole) (storage.Share, error)
}

// Module serves the share-link claim flow.
type Module struct {
	listings ShareService
	grants   sharegrant.Config
	base     modulehandler.Base
}

// New returns a claim module.
func New(listings ShareService, grants sharegrant.Config, base modulehandler.Base) Module {
	return Module{listings: listings, grants: grants, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "claim" }

// Mount wires the claim routes.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{Base: m.base, listings: m.listings, grants: m.grants}
	mux.HandleFunc(http.MethodGet+" "+routepath.Claim, h.handleClaimPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Claim, h.handleClaim)
	return module.Mount{Prefix: routepath.Claim, Handler: mux}, nil
}

type handlers struct {
	modulehandler.Base
	listings ShareService
	grants   sharegrant.Config
}

func (h handlers) handleClaimPage(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	if userID == "" {
		httpx.WriteRedirect(w, r, routepath.Login)
		return
	}
	grant := strings.TrimSpace(r.URL.Query().Get("grant"))
	claims, err := sharegrant.Verify(h.grants, grant)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	collection, err := h.listings.DescribeSharedCollection(r.Context(), claims.CollectionID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	page := webtemplates.ClaimPage(loc, collection.Name, grant)
	h.WritePage(w, r, webtemplates.T(loc, "claim.title"), http.StatusOK, page)
}

func (h handlers) handleClaim(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	if userID == "" {
		httpx.WriteRedirect(w, r, routepath.Login)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse claim form", err))
		return
	}
	grant := strings.TrimSpace(r.FormValue("grant"))
	claims, err := sharegrant.Verify(h.grants, grant)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	share, err := h.listings.ClaimShareGrant(r.Context(), userID, claims.CollectionID, storage.ShareRole(claims.Role))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("claim.notice_accepted"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+share.CollectionID)
}
