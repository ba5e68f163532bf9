package anuncios

import (
	"net/http"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	flashnotice "github.com/meusanuncios/anuncios/internal/services/web/platform/flash"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/httpx"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

func (h handlers) handleListing(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	listing, err := h.listings.GetListing(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	form := webtemplates.ListingForm(loc, listing.CollectionID, listingView(listing), "")
	h.WritePage(w, r, listing.Title, http.StatusOK, form)
}

func (h handlers) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	listingID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse listing form", err))
		return
	}
	current, err := h.listings.GetListing(r.Context(), userID, listingID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	updated, err := readListingForm(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	updated.ID = current.ID
	updated.CollectionID = current.CollectionID
	updated.CreatedBy = current.CreatedBy
	updated.Status = current.Status
	if updated.SourceText == "" {
		updated.SourceText = current.SourceText
	}
	if _, err := h.listings.UpdateListing(r.Context(), userID, updated); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("anuncios.notice_saved"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+current.CollectionID)
}

func (h handlers) handleArchive(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, storage.ListingStatusArchived)
}

func (h handlers) handleUnarchive(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, storage.ListingStatusActive)
}

func (h handlers) setStatus(w http.ResponseWriter, r *http.Request, status storage.ListingStatus) {
	userID := h.RequestUserID(r)
	listing, err := h.listings.SetListingStatus(r.Context(), userID, r.PathValue("id"), status)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+listing.CollectionID)
}

func (h handlers) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	listingID := r.PathValue("id")
	listing, err := h.listings.GetListing(r.Context(), userID, listingID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if err := h.listings.DeleteListing(r.Context(), userID, listingID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("anuncios.notice_deleted"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+listing.CollectionID)
}

func (h handlers) handleMoveListing(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse move form", err))
		return
	}
	moved, err := h.listings.MoveListing(r.Context(), userID, r.PathValue("id"), r.FormValue("collection_id"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("anuncios.notice_moved"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+moved.CollectionID)
}
