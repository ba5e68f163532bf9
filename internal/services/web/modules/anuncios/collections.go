package anuncios

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/auth/sharegrant"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	flashnotice "github.com/meusanuncios/anuncios/internal/services/web/platform/flash"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/httpx"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/requestmeta"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

// listingPageSize bounds how many listings a detail page loads.
const listingPageSize = 200

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	accessible, err := h.listings.ListAccessibleCollections(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	page := webtemplates.CollectionsPage(loc, collectionViews(accessible))
	h.WritePage(w, r, webtemplates.T(loc, "collections.title"), http.StatusOK, page)
}

func (h handlers) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse collection form", err))
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	ownerKind := storage.OwnerKindUser
	ownerID := userID
	if orgID := strings.TrimSpace(r.FormValue("org_id")); orgID != "" {
		ownerKind = storage.OwnerKindOrg
		ownerID = orgID
	}
	collection, err := h.listings.CreateCollection(r.Context(), userID, name, ownerKind, ownerID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("collections.notice_created"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+collection.ID)
}

func (h handlers) handleCollection(w http.ResponseWriter, r *http.Request) {
	state, err := h.loadDetail(r, r.PathValue("id"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.renderDetail(w, r, http.StatusOK, state)
}

func (h handlers) handleRename(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse rename form", err))
		return
	}
	if err := h.listings.RenameCollection(r.Context(), userID, collectionID, r.FormValue("name")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("collections.notice_renamed"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+collectionID)
}

func (h handlers) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	if err := h.listings.DeleteCollection(r.Context(), userID, r.PathValue("id")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("collections.notice_deleted"))
	httpx.WriteRedirect(w, r, routepath.Collections)
}

func (h handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	export, err := h.listings.ExportCollection(r.Context(), userID, collectionID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="colecao-`+collectionID+`.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h handlers) handleImport(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse import form", err))
		return
	}
	if _, err := h.listings.ImportPayload(r.Context(), userID, collectionID, r.FormValue("payload")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("collections.notice_imported"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+collectionID)
}

func (h handlers) handleGrantShare(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse share form", err))
		return
	}
	grantee, err := h.users.GetUserByUsername(r.Context(), r.FormValue("username"))
	if err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeShareGranteeMissing, "share grantee not found", err))
		return
	}
	role := storage.ShareRole(strings.TrimSpace(r.FormValue("role")))
	if _, err := h.listings.GrantShare(r.Context(), userID, collectionID, grantee.ID, role); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("collections.notice_shared"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+collectionID)
}

func (h handlers) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	if err := h.listings.RevokeShare(r.Context(), userID, r.PathValue("shareID")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("collections.notice_revoked"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+collectionID)
}

// handleShareLink mints a share-grant link and re-renders the detail
// page with the link visible, so no redirect here.
func (h handlers) handleShareLink(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse share link form", err))
		return
	}
	state, err := h.loadDetail(r, collectionID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if state.role < listapp.AccessOwner {
		h.WriteError(w, r, apperrors.New(apperrors.CodeAccessOwnerRequired, "collection owner access is required"))
		return
	}
	role := strings.TrimSpace(r.FormValue("role"))
	if role == "" {
		role = string(storage.ShareRoleViewer)
	}
	grant, err := sharegrant.Mint(h.grants, collectionID, role, userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	state.shareLink = shareLinkURL(r, grant)
	h.renderDetail(w, r, http.StatusOK, state)
}

func (h handlers) handleParse(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse ad text form", err))
		return
	}
	sourceText := r.FormValue("source_text")
	draft, err := h.parser.ParseListingText(r.Context(), userID, sourceText)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	if httpx.IsHTMXRequest(r) {
		loc, _ := h.PageLocalizer(w, r)
		form := webtemplates.ListingForm(loc, collectionID, draftView(draft), strings.TrimSpace(sourceText))
		var buf bytes.Buffer
		if err := form.Render(httpx.RequestContext(r), &buf); err != nil {
			h.WriteError(w, r, err)
			return
		}
		_ = httpx.WriteHTML(w, http.StatusOK, buf.String())
		return
	}

	state, err := h.loadDetail(r, collectionID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	state.form = draftView(draft)
	state.sourceText = strings.TrimSpace(sourceText)
	h.renderDetail(w, r, http.StatusOK, state)
}

func (h handlers) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	collectionID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse listing form", err))
		return
	}
	listing, err := readListingForm(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	listing.CollectionID = collectionID
	listing.CreatedBy = userID
	if _, err := h.listings.CreateListing(r.Context(), userID, listing); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("anuncios.notice_saved"))
	httpx.WriteRedirect(w, r, routepath.CollectionsPrefix+collectionID)
}

func (h handlers) loadDetail(r *http.Request, collectionID string) (detailState, error) {
	userID := h.RequestUserID(r)
	collection, role, err := h.listings.GetCollection(r.Context(), userID, collectionID)
	if err != nil {
		return detailState{}, err
	}
	page, err := h.listings.ListListings(r.Context(), userID, collectionID, listingPageSize, "")
	if err != nil {
		return detailState{}, err
	}

	state := detailState{
		collection: collection,
		role:       role,
		listings:   page.Listings,
	}

	if role >= listapp.AccessEditor {
		accessible, err := h.listings.ListAccessibleCollections(r.Context(), userID)
		if err != nil {
			return detailState{}, err
		}
		for _, entry := range accessible {
			if entry.Collection.ID == collectionID || entry.Role < listapp.AccessEditor {
				continue
			}
			state.moveTargets = append(state.moveTargets, collectionView(entry))
		}
	}

	if role >= listapp.AccessOwner {
		shares, err := h.listings.ListShares(r.Context(), userID, collectionID)
		if err != nil {
			return detailState{}, err
		}
		for _, share := range shares {
			view := webtemplates.ShareView{ID: share.ID, Role: string(share.Role)}
			if grantee, err := h.users.GetUser(r.Context(), share.GranteeUserID); err == nil {
				view.Username = grantee.Username
			} else {
				view.Username = share.GranteeUserID
			}
			state.shares = append(state.shares, view)
		}
	}
	return state, nil
}

func (h handlers) renderDetail(w http.ResponseWriter, r *http.Request, statusCode int, state detailState) {
	loc, lang := h.PageLocalizer(w, r)
	h.WritePage(w, r, state.collection.Name, statusCode, state.fragment(loc, lang))
}

func shareLinkURL(r *http.Request, grant string) string {
	scheme := "http"
	if requestmeta.IsHTTPS(r) {
		scheme = "https"
	}
	host := ""
	if r != nil {
		host = r.Host
	}
	return scheme + "://" + host + routepath.Claim + "?grant=" + grant
}
