// Package anuncios serves the authenticated collections and listings
// surface, including AI parsing, sharing, and JSON transfer.
package anuncios

import (
	"context"
	"net/http"

	"github.com/meusanuncios/anuncios/internal/services/ai"
	"github.com/meusanuncios/anuncios/internal/services/auth/sharegrant"
	"github.com/meusanuncios/anuncios/internal/services/auth/user"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	"github.com/meusanuncios/anuncios/internal/services/listing/transfer"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// ListingService covers the listing operations used by web handlers.
type ListingService interface {
	ListAccessibleCollections(ctx context.Context, actorID string) ([]listapp.AccessibleCollection, error)
	CreateCollection(ctx context.Context, actorID, name string, ownerKind storage.OwnerKind, ownerID string) (storage.Collection, error)
	GetCollection(ctx context.Context, actorID, collectionID string) (storage.Collection, listapp.AccessRole, error)
	RenameCollection(ctx context.Context, actorID, collectionID, name string) error
	DeleteCollection(ctx context.Context, actorID, collectionID string) error
	ListListings(ctx context.Context, actorID, collectionID string, pageSize int, pageToken string) (storage.ListingPage, error)
	CreateListing(ctx context.Context, actorID string, listing storage.Listing) (storage.Listing, error)
	GetListing(ctx context.Context, actorID, listingID string) (storage.Listing, error)
	UpdateListing(ctx context.Context, actorID string, updated storage.Listing) (storage.Listing, error)
	SetListingStatus(ctx context.Context, actorID, listingID string, status storage.ListingStatus) (storage.Listing, error)
	DeleteListing(ctx context.Context, actorID, listingID string) error
	MoveListing(ctx context.Context, actorID, listingID, destCollectionID string) (storage.Listing, error)
	GrantShare(ctx context.Context, actorID, collectionID, granteeUserID string, role storage.ShareRole) (storage.Share, error)
	RevokeShare(ctx context.Context, actorID, shareID string) error
	ListShares(ctx context.Context, actorID, collectionID string) ([]storage.Share, error)
	ExportCollection(ctx context.Context, actorID, collectionID string) (transfer.Export, error)
	ImportPayload(ctx context.Context, actorID, collectionID, payload string) (int, error)
}

// UserDirectory resolves users for share management.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

// ListingParser turns pasted ad text into a listing draft.
type ListingParser interface {
	ParseListingText(ctx context.Context, userID, text string) (ai.Draft, error)
}

// Module provides the authenticated listing management routes.
type Module struct {
	listings ListingService
	users    UserDirectory
	parser   ListingParser
	grants   sharegrant.Config
	base     modulehandler.Base
}

// New returns an anuncios module.
func New(listings ListingService, users UserDirectory, parser ListingParser, grants sharegrant.Config, base modulehandler.Base) Module {
	return Module{listings: listings, users: users, parser: parser, grants: grants, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "anuncios" }

// Mount wires collection and listing routes under /app/.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{
		Base:     m.base,
		listings: m.listings,
		users:    m.users,
		parser:   m.parser,
		grants:   m.grants,
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Collections, h.handleIndex)
	mux.HandleFunc(http.MethodPost+" "+routepath.Collections, h.handleCreateCollection)
	mux.HandleFunc(http.MethodGet+" "+routepath.CollectionPattern, h.handleCollection)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionRenamePattern, h.handleRename)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionDeletePattern, h.handleDeleteCollection)
	mux.HandleFunc(http.MethodGet+" "+routepath.CollectionExportPattern, h.handleExport)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionImportPattern, h.handleImport)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionSharesPattern, h.handleGrantShare)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionRevokePattern, h.handleRevokeShare)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionShareLinkPattern, h.handleShareLink)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionParsePattern, h.handleParse)
	mux.HandleFunc(http.MethodPost+" "+routepath.CollectionListingsPattern, h.handleCreateListing)
	mux.HandleFunc(http.MethodGet+" "+routepath.ListingPattern, h.handleListing)
	mux.HandleFunc(http.MethodPost+" "+routepath.ListingPattern, h.handleUpdateListing)
	mux.HandleFunc(http.MethodPost+" "+routepath.ListingArchivePattern, h.handleArchive)
	mux.HandleFunc(http.MethodPost+" "+routepath.ListingUnarchivePattern, h.handleUnarchive)
	mux.HandleFunc(http.MethodPost+" "+routepath.ListingDeletePattern, h.handleDeleteListing)
	mux.HandleFunc(http.MethodPost+" "+routepath.ListingMovePattern, h.handleMoveListing)
	mux.HandleFunc("/app/", h.handleNotFound)
	return module.Mount{Prefix: "/app/", Handler: mux}, nil
}

type handlers struct {
	modulehandler.Base
	listings ListingService
	users    UserDirectory
	parser   ListingParser
	grants   sharegrant.Config
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
