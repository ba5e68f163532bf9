package anuncios

import (
	"context"
	"strconv"
	"time"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/ai"
	"github.com/meusanuncios/anuncios/internal/services/auth/user"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	"github.com/meusanuncios/anuncios/internal/services/listing/transfer"
)

type fakeListingService struct {
	collections map[string]storage.Collection
	roles       map[string]listapp.AccessRole
	listings    map[string]storage.Listing
	shares      map[string]storage.Share
	nextID      int

	renamed map[string]string
	deleted []string
	moved   map[string]string
	imports map[string]string
}

func newFakeListingService() *fakeListingService {
	return &fakeListingService{
		collections: map[string]storage.Collection{},
		roles:       map[string]listapp.AccessRole{},
		listings:    map[string]storage.Listing{},
		shares:      map[string]storage.Share{},
		renamed:     map[string]string{},
		moved:       map[string]string{},
		imports:     map[string]string{},
	}
}

func (f *fakeListingService) addCollection(id, name string, role listapp.AccessRole) {
	f.collections[id] = storage.Collection{
		ID:        id,
		Name:      name,
		OwnerKind: storage.OwnerKindUser,
		OwnerID:   "user-1",
	}
	f.roles[id] = role
}

func (f *fakeListingService) genID(prefix string) string {
	f.nextID++
	return prefix + "-" + strconv.Itoa(f.nextID)
}

func (f *fakeListingService) ListAccessibleCollections(_ context.Context, _ string) ([]listapp.AccessibleCollection, error) {
	var out []listapp.AccessibleCollection
	for id, collection := range f.collections {
		out = append(out, listapp.AccessibleCollection{Collection: collection, Role: f.roles[id]})
	}
	return out, nil
}

func (f *fakeListingService) CreateCollection(_ context.Context, actorID, name string, ownerKind storage.OwnerKind, ownerID string) (storage.Collection, error) {
	if name == "" {
		return storage.Collection{}, apperrors.New(apperrors.CodeCollectionNameEmpty, "collection name is required")
	}
	collection := storage.Collection{ID: f.genID("col"), Name: name, OwnerKind: ownerKind, OwnerID: ownerID}
	f.collections[collection.ID] = collection
	f.roles[collection.ID] = listapp.AccessOwner
	_ = actorID
	return collection, nil
}

func (f *fakeListingService) GetCollection(_ context.Context, _, collectionID string) (storage.Collection, listapp.AccessRole, error) {
	collection, ok := f.collections[collectionID]
	if !ok {
		return storage.Collection{}, listapp.AccessNone, apperrors.New(apperrors.CodeNotFound, "collection not found")
	}
	role := f.roles[collectionID]
	if role == listapp.AccessNone {
		return storage.Collection{}, listapp.AccessNone, apperrors.New(apperrors.CodeAccessDenied, "collection access is denied")
	}
	return collection, role, nil
}

func (f *fakeListingService) RenameCollection(_ context.Context, _, collectionID, name string) error {
	f.renamed[collectionID] = name
	return nil
}

func (f *fakeListingService) DeleteCollection(_ context.Context, _, collectionID string) error {
	f.deleted = append(f.deleted, collectionID)
	delete(f.collections, collectionID)
	return nil
}

func (f *fakeListingService) ListListings(_ context.Context, _, collectionID string, _ int, _ string) (storage.ListingPage, error) {
	var page storage.ListingPage
	for _, listing := range f.listings {
		if listing.CollectionID == collectionID {
			page.Listings = append(page.Listings, listing)
		}
	}
	return page, nil
}

func (f *fakeListingService) CreateListing(_ context.Context, _ string, listing storage.Listing) (storage.Listing, error) {
	if listing.Title == "" {
		return storage.Listing{}, apperrors.New(apperrors.CodeListingTitleEmpty, "listing title is required")
	}
	listing.ID = f.genID("lst")
	if listing.Status == "" {
		listing.Status = storage.ListingStatusActive
	}
	f.listings[listing.ID] = listing
	return listing, nil
}

func (f *fakeListingService) GetListing(_ context.Context, _, listingID string) (storage.Listing, error) {
	listing, ok := f.listings[listingID]
	if !ok {
		return storage.Listing{}, apperrors.New(apperrors.CodeNotFound, "listing not found")
	}
	return listing, nil
}

func (f *fakeListingService) UpdateListing(_ context.Context, _ string, updated storage.Listing) (storage.Listing, error) {
	if _, ok := f.listings[updated.ID]; !ok {
		return storage.Listing{}, apperrors.New(apperrors.CodeNotFound, "listing not found")
	}
	f.listings[updated.ID] = updated
	return updated, nil
}

func (f *fakeListingService) SetListingStatus(_ context.Context, _, listingID string, status storage.ListingStatus) (storage.Listing, error) {
	listing, ok := f.listings[listingID]
	if !ok {
		return storage.Listing{}, apperrors.New(apperrors.CodeNotFound, "listing not found")
	}
	listing.Status = status
	f.listings[listingID] = listing
	return listing, nil
}

func (f *fakeListingService) DeleteListing(_ context.Context, _, listingID string) error {
	f.deleted = append(f.deleted, listingID)
	delete(f.listings, listingID)
	return nil
}

func (f *fakeListingService) MoveListing(_ context.Context, _, listingID, destCollectionID string) (storage.Listing, error) {
	listing, ok := f.listings[listingID]
	if !ok {
		return storage.Listing{}, apperrors.New(apperrors.CodeNotFound, "listing not found")
	}
	listing.CollectionID = destCollectionID
	f.listings[listingID] = listing
	f.moved[listingID] = destCollectionID
	return listing, nil
}

func (f *fakeListingService) GrantShare(_ context.Context, _, collectionID, granteeUserID string, role storage.ShareRole) (storage.Share, error) {
	share := storage.Share{ID: f.genID("share"), CollectionID: collectionID, GranteeUserID: granteeUserID, Role: role}
	f.shares[share.ID] = share
	return share, nil
}

func (f *fakeListingService) RevokeShare(_ context.Context, _, shareID string) error {
	if _, ok := f.shares[shareID]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "share not found")
	}
	delete(f.shares, shareID)
	return nil
}

func (f *fakeListingService) ListShares(_ context.Context, _, collectionID string) ([]storage.Share, error) {
	var out []storage.Share
	for _, share := range f.shares {
		if share.CollectionID == collectionID {
			out = append(out, share)
		}
	}
	return out, nil
}

func (f *fakeListingService) ExportCollection(_ context.Context, _, collectionID string) (transfer.Export, error) {
	collection, ok := f.collections[collectionID]
	if !ok {
		return transfer.Export{}, apperrors.New(apperrors.CodeNotFound, "collection not found")
	}
	page, _ := f.ListListings(context.Background(), "", collectionID, 0, "")
	return transfer.BuildExport(collection, page.Listings, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), nil
}

func (f *fakeListingService) ImportPayload(_ context.Context, _, collectionID, payload string) (int, error) {
	f.imports[collectionID] = payload
	return 1, nil
}

type fakeUserDirectory struct {
	users map[string]user.User
}

func (f fakeUserDirectory) GetUser(_ context.Context, userID string) (user.User, error) {
	record, ok := f.users[userID]
	if !ok {
		return user.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	return record, nil
}

func (f fakeUserDirectory) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	for _, record := range f.users {
		if record.Username == username {
			return record, nil
		}
	}
	return user.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
}

type fakeParser struct {
	draft ai.Draft
	err   error
	text  string
}

func (f *fakeParser) ParseListingText(_ context.Context, _, text string) (ai.Draft, error) {
	f.text = text
	if f.err != nil {
		return ai.Draft{}, f.err
	}
	return f.draft, nil
}
