package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "listing.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func seedCollection(t *testing.T, store *Store, id string) {
	t.Helper()
	err := store.CreateCollection(context.Background(), storage.Collection{
		ID:        id,
		Name:      "Apartamentos",
		OwnerKind: storage.OwnerKindUser,
		OwnerID:   "user-1",
	})
	if err != nil {
		t.Fatalf("seed collection: %v", err)
	}
}

func TestCreateAndGetListing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "col-1")

	created := storage.Listing{
		ID:            "lst-1",
		CollectionID:  "col-1",
		CreatedBy:     "user-1",
		Title:         "Apartamento 2 quartos no Flamengo",
		Street:        "Rua Paissandu 100",
		Neighborhood:  "Flamengo",
		City:          "Rio de Janeiro",
		PriceCents:    650000_00,
		CondoFeeCents: 1200_00,
		IPTUCents:     2400_00,
		AreaM2:        72.5,
		Bedrooms:      2,
		Bathrooms:     1,
		ParkingSpots:  1,
		Amenities:     []string{"portaria 24h", "elevador"},
		ContactName:   "Maria",
		ContactPhone:  "+55 21 99999-0000",
		URL:           "https://example.com/anuncio/1",
		SourceText:    "Apartamento 2 quartos...",
		CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.CreateListing(ctx, created); err != nil {
		t.Fatalf("create listing: %v", err)
	}

	got, err := store.GetListing(ctx, "lst-1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.Title != created.Title {
		t.Fatalf("title = %q, want %q", got.Title, created.Title)
	}
	if got.PriceCents != created.PriceCents {
		t.Fatalf("price = %d, want %d", got.PriceCents, created.PriceCents)
	}
	if len(got.Amenities) != 2 || got.Amenities[0] != "portaria 24h" {
		t.Fatalf("amenities = %v", got.Amenities)
	}
	if got.Status != storage.ListingStatusActive {
		t.Fatalf("status = %q, want active default", got.Status)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created at = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestCreateListingDuplicateID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "col-1")

	listing := storage.Listing{ID: "lst-1", CollectionID: "col-1", Title: "Casa"}
	if err := store.CreateListing(ctx, listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if err := store.CreateListing(ctx, listing); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetListingNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetListing(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateListing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "col-1")

	listing := storage.Listing{ID: "lst-1", CollectionID: "col-1", Title: "Casa"}
	if err := store.CreateListing(ctx, listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}

	listing.Title = "Casa com quintal"
	listing.Status = storage.ListingStatusArchived
	listing.PriceCents = 450000_00
	if err := store.UpdateListing(ctx, listing); err != nil {
		t.Fatalf("update listing: %v", err)
	}

	got, err := store.GetListing(ctx, "lst-1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.Title != "Casa com quintal" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Status != storage.ListingStatusArchived {
		t.Fatalf("status = %q, want archived", got.Status)
	}

	missing := storage.Listing{ID: "missing", CollectionID: "col-1", Title: "x"}
	if err := store.UpdateListing(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteListing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "col-1")

	if err := store.CreateListing(ctx, storage.Listing{ID: "lst-1", CollectionID: "col-1", Title: "Casa"}); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if err := store.DeleteListing(ctx, "lst-1"); err != nil {
		t.Fatalf("delete listing: %v", err)
	}
	if _, err := store.GetListing(ctx, "lst-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteListing(ctx, "lst-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListListingsPagination(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "col-1")
	seedCollection(t, store, "col-2")

	ids := []string{"lst-a", "lst-b", "lst-c"}
	for _, id := range ids {
		if err := store.CreateListing(ctx, storage.Listing{ID: id, CollectionID: "col-1", Title: id}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := store.CreateListing(ctx, storage.Listing{ID: "lst-other", CollectionID: "col-2", Title: "other"}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	first, err := store.ListListings(ctx, "col-1", 2, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Listings) != 2 {
		t.Fatalf("first page size = %d, want 2", len(first.Listings))
	}
	if first.NextPageToken == "" {
		t.Fatal("expected next page token")
	}

	second, err := store.ListListings(ctx, "col-1", 2, first.NextPageToken)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Listings) != 1 {
		t.Fatalf("second page size = %d, want 1", len(second.Listings))
	}
	if second.NextPageToken != "" {
		t.Fatalf("unexpected next page token %q", second.NextPageToken)
	}
	if second.Listings[0].ID != "lst-c" {
		t.Fatalf("second page listing = %q, want lst-c", second.Listings[0].ID)
	}

	count, err := store.CountListings(ctx, "col-1")
	if err != nil {
		t.Fatalf("count listings: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestCollectionLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedCollection(t, store, "col-1")
	got, err := store.GetCollection(ctx, "col-1")
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	if got.Name != "Apartamentos" || got.OwnerKind != storage.OwnerKindUser {
		t.Fatalf("unexpected collection %+v", got)
	}

	renamedAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if err := store.RenameCollection(ctx, "col-1", "Casas", renamedAt); err != nil {
		t.Fatalf("rename collection: %v", err)
	}
	got, err = store.GetCollection(ctx, "col-1")
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	if got.Name != "Casas" {
		t.Fatalf("name = %q, want Casas", got.Name)
	}
	if !got.UpdatedAt.Equal(renamedAt) {
		t.Fatalf("updated at = %v, want %v", got.UpdatedAt, renamedAt)
	}

	count, err := store.CountCollectionsByOwner(ctx, storage.OwnerKindUser, "user-1")
	if err != nil {
		t.Fatalf("count collections: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	if err := store.DeleteCollection(ctx, "col-1"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}
	if _, err := store.GetCollection(ctx, "col-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMembershipLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	org := storage.Organization{ID: "org-1", Name: "Imobiliária Sol", CreatedBy: "user-1"}
	if err := store.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("create organization: %v", err)
	}

	admin := storage.Membership{OrgID: "org-1", UserID: "user-1", Role: storage.OrgRoleAdmin}
	if err := store.CreateMembership(ctx, admin); err != nil {
		t.Fatalf("create admin membership: %v", err)
	}
	if err := store.CreateMembership(ctx, admin); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	member := storage.Membership{OrgID: "org-1", UserID: "user-2", Role: storage.OrgRoleMember}
	if err := store.CreateMembership(ctx, member); err != nil {
		t.Fatalf("create member membership: %v", err)
	}

	got, err := store.GetMembership(ctx, "org-1", "user-2")
	if err != nil {
		t.Fatalf("get membership: %v", err)
	}
	if got.Role != storage.OrgRoleMember {
		t.Fatalf("role = %q, want member", got.Role)
	}

	byOrg, err := store.ListMembershipsByOrg(ctx, "org-1")
	if err != nil {
		t.Fatalf("list by org: %v", err)
	}
	if len(byOrg) != 2 {
		t.Fatalf("org memberships = %d, want 2", len(byOrg))
	}

	byUser, err := store.ListMembershipsByUser(ctx, "user-2")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 1 {
		t.Fatalf("user memberships = %d, want 1", len(byUser))
	}

	if err := store.DeleteMembership(ctx, "org-1", "user-2"); err != nil {
		t.Fatalf("delete membership: %v", err)
	}
	if _, err := store.GetMembership(ctx, "org-1", "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestShareLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "col-1")

	share := storage.Share{
		ID:            "shr-1",
		CollectionID:  "col-1",
		GranteeUserID: "user-2",
		Role:          storage.ShareRoleViewer,
		CreatedBy:     "user-1",
	}
	if err := store.CreateShare(ctx, share); err != nil {
		t.Fatalf("create share: %v", err)
	}

	duplicate := share
	duplicate.ID = "shr-2"
	if err := store.CreateShare(ctx, duplicate); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for same grantee, got %v", err)
	}

	got, err := store.GetShareForUser(ctx, "col-1", "user-2")
	if err != nil {
		t.Fatalf("get share for user: %v", err)
	}
	if got.Role != storage.ShareRoleViewer {
		t.Fatalf("role = %q, want viewer", got.Role)
	}

	byCollection, err := store.ListSharesByCollection(ctx, "col-1")
	if err != nil {
		t.Fatalf("list by collection: %v", err)
	}
	if len(byCollection) != 1 {
		t.Fatalf("collection shares = %d, want 1", len(byCollection))
	}

	byUser, err := store.ListSharesByUser(ctx, "user-2")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 1 {
		t.Fatalf("user shares = %d, want 1", len(byUser))
	}

	if err := store.DeleteShare(ctx, "shr-1"); err != nil {
		t.Fatalf("delete share: %v", err)
	}
	if _, err := store.GetShareForUser(ctx, "col-1", "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCollectionRemovesShares(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCollection(t, store, "col-1")

	share := storage.Share{
		ID:            "shr-1",
		CollectionID:  "col-1",
		GranteeUserID: "user-2",
		Role:          storage.ShareRoleEditor,
		CreatedBy:     "user-1",
	}
	if err := store.CreateShare(ctx, share); err != nil {
		t.Fatalf("create share: %v", err)
	}
	if err := store.DeleteCollection(ctx, "col-1"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}
	shares, err := store.ListSharesByUser(ctx, "user-2")
	if err != nil {
		t.Fatalf("list shares: %v", err)
	}
	if len(shares) != 0 {
		t.Fatalf("shares = %d, want 0 after collection delete", len(shares))
	}
}
