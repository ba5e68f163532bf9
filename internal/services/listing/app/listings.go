package app

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

const defaultPageSize = 50

func validateListing(listing storage.Listing) error {
	if strings.TrimSpace(listing.Title) == "" {
		return apperrors.New(apperrors.CodeListingTitleEmpty, "listing title is required")
	}
	if strings.TrimSpace(listing.CollectionID) == "" {
		return apperrors.New(apperrors.CodeListingCollectionMissing, "listing collection is required")
	}
	if listing.PriceCents < 0 || listing.CondoFeeCents < 0 || listing.IPTUCents < 0 {
		return apperrors.New(apperrors.CodeListingInvalidPrice, "listing amounts must not be negative")
	}
	switch listing.Status {
	case "", storage.ListingStatusActive, storage.ListingStatusArchived:
	default:
		return apperrors.New(apperrors.CodeListingInvalidStatus, "listing status must be active or archived")
	}
	return nil
}

// CreateListing creates a listing inside a collection the actor can edit.
func (s *Service) CreateListing(ctx context.Context, actorID string, listing storage.Listing) (storage.Listing, error) {
	if err := validateListing(listing); err != nil {
		return storage.Listing{}, err
	}
	if _, err := s.requireAccess(ctx, actorID, listing.CollectionID, AccessEditor); err != nil {
		return storage.Listing{}, err
	}

	collection, err := s.store.GetCollection(ctx, listing.CollectionID)
	if err != nil {
		return storage.Listing{}, err
	}
	subject, err := s.billingSubject(ctx, collection)
	if err != nil {
		return storage.Listing{}, err
	}
	count, err := s.store.CountListings(ctx, listing.CollectionID)
	if err != nil {
		return storage.Listing{}, err
	}
	if err := s.quotas.CheckListingQuota(ctx, subject, count); err != nil {
		return storage.Listing{}, err
	}

	now := s.now()
	listing.ID = s.newID()
	listing.CreatedBy = actorID
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.Status == "" {
		listing.Status = storage.ListingStatusActive
	}
	if err := s.store.CreateListing(ctx, listing); err != nil {
		return storage.Listing{}, err
	}
	return listing, nil
}

// GetListing returns a listing the actor can view.
func (s *Service) GetListing(ctx context.Context, actorID, listingID string) (storage.Listing, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Listing{}, apperrors.Wrap(apperrors.CodeNotFound, "listing not found", err)
		}
		return storage.Listing{}, err
	}
	if _, err := s.requireAccess(ctx, actorID, listing.CollectionID, AccessViewer); err != nil {
		return storage.Listing{}, err
	}
	return listing, nil
}

// UpdateListing rewrites a listing's fields. The collection cannot be
// changed here; MoveListing handles that.
func (s *Service) UpdateListing(ctx context.Context, actorID string, updated storage.Listing) (storage.Listing, error) {
	current, err := s.store.GetListing(ctx, updated.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Listing{}, apperrors.Wrap(apperrors.CodeNotFound, "listing not found", err)
		}
		return storage.Listing{}, err
	}
	updated.CollectionID = current.CollectionID
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt
	if err := validateListing(updated); err != nil {
		return storage.Listing{}, err
	}
	if _, err := s.requireAccess(ctx, actorID, current.CollectionID, AccessEditor); err != nil {
		return storage.Listing{}, err
	}
	if updated.Status == "" {
		updated.Status = current.Status
	}
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateListing(ctx, updated); err != nil {
		return storage.Listing{}, err
	}
	return updated, nil
}

// SetListingStatus archives or restores a listing.
func (s *Service) SetListingStatus(ctx context.Context, actorID, listingID string, status storage.ListingStatus) (storage.Listing, error) {
	if status != storage.ListingStatusActive && status != storage.ListingStatusArchived {
		return storage.Listing{}, apperrors.New(apperrors.CodeListingInvalidStatus, "listing status must be active or archived")
	}
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Listing{}, apperrors.Wrap(apperrors.CodeNotFound, "listing not found", err)
		}
		return storage.Listing{}, err
	}
	if _, err := s.requireAccess(ctx, actorID, listing.CollectionID, AccessEditor); err != nil {
		return storage.Listing{}, err
	}
	listing.Status = status
	listing.UpdatedAt = s.now()
	if err := s.store.UpdateListing(ctx, listing); err != nil {
		return storage.Listing{}, err
	}
	return listing, nil
}

// DeleteListing removes a listing the actor can edit.
func (s *Service) DeleteListing(ctx context.Context, actorID, listingID string) error {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.Wrap(apperrors.CodeNotFound, "listing not found", err)
		}
		return err
	}
	if _, err := s.requireAccess(ctx, actorID, listing.CollectionID, AccessEditor); err != nil {
		return err
	}
	return s.store.DeleteListing(ctx, listingID)
}

// MoveListing transfers a listing to another collection the actor can
// edit. Destination quota applies.
func (s *Service) MoveListing(ctx context.Context, actorID, listingID, destCollectionID string) (storage.Listing, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Listing{}, apperrors.Wrap(apperrors.CodeNotFound, "listing not found", err)
		}
		return storage.Listing{}, err
	}
	if listing.CollectionID == destCollectionID {
		return listing, nil
	}
	if _, err := s.requireAccess(ctx, actorID, listing.CollectionID, AccessEditor); err != nil {
		return storage.Listing{}, err
	}
	if _, err := s.requireAccess(ctx, actorID, destCollectionID, AccessEditor); err != nil {
		return storage.Listing{}, err
	}

	dest, err := s.store.GetCollection(ctx, destCollectionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Listing{}, apperrors.Wrap(apperrors.CodeNotFound, "destination collection not found", err)
		}
		return storage.Listing{}, err
	}
	subject, err := s.billingSubject(ctx, dest)
	if err != nil {
		return storage.Listing{}, err
	}
	count, err := s.store.CountListings(ctx, destCollectionID)
	if err != nil {
		return storage.Listing{}, err
	}
	if err := s.quotas.CheckListingQuota(ctx, subject, count); err != nil {
		return storage.Listing{}, err
	}

	listing.CollectionID = destCollectionID
	listing.UpdatedAt = s.now()
	if err := s.store.UpdateListing(ctx, listing); err != nil {
		return storage.Listing{}, err
	}
	return listing, nil
}

// ListListings returns one page of listings in a collection the actor
// can view.
func (s *Service) ListListings(ctx context.Context, actorID, collectionID string, pageSize int, pageToken string) (storage.ListingPage, error) {
	if _, err := s.requireAccess(ctx, actorID, collectionID, AccessViewer); err != nil {
		return storage.ListingPage{}, err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return s.store.ListListings(ctx, collectionID, pageSize, pageToken)
}
