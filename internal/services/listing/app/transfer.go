package app

import (
	"context"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	"github.com/meusanuncios/anuncios/internal/services/listing/transfer"
)

const exportPageSize = 200

// ExportCollection snapshots every listing in a collection the actor can
// view.
func (s *Service) ExportCollection(ctx context.Context, actorID, collectionID string) (transfer.Export, error) {
	if _, err := s.requireAccess(ctx, actorID, collectionID, AccessViewer); err != nil {
		return transfer.Export{}, err
	}
	collection, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return transfer.Export{}, err
	}

	var listings []storage.Listing
	token := ""
	for {
		page, err := s.store.ListListings(ctx, collectionID, exportPageSize, token)
		if err != nil {
			return transfer.Export{}, err
		}
		listings = append(listings, page.Listings...)
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	return transfer.BuildExport(collection, listings, s.now()), nil
}

// ImportPayload decodes a compact payload and creates its listings in a
// collection the actor can edit. Quota applies per created listing.
func (s *Service) ImportPayload(ctx context.Context, actorID, collectionID, payload string) (int, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return 0, apperrors.New(apperrors.CodeListingCollectionMissing, "import payload is empty")
	}
	export, err := transfer.DecodePayload(payload)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeUnknown, "decode import payload", err)
	}
	return s.ImportListings(ctx, actorID, collectionID, export.ToListings(collectionID))
}

// ImportListings creates listings in a collection the actor can edit and
// returns how many were created.
func (s *Service) ImportListings(ctx context.Context, actorID, collectionID string, listings []storage.Listing) (int, error) {
	if _, err := s.requireAccess(ctx, actorID, collectionID, AccessEditor); err != nil {
		return 0, err
	}
	created := 0
	for _, listing := range listings {
		listing.CollectionID = collectionID
		if _, err := s.CreateListing(ctx, actorID, listing); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
