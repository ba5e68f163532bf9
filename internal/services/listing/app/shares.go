package app

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

// GrantShare gives a user direct access to a collection. Only owners and
// org admins manage shares, and owners cannot be shared with.
func (s *Service) GrantShare(ctx context.Context, actorID, collectionID, granteeUserID string, role storage.ShareRole) (storage.Share, error) {
	if role != storage.ShareRoleViewer && role != storage.ShareRoleEditor {
		return storage.Share{}, apperrors.New(apperrors.CodeShareInvalidRole, "share role must be viewer or editor")
	}
	granteeUserID = strings.TrimSpace(granteeUserID)
	if granteeUserID == "" {
		return storage.Share{}, apperrors.New(apperrors.CodeShareGranteeMissing, "share grantee is required")
	}
	if granteeUserID == actorID {
		return storage.Share{}, apperrors.New(apperrors.CodeShareSelfGrant, "cannot share a collection with yourself")
	}
	if _, err := s.requireAccess(ctx, actorID, collectionID, AccessOwner); err != nil {
		return storage.Share{}, err
	}
	granteeRole, err := s.ResolveAccess(ctx, granteeUserID, collectionID)
	if err != nil {
		return storage.Share{}, err
	}
	if granteeRole >= AccessOwner {
		return storage.Share{}, apperrors.New(apperrors.CodeShareSelfGrant, "grantee already owns this collection")
	}

	share := storage.Share{
		ID:            s.newID(),
		CollectionID:  collectionID,
		GranteeUserID: granteeUserID,
		Role:          role,
		CreatedBy:     actorID,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateShare(ctx, share); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.Share{}, apperrors.Wrap(apperrors.CodeShareExists, "collection is already shared with this user", err)
		}
		return storage.Share{}, err
	}
	return share, nil
}

// RevokeShare removes a share from a collection the actor owns.
func (s *Service) RevokeShare(ctx context.Context, actorID, shareID string) error {
	share, err := s.store.GetShare(ctx, shareID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.Wrap(apperrors.CodeNotFound, "share not found", err)
		}
		return err
	}
	if _, err := s.requireAccess(ctx, actorID, share.CollectionID, AccessOwner); err != nil {
		return err
	}
	return s.store.DeleteShare(ctx, shareID)
}

// ListShares returns the shares on a collection the actor owns.
func (s *Service) ListShares(ctx context.Context, actorID, collectionID string) ([]storage.Share, error) {
	if _, err := s.requireAccess(ctx, actorID, collectionID, AccessOwner); err != nil {
		return nil, err
	}
	return s.store.ListSharesByCollection(ctx, collectionID)
}

// ClaimShareGrant converts a verified share-link grant into a direct
// share for the claiming user. Claiming twice is a no-op.
func (s *Service) ClaimShareGrant(ctx context.Context, userID, collectionID string, role storage.ShareRole) (storage.Share, error) {
	if role != storage.ShareRoleViewer && role != storage.ShareRoleEditor {
		return storage.Share{}, apperrors.New(apperrors.CodeShareInvalidRole, "share role must be viewer or editor")
	}
	current, err := s.ResolveAccess(ctx, userID, collectionID)
	if err != nil {
		return storage.Share{}, err
	}
	if current >= AccessOwner {
		return storage.Share{}, apperrors.New(apperrors.CodeShareSelfGrant, "claimant already owns this collection")
	}
	if existing, err := s.store.GetShareForUser(ctx, collectionID, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.Share{}, err
	}

	share := storage.Share{
		ID:            s.newID(),
		CollectionID:  collectionID,
		GranteeUserID: userID,
		Role:          role,
		CreatedBy:     userID,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateShare(ctx, share); err != nil {
		return storage.Share{}, err
	}
	return share, nil
}

// DescribeSharedCollection returns a collection without an access check.
// Callers must only reach it with a verified share grant in hand.
func (s *Service) DescribeSharedCollection(ctx context.Context, collectionID string) (storage.Collection, error) {
	collection, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Collection{}, apperrors.Wrap(apperrors.CodeNotFound, "collection not found", err)
		}
		return storage.Collection{}, err
	}
	return collection, nil
}
