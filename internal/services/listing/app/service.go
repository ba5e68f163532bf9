// Package app implements listing service business rules over storage.
package app

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/platform/id"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

// AccessRole is the resolved access level of a user on a collection.
type AccessRole int

const (
	AccessNone AccessRole = iota
	AccessViewer
	AccessEditor
	AccessOwner
)

func (r AccessRole) String() string {
	switch r {
	case AccessViewer:
		return "viewer"
	case AccessEditor:
		return "editor"
	case AccessOwner:
		return "owner"
	default:
		return "none"
	}
}

// QuotaChecker gates collection and listing creation by subscription plan.
type QuotaChecker interface {
	CheckCollectionQuota(ctx context.Context, userID string, current int) error
	CheckListingQuota(ctx context.Context, userID string, current int) error
}

// UnlimitedQuota accepts every operation. Used when billing is not wired.
type UnlimitedQuota struct{}

func (UnlimitedQuota) CheckCollectionQuota(context.Context, string, int) error { return nil }
func (UnlimitedQuota) CheckListingQuota(context.Context, string, int) error    { return nil }

// Service applies listing service business rules.
type Service struct {
	store  storage.Store
	quotas QuotaChecker
	newID  func() string
	now    func() time.Time
}

// NewService creates a listing service. A nil quotas falls back to
// unlimited access.
func NewService(store storage.Store, quotas QuotaChecker) *Service {
	if quotas == nil {
		quotas = UnlimitedQuota{}
	}
	return &Service{
		store:  store,
		quotas: quotas,
		newID:  id.MustNewID,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ResolveAccess combines ownership, org membership, and direct shares
// into one access level for a user on a collection.
func (s *Service) ResolveAccess(ctx context.Context, userID, collectionID string) (AccessRole, error) {
	collection, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return AccessNone, apperrors.Wrap(apperrors.CodeNotFound, "collection not found", err)
		}
		return AccessNone, err
	}

	switch collection.OwnerKind {
	case storage.OwnerKindUser:
		if collection.OwnerID == userID {
			return AccessOwner, nil
		}
	case storage.OwnerKindOrg:
		membership, err := s.store.GetMembership(ctx, collection.OwnerID, userID)
		if err == nil {
			if membership.Role == storage.OrgRoleAdmin {
				return AccessOwner, nil
			}
			return AccessEditor, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return AccessNone, err
		}
	}

	share, err := s.store.GetShareForUser(ctx, collectionID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return AccessNone, nil
		}
		return AccessNone, err
	}
	if share.Role == storage.ShareRoleEditor {
		return AccessEditor, nil
	}
	return AccessViewer, nil
}

func (s *Service) requireAccess(ctx context.Context, userID, collectionID string, minimum AccessRole) (AccessRole, error) {
	role, err := s.ResolveAccess(ctx, userID, collectionID)
	if err != nil {
		return AccessNone, err
	}
	if role >= minimum {
		return role, nil
	}
	switch minimum {
	case AccessOwner:
		return role, apperrors.New(apperrors.CodeAccessOwnerRequired, "collection owner access is required")
	case AccessEditor:
		return role, apperrors.New(apperrors.CodeAccessEditorRequired, "collection editor access is required")
	default:
		return role, apperrors.New(apperrors.CodeAccessDenied, "collection access is denied")
	}
}

// billingSubject returns the user whose plan pays for a collection.
// Org-owned collections bill the organization creator.
func (s *Service) billingSubject(ctx context.Context, collection storage.Collection) (string, error) {
	if collection.OwnerKind == storage.OwnerKindUser {
		return collection.OwnerID, nil
	}
	org, err := s.store.GetOrganization(ctx, collection.OwnerID)
	if err != nil {
		return "", err
	}
	return org.CreatedBy, nil
}
