package app

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

// AccessibleCollection pairs a collection with the actor's resolved role.
type AccessibleCollection struct {
	Collection storage.Collection
	Role       AccessRole
}

// CreateCollection creates a user-owned or org-owned collection. Creating
// inside an organization requires admin membership.
func (s *Service) CreateCollection(ctx context.Context, actorID, name string, ownerKind storage.OwnerKind, ownerID string) (storage.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Collection{}, apperrors.New(apperrors.CodeCollectionNameEmpty, "collection name is required")
	}

	switch ownerKind {
	case storage.OwnerKindUser:
		if ownerID == "" {
			ownerID = actorID
		}
		if ownerID != actorID {
			return storage.Collection{}, apperrors.New(apperrors.CodeCollectionInvalidOwner, "cannot create a collection for another user")
		}
	case storage.OwnerKindOrg:
		membership, err := s.store.GetMembership(ctx, ownerID, actorID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.Collection{}, apperrors.New(apperrors.CodeAccessOwnerRequired, "organization admin access is required")
			}
			return storage.Collection{}, err
		}
		if membership.Role != storage.OrgRoleAdmin {
			return storage.Collection{}, apperrors.New(apperrors.CodeAccessOwnerRequired, "organization admin access is required")
		}
	default:
		return storage.Collection{}, apperrors.New(apperrors.CodeCollectionInvalidOwner, "owner kind must be user or org")
	}

	subject := actorID
	if ownerKind == storage.OwnerKindOrg {
		org, err := s.store.GetOrganization(ctx, ownerID)
		if err != nil {
			return storage.Collection{}, err
		}
		subject = org.CreatedBy
	}
	count, err := s.store.CountCollectionsByOwner(ctx, ownerKind, ownerID)
	if err != nil {
		return storage.Collection{}, err
	}
	if err := s.quotas.CheckCollectionQuota(ctx, subject, count); err != nil {
		return storage.Collection{}, err
	}

	now := s.now()
	collection := storage.Collection{
		ID:        s.newID(),
		Name:      name,
		OwnerKind: ownerKind,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCollection(ctx, collection); err != nil {
		return storage.Collection{}, err
	}
	return collection, nil
}

// GetCollection returns a collection the actor can view.
func (s *Service) GetCollection(ctx context.Context, actorID, collectionID string) (storage.Collection, AccessRole, error) {
	role, err := s.requireAccess(ctx, actorID, collectionID, AccessViewer)
	if err != nil {
		return storage.Collection{}, AccessNone, err
	}
	collection, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return storage.Collection{}, AccessNone, err
	}
	return collection, role, nil
}

// RenameCollection renames a collection the actor owns or administers.
func (s *Service) RenameCollection(ctx context.Context, actorID, collectionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.New(apperrors.CodeCollectionNameEmpty, "collection name is required")
	}
	if _, err := s.requireAccess(ctx, actorID, collectionID, AccessOwner); err != nil {
		return err
	}
	return s.store.RenameCollection(ctx, collectionID, name, s.now())
}

// DeleteCollection removes an empty collection the actor owns.
func (s *Service) DeleteCollection(ctx context.Context, actorID, collectionID string) error {
	if _, err := s.requireAccess(ctx, actorID, collectionID, AccessOwner); err != nil {
		return err
	}
	count, err := s.store.CountListings(ctx, collectionID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.WithMetadata(apperrors.CodeCollectionNotEmpty,
			"collection still has listings",
			map[string]string{"listings": strconv.Itoa(count)})
	}
	return s.store.DeleteCollection(ctx, collectionID)
}

// ListAccessibleCollections returns every collection the actor can see:
// owned, reachable through org membership, and directly shared.
func (s *Service) ListAccessibleCollections(ctx context.Context, actorID string) ([]AccessibleCollection, error) {
	seen := map[string]AccessibleCollection{}

	owned, err := s.store.ListCollectionsByOwner(ctx, storage.OwnerKindUser, actorID)
	if err != nil {
		return nil, err
	}
	for _, collection := range owned {
		seen[collection.ID] = AccessibleCollection{Collection: collection, Role: AccessOwner}
	}

	memberships, err := s.store.ListMembershipsByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	for _, membership := range memberships {
		role := AccessEditor
		if membership.Role == storage.OrgRoleAdmin {
			role = AccessOwner
		}
		orgCollections, err := s.store.ListCollectionsByOwner(ctx, storage.OwnerKindOrg, membership.OrgID)
		if err != nil {
			return nil, err
		}
		for _, collection := range orgCollections {
			seen[collection.ID] = AccessibleCollection{Collection: collection, Role: role}
		}
	}

	shares, err := s.store.ListSharesByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	for _, share := range shares {
		if _, ok := seen[share.CollectionID]; ok {
			continue
		}
		collection, err := s.store.GetCollection(ctx, share.CollectionID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		role := AccessViewer
		if share.Role == storage.ShareRoleEditor {
			role = AccessEditor
		}
		seen[share.CollectionID] = AccessibleCollection{Collection: collection, Role: role}
	}

	collections := make([]AccessibleCollection, 0, len(seen))
	for _, entry := range seen {
		collections = append(collections, entry)
	}
	sort.Slice(collections, func(i, j int) bool {
		left, right := collections[i].Collection, collections[j].Collection
		if left.Name != right.Name {
			return left.Name < right.Name
		}
		return left.ID < right.ID
	})
	return collections, nil
}

// CollectionUsage reports quota-relevant usage for one user: how many
// collections the user owns and the listing count of the largest one.
func (s *Service) CollectionUsage(ctx context.Context, userID string) (int, int, error) {
	owned, err := s.store.ListCollectionsByOwner(ctx, storage.OwnerKindUser, userID)
	if err != nil {
		return 0, 0, err
	}
	largest := 0
	for _, collection := range owned {
		count, err := s.store.CountListings(ctx, collection.ID)
		if err != nil {
			return 0, 0, err
		}
		if count > largest {
			largest = count
		}
	}
	return len(owned), largest, nil
}
