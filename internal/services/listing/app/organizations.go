package app

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

// CreateOrganization creates an organization with the actor as admin.
func (s *Service) CreateOrganization(ctx context.Context, actorID, name string) (storage.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Organization{}, apperrors.New(apperrors.CodeOrgNameEmpty, "organization name is required")
	}

	now := s.now()
	org := storage.Organization{
		ID:        s.newID(),
		Name:      name,
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateOrganization(ctx, org); err != nil {
		return storage.Organization{}, err
	}
	err := s.store.CreateMembership(ctx, storage.Membership{
		OrgID:     org.ID,
		UserID:    actorID,
		Role:      storage.OrgRoleAdmin,
		CreatedAt: now,
	})
	if err != nil {
		return storage.Organization{}, err
	}
	return org, nil
}

// AddMember adds a user to an organization. Only admins may do this.
func (s *Service) AddMember(ctx context.Context, actorID, orgID, userID string, role storage.OrgRole) error {
	if role != storage.OrgRoleAdmin && role != storage.OrgRoleMember {
		return apperrors.New(apperrors.CodeOrgInvalidRole, "organization role must be admin or member")
	}
	if err := s.requireOrgAdmin(ctx, actorID, orgID); err != nil {
		return err
	}
	err := s.store.CreateMembership(ctx, storage.Membership{
		OrgID:     orgID,
		UserID:    userID,
		Role:      role,
		CreatedAt: s.now(),
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return apperrors.Wrap(apperrors.CodeOrgMemberExists, "user is already a member", err)
	}
	return err
}

// RemoveMember removes a user from an organization. The last admin
// cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, actorID, orgID, userID string) error {
	if err := s.requireOrgAdmin(ctx, actorID, orgID); err != nil {
		return err
	}
	membership, err := s.store.GetMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.Wrap(apperrors.CodeNotFound, "membership not found", err)
		}
		return err
	}
	if membership.Role == storage.OrgRoleAdmin {
		members, err := s.store.ListMembershipsByOrg(ctx, orgID)
		if err != nil {
			return err
		}
		admins := 0
		for _, m := range members {
			if m.Role == storage.OrgRoleAdmin {
				admins++
			}
		}
		if admins <= 1 {
			return apperrors.New(apperrors.CodeOrgLastAdminRemoval, "organization must keep at least one admin")
		}
	}
	return s.store.DeleteMembership(ctx, orgID, userID)
}

// ListMemberships returns the actor's organization memberships.
func (s *Service) ListMemberships(ctx context.Context, actorID string) ([]storage.Membership, error) {
	return s.store.ListMembershipsByUser(ctx, actorID)
}

// GetOrganization returns an organization visible to its members.
func (s *Service) GetOrganization(ctx context.Context, actorID, orgID string) (storage.Organization, error) {
	if _, err := s.store.GetMembership(ctx, orgID, actorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Organization{}, apperrors.New(apperrors.CodeAccessDenied, "organization access is denied")
		}
		return storage.Organization{}, err
	}
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Organization{}, apperrors.Wrap(apperrors.CodeNotFound, "organization not found", err)
		}
		return storage.Organization{}, err
	}
	return org, nil
}

func (s *Service) requireOrgAdmin(ctx context.Context, actorID, orgID string) error {
	membership, err := s.store.GetMembership(ctx, orgID, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeAccessOwnerRequired, "organization admin access is required")
		}
		return err
	}
	if membership.Role != storage.OrgRoleAdmin {
		return apperrors.New(apperrors.CodeAccessOwnerRequired, "organization admin access is required")
	}
	return nil
}
