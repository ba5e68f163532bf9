package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

// CreateOrganization inserts one organization record.
func (s *Store) CreateOrganization(ctx context.Context, org storage.Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(org.ID)
	if id == "" {
		return fmt.Errorf("organization id is required")
	}
	if strings.TrimSpace(org.Name) == "" {
		return fmt.Errorf("organization name is required")
	}
	createdAt := org.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := org.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO organizations (id, name, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id,
		org.Name,
		org.CreatedBy,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// GetOrganization returns one organization by ID.
func (s *Store) GetOrganization(ctx context.Context, id string) (storage.Organization, error) {
	if err := ctx.Err(); err != nil {
		return storage.Organization{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Organization{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Organization{}, fmt.Errorf("organization id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, created_by, created_at, updated_at FROM organizations WHERE id = ?`,
		id,
	)
	var org storage.Organization
	var createdAt int64
	var updatedAt int64
	err := row.Scan(&org.ID, &org.Name, &org.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Organization{}, storage.ErrNotFound
		}
		return storage.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	org.CreatedAt = fromMillis(createdAt)
	org.UpdatedAt = fromMillis(updatedAt)
	return org, nil
}

// CreateMembership inserts one membership record.
func (s *Store) CreateMembership(ctx context.Context, membership storage.Membership) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(membership.OrgID) == "" {
		return fmt.Errorf("organization id is required")
	}
	if strings.TrimSpace(membership.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	createdAt := membership.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO memberships (org_id, user_id, role, created_at) VALUES (?, ?, ?, ?)`,
		membership.OrgID,
		membership.UserID,
		string(membership.Role),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

// DeleteMembership removes one membership record.
func (s *Store) DeleteMembership(ctx context.Context, orgID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	orgID = strings.TrimSpace(orgID)
	userID = strings.TrimSpace(userID)
	if orgID == "" || userID == "" {
		return fmt.Errorf("organization id and user id are required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM memberships WHERE org_id = ? AND user_id = ?`,
		orgID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetMembership returns one membership by organization and user.
func (s *Store) GetMembership(ctx context.Context, orgID, userID string) (storage.Membership, error) {
	if err := ctx.Err(); err != nil {
		return storage.Membership{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Membership{}, fmt.Errorf("storage is not configured")
	}
	orgID = strings.TrimSpace(orgID)
	userID = strings.TrimSpace(userID)
	if orgID == "" || userID == "" {
		return storage.Membership{}, fmt.Errorf("organization id and user id are required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT org_id, user_id, role, created_at FROM memberships WHERE org_id = ? AND user_id = ?`,
		orgID,
		userID,
	)
	membership, err := scanMembership(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Membership{}, storage.ErrNotFound
		}
		return storage.Membership{}, fmt.Errorf("get membership: %w", err)
	}
	return membership, nil
}

// ListMembershipsByUser returns every membership for one user.
func (s *Store) ListMembershipsByUser(ctx context.Context, userID string) ([]storage.Membership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT org_id, user_id, role, created_at FROM memberships WHERE user_id = ? ORDER BY org_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()
	return collectMemberships(rows)
}

// ListMembershipsByOrg returns every membership in one organization.
func (s *Store) ListMembershipsByOrg(ctx context.Context, orgID string) ([]storage.Membership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, fmt.Errorf("organization id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT org_id, user_id, role, created_at FROM memberships WHERE org_id = ? ORDER BY user_id ASC`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()
	return collectMemberships(rows)
}

func collectMemberships(rows *sql.Rows) ([]storage.Membership, error) {
	var memberships []storage.Membership
	for rows.Next() {
		membership, err := scanMembership(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list memberships: %w", err)
		}
		memberships = append(memberships, membership)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return memberships, nil
}

func scanMembership(scan func(dest ...any) error) (storage.Membership, error) {
	var membership storage.Membership
	var role string
	var createdAt int64
	if err := scan(&membership.OrgID, &membership.UserID, &role, &createdAt); err != nil {
		return storage.Membership{}, err
	}
	membership.Role = storage.OrgRole(role)
	membership.CreatedAt = fromMillis(createdAt)
	return membership, nil
}
