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

// CreateShare inserts one share record.
func (s *Store) CreateShare(ctx context.Context, share storage.Share) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(share.ID)
	if id == "" {
		return fmt.Errorf("share id is required")
	}
	if strings.TrimSpace(share.CollectionID) == "" {
		return fmt.Errorf("collection id is required")
	}
	if strings.TrimSpace(share.GranteeUserID) == "" {
		return fmt.Errorf("grantee user id is required")
	}
	createdAt := share.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO shares (id, collection_id, grantee_user_id, role, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		share.CollectionID,
		share.GranteeUserID,
		string(share.Role),
		share.CreatedBy,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create share: %w", err)
	}
	return nil
}

// DeleteShare removes one share record.
func (s *Store) DeleteShare(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("share id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM shares WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetShare returns one share by ID.
func (s *Store) GetShare(ctx context.Context, id string) (storage.Share, error) {
	if err := ctx.Err(); err != nil {
		return storage.Share{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Share{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Share{}, fmt.Errorf("share id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, collection_id, grantee_user_id, role, created_by, created_at
		   FROM shares WHERE id = ?`,
		id,
	)
	share, err := scanShare(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Share{}, storage.ErrNotFound
		}
		return storage.Share{}, fmt.Errorf("get share: %w", err)
	}
	return share, nil
}

// GetShareForUser returns the share granting one user access to one collection.
func (s *Store) GetShareForUser(ctx context.Context, collectionID, userID string) (storage.Share, error) {
	if err := ctx.Err(); err != nil {
		return storage.Share{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Share{}, fmt.Errorf("storage is not configured")
	}
	collectionID = strings.TrimSpace(collectionID)
	userID = strings.TrimSpace(userID)
	if collectionID == "" || userID == "" {
		return storage.Share{}, fmt.Errorf("collection id and user id are required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, collection_id, grantee_user_id, role, created_by, created_at
		   FROM shares WHERE collection_id = ? AND grantee_user_id = ?`,
		collectionID,
		userID,
	)
	share, err := scanShare(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Share{}, storage.ErrNotFound
		}
		return storage.Share{}, fmt.Errorf("get share for user: %w", err)
	}
	return share, nil
}

// ListSharesByCollection returns every share on one collection.
func (s *Store) ListSharesByCollection(ctx context.Context, collectionID string) ([]storage.Share, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	collectionID = strings.TrimSpace(collectionID)
	if collectionID == "" {
		return nil, fmt.Errorf("collection id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, collection_id, grantee_user_id, role, created_by, created_at
		   FROM shares WHERE collection_id = ? ORDER BY grantee_user_id ASC`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()
	return collectShares(rows)
}

// ListSharesByUser returns every share granted to one user.
func (s *Store) ListSharesByUser(ctx context.Context, userID string) ([]storage.Share, error) {
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
		`SELECT id, collection_id, grantee_user_id, role, created_by, created_at
		   FROM shares WHERE grantee_user_id = ? ORDER BY collection_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()
	return collectShares(rows)
}

func collectShares(rows *sql.Rows) ([]storage.Share, error) {
	var shares []storage.Share
	for rows.Next() {
		share, err := scanShare(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list shares: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return shares, nil
}

func scanShare(scan func(dest ...any) error) (storage.Share, error) {
	var share storage.Share
	var role string
	var createdAt int64
	err := scan(
		&share.ID,
		&share.CollectionID,
		&share.GranteeUserID,
		&role,
		&share.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return storage.Share{}, err
	}
	share.Role = storage.ShareRole(role)
	share.CreatedAt = fromMillis(createdAt)
	return share, nil
}
