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

// CreateCollection inserts one collection record.
func (s *Store) CreateCollection(ctx context.Context, collection storage.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(collection.ID)
	if id == "" {
		return fmt.Errorf("collection id is required")
	}
	if strings.TrimSpace(collection.Name) == "" {
		return fmt.Errorf("collection name is required")
	}
	if strings.TrimSpace(collection.OwnerID) == "" {
		return fmt.Errorf("owner id is required")
	}
	createdAt := collection.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := collection.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO collections (id, name, owner_kind, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		collection.Name,
		string(collection.OwnerKind),
		collection.OwnerID,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// GetCollection returns one collection by ID.
func (s *Store) GetCollection(ctx context.Context, id string) (storage.Collection, error) {
	if err := ctx.Err(); err != nil {
		return storage.Collection{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Collection{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Collection{}, fmt.Errorf("collection id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, owner_kind, owner_id, created_at, updated_at
		   FROM collections WHERE id = ?`,
		id,
	)
	collection, err := scanCollection(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Collection{}, storage.ErrNotFound
		}
		return storage.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return collection, nil
}

// RenameCollection updates a collection name.
func (s *Store) RenameCollection(ctx context.Context, id, name string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return fmt.Errorf("collection id is required")
	}
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE collections SET name = ?, updated_at = ? WHERE id = ?`,
		name,
		toMillis(updatedAt),
		id,
	)
	if err != nil {
		return fmt.Errorf("rename collection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename collection: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCollection removes one collection and its shares.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("collection id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shares WHERE collection_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete collection shares: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete collection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete collection: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return storage.ErrNotFound
	}
	return tx.Commit()
}

// ListCollectionsByOwner returns every collection for one owner ordered by name.
func (s *Store) ListCollectionsByOwner(ctx context.Context, kind storage.OwnerKind, ownerID string) ([]storage.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, owner_kind, owner_id, created_at, updated_at
		   FROM collections
		  WHERE owner_kind = ? AND owner_id = ?
		  ORDER BY name ASC, id ASC`,
		string(kind),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []storage.Collection
	for rows.Next() {
		collection, err := scanCollection(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

// CountCollectionsByOwner returns how many collections one owner has.
func (s *Store) CountCollectionsByOwner(ctx context.Context, kind storage.OwnerKind, ownerID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return 0, fmt.Errorf("owner id is required")
	}

	var count int
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM collections WHERE owner_kind = ? AND owner_id = ?`,
		string(kind),
		ownerID,
	)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count collections: %w", err)
	}
	return count, nil
}

func scanCollection(scan func(dest ...any) error) (storage.Collection, error) {
	var collection storage.Collection
	var ownerKind string
	var createdAt int64
	var updatedAt int64
	err := scan(
		&collection.ID,
		&collection.Name,
		&ownerKind,
		&collection.OwnerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Collection{}, err
	}
	collection.OwnerKind = storage.OwnerKind(ownerKind)
	collection.CreatedAt = fromMillis(createdAt)
	collection.UpdatedAt = fromMillis(updatedAt)
	return collection, nil
}
