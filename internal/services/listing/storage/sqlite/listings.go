package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

const listingColumns = `id, collection_id, created_by, title, street, neighborhood, city,
	        price_cents, condo_fee_cents, iptu_cents, area_m2,
	        bedrooms, bathrooms, parking_spots, amenities,
	        contact_name, contact_phone, url, notes, source_text,
	        status, created_at, updated_at`

func marshalAmenities(amenities []string) (string, error) {
	if len(amenities) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(amenities)
	if err != nil {
		return "", fmt.Errorf("marshal amenities: %w", err)
	}
	return string(data), nil
}

func scanListing(scan func(dest ...any) error) (storage.Listing, error) {
	var listing storage.Listing
	var amenities string
	var status string
	var createdAt int64
	var updatedAt int64
	err := scan(
		&listing.ID,
		&listing.CollectionID,
		&listing.CreatedBy,
		&listing.Title,
		&listing.Street,
		&listing.Neighborhood,
		&listing.City,
		&listing.PriceCents,
		&listing.CondoFeeCents,
		&listing.IPTUCents,
		&listing.AreaM2,
		&listing.Bedrooms,
		&listing.Bathrooms,
		&listing.ParkingSpots,
		&amenities,
		&listing.ContactName,
		&listing.ContactPhone,
		&listing.URL,
		&listing.Notes,
		&listing.SourceText,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Listing{}, err
	}
	if amenities != "" && amenities != "[]" {
		if err := json.Unmarshal([]byte(amenities), &listing.Amenities); err != nil {
			return storage.Listing{}, fmt.Errorf("unmarshal amenities: %w", err)
		}
	}
	listing.Status = storage.ListingStatus(status)
	listing.CreatedAt = fromMillis(createdAt)
	listing.UpdatedAt = fromMillis(updatedAt)
	return listing, nil
}

// CreateListing inserts one listing record.
func (s *Store) CreateListing(ctx context.Context, listing storage.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(listing.ID)
	if id == "" {
		return fmt.Errorf("listing id is required")
	}
	if strings.TrimSpace(listing.CollectionID) == "" {
		return fmt.Errorf("collection id is required")
	}
	amenities, err := marshalAmenities(listing.Amenities)
	if err != nil {
		return err
	}
	createdAt := listing.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := listing.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	status := listing.Status
	if status == "" {
		status = storage.ListingStatusActive
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		listing.CollectionID,
		listing.CreatedBy,
		listing.Title,
		listing.Street,
		listing.Neighborhood,
		listing.City,
		listing.PriceCents,
		listing.CondoFeeCents,
		listing.IPTUCents,
		listing.AreaM2,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.ParkingSpots,
		amenities,
		listing.ContactName,
		listing.ContactPhone,
		listing.URL,
		listing.Notes,
		listing.SourceText,
		string(status),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// GetListing returns one listing by ID.
func (s *Store) GetListing(ctx context.Context, id string) (storage.Listing, error) {
	if err := ctx.Err(); err != nil {
		return storage.Listing{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Listing{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Listing{}, fmt.Errorf("listing id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`,
		id,
	)
	listing, err := scanListing(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Listing{}, storage.ErrNotFound
		}
		return storage.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

// UpdateListing rewrites one listing record.
func (s *Store) UpdateListing(ctx context.Context, listing storage.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(listing.ID)
	if id == "" {
		return fmt.Errorf("listing id is required")
	}
	amenities, err := marshalAmenities(listing.Amenities)
	if err != nil {
		return err
	}
	updatedAt := listing.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE listings SET
		   collection_id = ?, title = ?, street = ?, neighborhood = ?, city = ?,
		   price_cents = ?, condo_fee_cents = ?, iptu_cents = ?, area_m2 = ?,
		   bedrooms = ?, bathrooms = ?, parking_spots = ?, amenities = ?,
		   contact_name = ?, contact_phone = ?, url = ?, notes = ?, source_text = ?,
		   status = ?, updated_at = ?
		 WHERE id = ?`,
		listing.CollectionID,
		listing.Title,
		listing.Street,
		listing.Neighborhood,
		listing.City,
		listing.PriceCents,
		listing.CondoFeeCents,
		listing.IPTUCents,
		listing.AreaM2,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.ParkingSpots,
		amenities,
		listing.ContactName,
		listing.ContactPhone,
		listing.URL,
		listing.Notes,
		listing.SourceText,
		string(listing.Status),
		toMillis(updatedAt),
		id,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteListing removes one listing record.
func (s *Store) DeleteListing(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("listing id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListListings returns one page of listings for a collection ordered by ID.
func (s *Store) ListListings(ctx context.Context, collectionID string, pageSize int, pageToken string) (storage.ListingPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListingPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ListingPage{}, fmt.Errorf("storage is not configured")
	}
	collectionID = strings.TrimSpace(collectionID)
	if collectionID == "" {
		return storage.ListingPage{}, fmt.Errorf("collection id is required")
	}
	if pageSize <= 0 {
		return storage.ListingPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	page := storage.ListingPage{
		Listings: make([]storage.Listing, 0, pageSize),
	}

	var (
		rows *sql.Rows
		err  error
	)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT `+listingColumns+`
			   FROM listings
			  WHERE collection_id = ?
			  ORDER BY id ASC
			  LIMIT ?`,
			collectionID,
			pageSize+1,
		)
	} else {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT `+listingColumns+`
			   FROM listings
			  WHERE collection_id = ? AND id > ?
			  ORDER BY id ASC
			  LIMIT ?`,
			collectionID,
			pageToken,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.ListingPage{}, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		listing, err := scanListing(rows.Scan)
		if err != nil {
			return storage.ListingPage{}, fmt.Errorf("list listings: %w", err)
		}
		page.Listings = append(page.Listings, listing)
	}
	if err := rows.Err(); err != nil {
		return storage.ListingPage{}, fmt.Errorf("list listings: %w", err)
	}
	if len(page.Listings) > pageSize {
		page.NextPageToken = page.Listings[pageSize-1].ID
		page.Listings = page.Listings[:pageSize]
	}

	return page, nil
}

// CountListings returns the number of listings in a collection.
func (s *Store) CountListings(ctx context.Context, collectionID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	collectionID = strings.TrimSpace(collectionID)
	if collectionID == "" {
		return 0, fmt.Errorf("collection id is required")
	}

	var count int
	row := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings WHERE collection_id = ?`, collectionID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}
