// Package transfer encodes collection contents for export and import.
// The compact payload form is gzip-compressed JSON in URL-safe base64 so
// it can travel inside a link or be pasted between accounts.
package transfer

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

// Version tags the payload format.
const Version = 1

// MaxPayloadBytes bounds the decompressed payload size.
const MaxPayloadBytes = 4 * 1024 * 1024

// Item is one exported listing. Record identity stays behind; imports
// mint fresh IDs.
type Item struct {
	Title         string   `json:"title"`
	Street        string   `json:"street,omitempty"`
	Neighborhood  string   `json:"neighborhood,omitempty"`
	City          string   `json:"city,omitempty"`
	PriceCents    int64    `json:"price_cents,omitempty"`
	CondoFeeCents int64    `json:"condo_fee_cents,omitempty"`
	IPTUCents     int64    `json:"iptu_cents,omitempty"`
	AreaM2        float64  `json:"area_m2,omitempty"`
	Bedrooms      int      `json:"bedrooms,omitempty"`
	Bathrooms     int      `json:"bathrooms,omitempty"`
	ParkingSpots  int      `json:"parking_spots,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	ContactName   string   `json:"contact_name,omitempty"`
	ContactPhone  string   `json:"contact_phone,omitempty"`
	URL           string   `json:"url,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	SourceText    string   `json:"source_text,omitempty"`
	Status        string   `json:"status,omitempty"`
}

// Export is a collection snapshot.
type Export struct {
	Version        int       `json:"version"`
	CollectionName string    `json:"collection_name"`
	ExportedAt     time.Time `json:"exported_at"`
	Listings       []Item    `json:"listings"`
}

// BuildExport snapshots a collection and its listings.
func BuildExport(collection storage.Collection, listings []storage.Listing, exportedAt time.Time) Export {
	export := Export{
		Version:        Version,
		CollectionName: collection.Name,
		ExportedAt:     exportedAt.UTC(),
		Listings:       make([]Item, 0, len(listings)),
	}
	for _, listing := range listings {
		export.Listings = append(export.Listings, Item{
			Title:         listing.Title,
			Street:        listing.Street,
			Neighborhood:  listing.Neighborhood,
			City:          listing.City,
			PriceCents:    listing.PriceCents,
			CondoFeeCents: listing.CondoFeeCents,
			IPTUCents:     listing.IPTUCents,
			AreaM2:        listing.AreaM2,
			Bedrooms:      listing.Bedrooms,
			Bathrooms:     listing.Bathrooms,
			ParkingSpots:  listing.ParkingSpots,
			Amenities:     listing.Amenities,
			ContactName:   listing.ContactName,
			ContactPhone:  listing.ContactPhone,
			URL:           listing.URL,
			Notes:         listing.Notes,
			SourceText:    listing.SourceText,
			Status:        string(listing.Status),
		})
	}
	return export
}

// ToListings converts exported items back into storable listings for a
// destination collection. IDs and timestamps are left for the caller.
func (e Export) ToListings(collectionID string) []storage.Listing {
	listings := make([]storage.Listing, 0, len(e.Listings))
	for _, item := range e.Listings {
		status := storage.ListingStatus(item.Status)
		if status != storage.ListingStatusArchived {
			status = storage.ListingStatusActive
		}
		listings = append(listings, storage.Listing{
			CollectionID:  collectionID,
			Title:         item.Title,
			Street:        item.Street,
			Neighborhood:  item.Neighborhood,
			City:          item.City,
			PriceCents:    item.PriceCents,
			CondoFeeCents: item.CondoFeeCents,
			IPTUCents:     item.IPTUCents,
			AreaM2:        item.AreaM2,
			Bedrooms:      item.Bedrooms,
			Bathrooms:     item.Bathrooms,
			ParkingSpots:  item.ParkingSpots,
			Amenities:     item.Amenities,
			ContactName:   item.ContactName,
			ContactPhone:  item.ContactPhone,
			URL:           item.URL,
			Notes:         item.Notes,
			SourceText:    item.SourceText,
			Status:        status,
		})
	}
	return listings
}

// EncodeJSON renders an export as indented JSON for download.
func EncodeJSON(export Export) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// EncodePayload renders an export as a compact URL-safe payload.
func EncodePayload(export Export) (string, error) {
	data, err := json.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("compress export: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress export: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePayload parses a compact payload back into an export.
func DecodePayload(payload string) (Export, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Export{}, fmt.Errorf("decode payload: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Export{}, fmt.Errorf("decompress payload: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, MaxPayloadBytes+1))
	if err != nil {
		return Export{}, fmt.Errorf("decompress payload: %w", err)
	}
	if len(data) > MaxPayloadBytes {
		return Export{}, fmt.Errorf("payload exceeds %d bytes", MaxPayloadBytes)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return Export{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	if export.Version != Version {
		return Export{}, fmt.Errorf("unsupported payload version %d", export.Version)
	}
	return export, nil
}
