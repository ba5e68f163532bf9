package transfer

import (
	"strings"
	"testing"
	"time"

	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

func sampleExport() Export {
	collection := storage.Collection{ID: "col-1", Name: "Apartamentos"}
	listings := []storage.Listing{
		{
			ID:           "lst-1",
			CollectionID: "col-1",
			Title:        "Apartamento no Flamengo",
			City:         "Rio de Janeiro",
			PriceCents:   650000_00,
			Amenities:    []string{"elevador"},
			Status:       storage.ListingStatusActive,
		},
		{
			ID:           "lst-2",
			CollectionID: "col-1",
			Title:        "Casa em Niterói",
			Status:       storage.ListingStatusArchived,
		},
	}
	return BuildExport(collection, listings, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
}

func TestPayloadRoundTrip(t *testing.T) {
	export := sampleExport()
	payload, err := EncodePayload(export)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	if strings.ContainsAny(payload, "+/=") {
		t.Fatalf("payload is not URL safe: %q", payload)
	}

	decoded, err := DecodePayload(payload)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.CollectionName != "Apartamentos" {
		t.Fatalf("collection name = %q", decoded.CollectionName)
	}
	if len(decoded.Listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(decoded.Listings))
	}
	if decoded.Listings[0].Title != "Apartamento no Flamengo" {
		t.Fatalf("title = %q", decoded.Listings[0].Title)
	}
	if decoded.Listings[1].Status != string(storage.ListingStatusArchived) {
		t.Fatalf("status = %q, want archived", decoded.Listings[1].Status)
	}
}

func TestToListingsMintsNoIDs(t *testing.T) {
	export := sampleExport()
	listings := export.ToListings("col-dest")
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	for _, listing := range listings {
		if listing.ID != "" {
			t.Fatalf("imported listing carries id %q", listing.ID)
		}
		if listing.CollectionID != "col-dest" {
			t.Fatalf("collection id = %q, want col-dest", listing.CollectionID)
		}
	}
	if listings[1].Status != storage.ListingStatusArchived {
		t.Fatalf("status = %q, want archived preserved", listings[1].Status)
	}
}

func TestToListingsNormalizesStatus(t *testing.T) {
	export := Export{Version: Version, Listings: []Item{{Title: "Casa", Status: "weird"}}}
	listings := export.ToListings("col-1")
	if listings[0].Status != storage.ListingStatusActive {
		t.Fatalf("status = %q, want active fallback", listings[0].Status)
	}
}

func TestDecodePayloadRejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not base64", payload: "%%%"},
		{name: "not gzip", payload: "aGVsbG8"},
		{name: "empty", payload: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodePayload(tc.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodePayloadRejectsUnknownVersion(t *testing.T) {
	export := sampleExport()
	export.Version = 99
	payload, err := EncodePayload(export)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	if _, err := DecodePayload(payload); err == nil {
		t.Fatal("expected version rejection")
	}
}

func TestEncodeJSONIsIndented(t *testing.T) {
	data, err := EncodeJSON(sampleExport())
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"version\": 1") {
		t.Fatalf("unexpected json shape: %s", data)
	}
}
