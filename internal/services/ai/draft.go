// Package ai extracts structured listing drafts from pasted ad text.
package ai

import "strings"

// Draft is the structured result of parsing one ad text. Every field is
// best effort: the model leaves out what the text does not say.
type Draft struct {
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

	// Confidence is the model's one-line note naming the fields it was
	// unsure about. It is shown next to the prefilled form, never saved.
	Confidence string `json:"confidence,omitempty"`
}

// normalize trims whitespace and drops empty amenities. Negative
// amounts are cleared rather than rejected: a hallucinated negative
// number is a model defect, not a user error.
func (d *Draft) normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Street = strings.TrimSpace(d.Street)
	d.Neighborhood = strings.TrimSpace(d.Neighborhood)
	d.City = strings.TrimSpace(d.City)
	d.ContactName = strings.TrimSpace(d.ContactName)
	d.ContactPhone = strings.TrimSpace(d.ContactPhone)
	d.URL = strings.TrimSpace(d.URL)
	d.Notes = strings.TrimSpace(d.Notes)
	d.Confidence = strings.TrimSpace(d.Confidence)

	if d.PriceCents < 0 {
		d.PriceCents = 0
	}
	if d.CondoFeeCents < 0 {
		d.CondoFeeCents = 0
	}
	if d.IPTUCents < 0 {
		d.IPTUCents = 0
	}
	if d.AreaM2 < 0 {
		d.AreaM2 = 0
	}
	if d.Bedrooms < 0 {
		d.Bedrooms = 0
	}
	if d.Bathrooms < 0 {
		d.Bathrooms = 0
	}
	if d.ParkingSpots < 0 {
		d.ParkingSpots = 0
	}

	amenities := d.Amenities[:0]
	for _, amenity := range d.Amenities {
		amenity = strings.TrimSpace(amenity)
		if amenity != "" {
			amenities = append(amenities, amenity)
		}
	}
	if len(amenities) == 0 {
		d.Amenities = nil
	} else {
		d.Amenities = amenities
	}
}
