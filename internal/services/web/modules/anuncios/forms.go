package anuncios

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

// readListingForm builds a listing from submitted form fields. ID,
// CollectionID, CreatedBy, and Status are set by the caller.
func readListingForm(r *http.Request) (storage.Listing, error) {
	price, err := formCents(r, "price_cents")
	if err != nil {
		return storage.Listing{}, apperrors.Wrap(apperrors.CodeListingInvalidPrice, "price is not a valid amount", err)
	}
	condoFee, err := formCents(r, "condo_fee_cents")
	if err != nil {
		return storage.Listing{}, apperrors.Wrap(apperrors.CodeListingInvalidPrice, "condo fee is not a valid amount", err)
	}
	iptu, err := formCents(r, "iptu_cents")
	if err != nil {
		return storage.Listing{}, apperrors.Wrap(apperrors.CodeListingInvalidPrice, "iptu is not a valid amount", err)
	}
	area, err := formFloat(r, "area_m2")
	if err != nil {
		return storage.Listing{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "area is not a valid number", err)
	}
	bedrooms, err := formInt(r, "bedrooms")
	if err != nil {
		return storage.Listing{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "bedrooms is not a valid count", err)
	}
	bathrooms, err := formInt(r, "bathrooms")
	if err != nil {
		return storage.Listing{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "bathrooms is not a valid count", err)
	}
	parking, err := formInt(r, "parking_spots")
	if err != nil {
		return storage.Listing{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "parking spots is not a valid count", err)
	}

	return storage.Listing{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Street:        strings.TrimSpace(r.FormValue("street")),
		Neighborhood:  strings.TrimSpace(r.FormValue("neighborhood")),
		City:          strings.TrimSpace(r.FormValue("city")),
		PriceCents:    price,
		CondoFeeCents: condoFee,
		IPTUCents:     iptu,
		AreaM2:        area,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		ParkingSpots:  parking,
		Amenities:     splitAmenities(r.FormValue("amenities")),
		ContactName:   strings.TrimSpace(r.FormValue("contact_name")),
		ContactPhone:  strings.TrimSpace(r.FormValue("contact_phone")),
		URL:           strings.TrimSpace(r.FormValue("url")),
		Notes:         strings.TrimSpace(r.FormValue("notes")),
		SourceText:    strings.TrimSpace(r.FormValue("source_text")),
	}, nil
}

func splitAmenities(raw string) []string {
	var amenities []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			amenities = append(amenities, trimmed)
		}
	}
	return amenities
}

func formCents(r *http.Request, field string) (int64, error) {
	value := strings.TrimSpace(r.FormValue(field))
	if value == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(amount * 100)), nil
}

func formFloat(r *http.Request, field string) (float64, error) {
	value := strings.TrimSpace(r.FormValue(field))
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
}

func formInt(r *http.Request, field string) (int, error) {
	value := strings.TrimSpace(r.FormValue(field))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
