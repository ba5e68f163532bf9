package anuncios

import (
	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/ai"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

func collectionView(accessible listapp.AccessibleCollection) webtemplates.CollectionView {
	return webtemplates.CollectionView{
		ID:       accessible.Collection.ID,
		Name:     accessible.Collection.Name,
		Role:     accessible.Role.String(),
		OrgOwned: accessible.Collection.OwnerKind == storage.OwnerKindOrg,
		Shared:   accessible.Role < listapp.AccessOwner,
	}
}

func collectionViews(accessible []listapp.AccessibleCollection) []webtemplates.CollectionView {
	views := make([]webtemplates.CollectionView, 0, len(accessible))
	for _, entry := range accessible {
		views = append(views, collectionView(entry))
	}
	return views
}

func listingView(listing storage.Listing) webtemplates.ListingView {
	return webtemplates.ListingView{
		ID:            listing.ID,
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
		Archived:      listing.Status == storage.ListingStatusArchived,
	}
}

func listingViews(listings []storage.Listing) []webtemplates.ListingView {
	views := make([]webtemplates.ListingView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, listingView(listing))
	}
	return views
}

func draftView(draft ai.Draft) webtemplates.ListingView {
	return webtemplates.ListingView{
		Title:         draft.Title,
		Street:        draft.Street,
		Neighborhood:  draft.Neighborhood,
		City:          draft.City,
		PriceCents:    draft.PriceCents,
		CondoFeeCents: draft.CondoFeeCents,
		IPTUCents:     draft.IPTUCents,
		AreaM2:        draft.AreaM2,
		Bedrooms:      draft.Bedrooms,
		Bathrooms:     draft.Bathrooms,
		ParkingSpots:  draft.ParkingSpots,
		Amenities:     draft.Amenities,
		ContactName:   draft.ContactName,
		ContactPhone:  draft.ContactPhone,
		URL:           draft.URL,
		Notes:         draft.Notes,
		ParseNote:     draft.Confidence,
	}
}

// detailState gathers everything the collection detail page renders.
type detailState struct {
	collection  storage.Collection
	role        listapp.AccessRole
	listings    []storage.Listing
	moveTargets []webtemplates.CollectionView
	shares      []webtemplates.ShareView
	shareLink   string
	form        webtemplates.ListingView
	sourceText  string
}

func (s detailState) fragment(loc webtemplates.Localizer, locale string) templ.Component {
	header := webtemplates.CollectionHeader(loc, webtemplates.CollectionView{
		ID:       s.collection.ID,
		Name:     s.collection.Name,
		OrgOwned: s.collection.OwnerKind == storage.OwnerKindOrg,
	}, s.role >= listapp.AccessOwner)

	parts := []templ.Component{header}
	if s.role >= listapp.AccessEditor {
		parts = append(parts,
			webtemplates.ParseBox(loc, s.collection.ID),
			webtemplates.ListingForm(loc, s.collection.ID, s.form, s.sourceText),
		)
	}
	parts = append(parts, webtemplates.ListingTable(loc, locale, listingViews(s.listings), s.moveTargets))
	if s.role >= listapp.AccessEditor {
		parts = append(parts, webtemplates.ImportForm(loc, s.collection.ID))
	}
	if s.role >= listapp.AccessOwner {
		parts = append(parts, webtemplates.SharesFragment(loc, s.collection.ID, s.shares, s.shareLink))
	}
	return templ.Join(parts...)
}
