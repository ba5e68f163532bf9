// Package storage defines persistence contracts for listing service state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// ListingStatus marks a listing as active or archived.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusArchived ListingStatus = "archived"
)

// OwnerKind tells whether a collection belongs to a user or an organization.
type OwnerKind string

const (
	OwnerKindUser OwnerKind = "user"
	OwnerKindOrg  OwnerKind = "org"
)

// ShareRole is the access level granted by a collection share.
type ShareRole string

const (
	ShareRoleViewer ShareRole = "viewer"
	ShareRoleEditor ShareRole = "editor"
)

// OrgRole is a user's role inside an organization.
type OrgRole string

const (
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
)

// Listing stores one real-estate ad.
type Listing struct {
	ID            string
	CollectionID  string
	CreatedBy     string
	Title         string
	Street        string
	Neighborhood  string
	City          string
	PriceCents    int64
	CondoFeeCents int64
	IPTUCents     int64
	AreaM2        float64
	Bedrooms      int
	Bathrooms     int
	ParkingSpots  int
	Amenities     []string
	ContactName   string
	ContactPhone  string
	URL           string
	Notes         string
	SourceText    string
	Status        ListingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListingPage stores one page of listing records.
type ListingPage struct {
	Listings      []Listing
	NextPageToken string
}

// Collection groups listings under one owner.
type Collection struct {
	ID        string
	Name      string
	OwnerKind OwnerKind
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Organization is a shared owner for collections.
type Organization struct {
	ID        string
	Name      string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership ties a user to an organization with a role.
type Membership struct {
	OrgID     string
	UserID    string
	Role      OrgRole
	CreatedAt time.Time
}

// Share grants a user direct access to a collection.
type Share struct {
	ID            string
	CollectionID  string
	GranteeUserID string
	Role          ShareRole
	CreatedBy     string
	CreatedAt     time.Time
}

// ListingStore persists listing records.
type ListingStore interface {
	CreateListing(ctx context.Context, listing Listing) error
	GetListing(ctx context.Context, id string) (Listing, error)
	UpdateListing(ctx context.Context, listing Listing) error
	DeleteListing(ctx context.Context, id string) error
	ListListings(ctx context.Context, collectionID string, pageSize int, pageToken string) (ListingPage, error)
	CountListings(ctx context.Context, collectionID string) (int, error)
}

// CollectionStore persists collection records.
type CollectionStore interface {
	CreateCollection(ctx context.Context, collection Collection) error
	GetCollection(ctx context.Context, id string) (Collection, error)
	RenameCollection(ctx context.Context, id, name string, updatedAt time.Time) error
	DeleteCollection(ctx context.Context, id string) error
	ListCollectionsByOwner(ctx context.Context, kind OwnerKind, ownerID string) ([]Collection, error)
	CountCollectionsByOwner(ctx context.Context, kind OwnerKind, ownerID string) (int, error)
}

// OrganizationStore persists organizations and memberships.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id string) (Organization, error)
	CreateMembership(ctx context.Context, membership Membership) error
	DeleteMembership(ctx context.Context, orgID, userID string) error
	GetMembership(ctx context.Context, orgID, userID string) (Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]Membership, error)
	ListMembershipsByOrg(ctx context.Context, orgID string) ([]Membership, error)
}

// ShareStore persists collection shares.
type ShareStore interface {
	CreateShare(ctx context.Context, share Share) error
	DeleteShare(ctx context.Context, id string) error
	GetShare(ctx context.Context, id string) (Share, error)
	GetShareForUser(ctx context.Context, collectionID, userID string) (Share, error)
	ListSharesByCollection(ctx context.Context, collectionID string) ([]Share, error)
	ListSharesByUser(ctx context.Context, userID string) ([]Share, error)
}

// Store combines every listing-service persistence contract.
type Store interface {
	ListingStore
	CollectionStore
	OrganizationStore
	ShareStore
}
