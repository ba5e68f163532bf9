package app

import (
	"context"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

// fakeQuota enforces fixed limits and records check calls.
type fakeQuota struct {
	collectionLimit int
	listingLimit    int
	collectionCalls int
	listingCalls    int
	lastSubject     string
}

func (f *fakeQuota) CheckCollectionQuota(_ context.Context, userID string, current int) error {
	f.collectionCalls++
	f.lastSubject = userID
	if f.collectionLimit > 0 && current >= f.collectionLimit {
		return apperrors.New(apperrors.CodeBillingCollectionQuota, "collection limit reached")
	}
	return nil
}

func (f *fakeQuota) CheckListingQuota(_ context.Context, userID string, current int) error {
	f.listingCalls++
	f.lastSubject = userID
	if f.listingLimit > 0 && current >= f.listingLimit {
		return apperrors.New(apperrors.CodeBillingListingQuota, "listing limit reached")
	}
	return nil
}
