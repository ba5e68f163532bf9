// Package app implements subscription plans and quota gating.
package app

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/billing/storage"
)

// Free plan entitlements. Pro is unlimited.
const (
	FreeCollectionLimit = 2
	FreeListingLimit    = 50
	FreeParseLimit      = 10
)

// Entitlements describes what a plan allows. A zero limit means
// unlimited.
type Entitlements struct {
	Collections int
	Listings    int
	Parses      int
}

// EntitlementsFor returns the limits for a plan.
func EntitlementsFor(plan storage.Plan) Entitlements {
	if plan == storage.PlanPro {
		return Entitlements{}
	}
	return Entitlements{
		Collections: FreeCollectionLimit,
		Listings:    FreeListingLimit,
		Parses:      FreeParseLimit,
	}
}

// Service applies billing rules over storage.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// NewService creates a billing service.
func NewService(store storage.Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetSubscription returns a user's subscription, defaulting to the free
// plan when no record exists or a pro period has lapsed.
func (s *Service) GetSubscription(ctx context.Context, userID string) (storage.Subscription, error) {
	subscription, err := s.store.GetSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Subscription{
				UserID: userID,
				Plan:   storage.PlanFree,
				Status: storage.StatusActive,
			}, nil
		}
		return storage.Subscription{}, err
	}
	if subscription.Plan == storage.PlanPro {
		if subscription.Status != storage.StatusActive ||
			(!subscription.CurrentPeriodEnd.IsZero() && subscription.CurrentPeriodEnd.Before(s.now())) {
			subscription.Plan = storage.PlanFree
		}
	}
	return subscription, nil
}

// Activate switches a user to the pro plan for the given period.
func (s *Service) Activate(ctx context.Context, userID string, periodEnd time.Time) (storage.Subscription, error) {
	current, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return storage.Subscription{}, err
	}
	if current.Plan == storage.PlanPro {
		return storage.Subscription{}, apperrors.New(apperrors.CodeBillingAlreadySubscribed, "pro plan is already active")
	}

	now := s.now()
	subscription := storage.Subscription{
		UserID:           userID,
		Plan:             storage.PlanPro,
		Status:           storage.StatusActive,
		CurrentPeriodEnd: periodEnd.UTC(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.UpsertSubscription(ctx, subscription); err != nil {
		return storage.Subscription{}, err
	}
	return subscription, nil
}

// Cancel downgrades a pro subscription back to free.
func (s *Service) Cancel(ctx context.Context, userID string) error {
	current, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if current.Plan != storage.PlanPro {
		return apperrors.New(apperrors.CodeBillingNotSubscribed, "no pro plan to cancel")
	}
	current.Plan = storage.PlanFree
	current.Status = storage.StatusCanceled
	current.UpdatedAt = s.now()
	return s.store.UpsertSubscription(ctx, current)
}

// CheckCollectionQuota refuses collection creation past the plan limit.
func (s *Service) CheckCollectionQuota(ctx context.Context, userID string, current int) error {
	limits, err := s.entitlements(ctx, userID)
	if err != nil {
		return err
	}
	if limits.Collections > 0 && current >= limits.Collections {
		return apperrors.New(apperrors.CodeBillingCollectionQuota, "free plan collection limit reached")
	}
	return nil
}

// CheckListingQuota refuses listing creation past the plan limit.
func (s *Service) CheckListingQuota(ctx context.Context, userID string, current int) error {
	limits, err := s.entitlements(ctx, userID)
	if err != nil {
		return err
	}
	if limits.Listings > 0 && current >= limits.Listings {
		return apperrors.New(apperrors.CodeBillingListingQuota, "free plan listing limit reached")
	}
	return nil
}

// CheckParseQuota refuses an AI parse past the monthly plan limit.
func (s *Service) CheckParseQuota(ctx context.Context, userID string) error {
	limits, err := s.entitlements(ctx, userID)
	if err != nil {
		return err
	}
	if limits.Parses <= 0 {
		return nil
	}
	usage, err := s.store.GetParseUsage(ctx, userID, s.currentMonth())
	if err != nil {
		return err
	}
	if usage.Count >= limits.Parses {
		return apperrors.New(apperrors.CodeBillingParseQuota, "free plan monthly AI parse limit reached")
	}
	return nil
}

// RecordParse counts one successful AI parse against the current month.
func (s *Service) RecordParse(ctx context.Context, userID string) error {
	_, err := s.store.IncrementParseUsage(ctx, userID, s.currentMonth())
	return err
}

// ParseUsageThisMonth returns the user's AI parse counter for display.
func (s *Service) ParseUsageThisMonth(ctx context.Context, userID string) (storage.ParseUsage, error) {
	return s.store.GetParseUsage(ctx, userID, s.currentMonth())
}

func (s *Service) entitlements(ctx context.Context, userID string) (Entitlements, error) {
	subscription, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return Entitlements{}, err
	}
	return EntitlementsFor(subscription.Plan), nil
}

func (s *Service) currentMonth() string {
	return s.now().Format("2006-01")
}
