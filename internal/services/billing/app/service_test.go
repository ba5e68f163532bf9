package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/services/billing/storage"
	"github.com/meusanuncios/anuncios/internal/services/billing/storage/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "billing.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return NewService(store)
}

func TestGetSubscriptionDefaultsToFree(t *testing.T) {
	service := newTestService(t)
	subscription, err := service.GetSubscription(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if subscription.Plan != storage.PlanFree {
		t.Fatalf("plan = %q, want free", subscription.Plan)
	}
}

func TestActivateAndCancel(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	periodEnd := time.Now().UTC().Add(30 * 24 * time.Hour)

	subscription, err := service.Activate(ctx, "user-1", periodEnd)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if subscription.Plan != storage.PlanPro {
		t.Fatalf("plan = %q, want pro", subscription.Plan)
	}

	if _, err := service.Activate(ctx, "user-1", periodEnd); !apperrors.IsCode(err, apperrors.CodeBillingAlreadySubscribed) {
		t.Fatalf("expected already subscribed, got %v", err)
	}

	if err := service.Cancel(ctx, "user-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, err := service.GetSubscription(ctx, "user-1")
	if err != nil {
		t.Fatalf("get after cancel: %v", err)
	}
	if got.Plan != storage.PlanFree {
		t.Fatalf("plan = %q, want free after cancel", got.Plan)
	}
	if err := service.Cancel(ctx, "user-1"); !apperrors.IsCode(err, apperrors.CodeBillingNotSubscribed) {
		t.Fatalf("expected not subscribed, got %v", err)
	}
}

func TestLapsedProFallsBackToFree(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-24 * time.Hour)
	if _, err := service.Activate(ctx, "user-1", past); err != nil {
		t.Fatalf("activate: %v", err)
	}
	got, err := service.GetSubscription(ctx, "user-1")
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if got.Plan != storage.PlanFree {
		t.Fatalf("plan = %q, want free after lapse", got.Plan)
	}
}

func TestFreeQuotas(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if err := service.CheckCollectionQuota(ctx, "user-1", FreeCollectionLimit-1); err != nil {
		t.Fatalf("under collection limit: %v", err)
	}
	if err := service.CheckCollectionQuota(ctx, "user-1", FreeCollectionLimit); !apperrors.IsCode(err, apperrors.CodeBillingCollectionQuota) {
		t.Fatalf("expected collection quota error, got %v", err)
	}

	if err := service.CheckListingQuota(ctx, "user-1", FreeListingLimit-1); err != nil {
		t.Fatalf("under listing limit: %v", err)
	}
	if err := service.CheckListingQuota(ctx, "user-1", FreeListingLimit); !apperrors.IsCode(err, apperrors.CodeBillingListingQuota) {
		t.Fatalf("expected listing quota error, got %v", err)
	}
}

func TestProIsUnlimited(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	periodEnd := time.Now().UTC().Add(30 * 24 * time.Hour)
	if _, err := service.Activate(ctx, "user-1", periodEnd); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := service.CheckCollectionQuota(ctx, "user-1", 1000); err != nil {
		t.Fatalf("pro collection quota: %v", err)
	}
	if err := service.CheckListingQuota(ctx, "user-1", 1000); err != nil {
		t.Fatalf("pro listing quota: %v", err)
	}
	for i := 0; i < FreeParseLimit+5; i++ {
		if err := service.RecordParse(ctx, "user-1"); err != nil {
			t.Fatalf("record parse: %v", err)
		}
	}
	if err := service.CheckParseQuota(ctx, "user-1"); err != nil {
		t.Fatalf("pro parse quota: %v", err)
	}
}

func TestParseQuotaPerMonth(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for i := 0; i < FreeParseLimit; i++ {
		if err := service.CheckParseQuota(ctx, "user-1"); err != nil {
			t.Fatalf("check before parse %d: %v", i, err)
		}
		if err := service.RecordParse(ctx, "user-1"); err != nil {
			t.Fatalf("record parse %d: %v", i, err)
		}
	}
	if err := service.CheckParseQuota(ctx, "user-1"); !apperrors.IsCode(err, apperrors.CodeBillingParseQuota) {
		t.Fatalf("expected parse quota error, got %v", err)
	}

	// A new month resets the counter.
	service.now = func() time.Time { return time.Now().UTC().AddDate(0, 1, 0) }
	if err := service.CheckParseQuota(ctx, "user-1"); err != nil {
		t.Fatalf("next month parse quota: %v", err)
	}
}
