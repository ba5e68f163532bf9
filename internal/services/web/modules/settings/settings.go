// Package settings serves the profile and subscription plan pages.
package settings

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	"github.com/meusanuncios/anuncios/internal/platform/i18n/catalog"
	"github.com/meusanuncios/anuncios/internal/services/auth/user"
	billingapp "github.com/meusanuncios/anuncios/internal/services/billing/app"
	billingstorage "github.com/meusanuncios/anuncios/internal/services/billing/storage"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	flashnotice "github.com/meusanuncios/anuncios/internal/services/web/platform/flash"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/httpx"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

// proPeriod is how far a newly activated pro plan extends. Payments
// are out of scope, so activation grants a fixed period.
const proPeriod = 30 * 24 * time.Hour

// ProfileService loads and saves user profiles.
type ProfileService interface {
	GetUser(ctx context.Context, userID string) (user.User, error)
	UpdateProfile(ctx context.Context, userID, displayName, locale string) (user.User, error)
}

// BillingService covers subscription state and parse usage.
type BillingService interface {
	GetSubscription(ctx context.Context, userID string) (billingstorage.Subscription, error)
	Activate(ctx context.Context, userID string, periodEnd time.Time) (billingstorage.Subscription, error)
	Cancel(ctx context.Context, userID string) error
	ParseUsageThisMonth(ctx context.Context, userID string) (billingstorage.ParseUsage, error)
}

// UsageCounter reports collection and listing usage for quota display.
type UsageCounter interface {
	CollectionUsage(ctx context.Context, userID string) (collections int, largestListingCount int, err error)
}

// Module provides the settings routes.
type Module struct {
	profiles ProfileService
	billing  BillingService
	usage    UsageCounter
	base     modulehandler.Base
}

// New returns a settings module.
func New(profiles ProfileService, billing BillingService, usage UsageCounter, base modulehandler.Base) Module {
	return Module{profiles: profiles, billing: billing, usage: usage, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "settings" }

// Mount wires the settings routes.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{Base: m.base, profiles: m.profiles, billing: m.billing, usage: m.usage}
	mux.HandleFunc(http.MethodGet+" "+routepath.Settings+"/{$}", h.handleSettings)
	mux.HandleFunc(http.MethodGet+" "+routepath.Settings, h.handleSettings)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsProfile, h.handleSaveProfile)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsPlanActivate, h.handleActivate)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsPlanCancel, h.handleCancel)
	return module.Mount{Prefix: routepath.Settings + "/", Handler: mux}, nil
}

type handlers struct {
	modulehandler.Base
	profiles ProfileService
	billing  BillingService
	usage    UsageCounter
}

func (h handlers) handleSettings(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	profile, err := h.profiles.GetUser(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	subscription, err := h.billing.GetSubscription(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	usage, err := h.billing.ParseUsageThisMonth(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	collections, largest, err := h.usage.CollectionUsage(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	loc, _ := h.PageLocalizer(w, r)
	entitlements := billingapp.EntitlementsFor(subscription.Plan)
	plan := webtemplates.PlanView{
		Plan:             string(subscription.Plan),
		CollectionsUsed:  collections,
		CollectionsLimit: limitLabel(loc, entitlements.Collections),
		ListingsUsed:     largest,
		ListingsLimit:    limitLabel(loc, entitlements.Listings),
		ParsesUsed:       usage.Count,
		ParsesLimit:      limitLabel(loc, entitlements.Parses),
	}
	page := webtemplates.SettingsPage(loc, webtemplates.ProfileView{
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		Locale:      profile.Locale,
		Locales:     catalog.Default().Locales(),
	}, plan)
	h.WritePage(w, r, webtemplates.T(loc, "settings.title"), http.StatusOK, page)
}

func (h handlers) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse profile form", err))
		return
	}
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	locale := strings.TrimSpace(r.FormValue("locale"))
	if _, err := h.profiles.UpdateProfile(r.Context(), userID, displayName, locale); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("settings.notice_saved"))
	httpx.WriteRedirect(w, r, routepath.Settings)
}

func (h handlers) handleActivate(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	periodEnd := time.Now().UTC().Add(proPeriod)
	if _, err := h.billing.Activate(r.Context(), userID, periodEnd); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("settings.notice_plan_activated"))
	httpx.WriteRedirect(w, r, routepath.Settings)
}

func (h handlers) handleCancel(w http.ResponseWriter, r *http.Request) {
	userID := h.RequestUserID(r)
	if err := h.billing.Cancel(r.Context(), userID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("settings.notice_plan_canceled"))
	httpx.WriteRedirect(w, r, routepath.Settings)
}

func limitLabel(loc webtemplates.Localizer, limit int) string {
	if limit <= 0 {
		return webtemplates.T(loc, "settings.usage.unlimited")
	}
	return strconv.Itoa(limit)
}
