// Package storage defines persistence contracts for billing state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested billing record is missing.
var ErrNotFound = errors.New("record not found")

// Plan is a subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// SubscriptionStatus tells whether a paid subscription is in force.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusCanceled SubscriptionStatus = "canceled"
)

// Subscription stores one user's plan state.
type Subscription struct {
	UserID           string
	Plan             Plan
	Status           SubscriptionStatus
	CurrentPeriodEnd time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ParseUsage counts AI parses for one user in one calendar month.
type ParseUsage struct {
	UserID string
	Month  string
	Count  int
}

// SubscriptionStore persists subscription records.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, userID string) (Subscription, error)
	UpsertSubscription(ctx context.Context, subscription Subscription) error
}

// UsageStore persists monthly AI parse counters.
type UsageStore interface {
	GetParseUsage(ctx context.Context, userID, month string) (ParseUsage, error)
	IncrementParseUsage(ctx context.Context, userID, month string) (ParseUsage, error)
}

// Store combines billing persistence contracts.
type Store interface {
	SubscriptionStore
	UsageStore
}
