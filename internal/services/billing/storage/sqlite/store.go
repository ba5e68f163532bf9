// Package sqlite provides a SQLite-backed billing storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/meusanuncios/anuncios/internal/platform/storage/sqlitemigrate"
	"github.com/meusanuncios/anuncios/internal/services/billing/storage"
	"github.com/meusanuncios/anuncios/internal/services/billing/storage/sqlite/migrations"
)

// Store persists billing state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite billing store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetSubscription returns one user's subscription record.
func (s *Store) GetSubscription(ctx context.Context, userID string) (storage.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return storage.Subscription{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Subscription{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.Subscription{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, plan, status, current_period_end, created_at, updated_at
		   FROM subscriptions WHERE user_id = ?`,
		userID,
	)
	var subscription storage.Subscription
	var plan string
	var status string
	var periodEnd int64
	var createdAt int64
	var updatedAt int64
	err := row.Scan(&subscription.UserID, &plan, &status, &periodEnd, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Subscription{}, storage.ErrNotFound
		}
		return storage.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	subscription.Plan = storage.Plan(plan)
	subscription.Status = storage.SubscriptionStatus(status)
	subscription.CurrentPeriodEnd = fromMillis(periodEnd)
	subscription.CreatedAt = fromMillis(createdAt)
	subscription.UpdatedAt = fromMillis(updatedAt)
	return subscription, nil
}

// UpsertSubscription writes one user's subscription record.
func (s *Store) UpsertSubscription(ctx context.Context, subscription storage.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID := strings.TrimSpace(subscription.UserID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	createdAt := subscription.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := subscription.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO subscriptions (user_id, plan, status, current_period_end, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   plan = excluded.plan,
		   status = excluded.status,
		   current_period_end = excluded.current_period_end,
		   updated_at = excluded.updated_at`,
		userID,
		string(subscription.Plan),
		string(subscription.Status),
		toMillis(subscription.CurrentPeriodEnd),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// GetParseUsage returns one user's AI parse counter for a month.
func (s *Store) GetParseUsage(ctx context.Context, userID, month string) (storage.ParseUsage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ParseUsage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ParseUsage{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	month = strings.TrimSpace(month)
	if userID == "" || month == "" {
		return storage.ParseUsage{}, fmt.Errorf("user id and month are required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, month, count FROM parse_usage WHERE user_id = ? AND month = ?`,
		userID,
		month,
	)
	var usage storage.ParseUsage
	err := row.Scan(&usage.UserID, &usage.Month, &usage.Count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ParseUsage{UserID: userID, Month: month}, nil
		}
		return storage.ParseUsage{}, fmt.Errorf("get parse usage: %w", err)
	}
	return usage, nil
}

// IncrementParseUsage adds one to a monthly counter and returns it.
func (s *Store) IncrementParseUsage(ctx context.Context, userID, month string) (storage.ParseUsage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ParseUsage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ParseUsage{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	month = strings.TrimSpace(month)
	if userID == "" || month == "" {
		return storage.ParseUsage{}, fmt.Errorf("user id and month are required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO parse_usage (user_id, month, count) VALUES (?, ?, 1)
		 ON CONFLICT (user_id, month) DO UPDATE SET count = count + 1`,
		userID,
		month,
	)
	if err != nil {
		return storage.ParseUsage{}, fmt.Errorf("increment parse usage: %w", err)
	}
	return s.GetParseUsage(ctx, userID, month)
}

var _ storage.Store = (*Store)(nil)
