// Package usage enforces daily chat quotas and records per-model call counts.
package usage

import (
	"context"
	"fmt"
	"time"

	"chathub/internal/domain"
)

// DefaultFreeDailyQuota caps chat turns per calendar day for non-privileged
// users.
const DefaultFreeDailyQuota = 10

// Accountant checks and records chat usage. Administrators and users with an
// unexpired VIP subscription are exempt from the daily cap; everyone else is
// limited per local calendar day, midnight to midnight.
type Accountant struct {
	users      domain.UserRepository
	stats      domain.UsageStatRepository
	dailyQuota int
	now        func() time.Time
}

// NewAccountant constructs an Accountant. A dailyQuota <= 0 falls back to the
// default.
func NewAccountant(users domain.UserRepository, stats domain.UsageStatRepository, dailyQuota int) *Accountant {
	if dailyQuota <= 0 {
		dailyQuota = DefaultFreeDailyQuota
	}
	return &Accountant{
		users:      users,
		stats:      stats,
		dailyQuota: dailyQuota,
		now:        time.Now,
	}
}

// Allow reports whether the user may perform another chat turn today. It
// never consumes quota; consumption happens separately after a successful
// dispatch.
func (a *Accountant) Allow(ctx context.Context, user *domain.User) (bool, error) {
	now := a.now()
	if user.Privileged(now) {
		return true, nil
	}
	used, err := a.DailyUsage(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return used < a.dailyQuota, nil
}

// DailyUsage returns the user's effective usage for the current day. A stored
// counter whose reset timestamp precedes today's start counts as zero.
func (a *Accountant) DailyUsage(ctx context.Context, userID string) (int, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}
	return a.effectiveUsage(user), nil
}

// Consume records one billable chat turn: the per-user daily counter and the
// per-(user, model, day) statistics row. Callers invoke it only after a
// successful, non-fallback model response.
func (a *Accountant) Consume(ctx context.Context, userID string, modelID int64) error {
	if err := a.users.IncrementDailyUsage(ctx, userID); err != nil {
		return fmt.Errorf("increment daily usage: %w", err)
	}
	if err := a.stats.Increment(ctx, userID, modelID); err != nil {
		return fmt.Errorf("increment usage stats: %w", err)
	}
	return nil
}

// Quota returns the configured daily cap for non-privileged users.
func (a *Accountant) Quota() int {
	return a.dailyQuota
}

func (a *Accountant) effectiveUsage(user *domain.User) int {
	startOfDay := startOfDay(a.now())
	if user.LastUsageReset.Before(startOfDay) {
		return 0
	}
	return user.DailyUsage
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
