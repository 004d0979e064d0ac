package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"chathub/internal/domain"
)

// UsageStatRepositoryPG implements domain.UsageStatRepository backed by PostgreSQL.
type UsageStatRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUsageStatRepository creates a new UsageStatRepositoryPG.
func NewUsageStatRepository(pool *pgxpool.Pool) *UsageStatRepositoryPG {
	return &UsageStatRepositoryPG{pool: pool}
}

// Increment accumulates one request on the (user, model, day) row. Concurrent
// increments on the same key add up rather than overwrite.
func (r *UsageStatRepositoryPG) Increment(ctx context.Context, userID string, modelID int64) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO usage_stats (user_id, model_id, day, request_count)
VALUES ($1, $2, CURRENT_DATE, 1)
ON CONFLICT (user_id, model_id, day)
DO UPDATE SET request_count = usage_stats.request_count + 1`, userID, modelID)
	return err
}

// TodayCalls sums all request counts recorded today.
func (r *UsageStatRepositoryPG) TodayCalls(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(request_count), 0)
FROM usage_stats
WHERE day = CURRENT_DATE`).Scan(&total)
	return total, err
}

var _ domain.UsageStatRepository = (*UsageStatRepositoryPG)(nil)
