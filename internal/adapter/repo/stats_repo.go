package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"chathub/internal/domain"
)

// StatsRepositoryPG implements domain.StatsRepository backed by PostgreSQL.
type StatsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepositoryPG.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepositoryPG {
	return &StatsRepositoryPG{pool: pool}
}

// Summary returns the admin dashboard aggregates in one round trip.
func (r *StatsRepositoryPG) Summary(ctx context.Context) (*domain.PlatformStats, error) {
	row := r.pool.QueryRow(ctx, `
SELECT
  (SELECT COUNT(*) FROM users),
  (SELECT COUNT(*) FROM users WHERE role = 'vip' AND (vip_expires_at IS NULL OR vip_expires_at >= NOW())),
  (SELECT COALESCE(SUM(request_count), 0) FROM usage_stats WHERE day = CURRENT_DATE),
  (SELECT COALESCE(SUM(amount::numeric), 0)::float8 FROM payments WHERE status = 'completed' AND created_at >= date_trunc('month', NOW()))`)

	var stats domain.PlatformStats
	if err := row.Scan(&stats.TotalUsers, &stats.VIPUsers, &stats.TodayCalls, &stats.MonthlyRevenue); err != nil {
		return nil, err
	}
	return &stats, nil
}

var _ domain.StatsRepository = (*StatsRepositoryPG)(nil)
