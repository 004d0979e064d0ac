package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chathub/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

const userColumns = `id, email, first_name, last_name, profile_image_url, role, vip_expires_at, daily_usage, last_usage_reset, created_at, updated_at`

// Upsert inserts or refreshes the user identified by the external subject.
func (r *UserRepositoryPG) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
INSERT INTO users (id, email, first_name, last_name, profile_image_url, role)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    profile_image_url = EXCLUDED.profile_image_url,
    updated_at = NOW()
RETURNING ` + userColumns + `;
`
	role := user.Role
	if role == "" {
		role = domain.UserRoleUser
	}
	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		role,
	)
	return scanUser(row)
}

// GetByID fetches a user by its identifier.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email address.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// List returns all users, newest first.
func (r *UserRepositoryPG) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateRole changes a user's role and VIP expiry.
func (r *UserRepositoryPG) UpdateRole(ctx context.Context, id string, role domain.UserRole, vipExpiresAt *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET role = $2, vip_expires_at = $3, updated_at = NOW()
WHERE id = $1`, id, role, vipExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a user. Conversations, messages, payments and usage rows
// cascade at the schema level.
func (r *UserRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementDailyUsage bumps the daily counter, restarting it when the stored
// reset timestamp precedes the current day. Rollover and increment are one
// statement so no intermediate state is observable.
func (r *UserRepositoryPG) IncrementDailyUsage(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET daily_usage = CASE WHEN last_usage_reset < date_trunc('day', NOW()) THEN 1 ELSE daily_usage + 1 END,
    last_usage_reset = CASE WHEN last_usage_reset < date_trunc('day', NOW()) THEN NOW() ELSE last_usage_reset END,
    updated_at = NOW()
WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.Role, &u.VIPExpiresAt, &u.DailyUsage, &u.LastUsageReset, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
