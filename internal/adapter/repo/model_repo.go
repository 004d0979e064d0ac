package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chathub/internal/domain"
)

// ChatModelRepositoryPG implements domain.ChatModelRepository backed by PostgreSQL.
type ChatModelRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewChatModelRepository creates a new ChatModelRepositoryPG.
func NewChatModelRepository(pool *pgxpool.Pool) *ChatModelRepositoryPG {
	return &ChatModelRepositoryPG{pool: pool}
}

const modelColumns = `id, name, display_name, provider, description, accuracy, speed, category, is_active, requires_vip, created_at`

// List returns the full model catalog ordered by name.
func (r *ChatModelRepositoryPG) List(ctx context.Context) ([]domain.ChatModel, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+modelColumns+` FROM chat_models ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectModels(rows)
}

// ListActive returns only the models currently offered to users.
func (r *ChatModelRepositoryPG) ListActive(ctx context.Context) ([]domain.ChatModel, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+modelColumns+` FROM chat_models WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectModels(rows)
}

// GetByID fetches a model by identifier.
func (r *ChatModelRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.ChatModel, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+modelColumns+` FROM chat_models WHERE id = $1`, id)
	return scanModel(row)
}

// EnsureDefaults seeds the default catalog when the table is empty.
func (r *ChatModelRepositoryPG) EnsureDefaults(ctx context.Context) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_models`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, m := range domain.DefaultChatModels {
		_, err := r.pool.Exec(ctx, `
INSERT INTO chat_models (name, display_name, provider, description, accuracy, speed, category, is_active, requires_vip)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			m.Name, m.DisplayName, m.Provider, m.Description, m.Accuracy, m.Speed, m.Category, m.IsActive, m.RequiresVIP)
		if err != nil {
			return err
		}
	}
	return nil
}

func collectModels(rows pgx.Rows) ([]domain.ChatModel, error) {
	var models []domain.ChatModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, *m)
	}
	return models, rows.Err()
}

func scanModel(row pgx.Row) (*domain.ChatModel, error) {
	var m domain.ChatModel
	if err := row.Scan(&m.ID, &m.Name, &m.DisplayName, &m.Provider, &m.Description, &m.Accuracy, &m.Speed, &m.Category, &m.IsActive, &m.RequiresVIP, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

var _ domain.ChatModelRepository = (*ChatModelRepositoryPG)(nil)
