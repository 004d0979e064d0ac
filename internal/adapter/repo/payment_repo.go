package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chathub/internal/domain"
)

// PaymentRepositoryPG implements domain.PaymentRepository backed by PostgreSQL.
type PaymentRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepositoryPG.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepositoryPG {
	return &PaymentRepositoryPG{pool: pool}
}

const paymentColumns = `id, user_id, amount, method, status, expires_at, created_at`

// Create persists a new pending payment.
func (r *PaymentRepositoryPG) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO payments (user_id, amount, method, status, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+paymentColumns, payment.UserID, payment.Amount, payment.Method, payment.Status, payment.ExpiresAt)
	return scanPayment(row)
}

// ListByUser returns the user's payments, newest first.
func (r *PaymentRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// UpdateStatus transitions a payment's lifecycle state.
func (r *PaymentRepositoryPG) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &p.Status, &p.ExpiresAt, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ domain.PaymentRepository = (*PaymentRepositoryPG)(nil)
