package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chathub/internal/domain"
)

// ConversationRepositoryPG implements domain.ConversationRepository backed by PostgreSQL.
type ConversationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewConversationRepository creates a new ConversationRepositoryPG.
func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepositoryPG {
	return &ConversationRepositoryPG{pool: pool}
}

const conversationColumns = `id, user_id, model_id, title, created_at, updated_at`

// Create persists a new conversation.
func (r *ConversationRepositoryPG) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO conversations (user_id, model_id, title)
VALUES ($1, $2, $3)
RETURNING `+conversationColumns, conv.UserID, conv.ModelID, conv.Title)
	return scanConversation(row)
}

// GetByID fetches a conversation by identifier.
func (r *ConversationRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	return scanConversation(row)
}

// ListByUser returns the user's conversations, most recently active first.
func (r *ConversationRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *c)
	}
	return convs, rows.Err()
}

// Messages returns the conversation's messages in creation order.
func (r *ConversationRepositoryPG) Messages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, conversation_id, role, content, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at, id`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// AddMessage persists the message and bumps the conversation timestamp within
// one transaction.
func (r *ConversationRepositoryPG) AddMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
INSERT INTO messages (conversation_id, role, content)
VALUES ($1, $2, $3)
RETURNING id, conversation_id, role, content, created_at`, msg.ConversationID, msg.Role, msg.Content)

	var saved domain.Message
	if err := row.Scan(&saved.ID, &saved.ConversationID, &saved.Role, &saved.Content, &saved.CreatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, msg.ConversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &saved, nil
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := row.Scan(&c.ID, &c.UserID, &c.ModelID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ domain.ConversationRepository = (*ConversationRepositoryPG)(nil)
