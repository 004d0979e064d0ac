package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Upsert(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id string, role UserRole, vipExpiresAt *time.Time) error
	Delete(ctx context.Context, id string) error

	// IncrementDailyUsage applies the day-rollover increment as a single
	// atomic update: when the stored reset timestamp precedes today the
	// counter restarts at 1, otherwise it is incremented.
	IncrementDailyUsage(ctx context.Context, id string) error
}

// ChatModelRepository defines access methods for the model catalog.
type ChatModelRepository interface {
	List(ctx context.Context) ([]ChatModel, error)
	ListActive(ctx context.Context) ([]ChatModel, error)
	GetByID(ctx context.Context, id int64) (*ChatModel, error)
	EnsureDefaults(ctx context.Context) error
}

// ConversationRepository defines persistence for conversations and their
// messages.
type ConversationRepository interface {
	Create(ctx context.Context, conv *Conversation) (*Conversation, error)
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]Conversation, error)
	Messages(ctx context.Context, conversationID int64) ([]Message, error)

	// AddMessage persists the message and bumps the conversation's
	// updated_at timestamp.
	AddMessage(ctx context.Context, msg *Message) (*Message, error)
}

// PaymentRepository defines persistence for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) (*Payment, error)
	ListByUser(ctx context.Context, userID string) ([]Payment, error)
	UpdateStatus(ctx context.Context, id int64, status PaymentStatus) error
}

// UsageStatRepository tracks per-(user, model, day) request counts for
// reporting. It never gates access.
type UsageStatRepository interface {
	Increment(ctx context.Context, userID string, modelID int64) error
	TodayCalls(ctx context.Context) (int64, error)
}

// PlatformStats aggregates the admin dashboard numbers.
type PlatformStats struct {
	TotalUsers     int64   `json:"total_users"`
	VIPUsers       int64   `json:"vip_users"`
	TodayCalls     int64   `json:"today_calls"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
}

// StatsRepository computes platform-wide aggregates.
type StatsRepository interface {
	Summary(ctx context.Context) (*PlatformStats, error)
}
