package domain

import "time"

// PaymentMethod enumerates supported payment channels.
type PaymentMethod string

const (
	PaymentMethodAlipay PaymentMethod = "alipay"
	PaymentMethodWeChat PaymentMethod = "wechat"
)

// PaymentStatus enumerates payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// VIPDuration is the subscription period granted per completed payment.
const VIPDuration = 30 * 24 * time.Hour

// Payment records a VIP subscription purchase.
type Payment struct {
	ID        int64
	UserID    string
	Amount    string
	Method    PaymentMethod
	Status    PaymentStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}
