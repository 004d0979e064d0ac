package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"chathub/internal/domain"
)

type createPaymentRequest struct {
	Amount string `json:"amount"`
	Method string `json:"method"`
}

type paymentDTO struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// paymentSettleDelay emulates the provider callback latency of the simulated
// payment flow.
const paymentSettleDelay = time.Second

// CreatePayment records a pending payment and settles it asynchronously,
// granting the buyer 30 days of VIP. The provider integration is simulated;
// the settlement path mirrors what a real callback handler would do.
func (a *App) CreatePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	method := domain.PaymentMethod(req.Method)
	if method != domain.PaymentMethodAlipay && method != domain.PaymentMethodWeChat {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported payment method")
		return
	}
	if req.Amount == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "amount is required")
		return
	}

	expiresAt := time.Now().Add(domain.VIPDuration)
	payment, err := a.Payments.Create(r.Context(), &domain.Payment{
		UserID:    user.ID,
		Amount:    req.Amount,
		Method:    method,
		Status:    domain.PaymentStatusPending,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("create payment failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create payment")
		return
	}

	time.AfterFunc(paymentSettleDelay, func() {
		a.settlePayment(payment.ID, user.ID, expiresAt)
	})

	a.json(w, http.StatusOK, toPaymentDTO(*payment))
}

// ListPayments returns the caller's payment history.
func (a *App) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	payments, err := a.Payments.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list payments failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch payments")
		return
	}
	out := make([]paymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentDTO(p))
	}
	a.json(w, http.StatusOK, out)
}

// settlePayment runs outside the originating request, so it carries its own
// context.
func (a *App) settlePayment(paymentID int64, userID string, expiresAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Payments.UpdateStatus(ctx, paymentID, domain.PaymentStatusCompleted); err != nil {
		a.Logger.Error().Err(err).Int64("payment_id", paymentID).Msg("settle payment failed")
		return
	}
	if err := a.Users.UpdateRole(ctx, userID, domain.UserRoleVIP, &expiresAt); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("grant vip failed")
		return
	}
	a.Logger.Info().Int64("payment_id", paymentID).Str("user_id", userID).Msg("payment settled, vip granted")
}

func toPaymentDTO(p domain.Payment) paymentDTO {
	return paymentDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Status:    string(p.Status),
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
	}
}
