package schemas

import "time"

const (
	EventSubscriptionActivated = "subscription.activated"
	EventPaymentFailed         = "payment.failed"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// WebhookEvent is the payment gateway's webhook body after signature
// verification.
type WebhookEvent struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
	Data struct {
		SubscriptionID string `json:"subscription_id"`
		CustomerEmail  string `json:"customer_email"`
		BrokerUserID   string `json:"reference_id"`
		Plan           string `json:"plan"`
		Amount         string `json:"amount"`
		Currency       string `json:"currency"`
		PeriodEnd      int64  `json:"period_end"`
	} `json:"data"`
}

type SubscriptionResponse struct {
	Plan             string    `json:"plan"`
	Status           string    `json:"status"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}
