package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SubscriptionActive    = "active"
	SubscriptionPastDue   = "past_due"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	ID                    string          `db:"id"`
	UserID                string          `db:"user_id"`
	Plan                  string          `db:"plan"`
	Status                string          `db:"status"`
	GatewaySubscriptionID string          `db:"gateway_subscription_id"`
	Amount                decimal.Decimal `db:"amount"`
	Currency              string          `db:"currency"`
	CurrentPeriodEnd      time.Time       `db:"current_period_end"`
	LastEventID           string          `db:"last_event_id"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
