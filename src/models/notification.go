package models

import (
	"encoding/json"
	"time"
)

const (
	NotificationWidgetForked   = "widget.forked"
	NotificationPaymentFailed  = "payment.failed"
	NotificationPlanActivated  = "plan.activated"
	NotificationRefreshFailure = "refresh.failed"
)

type Notification struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	Kind      string          `db:"kind"`
	Payload   json.RawMessage `db:"payload"`
	Read      bool            `db:"read"`
	CreatedAt time.Time       `db:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
