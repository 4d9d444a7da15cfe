package models

import (
	"encoding/json"
	"time"
)

const (
	AuditOutcomeAccepted = "accepted"
	AuditOutcomeRejected = "rejected"
)

// DSLAuditLog records every natural-language-to-widget-config attempt, whether
// the model output validated or not.
type DSLAuditLog struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Prompt      string          `db:"prompt"`
	RawOutput   string          `db:"raw_output"`
	Outcome     string          `db:"outcome"`
	FinalConfig json.RawMessage `db:"final_config"`
	Model       string          `db:"model"`
	LatencyMs   int64           `db:"latency_ms"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (DSLAuditLog) TableName() string {
	return "dsl_audit_logs"
}
