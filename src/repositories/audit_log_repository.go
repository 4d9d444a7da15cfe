package repositories

import (
	"context"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.DSLAuditLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.DSLAuditLog, error)
}

type auditLogRepo struct {
	db *pgxpool.Pool
}

func NewAuditLogRepository(db *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, log *models.DSLAuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO dsl_audit_logs (id, user_id, prompt, raw_output, outcome, final_config, model, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		log.ID, log.UserID, log.Prompt, log.RawOutput, log.Outcome,
		log.FinalConfig, log.Model, log.LatencyMs,
	).Scan(&log.CreatedAt)
}

func (r *auditLogRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.DSLAuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, prompt, raw_output, outcome, final_config, model, latency_ms, created_at
		FROM dsl_audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.DSLAuditLog
	for rows.Next() {
		var l models.DSLAuditLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Prompt, &l.RawOutput, &l.Outcome,
			&l.FinalConfig, &l.Model, &l.LatencyMs, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
