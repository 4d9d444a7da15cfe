package repositories

import (
	"context"

	"kitemate/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefreshScheduleRepository interface {
	GetAll(ctx context.Context) ([]*models.RefreshSchedule, error)
	GetByID(ctx context.Context, id uint) (*models.RefreshSchedule, error)
	TouchLastRun(ctx context.Context, id uint) error
}

type refreshScheduleRepo struct {
	db *pgxpool.Pool
}

func NewRefreshScheduleRepository(db *pgxpool.Pool) RefreshScheduleRepository {
	return &refreshScheduleRepo{db: db}
}

func (r *refreshScheduleRepo) GetAll(ctx context.Context) ([]*models.RefreshSchedule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, cron_time, last_run_at, active, created_at, updated_at
		FROM refresh_schedules
		WHERE active`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.RefreshSchedule
	for rows.Next() {
		var s models.RefreshSchedule
		if err := rows.Scan(&s.ID, &s.Name, &s.CronTime, &s.LastRunAt,
			&s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, &s)
	}
	return schedules, rows.Err()
}

func (r *refreshScheduleRepo) GetByID(ctx context.Context, id uint) (*models.RefreshSchedule, error) {
	var s models.RefreshSchedule
	err := r.db.QueryRow(ctx, `
		SELECT id, name, cron_time, last_run_at, active, created_at, updated_at
		FROM refresh_schedules
		WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.CronTime, &s.LastRunAt, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *refreshScheduleRepo) TouchLastRun(ctx context.Context, id uint) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE refresh_schedules SET last_run_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
