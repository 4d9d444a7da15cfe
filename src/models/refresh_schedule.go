package models

import "time"

// RefreshSchedule drives the worker's cron-based quote refresh.
type RefreshSchedule struct {
	ID        uint       `db:"id"`
	Name      string     `db:"name"`
	CronTime  string     `db:"cron_time"`
	LastRunAt *time.Time `db:"last_run_at"`
	Active    bool       `db:"active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (RefreshSchedule) TableName() string {
	return "refresh_schedules"
}
