package models

import "time"

type Portfolio struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Name         string    `db:"name"`
	BaseCurrency string    `db:"base_currency"`
	Description  string    `db:"description"`
	TotalValue   float64   `db:"total_value"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
