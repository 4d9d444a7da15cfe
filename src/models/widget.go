package models

import (
	"encoding/json"
	"time"
)

const (
	WidgetKindChart = "chart"
	WidgetKindTable = "table"
	WidgetKindCard  = "card"
)

type Widget struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	PortfolioID string          `db:"portfolio_id"`
	Title       string          `db:"title"`
	Kind        string          `db:"kind"`
	Config      json.RawMessage `db:"config"`
	Public      bool            `db:"public"`
	ForkCount   int             `db:"fork_count"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (Widget) TableName() string {
	return "widgets"
}
