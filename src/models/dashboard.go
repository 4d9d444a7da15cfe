package models

import (
	"encoding/json"
	"time"
)

type Dashboard struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	Layout    json.RawMessage `db:"layout"`
	Version   int             `db:"version"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (Dashboard) TableName() string {
	return "dashboards"
}

// LayoutCell is one placed widget in the dashboard grid.
type LayoutCell struct {
	WidgetID string `json:"widget_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w"`
	H        int    `json:"h"`
}
