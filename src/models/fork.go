package models

import "time"

type Fork struct {
	ID             string    `db:"id"`
	WidgetID       string    `db:"widget_id"`
	ForkedWidgetID string    `db:"forked_widget_id"`
	UserID         string    `db:"user_id"`
	CreatedAt      time.Time `db:"created_at"`
}

func (Fork) TableName() string {
	return "forks"
}
