package schemas

import (
	"encoding/json"
	"time"
)

type CreateWidgetRequest struct {
	PortfolioID string       `json:"portfolio_id" validate:"required,uuid4"`
	Title       string       `json:"title" validate:"required,max=120"`
	Kind        string       `json:"kind" validate:"required,oneof=chart table card"`
	Config      WidgetConfig `json:"config" validate:"required"`
	Public      bool         `json:"public"`
}

type UpdateWidgetRequest struct {
	Title  *string       `json:"title" validate:"omitempty,max=120"`
	Config *WidgetConfig `json:"config"`
	Public *bool         `json:"public"`
}

type WidgetResponse struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolio_id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Kind        string          `json:"kind"`
	Config      json.RawMessage `json:"config"`
	Public      bool            `json:"public"`
	ForkCount   int             `json:"fork_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ForkWidgetRequest struct {
	PortfolioID string `json:"portfolio_id" validate:"required,uuid4"`
}

// WidgetDataRow is one aggregated result row for a widget query.
type WidgetDataRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type WidgetDataResponse struct {
	WidgetID string          `json:"widget_id"`
	Kind     string          `json:"kind"`
	Rows     []WidgetDataRow `json:"rows"`
	AsOf     time.Time       `json:"as_of"`
}
