package schemas

import (
	"encoding/json"
	"time"
)

type ChatWidgetRequest struct {
	Prompt      string `json:"prompt" validate:"required,max=2000"`
	PortfolioID string `json:"portfolio_id" validate:"required,uuid4"`
	Public      bool   `json:"public"`
}

type ChatWidgetResponse struct {
	Widget WidgetResponse     `json:"widget"`
	Data   WidgetDataResponse `json:"data"`
}

// ChatHistoryEntry is one past prompt-to-config attempt, accepted or not.
type ChatHistoryEntry struct {
	ID        string          `json:"id"`
	Prompt    string          `json:"prompt"`
	Outcome   string          `json:"outcome"`
	Config    json.RawMessage `json:"config,omitempty"`
	Model     string          `json:"model"`
	CreatedAt time.Time       `json:"created_at"`
}
