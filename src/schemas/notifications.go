package schemas

import (
	"encoding/json"
	"time"
)

type NotificationResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

// NotificationEvent is the bus message published on the Redis channel and
// persisted by the worker.
type NotificationEvent struct {
	UserID  string          `json:"user_id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}
