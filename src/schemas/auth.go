package schemas

import "time"

type LoginURLResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	BrokerUserID string    `json:"broker_user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
}
