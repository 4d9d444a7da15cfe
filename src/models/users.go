package models

import "time"

type User struct {
	ID           string    `db:"id"`
	BrokerUserID string    `db:"broker_user_id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	AvatarURL    string    `db:"avatar_url"`
	Plan         string    `db:"plan"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// PlanOrFree defaults an empty plan to the free tier.
func PlanOrFree(plan string) string {
	if plan == "" {
		return PlanFree
	}
	return plan
}
