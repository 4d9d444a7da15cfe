package schemas

import (
	"time"

	"kitemate/src/models"
)

type DashboardResponse struct {
	ID        string              `json:"id"`
	Layout    []models.LayoutCell `json:"layout"`
	Version   int                 `json:"version"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type UpdateDashboardRequest struct {
	Layout  []models.LayoutCell `json:"layout" validate:"required,max=50,dive"`
	Version int                 `json:"version" validate:"gte=0"`
}
