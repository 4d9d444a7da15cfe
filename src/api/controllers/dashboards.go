package controllers

import (
	"context"
	"encoding/json"
	"errors"

	"kitemate/src/models"
	"kitemate/src/repositories"
	"kitemate/src/schemas"
	"kitemate/src/utils"

	"github.com/jackc/pgx/v5"
)

// GetDashboard returns the user's dashboard, creating an empty one on first
// access.
func (c *Controller) GetDashboard(ctx context.Context, userID string) (*schemas.DashboardResponse, error) {
	dashboard, err := c.DashboardRepository.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.InternalServerError("could not load dashboard")
		}
		dashboard = &models.Dashboard{
			UserID: userID,
			Layout: json.RawMessage("[]"),
		}
		if err := c.DashboardRepository.Create(ctx, dashboard); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, utils.InternalServerError("could not create dashboard")
			}
			// lost the race against a concurrent first read
			dashboard, err = c.DashboardRepository.GetByUser(ctx, userID)
			if err != nil {
				return nil, utils.InternalServerError("could not load dashboard")
			}
		}
	}
	return toDashboardResponse(dashboard)
}

// UpdateDashboard replaces the layout with optimistic concurrency: the caller
// must send the version it last read.
func (c *Controller) UpdateDashboard(ctx context.Context, userID string, req *schemas.UpdateDashboardRequest) (*schemas.DashboardResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	for _, cell := range req.Layout {
		if _, err := c.getWidget(ctx, userID, cell.WidgetID); err != nil {
			return nil, err
		}
	}
	layout, err := json.Marshal(req.Layout)
	if err != nil {
		return nil, utils.InternalServerError("could not encode layout")
	}
	dashboard, err := c.DashboardRepository.UpdateLayout(ctx, userID, layout, req.Version)
	if err != nil {
		if errors.Is(err, repositories.ErrStaleVersion) {
			return nil, utils.InvalidArgument("stale version: the dashboard was modified concurrently, reload and retry")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NotFound("dashboard not found")
		}
		return nil, utils.InternalServerError("could not update dashboard")
	}
	return toDashboardResponse(dashboard)
}

func toDashboardResponse(d *models.Dashboard) (*schemas.DashboardResponse, error) {
	layout := []models.LayoutCell{}
	if len(d.Layout) > 0 {
		if err := json.Unmarshal(d.Layout, &layout); err != nil {
			return nil, utils.InternalServerError("stored dashboard layout is unreadable")
		}
	}
	return &schemas.DashboardResponse{
		ID:        d.ID,
		Layout:    layout,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
