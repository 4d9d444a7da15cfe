package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kitemate/src/models"
	"kitemate/src/schemas"
	"kitemate/src/utils"
	"kitemate/src/utils/render"

	"github.com/jackc/pgx/v5"
)

const publicWidgetListLimit = 50

// getWidget loads a widget and checks visibility: owners see everything,
// everyone else only public widgets.
func (c *Controller) getWidget(ctx context.Context, userID, widgetID string) (*models.Widget, error) {
	widget, err := c.WidgetRepository.GetByID(ctx, widgetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NotFound("widget not found")
		}
		return nil, utils.InternalServerError("could not load widget")
	}
	if widget.UserID != userID && !widget.Public {
		return nil, utils.PermissionDenied("widget belongs to another user")
	}
	return widget, nil
}

// checkWidgetQuota enforces the free plan widget limit.
func (c *Controller) checkWidgetQuota(ctx context.Context, userID string) error {
	user, err := c.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return utils.InternalServerError("could not load user")
	}
	if models.PlanOrFree(user.Plan) == models.PlanPro {
		return nil
	}
	count, err := c.WidgetRepository.CountByUser(ctx, userID)
	if err != nil {
		return utils.InternalServerError("could not count widgets")
	}
	if count >= c.Cfg.Limits.FreeWidgetLimit {
		return utils.ResourceExhausted(fmt.Sprintf("free plan allows at most %d widgets", c.Cfg.Limits.FreeWidgetLimit))
	}
	return nil
}

func (c *Controller) CreateWidget(ctx context.Context, userID string, req *schemas.CreateWidgetRequest) (*schemas.WidgetResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	if err := c.DSLService.ValidateConfig(&req.Config); err != nil {
		return nil, err
	}
	if _, err := c.getOwnedPortfolio(ctx, userID, req.PortfolioID); err != nil {
		return nil, err
	}
	if err := c.checkWidgetQuota(ctx, userID); err != nil {
		return nil, err
	}
	rawConfig, err := json.Marshal(req.Config)
	if err != nil {
		return nil, utils.InternalServerError("could not encode widget config")
	}
	widget := &models.Widget{
		UserID:      userID,
		PortfolioID: req.PortfolioID,
		Title:       req.Title,
		Kind:        req.Kind,
		Config:      rawConfig,
		Public:      req.Public,
	}
	if err := c.WidgetRepository.Create(ctx, widget); err != nil {
		return nil, utils.InternalServerError("could not create widget")
	}
	resp := toWidgetResponse(widget)
	return &resp, nil
}

func (c *Controller) ListWidgets(ctx context.Context, userID string, publicOnly bool) ([]*schemas.WidgetResponse, error) {
	var widgets []models.Widget
	var err error
	if publicOnly {
		widgets, err = c.WidgetRepository.ListPublic(ctx, publicWidgetListLimit)
	} else {
		widgets, err = c.WidgetRepository.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, utils.InternalServerError("could not list widgets")
	}
	responses := make([]*schemas.WidgetResponse, 0, len(widgets))
	for i := range widgets {
		resp := toWidgetResponse(&widgets[i])
		responses = append(responses, &resp)
	}
	return responses, nil
}

func (c *Controller) GetWidget(ctx context.Context, userID, widgetID string) (*schemas.WidgetResponse, error) {
	widget, err := c.getWidget(ctx, userID, widgetID)
	if err != nil {
		return nil, err
	}
	resp := toWidgetResponse(widget)
	return &resp, nil
}

func (c *Controller) UpdateWidget(ctx context.Context, userID, widgetID string, req *schemas.UpdateWidgetRequest) (*schemas.WidgetResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	widget, err := c.getWidget(ctx, userID, widgetID)
	if err != nil {
		return nil, err
	}
	if widget.UserID != userID {
		return nil, utils.PermissionDenied("only the owner can update a widget")
	}
	if req.Title != nil {
		widget.Title = *req.Title
	}
	if req.Config != nil {
		if err := c.DSLService.ValidateConfig(req.Config); err != nil {
			return nil, err
		}
		rawConfig, err := json.Marshal(req.Config)
		if err != nil {
			return nil, utils.InternalServerError("could not encode widget config")
		}
		widget.Config = rawConfig
	}
	if req.Public != nil {
		widget.Public = *req.Public
	}
	if err := c.WidgetRepository.Update(ctx, widget); err != nil {
		return nil, utils.InternalServerError("could not update widget")
	}
	resp := toWidgetResponse(widget)
	return &resp, nil
}

func (c *Controller) DeleteWidget(ctx context.Context, userID, widgetID string) error {
	widget, err := c.getWidget(ctx, userID, widgetID)
	if err != nil {
		return err
	}
	if widget.UserID != userID {
		return utils.PermissionDenied("only the owner can delete a widget")
	}
	if err := c.WidgetRepository.Delete(ctx, widgetID); err != nil {
		return utils.InternalServerError("could not delete widget")
	}
	return nil
}

// ForkWidget copies a public widget into the caller's account, pointing it at
// one of the caller's portfolios. A user can fork a given widget only once.
func (c *Controller) ForkWidget(ctx context.Context, userID, widgetID string, req *schemas.ForkWidgetRequest) (*schemas.WidgetResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	source, err := c.getWidget(ctx, userID, widgetID)
	if err != nil {
		return nil, err
	}
	if source.UserID == userID {
		return nil, utils.PermissionDenied("cannot fork your own widget")
	}
	if _, err := c.getOwnedPortfolio(ctx, userID, req.PortfolioID); err != nil {
		return nil, err
	}
	exists, err := c.ForkRepository.Exists(ctx, widgetID, userID)
	if err != nil {
		return nil, utils.InternalServerError("could not check fork state")
	}
	if exists {
		return nil, utils.AlreadyExists("widget already forked")
	}
	if err := c.checkWidgetQuota(ctx, userID); err != nil {
		return nil, err
	}

	forked := &models.Widget{
		UserID:      userID,
		PortfolioID: req.PortfolioID,
		Title:       source.Title,
		Kind:        source.Kind,
		Config:      source.Config,
		Public:      false,
	}
	if err := c.WidgetRepository.Create(ctx, forked); err != nil {
		return nil, utils.InternalServerError("could not create forked widget")
	}

	tx, err := c.WidgetRepository.BeginTx(ctx)
	if err != nil {
		return nil, utils.InternalServerError("could not start transaction")
	}
	defer tx.Rollback(ctx)
	fork := &models.Fork{
		WidgetID:       widgetID,
		ForkedWidgetID: forked.ID,
		UserID:         userID,
	}
	if err := c.ForkRepository.Create(ctx, fork, tx); err != nil {
		_ = c.WidgetRepository.Delete(ctx, forked.ID)
		return nil, utils.InternalServerError("could not record fork")
	}
	if err := c.WidgetRepository.IncrementForkCount(ctx, widgetID, tx); err != nil {
		_ = c.WidgetRepository.Delete(ctx, forked.ID)
		return nil, utils.InternalServerError("could not update fork count")
	}
	if err := tx.Commit(ctx); err != nil {
		_ = c.WidgetRepository.Delete(ctx, forked.ID)
		return nil, utils.InternalServerError("could not commit fork")
	}

	payload, _ := json.Marshal(map[string]string{
		"widget_id":    widgetID,
		"widget_title": source.Title,
		"forked_by":    userID,
	})
	_ = c.Notifications.Publish(ctx, &schemas.NotificationEvent{
		UserID:  source.UserID,
		Kind:    models.NotificationWidgetForked,
		Payload: payload,
	})

	resp := toWidgetResponse(forked)
	return &resp, nil
}

func (c *Controller) GetWidgetData(ctx context.Context, userID, widgetID string) (*schemas.WidgetDataResponse, error) {
	widget, err := c.getWidget(ctx, userID, widgetID)
	if err != nil {
		return nil, err
	}
	_, rows, err := c.executeWidget(ctx, widget)
	if err != nil {
		return nil, err
	}
	return &schemas.WidgetDataResponse{
		WidgetID: widget.ID,
		Kind:     widget.Kind,
		Rows:     rows,
		AsOf:     time.Now().UTC(),
	}, nil
}

// GetWidgetPreview renders the widget's data as a standalone chart page.
func (c *Controller) GetWidgetPreview(ctx context.Context, userID, widgetID string) (string, error) {
	widget, err := c.getWidget(ctx, userID, widgetID)
	if err != nil {
		return "", err
	}
	config, rows, err := c.executeWidget(ctx, widget)
	if err != nil {
		return "", err
	}
	page, err := render.RenderWidgetChart(config.Chart.Kind, config.Chart.Title, rows)
	if err != nil {
		return "", utils.InvalidArgument(err.Error())
	}
	return page, nil
}

func (c *Controller) executeWidget(ctx context.Context, widget *models.Widget) (*schemas.WidgetConfig, []schemas.WidgetDataRow, error) {
	var config schemas.WidgetConfig
	if err := json.Unmarshal(widget.Config, &config); err != nil {
		return nil, nil, utils.InternalServerError("stored widget config is unreadable")
	}
	rows, err := c.WidgetDataService.Execute(ctx, widget.PortfolioID, &config)
	if err != nil {
		return nil, nil, err
	}
	return &config, rows, nil
}

func toWidgetResponse(w *models.Widget) schemas.WidgetResponse {
	return schemas.WidgetResponse{
		ID:          w.ID,
		PortfolioID: w.PortfolioID,
		UserID:      w.UserID,
		Title:       w.Title,
		Kind:        w.Kind,
		Config:      w.Config,
		Public:      w.Public,
		ForkCount:   w.ForkCount,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
