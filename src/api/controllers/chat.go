package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kitemate/src/models"
	"kitemate/src/schemas"
	"kitemate/src/utils"
)

// maxChatAttempts bounds how often a rejected model answer is re-prompted
// with the validation detail before giving up.
const maxChatAttempts = 2

// ChatWidget turns a natural-language prompt into a validated widget config,
// creates the widget and returns its first data result. Every model round trip
// is written to the audit log, accepted or not.
func (c *Controller) ChatWidget(ctx context.Context, userID string, req *schemas.ChatWidgetRequest) (*schemas.ChatWidgetResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	user, err := c.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.InternalServerError("could not load user")
	}
	if models.PlanOrFree(user.Plan) != models.PlanPro {
		return nil, utils.PermissionDenied("chat widget generation requires the pro plan")
	}
	if _, err := c.getOwnedPortfolio(ctx, userID, req.PortfolioID); err != nil {
		return nil, err
	}

	var (
		config    *schemas.WidgetConfig
		rawConfig json.RawMessage
		parseErr  error
	)
	prompt := req.Prompt
	for attempt := 0; attempt < maxChatAttempts; attempt++ {
		completion, err := c.LLMClient.GenerateWidgetConfig(ctx, prompt)
		if err != nil {
			return nil, err
		}

		config, parseErr = c.DSLService.ParseModelOutput(completion.Content)
		if parseErr == nil {
			parseErr = c.DSLService.ValidateConfig(config)
		}

		audit := &models.DSLAuditLog{
			UserID:    userID,
			Prompt:    req.Prompt,
			RawOutput: completion.Content,
			Model:     completion.Model,
			LatencyMs: completion.LatencyMs,
		}
		if parseErr != nil {
			audit.Outcome = models.AuditOutcomeRejected
			if err := c.AuditLogRepository.Create(ctx, audit); err != nil {
				utils.LoggerFromContext(ctx).WithError(err).Error("failed to write dsl audit log")
			}
			prompt = fmt.Sprintf("%s\n\nYour previous answer was rejected: %s. Respond with only the corrected JSON object.",
				req.Prompt, parseErr)
			continue
		}

		rawConfig, err = json.Marshal(config)
		if err != nil {
			return nil, utils.InternalServerError("could not encode widget config")
		}
		audit.Outcome = models.AuditOutcomeAccepted
		audit.FinalConfig = rawConfig
		if err := c.AuditLogRepository.Create(ctx, audit); err != nil {
			utils.LoggerFromContext(ctx).WithError(err).Error("failed to write dsl audit log")
		}
		break
	}
	if parseErr != nil {
		return nil, utils.InvalidArgument(fmt.Sprintf("the model did not produce a valid widget config: %s", parseErr))
	}

	title := config.Chart.Title
	if title == "" {
		title = "Generated widget"
	}
	widget := &models.Widget{
		UserID:      userID,
		PortfolioID: req.PortfolioID,
		Title:       title,
		Kind:        widgetKindForChart(config.Chart.Kind),
		Config:      rawConfig,
		Public:      req.Public,
	}
	if err := c.WidgetRepository.Create(ctx, widget); err != nil {
		return nil, utils.InternalServerError("could not create widget")
	}

	rows, err := c.WidgetDataService.Execute(ctx, req.PortfolioID, config)
	if err != nil {
		return nil, err
	}
	return &schemas.ChatWidgetResponse{
		Widget: toWidgetResponse(widget),
		Data: schemas.WidgetDataResponse{
			WidgetID: widget.ID,
			Kind:     widget.Kind,
			Rows:     rows,
			AsOf:     time.Now().UTC(),
		},
	}, nil
}

const chatHistoryLimit = 50

// ListChatHistory returns the user's recent prompt-to-config attempts, newest
// first, rejected ones included.
func (c *Controller) ListChatHistory(ctx context.Context, userID string) ([]schemas.ChatHistoryEntry, error) {
	logs, err := c.AuditLogRepository.ListByUser(ctx, userID, chatHistoryLimit)
	if err != nil {
		return nil, utils.InternalServerError("could not load chat history")
	}
	entries := make([]schemas.ChatHistoryEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, schemas.ChatHistoryEntry{
			ID:        log.ID,
			Prompt:    log.Prompt,
			Outcome:   log.Outcome,
			Config:    log.FinalConfig,
			Model:     log.Model,
			CreatedAt: log.CreatedAt,
		})
	}
	return entries, nil
}

// widgetKindForChart maps the chart kind declared in the config onto the
// coarser widget kind.
func widgetKindForChart(chartKind string) string {
	switch chartKind {
	case "table":
		return models.WidgetKindTable
	case "card":
		return models.WidgetKindCard
	default:
		return models.WidgetKindChart
	}
}
