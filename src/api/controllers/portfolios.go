package controllers

import (
	"context"
	"errors"
	"io"

	"kitemate/src/models"
	"kitemate/src/schemas"
	"kitemate/src/utils"

	"github.com/jackc/pgx/v5"
)

// getOwnedPortfolio loads a portfolio and checks it belongs to the caller.
func (c *Controller) getOwnedPortfolio(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	portfolio, err := c.PortfolioRepository.GetByID(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NotFound("portfolio not found")
		}
		return nil, utils.InternalServerError("could not load portfolio")
	}
	if portfolio.UserID != userID {
		return nil, utils.PermissionDenied("portfolio belongs to another user")
	}
	return portfolio, nil
}

func (c *Controller) CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.PortfolioResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	currency := req.BaseCurrency
	if currency == "" {
		currency = "INR"
	}
	portfolio := &models.Portfolio{
		UserID:       userID,
		Name:         req.Name,
		BaseCurrency: currency,
		Description:  req.Description,
	}
	if err := c.PortfolioRepository.Create(ctx, portfolio); err != nil {
		return nil, utils.InternalServerError("could not create portfolio")
	}
	resp := toPortfolioResponse(portfolio)
	return &resp, nil
}

func (c *Controller) ListPortfolios(ctx context.Context, userID string) ([]*schemas.PortfolioResponse, error) {
	portfolios, err := c.PortfolioRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.InternalServerError("could not list portfolios")
	}
	responses := make([]*schemas.PortfolioResponse, 0, len(portfolios))
	for i := range portfolios {
		resp := toPortfolioResponse(&portfolios[i])
		responses = append(responses, &resp)
	}
	return responses, nil
}

func (c *Controller) GetPortfolio(ctx context.Context, userID, portfolioID string) (*schemas.PortfolioResponse, error) {
	portfolio, err := c.getOwnedPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	resp := toPortfolioResponse(portfolio)
	return &resp, nil
}

func (c *Controller) UpdatePortfolio(ctx context.Context, userID, portfolioID string, req *schemas.UpdatePortfolioRequest) (*schemas.PortfolioResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	portfolio, err := c.getOwnedPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		portfolio.Name = *req.Name
	}
	if req.Description != nil {
		portfolio.Description = *req.Description
	}
	if err := c.PortfolioRepository.Update(ctx, portfolio); err != nil {
		return nil, utils.InternalServerError("could not update portfolio")
	}
	resp := toPortfolioResponse(portfolio)
	return &resp, nil
}

func (c *Controller) DeletePortfolio(ctx context.Context, userID, portfolioID string) error {
	if _, err := c.getOwnedPortfolio(ctx, userID, portfolioID); err != nil {
		return err
	}
	if err := c.PortfolioRepository.Delete(ctx, portfolioID); err != nil {
		return utils.InternalServerError("could not delete portfolio")
	}
	return nil
}

func (c *Controller) ListHoldings(ctx context.Context, userID, portfolioID string) ([]*schemas.HoldingResponse, error) {
	if _, err := c.getOwnedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	holdings, err := c.HoldingRepository.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, utils.InternalServerError("could not list holdings")
	}
	responses := make([]*schemas.HoldingResponse, 0, len(holdings))
	for i := range holdings {
		resp := toHoldingResponse(&holdings[i])
		responses = append(responses, &resp)
	}
	return responses, nil
}

// UpsertHolding validates the line item, writes it and recomputes the
// portfolio total in one transaction.
func (c *Controller) UpsertHolding(ctx context.Context, userID, portfolioID string, req *schemas.UpsertHoldingRequest) (*schemas.HoldingResponse, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}
	if _, err := c.getOwnedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	holding, err := c.HoldingService.ValidateAndNormalize(portfolioID, req)
	if err != nil {
		return nil, err
	}
	tx, err := c.HoldingRepository.BeginTx(ctx)
	if err != nil {
		return nil, utils.InternalServerError("could not start transaction")
	}
	defer tx.Rollback(ctx)
	if err := c.HoldingRepository.Upsert(ctx, holding, tx); err != nil {
		return nil, utils.InternalServerError("could not save holding")
	}
	if _, err := c.PortfolioRepository.RecomputeTotalValue(ctx, portfolioID, tx); err != nil {
		return nil, utils.InternalServerError("could not recompute portfolio total")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, utils.InternalServerError("could not commit holding")
	}
	resp := toHoldingResponse(holding)
	return &resp, nil
}

func (c *Controller) DeleteHolding(ctx context.Context, userID, portfolioID, symbol, exchange string) error {
	if _, err := c.getOwnedPortfolio(ctx, userID, portfolioID); err != nil {
		return err
	}
	if err := c.HoldingRepository.Delete(ctx, portfolioID, symbol, exchange); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.NotFound("holding not found")
		}
		return utils.InternalServerError("could not delete holding")
	}
	if _, err := c.PortfolioRepository.RecomputeTotalValue(ctx, portfolioID, nil); err != nil {
		return utils.InternalServerError("could not recompute portfolio total")
	}
	return nil
}

func (c *Controller) ImportHoldings(ctx context.Context, userID, portfolioID string, file io.Reader) (*schemas.ImportResult, error) {
	if _, err := c.getOwnedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return c.ImportService.ImportHoldingsCSV(ctx, portfolioID, file)
}

// ExportPortfolio returns the serialized file and its content type.
func (c *Controller) ExportPortfolio(ctx context.Context, userID, portfolioID, format string) ([]byte, string, error) {
	portfolio, err := c.getOwnedPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, "", err
	}
	switch format {
	case "", "csv":
		data, err := c.ExportService.ExportCSV(ctx, portfolioID)
		if err != nil {
			return nil, "", err
		}
		return data, "text/csv", nil
	case "xlsx":
		data, err := c.ExportService.ExportXLSX(ctx, portfolio)
		if err != nil {
			return nil, "", err
		}
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return nil, "", utils.InvalidArgument("format must be csv or xlsx")
	}
}

func (c *Controller) GetAllocation(ctx context.Context, userID, portfolioID string) (*schemas.AllocationResponse, error) {
	if _, err := c.getOwnedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return c.AllocationService.SectorAllocation(ctx, portfolioID)
}

func toPortfolioResponse(p *models.Portfolio) schemas.PortfolioResponse {
	return schemas.PortfolioResponse{
		ID:           p.ID,
		Name:         p.Name,
		BaseCurrency: p.BaseCurrency,
		Description:  p.Description,
		TotalValue:   p.TotalValue,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toHoldingResponse(h *models.Holding) schemas.HoldingResponse {
	return schemas.HoldingResponse{
		ID:            h.ID,
		Symbol:        h.Symbol,
		Exchange:      h.Exchange,
		Sector:        h.Sector,
		Quantity:      h.Quantity,
		AveragePrice:  h.AveragePrice,
		LastPrice:     h.LastPrice,
		UnrealizedPnL: h.UnrealizedPnL,
		MarketValue:   h.MarketValue(),
		AsOf:          h.AsOf,
	}
}
