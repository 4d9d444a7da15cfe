package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"kitemate/src/models"
	"kitemate/src/schemas"
	"kitemate/src/utils"
)

// pnlTolerance absorbs float rounding when comparing a client-supplied P&L
// against the recomputed one.
const pnlTolerance = 0.01

type HoldingServiceI interface {
	ValidateAndNormalize(portfolioID string, req *schemas.UpsertHoldingRequest) (*models.Holding, error)
}

// HoldingService normalizes incoming holdings and enforces the P&L invariant:
// unrealized P&L must equal (last price - average price) * quantity.
type HoldingService struct{}

func NewHoldingService() *HoldingService {
	return &HoldingService{}
}

func (s *HoldingService) ValidateAndNormalize(portfolioID string, req *schemas.UpsertHoldingRequest) (*models.Holding, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, utils.InvalidArgument("symbol is required")
	}

	exchange := strings.ToUpper(strings.TrimSpace(req.Exchange))
	if exchange == "" {
		exchange = "NSE"
	}

	if req.Quantity < 0 {
		return nil, utils.InvalidArgument("quantity must not be negative")
	}
	if req.AveragePrice < 0 {
		return nil, utils.InvalidArgument("average_price must not be negative")
	}
	if req.LastPrice < 0 {
		return nil, utils.InvalidArgument("last_price must not be negative")
	}

	pnl := (req.LastPrice - req.AveragePrice) * req.Quantity
	if req.UnrealizedPnL != nil && math.Abs(*req.UnrealizedPnL-pnl) > pnlTolerance {
		return nil, utils.InvalidArgument(fmt.Sprintf(
			"unrealized_pnl %.2f does not match (last_price - average_price) * quantity = %.2f",
			*req.UnrealizedPnL, pnl))
	}

	return &models.Holding{
		PortfolioID:   portfolioID,
		Symbol:        symbol,
		Exchange:      exchange,
		Sector:        strings.TrimSpace(req.Sector),
		Quantity:      req.Quantity,
		AveragePrice:  req.AveragePrice,
		LastPrice:     req.LastPrice,
		UnrealizedPnL: pnl,
		AsOf:          time.Now().UTC(),
	}, nil
}
