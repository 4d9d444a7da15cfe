package schemas

import (
	"time"

	"kitemate/src/utils"
)

type CreatePortfolioRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	BaseCurrency string `json:"base_currency" validate:"omitempty,len=3"`
	Description  string `json:"description" validate:"max=500"`
}

type UpdatePortfolioRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type PortfolioResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BaseCurrency string    `json:"base_currency"`
	Description  string    `json:"description,omitempty"`
	TotalValue   float64   `json:"total_value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpsertHoldingRequest carries one holding line item. UnrealizedPnL is
// optional; when the client supplies it, it must match the recomputed value.
type UpsertHoldingRequest struct {
	Symbol        string   `json:"symbol" validate:"required,max=32"`
	Exchange      string   `json:"exchange" validate:"omitempty,max=16"`
	Sector        string   `json:"sector" validate:"omitempty,max=64"`
	Quantity      float64  `json:"quantity" validate:"gte=0"`
	AveragePrice  float64  `json:"average_price" validate:"gte=0"`
	LastPrice     float64  `json:"last_price" validate:"gte=0"`
	UnrealizedPnL *float64 `json:"unrealized_pnl"`
}

type HoldingResponse struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Exchange      string    `json:"exchange"`
	Sector        string    `json:"sector,omitempty"`
	Quantity      float64   `json:"quantity"`
	AveragePrice  float64   `json:"average_price"`
	LastPrice     float64   `json:"last_price"`
	UnrealizedPnL float64   `json:"unrealized_pnl"`
	MarketValue   float64   `json:"market_value"`
	AsOf          time.Time `json:"as_of"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Errors   []utils.RowError `json:"errors,omitempty"`
}

type AllocationSlice struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

type AllocationResponse struct {
	PortfolioID string            `json:"portfolio_id"`
	TotalValue  float64           `json:"total_value"`
	Slices      []AllocationSlice `json:"slices"`
}
