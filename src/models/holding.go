package models

import "time"

type Holding struct {
	ID            string    `db:"id"`
	PortfolioID   string    `db:"portfolio_id"`
	Symbol        string    `db:"symbol"`
	Exchange      string    `db:"exchange"`
	Sector        string    `db:"sector"`
	Quantity      float64   `db:"quantity"`
	AveragePrice  float64   `db:"average_price"`
	LastPrice     float64   `db:"last_price"`
	UnrealizedPnL float64   `db:"unrealized_pnl"`
	AsOf          time.Time `db:"as_of"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}

// MarketValue is the current worth of the position.
func (h *Holding) MarketValue() float64 {
	return h.LastPrice * h.Quantity
}
