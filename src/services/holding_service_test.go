package services_test

import (
	"testing"

	"kitemate/src/schemas"
	"kitemate/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndNormalize(t *testing.T) {
	service := services.NewHoldingService()

	t.Run("normalizes symbol and exchange", func(t *testing.T) {
		holding, err := service.ValidateAndNormalize("portfolio-1", &schemas.UpsertHoldingRequest{
			Symbol:       "  infy ",
			Quantity:     10,
			AveragePrice: 1400,
			LastPrice:    1500,
		})
		require.NoError(t, err)

		assert.Equal(t, "INFY", holding.Symbol)
		assert.Equal(t, "NSE", holding.Exchange)
		assert.Equal(t, "portfolio-1", holding.PortfolioID)
		assert.InDelta(t, 1000.0, holding.UnrealizedPnL, 0.001)
	})

	t.Run("accepts matching client pnl", func(t *testing.T) {
		pnl := 1000.0
		_, err := service.ValidateAndNormalize("portfolio-1", &schemas.UpsertHoldingRequest{
			Symbol:        "INFY",
			Quantity:      10,
			AveragePrice:  1400,
			LastPrice:     1500,
			UnrealizedPnL: &pnl,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects mismatched client pnl", func(t *testing.T) {
		pnl := 999.0
		_, err := service.ValidateAndNormalize("portfolio-1", &schemas.UpsertHoldingRequest{
			Symbol:        "INFY",
			Quantity:      10,
			AveragePrice:  1400,
			LastPrice:     1500,
			UnrealizedPnL: &pnl,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrealized_pnl")
	})

	t.Run("rejects empty symbol", func(t *testing.T) {
		_, err := service.ValidateAndNormalize("portfolio-1", &schemas.UpsertHoldingRequest{
			Symbol:   "   ",
			Quantity: 1,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symbol")
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		_, err := service.ValidateAndNormalize("portfolio-1", &schemas.UpsertHoldingRequest{
			Symbol:       "INFY",
			Quantity:     1,
			AveragePrice: -5,
		})
		assert.Error(t, err)
	})
}
