package services_test

import (
	"context"
	"testing"

	"kitemate/src/models"
	"kitemate/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorAllocation(t *testing.T) {
	ctx := context.Background()

	t.Run("groups and weights by sector", func(t *testing.T) {
		holdingRepo := &fakeHoldingRepo{holdings: []models.Holding{
			{PortfolioID: "p1", Symbol: "INFY", Sector: "IT", Quantity: 10, LastPrice: 100},
			{PortfolioID: "p1", Symbol: "TCS", Sector: "IT", Quantity: 10, LastPrice: 200},
			{PortfolioID: "p1", Symbol: "HDFCBANK", Sector: "Banking", Quantity: 10, LastPrice: 100},
		}}
		service := services.NewAllocationService(holdingRepo)

		allocation, err := service.SectorAllocation(ctx, "p1")
		require.NoError(t, err)

		assert.Equal(t, 4000.0, allocation.TotalValue)
		require.Len(t, allocation.Slices, 2)

		// ordered by value, largest first
		assert.Equal(t, "IT", allocation.Slices[0].Sector)
		assert.Equal(t, 3000.0, allocation.Slices[0].Value)
		assert.InDelta(t, 0.75, allocation.Slices[0].Weight, 0.001)
		assert.Equal(t, "Banking", allocation.Slices[1].Sector)
		assert.InDelta(t, 0.25, allocation.Slices[1].Weight, 0.001)
	})

	t.Run("unclassified bucket for missing sectors", func(t *testing.T) {
		holdingRepo := &fakeHoldingRepo{holdings: []models.Holding{
			{PortfolioID: "p1", Symbol: "XYZ", Quantity: 1, LastPrice: 50},
		}}
		service := services.NewAllocationService(holdingRepo)

		allocation, err := service.SectorAllocation(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, allocation.Slices, 1)
		assert.Equal(t, "Unclassified", allocation.Slices[0].Sector)
	})

	t.Run("empty portfolio", func(t *testing.T) {
		service := services.NewAllocationService(&fakeHoldingRepo{})

		allocation, err := service.SectorAllocation(ctx, "p1")
		require.NoError(t, err)
		assert.Zero(t, allocation.TotalValue)
		assert.Empty(t, allocation.Slices)
	})
}
