package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"kitemate/src/models"
	"kitemate/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	holdingRepo := &fakeHoldingRepo{holdings: []models.Holding{
		{PortfolioID: "p1", Symbol: "INFY", Exchange: "NSE", Sector: "IT",
			Quantity: 10, AveragePrice: 1400, LastPrice: 1500, UnrealizedPnL: 1000},
	}}
	service := services.NewExportService(holdingRepo)

	data, err := service.ExportCSV(ctx, "p1")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "symbol", records[0][0])
	assert.Equal(t, "INFY", records[1][0])
	assert.Equal(t, "15000.00", records[1][6], "market value column")
	assert.Equal(t, "1000.00", records[1][7], "unrealized pnl column")
}

func TestExportXLSX(t *testing.T) {
	ctx := context.Background()
	holdingRepo := &fakeHoldingRepo{holdings: []models.Holding{
		{PortfolioID: "p1", Symbol: "INFY", Exchange: "NSE", Sector: "IT",
			Quantity: 10, AveragePrice: 1400, LastPrice: 1500, UnrealizedPnL: 1000},
	}}
	service := services.NewExportService(holdingRepo)

	portfolio := &models.Portfolio{ID: "p1", Name: "Core", TotalValue: 15000}
	data, err := service.ExportXLSX(ctx, portfolio)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	var found bool
	for _, row := range rows {
		if len(row) > 0 && row[0] == "INFY" {
			found = true
		}
	}
	assert.True(t, found, "holding row should be present in the sheet")
}
