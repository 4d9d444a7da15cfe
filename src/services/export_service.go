package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"kitemate/src/models"
	"kitemate/src/repositories"
	"kitemate/src/utils"

	"github.com/xuri/excelize/v2"
)

type ExportServiceI interface {
	ExportCSV(ctx context.Context, portfolioID string) ([]byte, error)
	ExportXLSX(ctx context.Context, portfolio *models.Portfolio) ([]byte, error)
}

var exportColumns = []string{"symbol", "exchange", "sector", "quantity", "average_price", "last_price", "market_value", "unrealized_pnl"}

// ExportService writes a portfolio statement as CSV or XLSX.
type ExportService struct {
	holdingRepository repositories.HoldingRepository
}

func NewExportService(holdingRepository repositories.HoldingRepository) *ExportService {
	return &ExportService{holdingRepository: holdingRepository}
}

func (s *ExportService) ExportCSV(ctx context.Context, portfolioID string) ([]byte, error) {
	holdings, err := s.holdingRepository.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, h := range holdings {
		record := []string{
			h.Symbol,
			h.Exchange,
			h.Sector,
			strconv.FormatFloat(h.Quantity, 'f', -1, 64),
			strconv.FormatFloat(h.AveragePrice, 'f', 2, 64),
			strconv.FormatFloat(h.LastPrice, 'f', 2, 64),
			strconv.FormatFloat(h.MarketValue(), 'f', 2, 64),
			strconv.FormatFloat(h.UnrealizedPnL, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func (s *ExportService) ExportXLSX(ctx context.Context, portfolio *models.Portfolio) ([]byte, error) {
	holdings, err := s.holdingRepository.ListByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := "Holdings"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i, h := range holdings {
		values := []interface{}{
			h.Symbol, h.Exchange, h.Sector, h.Quantity,
			h.AveragePrice, h.LastPrice, h.MarketValue(), h.UnrealizedPnL,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	summaryRow := len(holdings) + 3
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	_ = file.SetCellValue(sheet, cell, fmt.Sprintf("%s total value as of %s",
		portfolio.Name, utils.ShortDashDate(portfolio.UpdatedAt)))
	cell, _ = excelize.CoordinatesToCellName(2, summaryRow)
	_ = file.SetCellValue(sheet, cell, portfolio.TotalValue)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
