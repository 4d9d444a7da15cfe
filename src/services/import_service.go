package services

import (
	"context"
	"io"
	"time"

	"kitemate/src/models"
	"kitemate/src/repositories"
	"kitemate/src/schemas"
	"kitemate/src/utils"
)

type ImportServiceI interface {
	ImportHoldingsCSV(ctx context.Context, portfolioID string, file io.Reader) (*schemas.ImportResult, error)
}

// ImportService loads a holdings CSV into a portfolio. Valid rows commit in a
// single transaction; row errors are reported back, never silently dropped.
type ImportService struct {
	holdingRepository   repositories.HoldingRepository
	portfolioRepository repositories.PortfolioRepository
}

func NewImportService(holdingRepository repositories.HoldingRepository, portfolioRepository repositories.PortfolioRepository) *ImportService {
	return &ImportService{
		holdingRepository:   holdingRepository,
		portfolioRepository: portfolioRepository,
	}
}

func (s *ImportService) ImportHoldingsCSV(ctx context.Context, portfolioID string, file io.Reader) (*schemas.ImportResult, error) {
	rows, rowErrors, err := utils.ParseHoldingsCSV(file)
	if err != nil {
		return nil, utils.InvalidArgument(err.Error())
	}

	result := &schemas.ImportResult{Errors: rowErrors}
	if len(rows) == 0 {
		return result, nil
	}

	tx, err := s.holdingRepository.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	now := time.Now().UTC()
	for _, row := range rows {
		holding := &models.Holding{
			PortfolioID:   portfolioID,
			Symbol:        row.Symbol,
			Exchange:      row.Exchange,
			Sector:        row.Sector,
			Quantity:      row.Quantity,
			AveragePrice:  row.AveragePrice,
			LastPrice:     row.LastPrice,
			UnrealizedPnL: (row.LastPrice - row.AveragePrice) * row.Quantity,
			AsOf:          now,
		}
		if err = s.holdingRepository.Upsert(ctx, holding, tx); err != nil {
			return nil, err
		}
		result.Imported++
	}

	if _, err = s.portfolioRepository.RecomputeTotalValue(ctx, portfolioID, tx); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
