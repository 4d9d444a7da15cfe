package services

import (
	"context"

	"kitemate/src/clients/broker"
	"kitemate/src/repositories"
	"kitemate/src/utils"
)

type RefreshServiceI interface {
	RefreshAllQuotes(ctx context.Context) error
}

// RefreshService pulls last traded prices from the broker and rewrites every
// holding's last price, P&L and the owning portfolio totals.
type RefreshService struct {
	holdingRepository   repositories.HoldingRepository
	portfolioRepository repositories.PortfolioRepository
	brokerClient        broker.BrokerServiceClientI
	accessToken         string
}

func NewRefreshService(holdingRepository repositories.HoldingRepository,
	portfolioRepository repositories.PortfolioRepository,
	brokerClient broker.BrokerServiceClientI,
	accessToken string) *RefreshService {
	return &RefreshService{
		holdingRepository:   holdingRepository,
		portfolioRepository: portfolioRepository,
		brokerClient:        brokerClient,
		accessToken:         accessToken,
	}
}

func (s *RefreshService) RefreshAllQuotes(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)

	symbols, err := s.holdingRepository.ListDistinctSymbols(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		return nil
	}

	prices, err := s.brokerClient.GetLastPrices(ctx, s.accessToken, symbols)
	if err != nil {
		return err
	}

	touched := map[string]bool{}
	for symbol, price := range prices {
		tx, err := s.holdingRepository.BeginTx(ctx)
		if err != nil {
			return err
		}

		if err := s.holdingRepository.UpdatePrice(ctx, symbol, price, tx); err != nil {
			_ = tx.Rollback(ctx)
			logger.WithError(err).Warnf("failed to update price for %s", symbol)
			continue
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}

		portfolioIDs, err := s.holdingRepository.ListPortfoliosHoldingSymbol(ctx, symbol)
		if err != nil {
			return err
		}
		for _, id := range portfolioIDs {
			touched[id] = true
		}
	}

	for portfolioID := range touched {
		if _, err := s.portfolioRepository.RecomputeTotalValue(ctx, portfolioID, nil); err != nil {
			logger.WithError(err).Warnf("failed to recompute total for portfolio %s", portfolioID)
		}
	}

	logger.Infof("refreshed quotes for %d symbols across %d portfolios", len(prices), len(touched))
	return nil
}
