package services

import (
	"context"

	"kitemate/src/repositories"
	"kitemate/src/schemas"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type AllocationServiceI interface {
	SectorAllocation(ctx context.Context, portfolioID string) (*schemas.AllocationResponse, error)
}

// AllocationService pivots a portfolio's holdings into sector weights.
type AllocationService struct {
	holdingRepository repositories.HoldingRepository
}

func NewAllocationService(holdingRepository repositories.HoldingRepository) *AllocationService {
	return &AllocationService{holdingRepository: holdingRepository}
}

func (s *AllocationService) SectorAllocation(ctx context.Context, portfolioID string) (*schemas.AllocationResponse, error) {
	holdings, err := s.holdingRepository.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	response := &schemas.AllocationResponse{PortfolioID: portfolioID}
	if len(holdings) == 0 {
		return response, nil
	}

	sectors := make([]string, len(holdings))
	values := make([]float64, len(holdings))
	for i, h := range holdings {
		sector := h.Sector
		if sector == "" {
			sector = "Unclassified"
		}
		sectors[i] = sector
		values[i] = h.MarketValue()
	}

	df := dataframe.New(
		series.New(sectors, series.String, "sector"),
		series.New(values, series.Float, "value"),
	)

	grouped := df.GroupBy("sector").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{"value"},
	).Arrange(dataframe.RevSort("value_SUM"))

	var total float64
	for _, v := range values {
		total += v
	}
	response.TotalValue = total

	for i := 0; i < grouped.Nrow(); i++ {
		value := grouped.Col("value_SUM").Elem(i).Float()
		weight := 0.0
		if total > 0 {
			weight = value / total
		}
		response.Slices = append(response.Slices, schemas.AllocationSlice{
			Sector: grouped.Col("sector").Elem(i).String(),
			Value:  value,
			Weight: weight,
		})
	}
	return response, nil
}
