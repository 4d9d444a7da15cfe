package services

import (
	"context"
	"fmt"

	"kitemate/src/schemas"

	"github.com/jackc/pgx/v5/pgxpool"
)

type WidgetDataServiceI interface {
	Execute(ctx context.Context, portfolioID string, config *schemas.WidgetConfig) ([]schemas.WidgetDataRow, error)
}

// WidgetDataService turns a validated widget configuration into a
// parameterized aggregate query over the portfolio's holdings.
type WidgetDataService struct {
	db  *pgxpool.Pool
	dsl DSLServiceI
}

func NewWidgetDataService(db *pgxpool.Pool, dsl DSLServiceI) *WidgetDataService {
	return &WidgetDataService{db: db, dsl: dsl}
}

func (s *WidgetDataService) Execute(ctx context.Context, portfolioID string, config *schemas.WidgetConfig) ([]schemas.WidgetDataRow, error) {
	// Re-validate: stored configs predate code changes to the whitelists.
	if err := s.dsl.ValidateConfig(config); err != nil {
		return nil, err
	}

	query, args := buildHoldingsQuery(portfolioID, config)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []schemas.WidgetDataRow
	for rows.Next() {
		var row schemas.WidgetDataRow
		if err := rows.Scan(&row.Label, &row.Value); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// buildHoldingsQuery assembles the SQL from whitelist lookups only; user
// provided values always travel as bind parameters.
func buildHoldingsQuery(portfolioID string, config *schemas.WidgetConfig) (string, []interface{}) {
	metricExpr := allowedMetrics[config.Metric]

	args := []interface{}{portfolioID}
	where := "portfolio_id = $1"
	for _, filter := range config.Filters {
		column := allowedFilterFields[filter.Field]
		args = append(args, filter.Value)
		op := "="
		if filter.Op == "neq" {
			op = "<>"
		}
		where += fmt.Sprintf(" AND %s %s $%d", column, op, len(args))
	}

	var query string
	if config.Dimension == "" {
		query = fmt.Sprintf(
			`SELECT 'total' AS label, COALESCE(%s, 0) AS value FROM holdings WHERE %s`,
			metricExpr, where)
	} else {
		dimension := allowedDimensions[config.Dimension]
		order := "DESC"
		if config.Sort == "asc" {
			order = "ASC"
		}
		limit := config.Limit
		if limit == 0 {
			limit = 100
		}
		args = append(args, limit)
		query = fmt.Sprintf(
			`SELECT %s AS label, COALESCE(%s, 0) AS value
			 FROM holdings
			 WHERE %s
			 GROUP BY %s
			 ORDER BY value %s
			 LIMIT $%d`,
			dimension, metricExpr, where, dimension, order, len(args))
	}
	return query, args
}
