package repositories

import (
	"context"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HoldingRepository interface {
	ListByPortfolio(ctx context.Context, portfolioID string) ([]models.Holding, error)
	Upsert(ctx context.Context, h *models.Holding, tx pgx.Tx) error
	Delete(ctx context.Context, portfolioID, symbol, exchange string) error
	ListDistinctSymbols(ctx context.Context) ([]string, error)
	UpdatePrice(ctx context.Context, symbol string, lastPrice float64, tx pgx.Tx) error
	ListPortfoliosHoldingSymbol(ctx context.Context, symbol string) ([]string, error)
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type holdingRepo struct {
	db *pgxpool.Pool
}

func NewHoldingRepository(db *pgxpool.Pool) HoldingRepository {
	return &holdingRepo{db: db}
}

func (r *holdingRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func (r *holdingRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, portfolio_id, symbol, exchange, sector, quantity, average_price,
		       last_price, unrealized_pnl, as_of, created_at, updated_at
		FROM holdings
		WHERE portfolio_id = $1
		ORDER BY symbol`, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.Exchange, &h.Sector,
			&h.Quantity, &h.AveragePrice, &h.LastPrice, &h.UnrealizedPnL,
			&h.AsOf, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *holdingRepo) Upsert(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	query := `
		INSERT INTO holdings (id, portfolio_id, symbol, exchange, sector, quantity,
		                      average_price, last_price, unrealized_pnl, as_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (portfolio_id, symbol, exchange) DO UPDATE SET
			sector         = EXCLUDED.sector,
			quantity       = EXCLUDED.quantity,
			average_price  = EXCLUDED.average_price,
			last_price     = EXCLUDED.last_price,
			unrealized_pnl = EXCLUDED.unrealized_pnl,
			as_of          = EXCLUDED.as_of,
			updated_at     = NOW()
		RETURNING id`

	args := []interface{}{h.ID, h.PortfolioID, h.Symbol, h.Exchange, h.Sector,
		h.Quantity, h.AveragePrice, h.LastPrice, h.UnrealizedPnL, h.AsOf}

	if tx != nil {
		return tx.QueryRow(ctx, query, args...).Scan(&h.ID)
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&h.ID)
}

func (r *holdingRepo) Delete(ctx context.Context, portfolioID, symbol, exchange string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM holdings WHERE portfolio_id = $1 AND symbol = $2 AND exchange = $3`,
		portfolioID, symbol, exchange)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListDistinctSymbols returns every symbol held by any portfolio; the quote
// refresh job iterates over it.
func (r *holdingRepo) ListDistinctSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT symbol FROM holdings ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// UpdatePrice rewrites last_price for every position in the symbol and keeps
// unrealized_pnl consistent with it.
func (r *holdingRepo) UpdatePrice(ctx context.Context, symbol string, lastPrice float64, tx pgx.Tx) error {
	query := `
		UPDATE holdings
		SET last_price     = $2,
		    unrealized_pnl = ($2 - average_price) * quantity,
		    as_of          = NOW(),
		    updated_at     = NOW()
		WHERE symbol = $1`

	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, symbol, lastPrice)
	} else {
		_, err = r.db.Exec(ctx, query, symbol, lastPrice)
	}
	return err
}

func (r *holdingRepo) ListPortfoliosHoldingSymbol(ctx context.Context, symbol string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT portfolio_id FROM holdings WHERE symbol = $1`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
