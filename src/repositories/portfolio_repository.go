package repositories

import (
	"context"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PortfolioRepository interface {
	Create(ctx context.Context, p *models.Portfolio) error
	GetByID(ctx context.Context, id string) (*models.Portfolio, error)
	ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error)
	Update(ctx context.Context, p *models.Portfolio) error
	Delete(ctx context.Context, id string) error
	RecomputeTotalValue(ctx context.Context, id string, tx pgx.Tx) (float64, error)
}

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) PortfolioRepository {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) Create(ctx context.Context, p *models.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.BaseCurrency == "" {
		p.BaseCurrency = "INR"
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO portfolios (id, user_id, name, base_currency, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING total_value, created_at, updated_at`,
		p.ID, p.UserID, p.Name, p.BaseCurrency, p.Description,
	).Scan(&p.TotalValue, &p.CreatedAt, &p.UpdatedAt)
}

func (r *portfolioRepo) GetByID(ctx context.Context, id string) (*models.Portfolio, error) {
	var p models.Portfolio
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, base_currency, description, total_value, created_at, updated_at
		FROM portfolios WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.BaseCurrency, &p.Description,
		&p.TotalValue, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *portfolioRepo) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, base_currency, description, total_value, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var portfolios []models.Portfolio
	for rows.Next() {
		var p models.Portfolio
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.BaseCurrency, &p.Description,
			&p.TotalValue, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

func (r *portfolioRepo) Update(ctx context.Context, p *models.Portfolio) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE portfolios
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *portfolioRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RecomputeTotalValue rewrites total_value from the portfolio's holdings and
// returns the new value. Runs inside the caller's transaction when provided.
func (r *portfolioRepo) RecomputeTotalValue(ctx context.Context, id string, tx pgx.Tx) (float64, error) {
	query := `
		UPDATE portfolios
		SET total_value = COALESCE((
			SELECT SUM(last_price * quantity) FROM holdings WHERE portfolio_id = $1
		), 0),
		updated_at = NOW()
		WHERE id = $1
		RETURNING total_value`

	var total float64
	var err error
	if tx != nil {
		err = tx.QueryRow(ctx, query, id).Scan(&total)
	} else {
		err = r.db.QueryRow(ctx, query, id).Scan(&total)
	}
	return total, err
}
