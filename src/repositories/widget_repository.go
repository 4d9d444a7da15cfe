package repositories

import (
	"context"
	"encoding/json"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WidgetRepository interface {
	Create(ctx context.Context, w *models.Widget) error
	GetByID(ctx context.Context, id string) (*models.Widget, error)
	ListByUser(ctx context.Context, userID string) ([]models.Widget, error)
	ListPublic(ctx context.Context, limit int) ([]models.Widget, error)
	Update(ctx context.Context, w *models.Widget) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
	IncrementForkCount(ctx context.Context, id string, tx pgx.Tx) error
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type widgetRepo struct {
	db *pgxpool.Pool
}

func NewWidgetRepository(db *pgxpool.Pool) WidgetRepository {
	return &widgetRepo{db: db}
}

func (r *widgetRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func (r *widgetRepo) Create(ctx context.Context, w *models.Widget) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO widgets (id, user_id, portfolio_id, title, kind, config, public)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING fork_count, created_at, updated_at`,
		w.ID, w.UserID, w.PortfolioID, w.Title, w.Kind, w.Config, w.Public,
	).Scan(&w.ForkCount, &w.CreatedAt, &w.UpdatedAt)
}

func (r *widgetRepo) GetByID(ctx context.Context, id string) (*models.Widget, error) {
	var w models.Widget
	var config []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, portfolio_id, title, kind, config, public, fork_count, created_at, updated_at
		FROM widgets WHERE id = $1`, id,
	).Scan(&w.ID, &w.UserID, &w.PortfolioID, &w.Title, &w.Kind, &config,
		&w.Public, &w.ForkCount, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.Config = json.RawMessage(config)
	return &w, nil
}

func (r *widgetRepo) ListByUser(ctx context.Context, userID string) ([]models.Widget, error) {
	return r.list(ctx, `
		SELECT id, user_id, portfolio_id, title, kind, config, public, fork_count, created_at, updated_at
		FROM widgets
		WHERE user_id = $1
		ORDER BY created_at`, userID)
}

func (r *widgetRepo) ListPublic(ctx context.Context, limit int) ([]models.Widget, error) {
	return r.list(ctx, `
		SELECT id, user_id, portfolio_id, title, kind, config, public, fork_count, created_at, updated_at
		FROM widgets
		WHERE public = TRUE
		ORDER BY fork_count DESC, created_at DESC
		LIMIT $1`, limit)
}

func (r *widgetRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.Widget, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var widgets []models.Widget
	for rows.Next() {
		var w models.Widget
		var config []byte
		if err := rows.Scan(&w.ID, &w.UserID, &w.PortfolioID, &w.Title, &w.Kind,
			&config, &w.Public, &w.ForkCount, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		w.Config = json.RawMessage(config)
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}

func (r *widgetRepo) Update(ctx context.Context, w *models.Widget) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE widgets
		SET title = $2, config = $3, public = $4, updated_at = NOW()
		WHERE id = $1`,
		w.ID, w.Title, w.Config, w.Public)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *widgetRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM widgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *widgetRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM widgets WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *widgetRepo) IncrementForkCount(ctx context.Context, id string, tx pgx.Tx) error {
	query := `UPDATE widgets SET fork_count = fork_count + 1, updated_at = NOW() WHERE id = $1`
	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, id)
	} else {
		_, err = r.db.Exec(ctx, query, id)
	}
	return err
}
