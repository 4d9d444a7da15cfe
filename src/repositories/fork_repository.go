package repositories

import (
	"context"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ForkRepository interface {
	Create(ctx context.Context, f *models.Fork, tx pgx.Tx) error
	Exists(ctx context.Context, widgetID, userID string) (bool, error)
}

type forkRepo struct {
	db *pgxpool.Pool
}

func NewForkRepository(db *pgxpool.Pool) ForkRepository {
	return &forkRepo{db: db}
}

func (r *forkRepo) Create(ctx context.Context, f *models.Fork, tx pgx.Tx) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	query := `
		INSERT INTO forks (id, widget_id, forked_widget_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if tx != nil {
		return tx.QueryRow(ctx, query, f.ID, f.WidgetID, f.ForkedWidgetID, f.UserID).Scan(&f.CreatedAt)
	}
	return r.db.QueryRow(ctx, query, f.ID, f.WidgetID, f.ForkedWidgetID, f.UserID).Scan(&f.CreatedAt)
}

func (r *forkRepo) Exists(ctx context.Context, widgetID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM forks WHERE widget_id = $1 AND user_id = $2)`,
		widgetID, userID).Scan(&exists)
	return exists, err
}
