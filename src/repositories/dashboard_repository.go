package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStaleVersion is returned when a layout update carries an outdated version.
var ErrStaleVersion = errors.New("dashboard version is stale")

type DashboardRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Dashboard, error)
	Create(ctx context.Context, d *models.Dashboard) error
	UpdateLayout(ctx context.Context, userID string, layout json.RawMessage, expectedVersion int) (*models.Dashboard, error)
}

type dashboardRepo struct {
	db *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) GetByUser(ctx context.Context, userID string) (*models.Dashboard, error) {
	var d models.Dashboard
	var layout []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, layout, version, created_at, updated_at
		FROM dashboards WHERE user_id = $1`, userID,
	).Scan(&d.ID, &d.UserID, &layout, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Layout = json.RawMessage(layout)
	return &d, nil
}

func (r *dashboardRepo) Create(ctx context.Context, d *models.Dashboard) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if len(d.Layout) == 0 {
		d.Layout = json.RawMessage("[]")
	}
	// a concurrent first read may have inserted already; that caller wins
	// and this one surfaces pgx.ErrNoRows to re-read
	return r.db.QueryRow(ctx, `
		INSERT INTO dashboards (id, user_id, layout, version)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING version, created_at, updated_at`,
		d.ID, d.UserID, d.Layout,
	).Scan(&d.Version, &d.CreatedAt, &d.UpdatedAt)
}

// UpdateLayout is a compare-and-set on the version column.
func (r *dashboardRepo) UpdateLayout(ctx context.Context, userID string, layout json.RawMessage, expectedVersion int) (*models.Dashboard, error) {
	var d models.Dashboard
	var stored []byte
	err := r.db.QueryRow(ctx, `
		UPDATE dashboards
		SET layout = $2, version = version + 1, updated_at = NOW()
		WHERE user_id = $1 AND version = $3
		RETURNING id, user_id, layout, version, created_at, updated_at`,
		userID, layout, expectedVersion,
	).Scan(&d.ID, &d.UserID, &stored, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either no dashboard or a version mismatch; disambiguate for the caller.
		if _, getErr := r.GetByUser(ctx, userID); getErr == nil {
			return nil, ErrStaleVersion
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	d.Layout = json.RawMessage(stored)
	return &d, nil
}
