package repositories

import (
	"context"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	UpsertByBrokerID(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByBrokerUserID(ctx context.Context, brokerUserID string) (*models.User, error)
	UpdatePlan(ctx context.Context, id, plan string) error
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) UpsertByBrokerID(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO users (id, broker_user_id, email, name, avatar_url, plan, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (broker_user_id) DO UPDATE SET
			email      = EXCLUDED.email,
			name       = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, plan, active, created_at, updated_at`,
		u.ID, u.BrokerUserID, u.Email, u.Name, u.AvatarURL, models.PlanOrFree(u.Plan),
	).Scan(&u.ID, &u.Plan, &u.Active, &u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, broker_user_id, email, name, avatar_url, plan, active, created_at, updated_at
		FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByBrokerUserID(ctx context.Context, brokerUserID string) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, broker_user_id, email, name, avatar_url, plan, active, created_at, updated_at
		FROM users WHERE broker_user_id = $1`, brokerUserID))
}

func (r *userRepo) UpdatePlan(ctx context.Context, id, plan string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET plan = $2, updated_at = NOW() WHERE id = $1`, id, plan)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepo) scanOne(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.BrokerUserID, &u.Email, &u.Name, &u.AvatarURL,
		&u.Plan, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
