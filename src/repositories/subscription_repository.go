package repositories

import (
	"context"
	"errors"
	"time"

	"kitemate/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEvent signals a webhook event that was already processed.
var ErrDuplicateEvent = errors.New("webhook event already processed")

type SubscriptionRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Subscription, error)
	UpsertFromEvent(ctx context.Context, s *models.Subscription) error
	ListDueForDowngrade(ctx context.Context, asOf time.Time) ([]string, error)
}

type subscriptionRepo struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) GetByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	var s models.Subscription
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, plan, status, gateway_subscription_id, amount, currency,
		       current_period_end, last_event_id, created_at, updated_at
		FROM subscriptions WHERE user_id = $1`, userID,
	).Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &s.GatewaySubscriptionID,
		&s.Amount, &s.Currency, &s.CurrentPeriodEnd, &s.LastEventID,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertFromEvent writes the subscription state carried by a webhook event.
// Every processed event id is recorded in the webhook_events ledger inside the
// same transaction, so any replay, including an old event delivered after
// newer ones, is a no-op reported as ErrDuplicateEvent.
func (r *subscriptionRepo) UpsertFromEvent(ctx context.Context, s *models.Subscription) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO webhook_events (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO NOTHING`,
		s.LastEventID, s.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateEvent
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO subscriptions (id, user_id, plan, status, gateway_subscription_id,
		                           amount, currency, current_period_end, last_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			plan                    = EXCLUDED.plan,
			status                  = EXCLUDED.status,
			gateway_subscription_id = EXCLUDED.gateway_subscription_id,
			amount                  = EXCLUDED.amount,
			currency                = EXCLUDED.currency,
			current_period_end      = EXCLUDED.current_period_end,
			last_event_id           = EXCLUDED.last_event_id,
			updated_at              = NOW()
		RETURNING id, created_at, updated_at`,
		s.ID, s.UserID, s.Plan, s.Status, s.GatewaySubscriptionID,
		s.Amount, s.Currency, s.CurrentPeriodEnd, s.LastEventID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListDueForDowngrade returns users still on a paid plan whose cancelled
// subscription period ended at or before asOf.
func (r *subscriptionRepo) ListDueForDowngrade(ctx context.Context, asOf time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.user_id
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.status = 'cancelled' AND s.current_period_end <= $1 AND u.plan <> 'free'`,
		asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}
