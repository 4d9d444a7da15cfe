package services_test

import (
	"context"
	"errors"
	"time"

	"kitemate/src/models"
	"kitemate/src/repositories"
	"kitemate/src/schemas"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeTx satisfies pgx.Tx for services that manage their own transactions.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error          { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error        { t.rolledBack = true; return nil }
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type fakeHoldingRepo struct {
	holdings []models.Holding
	lastTx   *fakeTx
}

func (r *fakeHoldingRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	var out []models.Holding
	for _, h := range r.holdings {
		if h.PortfolioID == portfolioID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHoldingRepo) Upsert(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	for i := range r.holdings {
		if r.holdings[i].PortfolioID == h.PortfolioID &&
			r.holdings[i].Symbol == h.Symbol &&
			r.holdings[i].Exchange == h.Exchange {
			r.holdings[i] = *h
			return nil
		}
	}
	r.holdings = append(r.holdings, *h)
	return nil
}

func (r *fakeHoldingRepo) Delete(ctx context.Context, portfolioID, symbol, exchange string) error {
	return nil
}

func (r *fakeHoldingRepo) ListDistinctSymbols(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var symbols []string
	for _, h := range r.holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols, nil
}

func (r *fakeHoldingRepo) UpdatePrice(ctx context.Context, symbol string, lastPrice float64, tx pgx.Tx) error {
	for i := range r.holdings {
		if r.holdings[i].Symbol == symbol {
			r.holdings[i].LastPrice = lastPrice
			r.holdings[i].UnrealizedPnL = (lastPrice - r.holdings[i].AveragePrice) * r.holdings[i].Quantity
		}
	}
	return nil
}

func (r *fakeHoldingRepo) ListPortfoliosHoldingSymbol(ctx context.Context, symbol string) ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, h := range r.holdings {
		if h.Symbol == symbol && !seen[h.PortfolioID] {
			seen[h.PortfolioID] = true
			ids = append(ids, h.PortfolioID)
		}
	}
	return ids, nil
}

func (r *fakeHoldingRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.lastTx = &fakeTx{}
	return r.lastTx, nil
}

type fakePortfolioRepo struct {
	portfolios []models.Portfolio
	recomputed []string
}

func (r *fakePortfolioRepo) Create(ctx context.Context, p *models.Portfolio) error {
	r.portfolios = append(r.portfolios, *p)
	return nil
}

func (r *fakePortfolioRepo) GetByID(ctx context.Context, id string) (*models.Portfolio, error) {
	for i := range r.portfolios {
		if r.portfolios[i].ID == id {
			return &r.portfolios[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePortfolioRepo) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	return r.portfolios, nil
}

func (r *fakePortfolioRepo) Update(ctx context.Context, p *models.Portfolio) error { return nil }
func (r *fakePortfolioRepo) Delete(ctx context.Context, id string) error           { return nil }

func (r *fakePortfolioRepo) RecomputeTotalValue(ctx context.Context, id string, tx pgx.Tx) (float64, error) {
	r.recomputed = append(r.recomputed, id)
	return 0, nil
}

type fakeUserRepo struct {
	users map[string]*models.User // keyed by broker user id
	plans map[string]string       // user id -> plan set through UpdatePlan
}

func (r *fakeUserRepo) UpsertByBrokerID(ctx context.Context, u *models.User) error { return nil }

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByBrokerUserID(ctx context.Context, brokerUserID string) (*models.User, error) {
	if u, ok := r.users[brokerUserID]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdatePlan(ctx context.Context, id, plan string) error {
	if r.plans == nil {
		r.plans = map[string]string{}
	}
	r.plans[id] = plan
	return nil
}

type fakeSubscriptionRepo struct {
	subscriptions map[string]*models.Subscription // keyed by user id
	seenEvents    map[string]bool
}

func (r *fakeSubscriptionRepo) GetByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	if s, ok := r.subscriptions[userID]; ok {
		return s, nil
	}
	return nil, errors.New("no rows")
}

func (r *fakeSubscriptionRepo) UpsertFromEvent(ctx context.Context, s *models.Subscription) error {
	if r.seenEvents == nil {
		r.seenEvents = map[string]bool{}
	}
	if r.seenEvents[s.LastEventID] {
		return repositories.ErrDuplicateEvent
	}
	r.seenEvents[s.LastEventID] = true
	if r.subscriptions == nil {
		r.subscriptions = map[string]*models.Subscription{}
	}
	r.subscriptions[s.UserID] = s
	return nil
}

func (r *fakeSubscriptionRepo) ListDueForDowngrade(ctx context.Context, asOf time.Time) ([]string, error) {
	var userIDs []string
	for _, s := range r.subscriptions {
		if s.Status == models.SubscriptionCancelled && !s.CurrentPeriodEnd.After(asOf) {
			userIDs = append(userIDs, s.UserID)
		}
	}
	return userIDs, nil
}

type fakeNotifications struct {
	published []*schemas.NotificationEvent
}

func (n *fakeNotifications) Publish(ctx context.Context, event *schemas.NotificationEvent) error {
	n.published = append(n.published, event)
	return nil
}

func (n *fakeNotifications) Persist(ctx context.Context, event *schemas.NotificationEvent) error {
	return n.Publish(ctx, event)
}

func (n *fakeNotifications) List(ctx context.Context, userID string, unreadOnly bool) ([]schemas.NotificationResponse, error) {
	return nil, nil
}

func (n *fakeNotifications) MarkRead(ctx context.Context, id, userID string) error { return nil }
