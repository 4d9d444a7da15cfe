package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"

	"kitemate/src/clients/llm"
	"kitemate/src/models"
	"kitemate/src/repositories"
	"kitemate/src/schemas"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

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

type fakeUserRepo struct {
	users map[string]*models.User // keyed by id
}

func (r *fakeUserRepo) UpsertByBrokerID(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = "user-" + u.BrokerUserID
	}
	if r.users == nil {
		r.users = map[string]*models.User{}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByBrokerUserID(ctx context.Context, brokerUserID string) (*models.User, error) {
	for _, u := range r.users {
		if u.BrokerUserID == brokerUserID {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdatePlan(ctx context.Context, id, plan string) error {
	if u, ok := r.users[id]; ok {
		u.Plan = plan
		return nil
	}
	return pgx.ErrNoRows
}

type fakePortfolioRepo struct {
	portfolios map[string]*models.Portfolio
}

func (r *fakePortfolioRepo) Create(ctx context.Context, p *models.Portfolio) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("portfolio-%d", len(r.portfolios)+1)
	}
	if r.portfolios == nil {
		r.portfolios = map[string]*models.Portfolio{}
	}
	r.portfolios[p.ID] = p
	return nil
}

func (r *fakePortfolioRepo) GetByID(ctx context.Context, id string) (*models.Portfolio, error) {
	if p, ok := r.portfolios[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePortfolioRepo) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	var out []models.Portfolio
	for _, p := range r.portfolios {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePortfolioRepo) Update(ctx context.Context, p *models.Portfolio) error { return nil }
func (r *fakePortfolioRepo) Delete(ctx context.Context, id string) error {
	delete(r.portfolios, id)
	return nil
}

func (r *fakePortfolioRepo) RecomputeTotalValue(ctx context.Context, id string, tx pgx.Tx) (float64, error) {
	return 0, nil
}

type fakeWidgetRepo struct {
	widgets map[string]*models.Widget
	nextID  int
	lastTx  *fakeTx
}

func (r *fakeWidgetRepo) Create(ctx context.Context, w *models.Widget) error {
	r.nextID++
	w.ID = fmt.Sprintf("widget-%d", r.nextID)
	if r.widgets == nil {
		r.widgets = map[string]*models.Widget{}
	}
	r.widgets[w.ID] = w
	return nil
}

func (r *fakeWidgetRepo) GetByID(ctx context.Context, id string) (*models.Widget, error) {
	if w, ok := r.widgets[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeWidgetRepo) ListByUser(ctx context.Context, userID string) ([]models.Widget, error) {
	var out []models.Widget
	for _, w := range r.widgets {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWidgetRepo) ListPublic(ctx context.Context, limit int) ([]models.Widget, error) {
	var out []models.Widget
	for _, w := range r.widgets {
		if w.Public {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWidgetRepo) Update(ctx context.Context, w *models.Widget) error {
	r.widgets[w.ID] = w
	return nil
}

func (r *fakeWidgetRepo) Delete(ctx context.Context, id string) error {
	delete(r.widgets, id)
	return nil
}

func (r *fakeWidgetRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, w := range r.widgets {
		if w.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeWidgetRepo) IncrementForkCount(ctx context.Context, id string, tx pgx.Tx) error {
	if w, ok := r.widgets[id]; ok {
		w.ForkCount++
		return nil
	}
	return pgx.ErrNoRows
}

func (r *fakeWidgetRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.lastTx = &fakeTx{}
	return r.lastTx, nil
}

type fakeForkRepo struct {
	forks []models.Fork
}

func (r *fakeForkRepo) Create(ctx context.Context, f *models.Fork, tx pgx.Tx) error {
	r.forks = append(r.forks, *f)
	return nil
}

func (r *fakeForkRepo) Exists(ctx context.Context, widgetID, userID string) (bool, error) {
	for _, f := range r.forks {
		if f.WidgetID == widgetID && f.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeDashboardRepo struct {
	dashboards map[string]*models.Dashboard
	// raceWith simulates a concurrent first read inserting before Create
	// runs; Create then reports pgx.ErrNoRows like ON CONFLICT DO NOTHING.
	raceWith *models.Dashboard
}

func (r *fakeDashboardRepo) GetByUser(ctx context.Context, userID string) (*models.Dashboard, error) {
	if d, ok := r.dashboards[userID]; ok {
		return d, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDashboardRepo) Create(ctx context.Context, d *models.Dashboard) error {
	if r.dashboards == nil {
		r.dashboards = map[string]*models.Dashboard{}
	}
	if r.raceWith != nil {
		r.dashboards[r.raceWith.UserID] = r.raceWith
		r.raceWith = nil
		return pgx.ErrNoRows
	}
	d.ID = "dashboard-" + d.UserID
	r.dashboards[d.UserID] = d
	return nil
}

func (r *fakeDashboardRepo) UpdateLayout(ctx context.Context, userID string, layout json.RawMessage, expectedVersion int) (*models.Dashboard, error) {
	d, ok := r.dashboards[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if d.Version != expectedVersion {
		return nil, repositories.ErrStaleVersion
	}
	d.Layout = layout
	d.Version++
	return d, nil
}

type fakeAuditRepo struct {
	logs []models.DSLAuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, log *models.DSLAuditLog) error {
	r.logs = append(r.logs, *log)
	return nil
}

// ListByUser returns newest first, mirroring the ORDER BY in storage.
func (r *fakeAuditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.DSLAuditLog, error) {
	var logs []models.DSLAuditLog
	for i := len(r.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		if r.logs[i].UserID == userID {
			logs = append(logs, r.logs[i])
		}
	}
	return logs, nil
}

type fakeWidgetData struct {
	rows []schemas.WidgetDataRow
}

func (s *fakeWidgetData) Execute(ctx context.Context, portfolioID string, config *schemas.WidgetConfig) ([]schemas.WidgetDataRow, error) {
	return s.rows, nil
}

type fakeLLM struct {
	responses []string // one per call, the last repeats
	calls     int
	prompts   []string
}

func (c *fakeLLM) GenerateWidgetConfig(ctx context.Context, prompt string) (*llm.Completion, error) {
	c.prompts = append(c.prompts, prompt)
	var content string
	if len(c.responses) > 0 {
		i := c.calls
		if i >= len(c.responses) {
			i = len(c.responses) - 1
		}
		content = c.responses[i]
	}
	c.calls++
	return &llm.Completion{Content: content, Model: "test-model", LatencyMs: 10}, nil
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
