package controllers

import (
	"context"
	"io"

	"kitemate/src/clients/broker"
	"kitemate/src/clients/llm"
	"kitemate/src/config"
	"kitemate/src/repositories"
	"kitemate/src/schemas"
	"kitemate/src/services"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IController interface {
	// auth
	LoginURL() *schemas.LoginURLResponse
	HandleCallback(ctx context.Context, requestToken string) (*schemas.SessionResponse, error)
	VerifyToken(token string) (*services.SessionClaims, error)
	GetMe(ctx context.Context, userID string) (*schemas.UserResponse, error)

	// portfolios
	CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.PortfolioResponse, error)
	ListPortfolios(ctx context.Context, userID string) ([]*schemas.PortfolioResponse, error)
	GetPortfolio(ctx context.Context, userID, portfolioID string) (*schemas.PortfolioResponse, error)
	UpdatePortfolio(ctx context.Context, userID, portfolioID string, req *schemas.UpdatePortfolioRequest) (*schemas.PortfolioResponse, error)
	DeletePortfolio(ctx context.Context, userID, portfolioID string) error
	ListHoldings(ctx context.Context, userID, portfolioID string) ([]*schemas.HoldingResponse, error)
	UpsertHolding(ctx context.Context, userID, portfolioID string, req *schemas.UpsertHoldingRequest) (*schemas.HoldingResponse, error)
	DeleteHolding(ctx context.Context, userID, portfolioID, symbol, exchange string) error
	ImportHoldings(ctx context.Context, userID, portfolioID string, file io.Reader) (*schemas.ImportResult, error)
	ExportPortfolio(ctx context.Context, userID, portfolioID, format string) ([]byte, string, error)
	GetAllocation(ctx context.Context, userID, portfolioID string) (*schemas.AllocationResponse, error)

	// widgets
	CreateWidget(ctx context.Context, userID string, req *schemas.CreateWidgetRequest) (*schemas.WidgetResponse, error)
	ListWidgets(ctx context.Context, userID string, publicOnly bool) ([]*schemas.WidgetResponse, error)
	GetWidget(ctx context.Context, userID, widgetID string) (*schemas.WidgetResponse, error)
	UpdateWidget(ctx context.Context, userID, widgetID string, req *schemas.UpdateWidgetRequest) (*schemas.WidgetResponse, error)
	DeleteWidget(ctx context.Context, userID, widgetID string) error
	ForkWidget(ctx context.Context, userID, widgetID string, req *schemas.ForkWidgetRequest) (*schemas.WidgetResponse, error)
	GetWidgetData(ctx context.Context, userID, widgetID string) (*schemas.WidgetDataResponse, error)
	GetWidgetPreview(ctx context.Context, userID, widgetID string) (string, error)

	// chat
	ChatWidget(ctx context.Context, userID string, req *schemas.ChatWidgetRequest) (*schemas.ChatWidgetResponse, error)
	ListChatHistory(ctx context.Context, userID string) ([]schemas.ChatHistoryEntry, error)

	// dashboard
	GetDashboard(ctx context.Context, userID string) (*schemas.DashboardResponse, error)
	UpdateDashboard(ctx context.Context, userID string, req *schemas.UpdateDashboardRequest) (*schemas.DashboardResponse, error)

	// notifications
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]schemas.NotificationResponse, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error

	// billing
	VerifyWebhookSignature(body []byte, signature string) bool
	HandleWebhookEvent(ctx context.Context, event *schemas.WebhookEvent) error
	GetSubscription(ctx context.Context, userID string) (*schemas.SubscriptionResponse, error)
}

type Controller struct {
	Cfg *config.Config

	UserRepository         repositories.UserRepository
	PortfolioRepository    repositories.PortfolioRepository
	HoldingRepository      repositories.HoldingRepository
	WidgetRepository       repositories.WidgetRepository
	DashboardRepository    repositories.DashboardRepository
	ForkRepository         repositories.ForkRepository
	AuditLogRepository     repositories.AuditLogRepository
	SubscriptionRepository repositories.SubscriptionRepository

	AuthService       services.AuthServiceI
	HoldingService    services.HoldingServiceI
	ImportService     services.ImportServiceI
	DSLService        services.DSLServiceI
	WidgetDataService services.WidgetDataServiceI
	AllocationService services.AllocationServiceI
	ExportService     services.ExportServiceI
	BillingService    services.BillingServiceI
	Notifications     services.NotificationServiceI

	BrokerClient broker.BrokerServiceClientI
	LLMClient    llm.LLMServiceClientI

	validate *validator.Validate
}

func (c *Controller) validateStruct(v interface{}) error {
	if c.validate == nil {
		c.validate = validator.New()
	}
	return c.validate.Struct(v)
}

// NewController wires the repositories, services and clients over one pool.
func NewController(cfg *config.Config, db *pgxpool.Pool,
	brokerClient broker.BrokerServiceClientI, llmClient llm.LLMServiceClientI,
	authService services.AuthServiceI, notifications services.NotificationServiceI,
	billingService services.BillingServiceI) *Controller {

	holdingRepo := repositories.NewHoldingRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	dslService := services.NewDSLService()

	return &Controller{
		Cfg: cfg,

		UserRepository:         repositories.NewUserRepository(db),
		PortfolioRepository:    portfolioRepo,
		HoldingRepository:      holdingRepo,
		WidgetRepository:       repositories.NewWidgetRepository(db),
		DashboardRepository:    repositories.NewDashboardRepository(db),
		ForkRepository:         repositories.NewForkRepository(db),
		AuditLogRepository:     repositories.NewAuditLogRepository(db),
		SubscriptionRepository: repositories.NewSubscriptionRepository(db),

		AuthService:       authService,
		HoldingService:    services.NewHoldingService(),
		ImportService:     services.NewImportService(holdingRepo, portfolioRepo),
		DSLService:        dslService,
		WidgetDataService: services.NewWidgetDataService(db, dslService),
		AllocationService: services.NewAllocationService(holdingRepo),
		ExportService:     services.NewExportService(holdingRepo),
		BillingService:    billingService,
		Notifications:     notifications,

		BrokerClient: brokerClient,
		LLMClient:    llmClient,

		validate: validator.New(),
	}
}
