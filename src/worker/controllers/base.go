package controllers

import (
	"sync"

	"kitemate/src/clients/broker"
	"kitemate/src/config"
	"kitemate/src/repositories"
	"kitemate/src/scheduler"
	"kitemate/src/services"
	redis_utils "kitemate/src/utils/redis"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Controller struct {
	DB             *pgxpool.Pool
	SchedulerMutex sync.Mutex
	Schedulers     map[uint]*scheduler.ScheduledTask

	ScheduleRepository repositories.RefreshScheduleRepository
	RefreshService     services.RefreshServiceI
	Notifications      services.NotificationServiceI
	Billing            services.BillingServiceI
	RedisHandler       *redis_utils.RedisHandler
}

func NewController(cfg *config.Config, db *pgxpool.Pool, redisHandler *redis_utils.RedisHandler) *Controller {
	holdingRepo := repositories.NewHoldingRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	brokerClient := broker.NewClient(cfg)
	notifications := services.NewNotificationService(nil, repositories.NewNotificationRepository(db))
	return &Controller{
		DB:                 db,
		SchedulerMutex:     sync.Mutex{},
		Schedulers:         map[uint]*scheduler.ScheduledTask{},
		ScheduleRepository: repositories.NewRefreshScheduleRepository(db),
		RefreshService: services.NewRefreshService(holdingRepo, portfolioRepo,
			brokerClient, cfg.ExternalClients.Broker.AccessToken),
		Notifications: notifications,
		Billing: services.NewBillingService(cfg,
			repositories.NewUserRepository(db),
			repositories.NewSubscriptionRepository(db),
			notifications),
		RedisHandler: redisHandler,
	}
}

func (c *Controller) GetSchedulers() map[uint]*scheduler.ScheduledTask {
	return c.Schedulers
}
