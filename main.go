package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"kitemate/src/api"
	"kitemate/src/config"
	"kitemate/src/utils"
	aws_handler "kitemate/src/utils/aws"
	"kitemate/src/worker"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}
	if err := loadSecrets(cfg); err != nil {
		log.Println(err, "Error while loading secrets")
		return
	}

	errC, err := run(cfg)
	if err != nil {
		log.Println(err, "Couldn't run")
		return
	}

	if err := <-errC; err != nil {
		log.Println(err, "Error while running")
	}
}

// loadSecrets overlays the sensitive config values from the secrets manager
// when a secret id is configured. Local setups keep using plain config.
func loadSecrets(cfg *config.Config) error {
	if cfg.AWS.SecretID == "" {
		return nil
	}
	awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
	if err != nil {
		return err
	}
	secrets, err := awsHandler.SecretManager.GetSecretMap(cfg.AWS.SecretID)
	if err != nil {
		return err
	}
	if v, ok := secrets["jwtSecret"]; ok {
		cfg.Auth.JWTSecret = v
	}
	if v, ok := secrets["brokerApiSecret"]; ok {
		cfg.ExternalClients.Broker.APISecret = v
	}
	if v, ok := secrets["brokerAccessToken"]; ok {
		cfg.ExternalClients.Broker.AccessToken = v
	}
	if v, ok := secrets["billingWebhookSecret"]; ok {
		cfg.Billing.WebhookSecret = v
	}
	return nil
}

func run(cfg *config.Config) (<-chan error, error) {
	errC := make(chan error, 1)
	logger := utils.NewLogger(cfg.Service.LogLevel)
	ctx := utils.WithLogger(context.Background(), logger)

	var httpServer *http.Server
	if cfg.Service.Type == config.API {
		server, err := api.NewServer(cfg)
		if err != nil {
			return nil, err
		}
		httpServer = api.NewHTTPServer(server)
	} else {
		server, err := worker.NewServer(cfg)
		if err != nil {
			return nil, err
		}
		httpServer = worker.NewHTTPServer(server)

		if err := server.Handler.Controller.LoadAllRefreshSchedules(ctx); err != nil {
			return nil, err
		}
		go func() {
			if err := server.Handler.Controller.StartNotificationDispatcher(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("notification dispatcher stopped")
			}
		}()
		go func() {
			if err := server.Handler.Controller.StartPlanDowngradeSweep(ctx, time.Hour); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("plan downgrade sweep stopped")
			}
		}()
	}

	go func() {
		logger.WithField("port", cfg.Service.Port).Info("starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()
	return errC, nil
}
