package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kitemate/src/api/controllers"
	"kitemate/src/clients/broker"
	"kitemate/src/clients/llm"
	"kitemate/src/config"
	"kitemate/src/database"
	"kitemate/src/repositories"
	"kitemate/src/services"
	redis_utils "kitemate/src/utils/redis"

	"kitemate/src/utils"

	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userIDKey contextKey = "userID"

type Handler struct {
	Controller controllers.IController
	Logger     *logrus.Logger
}

func NewHandler(cfg *config.Config) (*Handler, error) {
	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}
	redisHandler, err := redis_utils.NewRedisHandler(cfg)
	if err != nil {
		return nil, err
	}
	brokerClient := broker.NewClient(cfg)
	llmClient := llm.NewClient(cfg)
	authService := services.NewAuthService(cfg)
	notifications := services.NewNotificationService(redisHandler, repositories.NewNotificationRepository(db))
	billingService := services.NewBillingService(cfg,
		repositories.NewUserRepository(db),
		repositories.NewSubscriptionRepository(db),
		notifications)
	controller := controllers.NewController(cfg, db, brokerClient, llmClient, authService, notifications, billingService)
	return &Handler{
		Controller: controller,
		Logger:     utils.NewLogger(cfg.Service.LogLevel),
	}, nil
}

func NewHandlerWithController(controller controllers.IController) *Handler {
	return &Handler{Controller: controller}
}

// WithRequestLogger puts the configured logger in every request context so
// controllers log at the configured level instead of a fallback.
func (h *Handler) WithRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Logger != nil {
			r = r.WithContext(utils.WithLogger(r.Context(), h.Logger))
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var httpErr *utils.HTTPError
	if errors.Is(err, context.DeadlineExceeded) {
		h.respond(w, nil, map[string]string{"code": string(utils.CodeUnavailable), "error": "request timed out"}, http.StatusGatewayTimeout)
	} else if errors.As(err, &httpErr) {
		utils.WriteError(w, httpErr)
	} else if err != nil {
		utils.WriteError(w, utils.InternalServerError(err.Error()))
	} else {
		utils.WriteError(w, utils.InternalServerError("unhandled error"))
	}
}

// RequireSession verifies the bearer token and stores the session identity in
// the request context.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := jwtauth.TokenFromHeader(r)
		if token == "" {
			h.HandleErrors(w, utils.Unauthenticated("missing bearer token"))
			return
		}
		claims, err := h.Controller.VerifyToken(token)
		if err != nil {
			h.HandleErrors(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionUserID returns the authenticated user id stored by RequireSession.
// The plan claim is informational only; billing can change the plan without
// reissuing the token, so plan checks always go through the database.
func SessionUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
