package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kitemate/src/config"
	"kitemate/src/database"
	"kitemate/src/utils"
	redis_utils "kitemate/src/utils/redis"
	"kitemate/src/worker/controllers"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller *controllers.Controller
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
	controller := controllers.NewController(cfg, db, redisHandler)
	return &Handler{
		Controller: controller,
		Logger:     utils.NewLogger(cfg.Service.LogLevel),
	}, nil
}

// WithRequestLogger puts the configured logger in every request context.
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
		h.respond(w, nil, map[string]string{"error": "request timed out"}, http.StatusGatewayTimeout)
	} else if errors.As(err, &httpErr) {
		utils.WriteError(w, httpErr)
	} else if err != nil {
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
	} else {
		h.respond(w, nil, map[string]string{"error": "unhandled error"}, http.StatusInternalServerError)
	}
}
