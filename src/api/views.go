package api

import (
	"net/http"
	"time"

	"kitemate/src/api/handlers"
	"kitemate/src/config"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
}

func NewServer(cfg *config.Config) (*Server, error) {
	handler, err := handlers.NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
	}
	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler)
	s.Router.Use(s.Handler.WithRequestLogger)

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/auth", func(r chi.Router) {
		r.Get("/login", s.Handler.GetLoginURL)
		r.Get("/callback", s.Handler.GetCallback)
		r.With(s.Handler.RequireSession).Get("/me", s.Handler.GetMe)
	})

	s.Router.Route("/api/portfolios", func(r chi.Router) {
		r.Use(s.Handler.RequireSession)
		r.Get("/", s.Handler.GetAllPortfolios)
		r.Post("/", s.Handler.CreatePortfolio)
		r.Get("/{id}", s.Handler.GetPortfolioByID)
		r.Put("/{id}", s.Handler.UpdatePortfolio)
		r.Delete("/{id}", s.Handler.DeletePortfolio)
		r.Get("/{id}/holdings", s.Handler.GetHoldings)
		r.Put("/{id}/holdings/{symbol}", s.Handler.PutHolding)
		r.Delete("/{id}/holdings/{symbol}", s.Handler.DeleteHolding)
		r.Post("/{id}/import", s.Handler.ImportHoldings)
		r.Get("/{id}/export", s.Handler.ExportPortfolio)
		r.Get("/{id}/allocation", s.Handler.GetAllocation)
	})

	s.Router.Route("/api/widgets", func(r chi.Router) {
		r.Use(s.Handler.RequireSession)
		r.Get("/", s.Handler.GetAllWidgets)
		r.Post("/", s.Handler.CreateWidget)
		r.Get("/{id}", s.Handler.GetWidgetByID)
		r.Put("/{id}", s.Handler.UpdateWidget)
		r.Delete("/{id}", s.Handler.DeleteWidget)
		r.Post("/{id}/fork", s.Handler.ForkWidget)
		r.Get("/{id}/data", s.Handler.GetWidgetData)
		r.Get("/{id}/preview", s.Handler.GetWidgetPreview)
	})

	s.Router.Route("/api/chat", func(r chi.Router) {
		r.Use(s.Handler.RequireSession)
		r.Post("/widget", s.Handler.PostChatWidget)
		r.Get("/history", s.Handler.GetChatHistory)
	})

	s.Router.Route("/api/dashboard", func(r chi.Router) {
		r.Use(s.Handler.RequireSession)
		r.Get("/", s.Handler.GetDashboard)
		r.Put("/", s.Handler.PutDashboard)
	})

	s.Router.Route("/api/notifications", func(r chi.Router) {
		r.Use(s.Handler.RequireSession)
		r.Get("/", s.Handler.GetNotifications)
		r.Post("/{id}/read", s.Handler.MarkNotificationRead)
	})

	s.Router.Post("/api/billing/webhook", s.Handler.PostBillingWebhook)
	s.Router.With(s.Handler.RequireSession).Get("/api/subscription", s.Handler.GetSubscription)
}

func NewHTTPServer(server *Server) *http.Server {
	return &http.Server{
		Addr:         ":" + "8000",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      server,
	}
}
