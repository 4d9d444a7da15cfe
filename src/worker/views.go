package worker

import (
	"net/http"
	"time"

	"kitemate/src/config"
	"kitemate/src/worker/handlers"

	"github.com/go-chi/chi/v5"
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
	s.Router.Use(s.Handler.WithRequestLogger)
	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Route("/api/refresh", func(r chi.Router) {
		r.Post("/all", s.Handler.LoadAllRefreshSchedules)
		r.Post("/{id}", s.Handler.LoadRefreshScheduleByID)
	})
}

func NewHTTPServer(server *Server) *http.Server {
	return &http.Server{
		Addr:         ":" + "8000",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
}
