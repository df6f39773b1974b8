package rest

import (
	"context"
	"net/http"

	core_port "moderation-console/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает маршруты /api/v1, отдельно от Server для тестов.
func NewRouter(ads *AdsHandler, stats *StatsHandler, moderators *ModeratorHandler, allowedOrigins []string, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ads", ads.ListAds)
		r.Route("/ads/{adID}", func(r chi.Router) {
			r.Get("/", ads.GetAd)
			r.Post("/approve", ads.Approve)
			r.Post("/reject", ads.Reject)
			r.Post("/request-changes", ads.RequestChanges)
		})

		r.Get("/stats/summary", stats.GetSummary)
		r.Get("/stats/chart/activity", stats.GetActivity)
		r.Get("/stats/chart/decisions", stats.GetDecisions)
		r.Get("/stats/chart/categories", stats.GetCategories)

		r.Get("/moderators/me", moderators.GetCurrent)
	})

	return r
}

func NewServer(port string, handler http.Handler, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
