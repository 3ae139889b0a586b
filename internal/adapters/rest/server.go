package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	core_port "marketplace-service/internal/core/port"
)

type ServerConfig struct {
	Port               string
	CorsAllowedOrigins []string
}

// Server - REST API сервиса: калькулятор КПР и селектор регионов.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает роутер отдельно от http.Server, чтобы его можно было проверить в тестах.
func NewRouter(cfg ServerConfig, mortgage *MortgageHandler, regions *RegionHandler, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "Location", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/mortgage", func(r chi.Router) {
			r.Post("/calculate", mortgage.Calculate)
			r.Post("/rate-input", mortgage.RateInput)
			r.Post("/schedule", mortgage.Schedule)
			r.Post("/schedule.xlsx", mortgage.ExportSchedule)
		})

		r.Get("/properties/{propertyID}/mortgage", mortgage.GetPropertyMortgage)

		r.Get("/regions", regions.ListRegions)

		r.Route("/region-sessions", func(r chi.Router) {
			r.Post("/", regions.CreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", regions.GetSession)
				r.Delete("/", regions.DeleteSession)
				r.Post("/open", regions.Open)
				r.Post("/drill", regions.DrillInto())
				r.Post("/toggle", regions.ToggleSelect())
				r.Post("/back", regions.GoBack)
				r.Get("/events", regions.SubscribeToEvents)
			})
		})
	})

	return r
}

func NewServer(cfg ServerConfig, mortgage *MortgageHandler, regions *RegionHandler, baseLogger core_port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, mortgage, regions, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// Start блокируется до остановки сервера.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
