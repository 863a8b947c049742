// Package httpapi exposes slots and exchange requests over a JSON HTTP API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server HTTP-транспорт поверх SlotService и ExchangeCoordinator
type Server struct {
	slots     *service.SlotService
	exchanges *service.ExchangeCoordinator
	auth      Authenticator
	limits    *limiterStore
	health    func(ctx context.Context) error
	logger    *zap.Logger
}

type Option func(*Server)

// WithHealthCheck задаёт проверку зависимостей для /health
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) { s.health = check }
}

// WithRateLimit задаёт лимит запросов на пользователя
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) { s.limits = newLimiterStore(rps, burst) }
}

func NewServer(
	slots *service.SlotService,
	exchanges *service.ExchangeCoordinator,
	auth Authenticator,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		slots:     slots,
		exchanges: exchanges,
		auth:      auth,
		limits:    newLimiterStore(5, 10),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router собирает маршруты API
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Use(s.rateLimit)

		r.Post("/events", s.handleCreateSlot)
		r.Get("/events", s.handleListOwnSlots)
		r.Patch("/events/{id}/make-swappable", s.handleOpenSlot)
		r.Patch("/events/{id}/make-busy", s.handleCloseSlot)
		r.Delete("/events/{id}", s.handleDeleteSlot)

		r.Get("/swappable-slots", s.handleListSwappable)
		r.Get("/my-slots", s.handleListOwnSwappable)

		r.Post("/swap-requests", s.handlePropose)
		r.Get("/swap-requests", s.handleListExchanges)
		r.Patch("/swap-requests/{id}/accept", s.handleAccept)
		r.Patch("/swap-requests/{id}/reject", s.handleReject)
		r.Patch("/swap-requests/{id}/cancel", s.handleCancel)
	})

	return r
}

// Run обслуживает addr до отмены ctx, затем корректно завершает соединения
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.limits.runJanitor(janitorCtx, 2*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			requestLogger(r, s.logger).Warn("Health check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, codeUnavailable, "storage unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
