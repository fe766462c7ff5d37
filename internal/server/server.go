// Package server wires all handlers into the HTTP server and owns the
// cross-cutting middleware.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gatecode/internal/accesscode"
	"gatecode/internal/config"
	"gatecode/internal/database"
	"gatecode/internal/payment"
	"gatecode/internal/profile"
	"gatecode/internal/session"
	"gatecode/internal/storage"
	"gatecode/internal/user"
)

// Server holds the handler and collaborator wiring for the HTTP surface
type Server struct {
	cfg      *config.Config
	db       database.Service
	sessions session.Manager
	store    session.Store
	storage  storage.Service

	codes    *accesscode.Handler
	payments *payment.Handler
	profiles *profile.Handler
	users    *user.Handler
	tokens   *user.TokenIssuer

	logger *slog.Logger
}

// New creates a server from its wired collaborators
func New(
	cfg *config.Config,
	db database.Service,
	sessions session.Manager,
	store session.Store,
	storageSvc storage.Service,
	codes *accesscode.Handler,
	payments *payment.Handler,
	profiles *profile.Handler,
	users *user.Handler,
	tokens *user.TokenIssuer,
	logger *slog.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		store:    store,
		storage:  storageSvc,
		codes:    codes,
		payments: payments,
		profiles: profiles,
		users:    users,
		tokens:   tokens,
		logger:   logger,
	}
}

// HTTPServer builds the http.Server serving the registered routes
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.cfg.Port),
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// health reports the status of external collaborators
func (s *Server) health(ctx context.Context) map[string]any {
	response := make(map[string]any)

	response["database"] = s.db.Health(ctx)

	redisHealth := map[string]string{"status": "up"}
	if err := s.store.Health(ctx); err != nil {
		redisHealth["status"] = "down"
		redisHealth["error"] = err.Error()
	}
	response["redis"] = redisHealth

	if s.storage != nil {
		storageHealth := map[string]string{"status": "up"}
		if err := s.storage.Health(ctx); err != nil {
			storageHealth["status"] = "down"
			storageHealth["error"] = err.Error()
		}
		response["storage"] = storageHealth
	}

	return response
}
