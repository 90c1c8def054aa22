package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(h *SlackHandler, db Pinger) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(db))
	r.Post("/slack/events", h.HandleEvent)
	r.Post("/slack/commands", h.HandleSlashCommand)

	return r
}

func handleHealth(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
