package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/arenaforge/bossrush/internal/game"
	"github.com/arenaforge/bossrush/internal/llm"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth is process liveness: checks the history database only.
func handleHealth(logger *slog.Logger, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{
			Status: "ok",
			Checks: map[string]string{"sqlite": "ok"},
		}
		status := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Error("health check failed", "name", "sqlite", "error", err)
			resp.Status = "error"
			resp.Checks["sqlite"] = "error"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, resp)
	}
}

type GameHealthResponse struct {
	Success        bool   `json:"success"`
	Status         string `json:"status"`
	ActiveSessions int    `json:"activeSessions"`
	LLMStatus      bool   `json:"llmStatus"`
	Timestamp      string `json:"timestamp"`
}

// handleGameHealth reports the session population and whether the model
// client is configured. It deliberately avoids a live model probe, which
// would make the endpoint as slow as the slowest completion.
func handleGameHealth(registry *game.Registry, model *llm.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GameHealthResponse{
			Success:        true,
			Status:         "healthy",
			ActiveSessions: registry.ActiveCount(),
			LLMStatus:      model.Configured(),
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
