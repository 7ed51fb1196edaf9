package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arenaforge/bossrush/internal/game"
)

type ConfigResponse struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"sessionId"`
	Config    game.GameConfig `json:"config"`
}

func handleGetConfig(registry *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		cfg, ok := registry.Config(sessionID)
		if !ok {
			writeError(w, http.StatusNotFound, "game session not found or expired")
			return
		}

		writeJSON(w, http.StatusOK, ConfigResponse{
			Success:   true,
			SessionID: sessionID,
			Config:    cfg,
		})
	}
}

type EndResponse struct {
	Success bool   `json:"success"`
	Ended   bool   `json:"ended"`
	Message string `json:"message"`
}

func handleEnd(logger *slog.Logger, registry *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if !registry.End(sessionID) {
			writeError(w, http.StatusNotFound, "game session not found")
			return
		}

		logger.Info("game session ended", "session_id", sessionID)
		writeJSON(w, http.StatusOK, EndResponse{
			Success: true,
			Ended:   true,
			Message: "game session ended successfully",
		})
	}
}

type StatsResponse struct {
	Success           bool              `json:"success"`
	Stats             game.SessionStats `json:"stats"`
	RecentAdjustments []Adjustment      `json:"recentAdjustments"`
}

func handleStats(logger *slog.Logger, registry *game.Registry, history HistoryStore) http.HandlerFunc {
	const recentLimit = 10

	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		stats, ok := registry.Stats(sessionID)
		if !ok {
			writeError(w, http.StatusNotFound, "game session not found or expired")
			return
		}

		recent, err := history.RecentBySession(r.Context(), sessionID, recentLimit)
		if err != nil {
			logger.Error("loading negotiation history failed", "session_id", sessionID, "error", err)
			recent = nil
		}
		if recent == nil {
			recent = []Adjustment{}
		}

		writeJSON(w, http.StatusOK, StatsResponse{
			Success:           true,
			Stats:             stats,
			RecentAdjustments: recent,
		})
	}
}
