package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/arenaforge/bossrush/internal/game"
)

type StartRequest struct {
	PlayerID string `json:"playerId"`
}

type StartResponse struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"sessionId"`
	Config    game.GameConfig `json:"config"`
	Message   string          `json:"message"`
}

func handleStart(logger *slog.Logger, registry *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerID = strings.TrimSpace(req.PlayerID)
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "valid playerId is required")
			return
		}

		sessionID, cfg := registry.Create(req.PlayerID)
		logger.Info("game session created", "session_id", sessionID, "player_id", req.PlayerID)

		writeJSON(w, http.StatusOK, StartResponse{
			Success:   true,
			SessionID: sessionID,
			Config:    cfg,
			Message:   "game session created successfully",
		})
	}
}
