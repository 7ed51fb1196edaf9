package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arenaforge/bossrush/internal/game"
)

// UpdateRequest documents the metrics payload for the API spec. The handler
// itself decodes the body into a raw map so the validator can report every
// violated field at once.
type UpdateRequest struct {
	APM              float64  `json:"apm"`
	DodgeRatio       float64  `json:"dodgeRatio"`
	Round            float64  `json:"round"`
	DistanceTraveled *float64 `json:"distanceTraveled,omitempty"`
	ReactionTime     *float64 `json:"reactionTime,omitempty"`
	DamageDealt      *float64 `json:"damageDealt,omitempty"`
	TimeSurvived     *float64 `json:"timeSurvived,omitempty"`
}

type UpdateResponse struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"sessionId"`
	Round     int             `json:"round"`
	Config    game.GameConfig `json:"config"`
	LLMUsed   bool            `json:"llm_used"`
	Error     string          `json:"error,omitempty"`
	Prompt    string          `json:"prompt,omitempty"`
	LLMReply  string          `json:"llmResponse,omitempty"`
}

func handleUpdate(logger *slog.Logger, registry *game.Registry, negotiator *game.Negotiator, history HistoryStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if _, ok := registry.Get(sessionID); !ok {
			writeError(w, http.StatusNotFound, "game session not found or expired")
			return
		}

		var raw map[string]any
		if err := readJSON(r, &raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		metrics, err := game.ValidateMetrics(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		current, ok := registry.Config(sessionID)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session configuration not found")
			return
		}

		registry.TouchActivity(sessionID, metrics.Round)

		outcome := negotiator.Negotiate(r.Context(), current, metrics)

		// The fallback config is stored too; a failed negotiation must not
		// leave the session without an owner-consistent configuration.
		registry.SetConfig(sessionID, outcome.Config)

		analysis := game.Analyze(metrics)
		if err := history.Record(r.Context(), sessionID, adjustmentFrom(metrics, analysis, outcome)); err != nil {
			logger.Error("recording negotiation history failed", "session_id", sessionID, "error", err)
		}

		broker.Publish(sessionID, AdjustmentEvent{
			Type:    "config_updated",
			Round:   metrics.Round,
			LLMUsed: outcome.UsedModel,
			Config:  &outcome.Config,
		})

		logger.Info("game updated",
			"session_id", sessionID,
			"round", metrics.Round,
			"llm_used", outcome.UsedModel,
			"player_type", analysis.PlayerType,
		)

		writeJSON(w, http.StatusOK, UpdateResponse{
			Success:   true,
			SessionID: sessionID,
			Round:     metrics.Round,
			Config:    outcome.Config,
			LLMUsed:   outcome.UsedModel,
			Error:     outcome.ErrorDetail,
			Prompt:    outcome.Prompt,
			LLMReply:  outcome.RawReply,
		})
	}
}
