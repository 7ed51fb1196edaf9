package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()

	r.Get("/", handleInfo())
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Adaptive Difficulty API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB))

	r.Route("/api/game", func(r chi.Router) {
		r.Get("/health", handleGameHealth(deps.Registry, deps.Model))
		r.Post("/start", handleStart(logger, deps.Registry))

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Post("/update", handleUpdate(logger, deps.Registry, deps.Negotiator, deps.History, broker))
			r.Get("/config", handleGetConfig(deps.Registry))
			r.Post("/end", handleEnd(logger, deps.Registry))
			r.Get("/stats", handleStats(logger, deps.Registry, deps.History))
			r.Get("/events", handleEvents(deps.Registry, broker))
		})
	})
}

type InfoResponse struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Description   string            `json:"description"`
	Documentation string            `json:"documentation"`
	Endpoints     map[string]string `json:"endpoints"`
}

func handleInfo() http.HandlerFunc {
	info := InfoResponse{
		Name:          "Adaptive Difficulty API",
		Version:       "1.0.0",
		Description:   "Real-time AI-driven game difficulty adjustment",
		Documentation: "/docs",
		Endpoints: map[string]string{
			"startGame":  "POST /api/game/start",
			"updateGame": "POST /api/game/{sessionID}/update",
			"getConfig":  "GET /api/game/{sessionID}/config",
			"endGame":    "POST /api/game/{sessionID}/end",
			"gameStats":  "GET /api/game/{sessionID}/stats",
			"events":     "GET /api/game/{sessionID}/events",
			"health":     "GET /api/game/health",
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, info)
	}
}
