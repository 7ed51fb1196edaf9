package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Adaptive Difficulty API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Real-time AI-driven game difficulty adjustment backend.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Liveness check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/game/health
	getGameHealth, _ := r.NewOperationContext(http.MethodGet, "/api/game/health")
	getGameHealth.SetSummary("Game service health")
	getGameHealth.SetDescription("Active session count and model-client status.")
	getGameHealth.AddRespStructure(GameHealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getGameHealth)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start a game session")
	postStart.SetDescription("Creates a session for the player and returns the default configuration.")
	postStart.AddReqStructure(StartRequest{})
	postStart.AddRespStructure(StartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStart)

	// POST /api/game/{sessionID}/update
	postUpdate, _ := r.NewOperationContext(http.MethodPost, "/api/game/{sessionID}/update")
	postUpdate.SetSummary("Submit metrics, receive adjusted configuration")
	postUpdate.SetDescription("Validates the metrics, negotiates a new configuration with the model, " +
		"and returns it. When negotiation fails the previous configuration is returned with llm_used=false " +
		"and a soft error detail.")
	postUpdate.AddReqStructure(UpdateRequest{})
	postUpdate.AddRespStructure(UpdateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUpdate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUpdate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postUpdate)

	// GET /api/game/{sessionID}/config
	getConfig, _ := r.NewOperationContext(http.MethodGet, "/api/game/{sessionID}/config")
	getConfig.SetSummary("Get current configuration")
	getConfig.AddRespStructure(ConfigResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getConfig)

	// POST /api/game/{sessionID}/end
	postEnd, _ := r.NewOperationContext(http.MethodPost, "/api/game/{sessionID}/end")
	postEnd.SetSummary("End a game session")
	postEnd.AddRespStructure(EndResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postEnd)

	// GET /api/game/{sessionID}/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/game/{sessionID}/stats")
	getStats.SetSummary("Session statistics")
	getStats.SetDescription("Session snapshot plus recent negotiation outcomes.")
	getStats.AddRespStructure(StatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getStats)

	// GET /api/game/{sessionID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/{sessionID}/events")
	getEvents.SetSummary("SSE adjustment stream")
	getEvents.SetDescription("Server-Sent Events stream of negotiation outcomes for the session.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
