package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAPISpecCoversRoutes(t *testing.T) {
	w := httptest.NewRecorder()
	handleOpenAPI()(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content-type = %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		`"openapi": "3.0`,
		"/api/game/start",
		"/api/game/{sessionID}/update",
		"/api/game/{sessionID}/config",
		"/api/game/{sessionID}/end",
		"/api/game/{sessionID}/stats",
		"/api/game/{sessionID}/events",
		"/api/game/health",
		"/healthz",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("spec missing %q", want)
		}
	}
}
