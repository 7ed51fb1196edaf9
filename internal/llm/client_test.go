package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteSendsRequestAndReadsOutputText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type = %q", got)
		}

		var body struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "test-model" {
			t.Errorf("model = %q", body.Model)
		}
		if body.Input != "hello" {
			t.Errorf("input = %q", body.Input)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output_text":"  world  "}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "secret", Model: "test-model"})

	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "world" {
		t.Errorf("output = %q, want %q", got, "world")
	}
}

func TestCompleteFallsBackToOutputContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[{"content":[{"type":"output_text","text":"from content"}]}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "k", Model: "m"})

	got, err := c.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from content" {
		t.Errorf("output = %q", got)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "k", Model: "m"})

	_, err := c.Complete(context.Background(), "p")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not carry the status", err)
	}
}

func TestCompleteEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "k", Model: "m"})

	_, err := c.Complete(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "missing output text") {
		t.Errorf("expected missing-output error, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	if NewClient(Config{URL: "https://x", APIKey: ""}).Configured() {
		t.Error("client without key reports configured")
	}
	if !NewClient(Config{URL: "https://x", APIKey: "k"}).Configured() {
		t.Error("configured client reports unconfigured")
	}

	_, err := NewClient(Config{}).Complete(context.Background(), "p")
	if err == nil {
		t.Error("unconfigured client should refuse to call")
	}
}
