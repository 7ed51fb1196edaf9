// Command simulate drives the API end to end with a synthetic player whose
// performance ramps up round by round, printing each negotiated
// configuration.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL  string
		playerID string
		rounds   int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a game session against the adaptive difficulty API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = "sim-" + uuid.NewString()
			}
			sim := &simulator{
				baseURL: baseURL,
				client:  &http.Client{Timeout: 60 * time.Second},
			}
			return sim.run(playerID, rounds, interval)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&playerID, "player", "", "player ID (random if empty)")
	cmd.Flags().IntVar(&rounds, "rounds", 5, "number of update rounds to send")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "pause between rounds")

	return cmd
}

type simulator struct {
	baseURL string
	client  *http.Client
}

func (s *simulator) run(playerID string, rounds int, interval time.Duration) error {
	var start struct {
		SessionID string `json:"sessionId"`
		Config    any    `json:"config"`
	}
	if err := s.post("/api/game/start", map[string]any{"playerId": playerID}, &start); err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	fmt.Printf("session %s started for player %s\n", start.SessionID, playerID)
	printConfig(1, start.Config, true, "")

	for round := 2; round <= rounds+1; round++ {
		time.Sleep(interval)

		var update struct {
			Config  any    `json:"config"`
			LLMUsed bool   `json:"llm_used"`
			Error   string `json:"error"`
		}
		err := s.post(fmt.Sprintf("/api/game/%s/update", start.SessionID), syntheticMetrics(round), &update)
		if err != nil {
			return fmt.Errorf("round %d update: %w", round, err)
		}
		printConfig(round, update.Config, update.LLMUsed, update.Error)
	}

	var stats map[string]any
	if err := s.get(fmt.Sprintf("/api/game/%s/stats", start.SessionID), &stats); err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}
	pretty, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Printf("final stats:\n%s\n", pretty)

	if err := s.post(fmt.Sprintf("/api/game/%s/end", start.SessionID), nil, nil); err != nil {
		return fmt.Errorf("ending game: %w", err)
	}
	fmt.Println("session ended")
	return nil
}

// syntheticMetrics models a player warming up: APM and dodge ratio climb
// each round, with the dodge ratio capped below 1.
func syntheticMetrics(round int) map[string]any {
	return map[string]any{
		"apm":          60 + round*10,
		"dodgeRatio":   math.Min(0.35+float64(round)*0.06, 0.95),
		"round":        round,
		"timeSurvived": float64(round) * 30,
	}
}

func printConfig(round int, config any, llmUsed bool, errDetail string) {
	data, _ := json.Marshal(config)
	fmt.Printf("round %d: llm_used=%v config=%s\n", round, llmUsed, data)
	if errDetail != "" {
		fmt.Printf("round %d: fallback applied: %s\n", round, errDetail)
	}
}

func (s *simulator) post(path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *simulator) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *simulator) do(req *http.Request, out any) error {
	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, res.StatusCode, detail)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
