package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// Completer produces a text completion for a prompt. Implementations may
// block indefinitely; the Negotiator enforces the timeout.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrModelTimeout reports that the model did not answer within the window.
var ErrModelTimeout = errors.New("model request timed out")

// ParseError reports a model reply without a usable JSON object.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return "unparseable model reply: " + e.Reason }

// InvalidTerrainError reports a terrain tag outside the catalog.
type InvalidTerrainError struct {
	Tag string
}

func (e *InvalidTerrainError) Error() string { return fmt.Sprintf("invalid terrain type %q", e.Tag) }

// Outcome is the result of one negotiation. UsedModel is false on any
// failure path, in which case Config is the caller's previous configuration
// untouched and ErrorDetail says which step failed. Prompt and RawReply are
// carried for observability.
type Outcome struct {
	Config      GameConfig
	UsedModel   bool
	ErrorDetail string
	Prompt      string
	RawReply    string
}

// Negotiator derives new game configurations from player metrics via an
// external model, degrading to the previous configuration when the model
// times out, returns garbage, or proposes an unknown terrain.
type Negotiator struct {
	model   Completer
	timeout time.Duration
	logger  *slog.Logger
}

func NewNegotiator(model Completer, timeout time.Duration, logger *slog.Logger) *Negotiator {
	return &Negotiator{model: model, timeout: timeout, logger: logger}
}

// Negotiate never fails: every error downgrades to the current config with
// UsedModel=false. Difficulty must not silently reset to defaults on a
// transient model hiccup.
func (n *Negotiator) Negotiate(ctx context.Context, current GameConfig, m PlayerMetrics) Outcome {
	prompt := buildPrompt(current, m)

	raw, err := n.completeWithTimeout(ctx, prompt)
	if err != nil {
		n.logger.Warn("negotiation failed, keeping previous config",
			"round", m.Round, "error", err)
		return Outcome{Config: current, Prompt: prompt, ErrorDetail: err.Error()}
	}

	next, err := parseReply(raw)
	if err != nil {
		n.logger.Warn("negotiation reply rejected, keeping previous config",
			"round", m.Round, "error", err)
		return Outcome{Config: current, Prompt: prompt, RawReply: raw, ErrorDetail: err.Error()}
	}

	return Outcome{Config: next, UsedModel: true, Prompt: prompt, RawReply: raw}
}

// completeWithTimeout races the model call against a timer. The reply
// channel is buffered so a completion that loses the race is dropped; it can
// never mutate session state after the caller moved on.
func (n *Negotiator) completeWithTimeout(ctx context.Context, prompt string) (string, error) {
	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		text, err := n.model.Complete(cctx, prompt)
		ch <- reply{text: text, err: err}
	}()

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("model call failed: %w", r.err)
		}
		return r.text, nil
	case <-timer.C:
		return "", ErrModelTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// parseReply extracts the JSON object from free-text model output and
// validates it against the catalog. The terrain's movement modifier always
// comes from the catalog; anything the model hallucinated is ignored, and
// boss fields are clamped unconditionally.
func parseReply(raw string) (GameConfig, error) {
	obj, ok := extractJSON(raw)
	if !ok {
		return GameConfig{}, &ParseError{Reason: "no JSON object found"}
	}

	var cand BossCandidate
	if err := json.Unmarshal([]byte(obj), &cand); err != nil {
		return GameConfig{}, &ParseError{Reason: err.Error()}
	}

	terrain, ok := Terrains[cand.Terrain]
	if !ok {
		return GameConfig{}, &InvalidTerrainError{Tag: cand.Terrain}
	}

	return GameConfig{Terrain: terrain, Boss: ClampBoss(cand)}, nil
}

// extractJSON returns the first balanced {...} substring. Braces inside
// string literals do not count toward the balance.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func buildPrompt(current GameConfig, m PlayerMetrics) string {
	dodgePercent := int(math.Round(m.DodgeRatio * 100))

	apmLabel := "Low"
	if m.APM > 100 {
		apmLabel = "High"
	} else if m.APM > 60 {
		apmLabel = "Medium"
	}

	dodgeLabel := "Needs Improvement"
	if dodgePercent > 70 {
		dodgeLabel = "Excellent"
	} else if dodgePercent > 50 {
		dodgeLabel = "Good"
	}

	skill := "beginner"
	if m.APM > 120 && m.DodgeRatio > 0.7 {
		skill = "expert"
	} else if m.APM > 80 && m.DodgeRatio > 0.5 {
		skill = "intermediate"
	}

	terrain := current.Terrain
	boss := current.Boss

	var b strings.Builder
	fmt.Fprintf(&b, `Player Performance Analysis:
- Actions Per Minute: %d (%s)
- Dodge Success Rate: %d%% (%s)
- Current Round: %d
- Skill Level: %s

Current Game Configuration:
- Terrain: %s (movement modifier: %g)
- Boss Speed: %g/100
- Boss Health: %g HP
- Boss Damage: %g
- Boss Shield: %g

TERRAIN EFFECTS ON GAMEPLAY:
- "smooth": Player moves faster but has less control (slips around), harder to precisely dodge
- "sticky": Player movement is slowed, harder to escape from attacks, defensive disadvantage
- "rugged": Normal player control, balanced terrain, no movement penalties or bonuses

BOSS DIFFICULTY SCALING:
- boss_speed: 1-100 (higher = boss attacks faster, more pressure)
- boss_health: 50-500 (higher = longer fights, more endurance needed)
- boss_damage: 5-50 (higher = more punishing when hit)
- boss_shield: 0-100 (higher = boss takes less damage, longer fights)

TASK: Adjust difficulty to maintain engagement and challenge:
- If player performing excellently (high APM + high dodge rate): Increase challenge with harder terrain and stronger boss
- If player struggling (low APM + low dodge rate): Reduce difficulty with easier terrain and weaker boss
- If player improving: Gradually scale up difficulty
- Consider terrain choice strategically: smooth for speed challenges, sticky for precision challenges, rugged for balanced

CONSTRAINTS:
- terrain: "smooth" | "sticky" | "rugged"
- boss_speed: 1-100 (current: %g)
- boss_health: 50-500 (current: %g)
- boss_damage: 5-50 (current: %g)
- boss_shield: 0-100 (current: %g)

Return ONLY valid JSON in this exact format:
{
  "terrain": "smooth",
  "boss_speed": 45,
  "boss_health": 120,
  "boss_damage": 15,
  "boss_shield": 10
}`,
		m.APM, apmLabel,
		dodgePercent, dodgeLabel,
		m.Round,
		skill,
		terrain.Type, terrain.MovementModifier,
		boss.Speed, boss.Health, boss.Damage, boss.Shield,
		boss.Speed, boss.Health, boss.Damage, boss.Shield,
	)
	return b.String()
}
