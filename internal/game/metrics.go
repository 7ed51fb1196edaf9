package game

import (
	"encoding/json"
	"math"
	"strings"
)

// PlayerMetrics is the canonical per-round performance record. Optional
// fields are present only when the client supplied a valid value.
type PlayerMetrics struct {
	APM        int     `json:"apm"`
	DodgeRatio float64 `json:"dodgeRatio"`
	Round      int     `json:"round"`

	DistanceTraveled *int     `json:"distanceTraveled,omitempty"`
	ReactionTime     *float64 `json:"reactionTime,omitempty"`
	DamageDealt      *int     `json:"damageDealt,omitempty"`
	TimeSurvived     *float64 `json:"timeSurvived,omitempty"`
}

// ValidationError lists every violated constraint in a metrics submission.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid metrics: " + strings.Join(e.Problems, ", ")
}

// ValidateMetrics normalizes an arbitrarily-shaped submission into canonical
// PlayerMetrics. All required-field checks run before failing so the error
// reports every problem at once. Invalid optional fields are dropped, not
// reported.
func ValidateMetrics(raw map[string]any) (PlayerMetrics, error) {
	var problems []string

	apm, ok := number(raw["apm"])
	if !ok || apm < 0 {
		problems = append(problems, "apm must be a non-negative number")
	}
	dodge, ok := number(raw["dodgeRatio"])
	if !ok || dodge < 0 || dodge > 1 {
		problems = append(problems, "dodgeRatio must be a number between 0 and 1")
	}
	round, ok := number(raw["round"])
	if !ok || round < 1 {
		problems = append(problems, "round must be a number of at least 1")
	}

	if len(problems) > 0 {
		return PlayerMetrics{}, &ValidationError{Problems: problems}
	}

	m := PlayerMetrics{
		APM:        int(math.Round(apm)),
		DodgeRatio: roundTo(dodge, 3),
		Round:      int(math.Round(round)),
	}

	if v, ok := number(raw["distanceTraveled"]); ok && v >= 0 {
		d := int(math.Round(v))
		m.DistanceTraveled = &d
	}
	if v, ok := number(raw["reactionTime"]); ok && v >= 0 {
		rt := roundTo(v, 3)
		m.ReactionTime = &rt
	}
	if v, ok := number(raw["damageDealt"]); ok && v >= 0 {
		d := int(math.Round(v))
		m.DamageDealt = &d
	}
	if v, ok := number(raw["timeSurvived"]); ok && v >= 0 {
		ts := roundTo(v, 2)
		m.TimeSurvived = &ts
	}

	return m, nil
}

// Analysis is a derived read of a metrics record, used for prompt phrasing
// and the negotiation history; it never feeds game logic directly.
type Analysis struct {
	PerformanceScore int    `json:"performanceScore"`
	Suggestion       string `json:"suggestedDifficulty"`
	PlayerType       string `json:"playerType"`
}

// Analyze scores a metrics record 0-100 (APM weighted 0.4, dodge 0.5, a
// small round-survival bonus 0.1) and classifies the player.
func Analyze(m PlayerMetrics) Analysis {
	score := performanceScore(m)

	suggestion := "maintain"
	if score > 75 {
		suggestion = "increase"
	} else if score < 40 {
		suggestion = "decrease"
	}

	return Analysis{
		PerformanceScore: score,
		Suggestion:       suggestion,
		PlayerType:       classifyPlayer(m),
	}
}

func performanceScore(m PlayerMetrics) int {
	normalizedAPM := math.Min(float64(m.APM)/150, 1)
	roundBonus := math.Min(float64(m.Round)/20, 0.2)
	score := (normalizedAPM*0.4 + m.DodgeRatio*0.5 + roundBonus*0.1) * 100
	return int(math.Round(score))
}

func classifyPlayer(m PlayerMetrics) string {
	switch {
	case m.APM > 120 && m.DodgeRatio > 0.8:
		return "expert_aggressive"
	case m.APM < 60 && m.DodgeRatio > 0.8:
		return "expert_defensive"
	case m.APM > 120 && m.DodgeRatio < 0.5:
		return "aggressive_risky"
	case m.APM < 60 && m.DodgeRatio < 0.5:
		return "beginner"
	default:
		return "intermediate"
	}
}

// number extracts a float from a decoded JSON value. Anything that is not a
// JSON number fails, matching the strict type checks on the original wire
// contract.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	}
	return 0, false
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
