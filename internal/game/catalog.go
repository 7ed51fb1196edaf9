// Package game holds the adaptive-difficulty core: the configuration
// catalog, player-metrics validation, the session registry, and the
// negotiator that turns model replies into bounded game configurations.
package game

import "math"

// TerrainConfig is one entry of the fixed terrain catalog. The movement
// modifier is always the catalog's value; clients and models cannot supply
// their own.
type TerrainConfig struct {
	Type             string  `json:"type"`
	MovementModifier float64 `json:"movementModifier"`
}

// BossConfig holds the four tunable boss parameters. Every BossConfig in
// circulation satisfies the catalog ranges.
type BossConfig struct {
	Speed  float64 `json:"speed"`
	Health float64 `json:"health"`
	Damage float64 `json:"damage"`
	Shield float64 `json:"shield"`
}

// GameConfig is the full per-session gameplay configuration.
type GameConfig struct {
	Terrain TerrainConfig `json:"terrain"`
	Boss    BossConfig    `json:"boss"`
}

// Terrains is the authoritative terrain catalog.
var Terrains = map[string]TerrainConfig{
	"smooth": {Type: "smooth", MovementModifier: 1.2}, // faster movement, less control
	"sticky": {Type: "sticky", MovementModifier: 0.7}, // slowed, hard to escape attacks
	"rugged": {Type: "rugged", MovementModifier: 1.0}, // balanced
}

// Range is an inclusive numeric bound for one boss parameter.
type Range struct {
	Min float64
	Max float64
}

// BossRanges are the fixed clamp bounds for boss parameters.
var BossRanges = struct {
	Speed  Range
	Health Range
	Damage Range
	Shield Range
}{
	Speed:  Range{Min: 1, Max: 100},
	Health: Range{Min: 50, Max: 500},
	Damage: Range{Min: 5, Max: 50},
	Shield: Range{Min: 0, Max: 100},
}

var defaultBoss = BossConfig{Speed: 30, Health: 100, Damage: 10, Shield: 0}

// DefaultConfig returns the configuration every new session starts with.
func DefaultConfig() GameConfig {
	return GameConfig{Terrain: Terrains["rugged"], Boss: defaultBoss}
}

// BossCandidate is an untrusted boss proposal, typically decoded from a
// model reply. Field names follow the wire keys the model is instructed to
// emit.
type BossCandidate struct {
	Terrain string  `json:"terrain"`
	Speed   float64 `json:"boss_speed"`
	Health  float64 `json:"boss_health"`
	Damage  float64 `json:"boss_damage"`
	Shield  float64 `json:"boss_shield"`
}

// ClampBoss bounds a candidate into a valid BossConfig. A field of exactly 0
// is treated as absent and falls back to the default before clamping. That
// zero-means-absent rule is a documented part of the contract; a legitimate
// zero (e.g. shield) only survives because the default is also zero.
func ClampBoss(c BossCandidate) BossConfig {
	return BossConfig{
		Speed:  clamp(BossRanges.Speed, c.Speed, defaultBoss.Speed),
		Health: clamp(BossRanges.Health, c.Health, defaultBoss.Health),
		Damage: clamp(BossRanges.Damage, c.Damage, defaultBoss.Damage),
		Shield: clamp(BossRanges.Shield, c.Shield, defaultBoss.Shield),
	}
}

func clamp(r Range, v, def float64) float64 {
	if v == 0 {
		v = def
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}
