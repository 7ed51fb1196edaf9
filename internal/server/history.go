package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arenaforge/bossrush/internal/game"
)

var ErrNotFound = errors.New("not found")

// Adjustment is one recorded negotiation outcome. The log is auxiliary
// observability data; session state itself stays in memory.
type Adjustment struct {
	Round            int     `json:"round"`
	PlayerType       string  `json:"playerType"`
	PerformanceScore int     `json:"performanceScore"`
	LLMUsed          bool    `json:"llm_used"`
	ErrorDetail      string  `json:"error,omitempty"`
	Terrain          string  `json:"terrain"`
	BossSpeed        float64 `json:"bossSpeed"`
	BossHealth       float64 `json:"bossHealth"`
	BossDamage       float64 `json:"bossDamage"`
	BossShield       float64 `json:"bossShield"`
	CreatedAt        string  `json:"createdAt"`
}

type HistoryStore interface {
	Record(ctx context.Context, sessionID string, adj Adjustment) error
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]Adjustment, error)
}

// SQLiteHistory persists negotiation outcomes. Writes are best-effort from
// the update handler; a failed insert is logged, never surfaced to players.
type SQLiteHistory struct {
	db *sql.DB
}

func NewSQLiteHistory(ctx context.Context, db *sql.DB) (*SQLiteHistory, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS negotiations (
			id          TEXT PRIMARY KEY,
			session_id  TEXT NOT NULL,
			round       INTEGER NOT NULL,
			player_type TEXT NOT NULL,
			score       INTEGER NOT NULL,
			llm_used    INTEGER NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			terrain     TEXT NOT NULL,
			boss_speed  REAL NOT NULL,
			boss_health REAL NOT NULL,
			boss_damage REAL NOT NULL,
			boss_shield REAL NOT NULL,
			created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`)
	if err != nil {
		return nil, fmt.Errorf("creating negotiations table: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS negotiations_session
		ON negotiations (session_id, created_at)`)
	if err != nil {
		return nil, fmt.Errorf("creating negotiations index: %w", err)
	}
	return &SQLiteHistory{db: db}, nil
}

func (h *SQLiteHistory) Record(ctx context.Context, sessionID string, adj Adjustment) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO negotiations
			(id, session_id, round, player_type, score, llm_used, error,
			 terrain, boss_speed, boss_health, boss_damage, boss_shield)
		VALUES (lower(hex(randomblob(16))), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, adj.Round, adj.PlayerType, adj.PerformanceScore,
		adj.LLMUsed, adj.ErrorDetail,
		adj.Terrain, adj.BossSpeed, adj.BossHealth, adj.BossDamage, adj.BossShield,
	)
	if err != nil {
		return fmt.Errorf("recording negotiation: %w", err)
	}
	return nil
}

func (h *SQLiteHistory) RecentBySession(ctx context.Context, sessionID string, limit int) ([]Adjustment, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT round, player_type, score, llm_used, error,
		       terrain, boss_speed, boss_health, boss_damage, boss_shield, created_at
		FROM negotiations
		WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying negotiations: %w", err)
	}
	defer rows.Close()

	var out []Adjustment
	for rows.Next() {
		var a Adjustment
		if err := rows.Scan(&a.Round, &a.PlayerType, &a.PerformanceScore,
			&a.LLMUsed, &a.ErrorDetail,
			&a.Terrain, &a.BossSpeed, &a.BossHealth, &a.BossDamage, &a.BossShield,
			&a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning negotiation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// adjustmentFrom flattens a negotiation outcome for storage.
func adjustmentFrom(m game.PlayerMetrics, analysis game.Analysis, out game.Outcome) Adjustment {
	return Adjustment{
		Round:            m.Round,
		PlayerType:       analysis.PlayerType,
		PerformanceScore: analysis.PerformanceScore,
		LLMUsed:          out.UsedModel,
		ErrorDetail:      out.ErrorDetail,
		Terrain:          out.Config.Terrain.Type,
		BossSpeed:        out.Config.Boss.Speed,
		BossHealth:       out.Config.Boss.Health,
		BossDamage:       out.Config.Boss.Damage,
		BossShield:       out.Config.Boss.Shield,
	}
}
