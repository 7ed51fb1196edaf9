package server

import (
	"context"
	"fmt"
	"testing"

	"github.com/arenaforge/bossrush/internal/database"
)

func newTestHistory(t *testing.T) *SQLiteHistory {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h, err := NewSQLiteHistory(ctx, db)
	if err != nil {
		t.Fatalf("init history: %v", err)
	}
	return h
}

func TestHistoryRecordAndRecent(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		adj := Adjustment{
			Round:            i,
			PlayerType:       "intermediate",
			PerformanceScore: 50 + i,
			LLMUsed:          i%2 == 0,
			Terrain:          "rugged",
			BossSpeed:        float64(30 + i),
			BossHealth:       100,
			BossDamage:       10,
			BossShield:       0,
		}
		if err := h.Record(ctx, "s1", adj); err != nil {
			t.Fatalf("record round %d: %v", i, err)
		}
	}
	if err := h.Record(ctx, "s2", Adjustment{Round: 1, PlayerType: "beginner", Terrain: "smooth"}); err != nil {
		t.Fatalf("record other session: %v", err)
	}

	got, err := h.RecentBySession(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d adjustments, want 3", len(got))
	}
	// Newest first.
	for i, want := range []int{3, 2, 1} {
		if got[i].Round != want {
			t.Errorf("entry %d round = %d, want %d", i, got[i].Round, want)
		}
	}
	if got[0].BossSpeed != 33 || got[0].PerformanceScore != 53 {
		t.Errorf("unexpected newest entry: %+v", got[0])
	}
	if got[0].CreatedAt == "" {
		t.Error("createdAt not populated")
	}
}

func TestHistoryRecentLimit(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		err := h.Record(ctx, "s1", Adjustment{Round: i, PlayerType: "expert", Terrain: "rugged"})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := h.RecentBySession(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("got %d adjustments, want 10", len(got))
	}
	if got[0].Round != 15 {
		t.Errorf("newest round = %d, want 15", got[0].Round)
	}
}

func TestHistoryUnknownSessionIsEmpty(t *testing.T) {
	h := newTestHistory(t)

	got, err := h.RecentBySession(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d adjustments for unknown session", len(got))
	}
}

func TestHistoryErrorDetailRoundTrip(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	detail := fmt.Sprintf("model reply had no JSON object (round %d)", 4)
	err := h.Record(ctx, "s1", Adjustment{Round: 4, PlayerType: "intermediate", Terrain: "rugged", ErrorDetail: detail})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := h.RecentBySession(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].ErrorDetail != detail {
		t.Errorf("error detail not preserved: %+v", got)
	}
}
