package game

import "testing"

func inRange(r Range, v float64) bool {
	return v >= r.Min && v <= r.Max
}

func TestClampBossAlwaysInRange(t *testing.T) {
	cases := []struct {
		name string
		in   BossCandidate
	}{
		{"empty", BossCandidate{}},
		{"negative", BossCandidate{Speed: -50, Health: -1, Damage: -0.5, Shield: -100}},
		{"huge", BossCandidate{Speed: 1e9, Health: 99999, Damage: 500, Shield: 1000}},
		{"below mins", BossCandidate{Speed: 0.5, Health: 10, Damage: 1, Shield: 0}},
		{"fractional", BossCandidate{Speed: 37.5, Health: 123.4, Damage: 7.77, Shield: 0.1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampBoss(tc.in)
			if !inRange(BossRanges.Speed, got.Speed) {
				t.Errorf("speed %v out of range", got.Speed)
			}
			if !inRange(BossRanges.Health, got.Health) {
				t.Errorf("health %v out of range", got.Health)
			}
			if !inRange(BossRanges.Damage, got.Damage) {
				t.Errorf("damage %v out of range", got.Damage)
			}
			if !inRange(BossRanges.Shield, got.Shield) {
				t.Errorf("shield %v out of range", got.Shield)
			}
		})
	}
}

func TestClampBossZeroFallsBackToDefault(t *testing.T) {
	got := ClampBoss(BossCandidate{Speed: 0, Health: 0, Damage: 0, Shield: 0})

	if got != defaultBoss {
		t.Errorf("all-zero candidate = %+v, want defaults %+v", got, defaultBoss)
	}
}

func TestClampBossIdempotent(t *testing.T) {
	first := ClampBoss(BossCandidate{Speed: 200, Health: 40, Damage: 15, Shield: 10})

	again := ClampBoss(BossCandidate{
		Speed:  first.Speed,
		Health: first.Health,
		Damage: first.Damage,
		Shield: first.Shield,
	})

	if again != first {
		t.Errorf("re-clamp changed config: %+v -> %+v", first, again)
	}
}

func TestClampBossBoundsExactly(t *testing.T) {
	got := ClampBoss(BossCandidate{Speed: 200, Health: 40, Damage: 15, Shield: 10})

	want := BossConfig{Speed: 100, Health: 50, Damage: 15, Shield: 10}
	if got != want {
		t.Errorf("clamp = %+v, want %+v", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Terrain.Type != "rugged" {
		t.Errorf("default terrain = %q, want rugged", cfg.Terrain.Type)
	}
	catalog, ok := Terrains[cfg.Terrain.Type]
	if !ok || cfg.Terrain != catalog {
		t.Errorf("default terrain %+v does not match catalog entry %+v", cfg.Terrain, catalog)
	}
	if cfg.Boss != (BossConfig{Speed: 30, Health: 100, Damage: 10, Shield: 0}) {
		t.Errorf("unexpected default boss: %+v", cfg.Boss)
	}
}

func TestTerrainCatalogEntries(t *testing.T) {
	want := map[string]float64{"smooth": 1.2, "sticky": 0.7, "rugged": 1.0}

	if len(Terrains) != len(want) {
		t.Fatalf("catalog has %d entries, want %d", len(Terrains), len(want))
	}
	for tag, modifier := range want {
		entry, ok := Terrains[tag]
		if !ok {
			t.Errorf("missing terrain %q", tag)
			continue
		}
		if entry.Type != tag || entry.MovementModifier != modifier {
			t.Errorf("terrain %q = %+v, want modifier %v", tag, entry, modifier)
		}
	}
}
