package config

import "testing"

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 1000},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		score int
		want  float64
	}{
		{0, 0.2},
		{500, 0.6},
		{1000, 1.0},
		{5000, 1.0},
	}
	for _, tt := range tests {
		if got := d.Level(tt.score, 0); got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("Level(%d) = %v, expected %v", tt.score, got, tt.want)
		}
	}

	d.SetEnabled(false)
	if got := d.Level(1000, 0); got != 0.2 {
		t.Errorf("disabled manager should stay at the initial level, got %v", got)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 100},
	})
	if got := d.Level(0, 50); got != 0.5 {
		t.Errorf("expected 0.5 at half time, got %v", got)
	}
}

func TestDifficultyScaling(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{SpecialChanceDrop: 0.05, SpawnValueBonus: 4, ExtraColors: 2},
	})

	if got := d.SpecialChance(0.08, 0, 0); got != 0.08 {
		t.Errorf("special chance at start = %v", got)
	}
	if got := d.SpecialChance(0.08, 100, 0); got < 0.0299 || got > 0.0301 {
		t.Errorf("special chance at max = %v", got)
	}
	if got := d.SpecialChance(0.02, 100, 0); got != 0 {
		t.Errorf("special chance should not go negative, got %v", got)
	}
	if got := d.SpawnMax(3, 12, 100, 0); got != 7 {
		t.Errorf("spawn max at max difficulty = %d", got)
	}
	if got := d.SpawnMax(10, 12, 100, 0); got != 12 {
		t.Errorf("spawn max should be capped by the threshold, got %d", got)
	}
	if got := d.Colors(3, 5, 50, 0); got != 4 {
		t.Errorf("colours at half difficulty = %d", got)
	}
	if got := d.Colors(4, 5, 100, 0); got != 5 {
		t.Errorf("colours should be capped, got %d", got)
	}
}
