package config

import "math"

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// SpecialChance returns the special-tile spawn probability for the current level.
// Specials become rarer as difficulty rises.
func (d *DifficultyManager) SpecialChance(base float64, score int, ticks int) float64 {
	level := d.Level(score, ticks)
	return clampF(base-level*d.cfg.Scaling.SpecialChanceDrop, 0.0, 1.0)
}

// SpawnMax returns the spawn value ceiling, never above threshold.
func (d *DifficultyManager) SpawnMax(base, threshold int, score int, ticks int) int {
	level := d.Level(score, ticks)
	result := base + int(math.Round(level*float64(d.cfg.Scaling.SpawnValueBonus)))
	if result > threshold {
		result = threshold
	}
	if result < 1 {
		result = 1
	}
	return result
}

// Colors returns the colour count for the current level, capped at limit.
func (d *DifficultyManager) Colors(base, limit int, score int, ticks int) int {
	level := d.Level(score, ticks)
	result := base + int(math.Floor(level*float64(d.cfg.Scaling.ExtraColors)))
	if result > limit {
		result = limit
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
