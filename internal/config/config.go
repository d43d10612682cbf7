// Package config provides YAML-based game configuration loading and
// difficulty management for Fission.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// FissionConfig contains all configuration for the game.
type FissionConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Rules      RulesConfig      `yaml:"rules"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Timing     TimingConfig     `yaml:"timing"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Levels     LevelsConfig     `yaml:"levels"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BoardConfig defines the endless-mode board.
type BoardConfig struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	InitialTiles int `yaml:"initial_tiles"`
}

// RulesConfig defines merge and split rules.
type RulesConfig struct {
	SplitThreshold int `yaml:"split_threshold"`
	Colors         int `yaml:"colors"`
}

// SpawnConfig defines what appears after each turn.
type SpawnConfig struct {
	PerTurn       int      `yaml:"per_turn"`
	MinValue      int      `yaml:"min_value"`
	MaxValue      int      `yaml:"max_value"`
	SpecialChance float64  `yaml:"special_chance"`
	Abilities     []string `yaml:"abilities"`
}

// ScoringConfig defines point awards.
type ScoringConfig struct {
	MergeMultiplier int `yaml:"merge_multiplier"`
	SplitPoints     int `yaml:"split_points"`
	PaintPoints     int `yaml:"paint_points"`
	SpecialBonus    int `yaml:"special_bonus"`
}

// TimingConfig defines effect durations and the phase join bound, all in ticks.
type TimingConfig struct {
	JoinTimeoutTicks int `yaml:"join_timeout_ticks"`
	SelectTicks      int `yaml:"select_ticks"`
	RejectTicks      int `yaml:"reject_ticks"`
	MoveTicks        int `yaml:"move_ticks"`
	MergeTicks       int `yaml:"merge_ticks"`
	SplitTicks       int `yaml:"split_ticks"`
	SpecialTicks     int `yaml:"special_ticks"`
	SpawnTicks       int `yaml:"spawn_ticks"`
	LevelClearTicks  int `yaml:"level_clear_ticks"`
}

// LevelsConfig points at user level files.
type LevelsConfig struct {
	Dir string `yaml:"dir"` // extra level directory, "~" is expanded
}

// LoggingConfig defines the game log.
type LoggingConfig struct {
	Level     string `yaml:"level"`  // debug, info, warn, error
	Format    string `yaml:"format"` // text, json, logfmt
	File      string `yaml:"file"`   // path, "-" for stderr, empty to discard
	Prefix    string `yaml:"prefix"`
	Timestamp bool   `yaml:"timestamp"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpecialChanceDrop float64 `yaml:"special_chance_drop"` // special chance removed at max difficulty
	SpawnValueBonus   int     `yaml:"spawn_value_bonus"`   // added to the spawn ceiling at max difficulty
	ExtraColors       int     `yaml:"extra_colors"`        // colours added at max difficulty
}

// Validate reports every nonsensical setting.
func (c FissionConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}

	if c.Board.Width < 2 || c.Board.Height < 2 {
		add("board must be at least 2x2, got %dx%d", c.Board.Width, c.Board.Height)
	}
	if c.Board.InitialTiles < 0 || c.Board.InitialTiles > c.Board.Width*c.Board.Height {
		add("initial_tiles %d does not fit the board", c.Board.InitialTiles)
	}
	if c.Rules.SplitThreshold < 2 {
		add("split_threshold must be at least 2, got %d", c.Rules.SplitThreshold)
	}
	if c.Rules.Colors < 1 || c.Rules.Colors > 5 {
		add("colors must be between 1 and 5, got %d", c.Rules.Colors)
	}
	if c.Spawn.PerTurn < 0 {
		add("spawn per_turn cannot be negative")
	}
	if c.Spawn.MinValue < 1 || c.Spawn.MaxValue < c.Spawn.MinValue {
		add("spawn values must satisfy 1 <= min_value <= max_value, got %d..%d", c.Spawn.MinValue, c.Spawn.MaxValue)
	}
	if c.Spawn.MaxValue > c.Rules.SplitThreshold {
		add("spawn max_value %d exceeds split_threshold %d", c.Spawn.MaxValue, c.Rules.SplitThreshold)
	}
	if c.Spawn.SpecialChance < 0 || c.Spawn.SpecialChance > 1 {
		add("special_chance must be within [0, 1], got %v", c.Spawn.SpecialChance)
	}
	for _, a := range c.Spawn.Abilities {
		switch strings.ToLower(a) {
		case "blaster", "doubler", "painter", "freeze":
		default:
			add("unknown ability %q", a)
		}
	}
	if c.Timing.JoinTimeoutTicks < 1 {
		add("join_timeout_ticks must be positive")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json", "logfmt":
	default:
		add("unknown log format %q", c.Logging.Format)
	}
	switch c.Difficulty.Progression.Type {
	case "", "score", "time", "none":
	default:
		add("unknown progression type %q", c.Difficulty.Progression.Type)
	}
	return errors.Join(errs...)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset converts a flag value to a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}
