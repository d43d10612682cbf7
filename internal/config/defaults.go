package config

import (
	_ "embed"
)

//go:embed defaults/fission.yaml
var defaultFissionYAML []byte

// DefaultFissionConfig returns the default configuration.
func DefaultFissionConfig() FissionConfig {
	return FissionConfig{
		Board: BoardConfig{
			Width:        6,
			Height:       6,
			InitialTiles: 6,
		},
		Rules: RulesConfig{
			SplitThreshold: 12,
			Colors:         3,
		},
		Spawn: SpawnConfig{
			PerTurn:       1,
			MinValue:      1,
			MaxValue:      3,
			SpecialChance: 0.08,
			Abilities:     []string{"blaster", "doubler", "painter", "freeze"},
		},
		Scoring: ScoringConfig{
			MergeMultiplier: 1,
			SplitPoints:     10,
			PaintPoints:     2,
			SpecialBonus:    25,
		},
		Timing: TimingConfig{
			JoinTimeoutTicks: 120,
			SelectTicks:      4,
			RejectTicks:      6,
			MoveTicks:        4,
			MergeTicks:       6,
			SplitTicks:       8,
			SpecialTicks:     10,
			SpawnTicks:       4,
			LevelClearTicks:  90,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 2000,
			},
			Scaling: ScalingConfig{
				SpecialChanceDrop: 0.04,
				SpawnValueBonus:   2,
				ExtraColors:       1,
			},
		},
		Levels: LevelsConfig{
			Dir: "~/.fission/levels",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			File:      "~/.fission/fission.log",
			Prefix:    "fission",
			Timestamp: true,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFissionYAML
}
