package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultFissionConfig()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultFissionConfig()) {
		t.Errorf("embedded defaults drifted from DefaultFissionConfig:\n%+v\n%+v", cfg, DefaultFissionConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFissionCustomPathOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("board:\n  width: 8\nspawn:\n  abilities: [freeze]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFission(path)
	if err != nil {
		t.Fatalf("LoadFission: %v", err)
	}
	if cfg.Board.Width != 8 {
		t.Errorf("expected width 8, got %d", cfg.Board.Width)
	}
	if cfg.Board.Height != DefaultFissionConfig().Board.Height {
		t.Errorf("unset fields should keep defaults, height=%d", cfg.Board.Height)
	}
	if !reflect.DeepEqual(cfg.Spawn.Abilities, []string{"freeze"}) {
		t.Errorf("abilities should be replaced, got %v", cfg.Spawn.Abilities)
	}
}

func TestLoadFissionCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("rules:\n  split_threshold: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("board: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(dir, "missing.yaml"), "failed to read"},
		{broken, "failed to parse"},
		{invalid, "split_threshold"},
	}
	for _, tt := range tests {
		_, err := LoadFission(tt.path)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("LoadFission(%s): expected error containing %q, got %v", tt.path, tt.want, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FissionConfig)
		want   string
	}{
		{"tiny board", func(c *FissionConfig) { c.Board.Width = 1 }, "at least 2x2"},
		{"too many initial tiles", func(c *FissionConfig) { c.Board.InitialTiles = 99 }, "initial_tiles"},
		{"threshold", func(c *FissionConfig) { c.Rules.SplitThreshold = 1 }, "split_threshold"},
		{"colours", func(c *FissionConfig) { c.Rules.Colors = 9 }, "colors"},
		{"spawn range", func(c *FissionConfig) { c.Spawn.MinValue = 4; c.Spawn.MaxValue = 2 }, "min_value"},
		{"spawn over threshold", func(c *FissionConfig) { c.Spawn.MaxValue = 20 }, "exceeds split_threshold"},
		{"chance", func(c *FissionConfig) { c.Spawn.SpecialChance = 2 }, "special_chance"},
		{"ability", func(c *FissionConfig) { c.Spawn.Abilities = []string{"laser"} }, "unknown ability"},
		{"timeout", func(c *FissionConfig) { c.Timing.JoinTimeoutTicks = 0 }, "join_timeout_ticks"},
		{"log format", func(c *FissionConfig) { c.Logging.Format = "xml" }, "log format"},
		{"progression", func(c *FissionConfig) { c.Difficulty.Progression.Type = "moves" }, "progression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFissionConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyFissionPreset(t *testing.T) {
	base := DefaultFissionConfig()

	easy := DefaultFissionConfig()
	ApplyFissionPreset(&easy, DifficultyEasy)
	if easy.Rules.Colors != base.Rules.Colors-1 || easy.Spawn.SpecialChance <= base.Spawn.SpecialChance {
		t.Errorf("easy preset not applied: %+v", easy.Rules)
	}

	hard := DefaultFissionConfig()
	ApplyFissionPreset(&hard, DifficultyHard)
	if hard.Rules.Colors != base.Rules.Colors+1 || hard.Spawn.PerTurn != base.Spawn.PerTurn+1 {
		t.Errorf("hard preset not applied: %+v %+v", hard.Rules, hard.Spawn)
	}
	if hard.Difficulty.InitialLevel != 0.7 {
		t.Errorf("expected initial level 0.7, got %v", hard.Difficulty.InitialLevel)
	}

	fixed := DefaultFissionConfig()
	ApplyFissionPreset(&fixed, DifficultyFixed)
	if fixed.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}

func TestParsePreset(t *testing.T) {
	for _, s := range []string{"easy", "NORMAL", " hard ", "fixed", ""} {
		if _, err := ParsePreset(s); err != nil {
			t.Errorf("ParsePreset(%q): %v", s, err)
		}
	}
	if _, err := ParsePreset("brutal"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
}
