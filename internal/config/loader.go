package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFile = "fission.yaml"

// LoadFission loads the game configuration.
// Search order: customPath -> ~/.fission/configs/fission.yaml -> ./configs/fission.yaml -> embedded default
// Files are overlaid on the defaults, so a partial file only changes what it names.
// A custom path that fails to load or validate is an error; other candidates are skipped.
func LoadFission(customPath string) (FissionConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(ExpandHome(customPath))
		if err != nil {
			return DefaultFissionConfig(), err
		}
		return cfg, nil
	}

	for _, candidate := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if cfg, err := loadFile(candidate); err == nil {
			return cfg, nil
		}
	}

	cfg := DefaultFissionConfig()
	if err := yaml.Unmarshal(defaultFissionYAML, &cfg); err != nil {
		return DefaultFissionConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func loadFile(path string) (FissionConfig, error) {
	cfg := DefaultFissionConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultFissionConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultFissionConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// UserDir returns ~/.fission, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fission")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ApplyFissionPreset modifies the config based on a difficulty preset.
func ApplyFissionPreset(cfg *FissionConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		if cfg.Rules.Colors > 2 {
			cfg.Rules.Colors--
		}
		cfg.Spawn.SpecialChance = clampF(cfg.Spawn.SpecialChance+0.04, 0, 1)
	case DifficultyHard:
		if cfg.Rules.Colors < 5 {
			cfg.Rules.Colors++
		}
		cfg.Spawn.PerTurn++
	}
}
