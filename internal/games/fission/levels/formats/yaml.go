// Package formats provides pluggable level file format parsers.
package formats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tilefission/internal/games/fission/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Size          YAMLSize          `yaml:"size"`
	Threshold     int               `yaml:"threshold,omitempty"`
	Colors        int               `yaml:"colors,omitempty"`
	SpawnPerTurn  *int              `yaml:"spawn_per_turn,omitempty"`
	SpecialChance *float64          `yaml:"special_chance,omitempty"`
	Abilities     []string          `yaml:"abilities,omitempty"`
	Goal          YAMLGoal          `yaml:"goal"`
	Tiles         []YAMLTile        `yaml:"tiles"`
	Metadata      map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents board dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLGoal is the win condition of a level.
type YAMLGoal struct {
	Type   string `yaml:"type"`
	Target int    `yaml:"target"`
}

// YAMLTile represents a starting tile.
type YAMLTile struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	V       int    `yaml:"v,omitempty"`
	C       string `yaml:"c"`
	Ability string `yaml:"ability,omitempty"`
}

// Tile is a parsed starting tile.
type Tile struct {
	At      core.Coord
	Value   int
	Color   core.Color
	Ability core.Ability
}

// Level represents a parsed level ready for use.
// Zero values of the optional fields mean "use the configured default".
type Level struct {
	ID            string
	Name          string
	Width         int
	Height        int
	Threshold     int
	Colors        int
	SpawnPerTurn  *int
	SpecialChance *float64
	Abilities     []core.Ability
	GoalType      string
	GoalTarget    int
	Tiles         []Tile
	Metadata      map[string]string
}

// Known goal types.
var goalTypes = map[string]bool{
	"reach_value": true,
	"merges":      true,
	"splits":      true,
	"score":       true,
	"none":        true,
}

// ParseYAML parses and validates a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if strings.TrimSpace(yl.ID) == "" {
		return Level{}, errors.New("level id is required")
	}
	if yl.Size.W < 2 || yl.Size.H < 2 {
		return Level{}, fmt.Errorf("level %s: board must be at least 2x2, got %dx%d", yl.ID, yl.Size.W, yl.Size.H)
	}

	goalType := strings.ToLower(strings.TrimSpace(yl.Goal.Type))
	if goalType == "" {
		goalType = "none"
	}
	if !goalTypes[goalType] {
		return Level{}, fmt.Errorf("level %s: unknown goal type %q", yl.ID, yl.Goal.Type)
	}
	if goalType != "none" && yl.Goal.Target <= 0 {
		return Level{}, fmt.Errorf("level %s: goal %s needs a positive target", yl.ID, goalType)
	}

	level := Level{
		ID:            yl.ID,
		Name:          yl.Name,
		Width:         yl.Size.W,
		Height:        yl.Size.H,
		Threshold:     yl.Threshold,
		Colors:        yl.Colors,
		SpawnPerTurn:  yl.SpawnPerTurn,
		SpecialChance: yl.SpecialChance,
		GoalType:      goalType,
		GoalTarget:    yl.Goal.Target,
		Metadata:      yl.Metadata,
	}
	if level.Name == "" {
		level.Name = level.ID
	}

	for _, name := range yl.Abilities {
		a, ok := core.ParseAbility(name)
		if !ok || a == core.AbilityNone {
			return Level{}, fmt.Errorf("level %s: unknown ability %q", yl.ID, name)
		}
		level.Abilities = append(level.Abilities, a)
	}

	seen := make(map[core.Coord]bool, len(yl.Tiles))
	for i, yt := range yl.Tiles {
		at := core.C(yt.X, yt.Y)
		if yt.X < 0 || yt.X >= yl.Size.W || yt.Y < 0 || yt.Y >= yl.Size.H {
			return Level{}, fmt.Errorf("level %s: tile %d at %v is off the board", yl.ID, i, at)
		}
		if seen[at] {
			return Level{}, fmt.Errorf("level %s: two tiles at %v", yl.ID, at)
		}
		seen[at] = true

		color, ok := core.ParseColor(yt.C)
		if !ok {
			return Level{}, fmt.Errorf("level %s: tile %d has unknown colour %q", yl.ID, i, yt.C)
		}
		ability, ok := core.ParseAbility(yt.Ability)
		if !ok {
			return Level{}, fmt.Errorf("level %s: tile %d has unknown ability %q", yl.ID, i, yt.Ability)
		}
		if ability == core.AbilityNone && yt.V <= 0 {
			return Level{}, fmt.Errorf("level %s: tile %d needs a positive value", yl.ID, i)
		}
		level.Tiles = append(level.Tiles, Tile{At: at, Value: yt.V, Color: color, Ability: ability})
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
