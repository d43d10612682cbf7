// Package levels provides level loading for Fission.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/tilefission/internal/games/fission/core"
	"github.com/vovakirdan/tilefission/internal/games/fission/levels/formats"
)

//go:embed data/*.yaml
var builtin embed.FS

// Level represents a complete level definition.
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
	Goal          Goal
	Tiles         []formats.Tile
	Metadata      map[string]string
	FilePath      string
}

// NewBoard builds the starting board of the level.
func (l *Level) NewBoard(ids *core.IDSource) (*core.Board, error) {
	b := core.NewBoard(l.Width, l.Height)
	for _, t := range l.Tiles {
		var tile *core.Tile
		if t.Ability != core.AbilityNone {
			tile = core.NewSpecial(ids.Next(), t.Ability, t.Color)
		} else {
			tile = core.NewTile(ids.Next(), t.Value, t.Color)
		}
		if err := b.Place(t.At, tile); err != nil {
			return nil, fmt.Errorf("level %s: %w", l.ID, err)
		}
	}
	return b, nil
}

// Rules applies the level's overrides to base.
func (l *Level) Rules(base core.Rules) core.Rules {
	r := base
	if l.Threshold > 0 {
		r.SplitThreshold = l.Threshold
	}
	if l.Colors > 0 {
		r.Colors = l.Colors
	}
	if l.SpawnPerTurn != nil {
		r.SpawnPerTurn = *l.SpawnPerTurn
	}
	if l.SpecialChance != nil {
		r.SpecialChance = *l.SpecialChance
	}
	if len(l.Abilities) > 0 {
		r.Abilities = append([]core.Ability(nil), l.Abilities...)
	}
	return r
}

// Loader reads level files from a file system.
type Loader struct {
	fsys fs.FS
	name string

	// Skipped holds the files that failed to parse during the last LoadAll.
	Skipped []error
}

// NewLoader creates a loader over fsys.
func NewLoader(fsys fs.FS, name string) *Loader {
	return &Loader{fsys: fsys, name: name}
}

// NewDirLoader creates a loader for a directory on disk.
func NewDirLoader(root string) *Loader {
	return NewLoader(os.DirFS(root), root)
}

// Builtin returns a loader for the levels shipped with the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return NewLoader(sub, "builtin")
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	l.Skipped = nil

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			l.Skipped = append(l.Skipped, err)
			return nil
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", l.name, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading %s: %w", p, err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return Level{}, fmt.Errorf("parsing %s: %w", p, err)
	}

	return Level{
		ID:            parsed.ID,
		Name:          parsed.Name,
		Width:         parsed.Width,
		Height:        parsed.Height,
		Threshold:     parsed.Threshold,
		Colors:        parsed.Colors,
		SpawnPerTurn:  parsed.SpawnPerTurn,
		SpecialChance: parsed.SpecialChance,
		Abilities:     parsed.Abilities,
		Goal:          Goal{Type: GoalType(parsed.GoalType), Target: parsed.GoalTarget},
		Tiles:         parsed.Tiles,
		Metadata:      parsed.Metadata,
		FilePath:      p,
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// Load returns the builtin levels, replaced or extended by the levels in dir when
// dir is not empty. A level in dir wins over a builtin level with the same ID.
func Load(dir string) ([]Level, error) {
	levels, err := Builtin().LoadAll()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return levels, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return levels, nil
	}

	extra, err := NewDirLoader(dir).LoadAll()
	if err != nil {
		return levels, err
	}
	byID := make(map[string]int, len(levels))
	for i, lvl := range levels {
		byID[lvl.ID] = i
	}
	for _, lvl := range extra {
		if i, ok := byID[lvl.ID]; ok {
			levels[i] = lvl
			continue
		}
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// IndexOf returns the position of the level with the given ID, or -1.
func IndexOf(levels []Level, id string) int {
	for i, lvl := range levels {
		if lvl.ID == id {
			return i
		}
	}
	return -1
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
