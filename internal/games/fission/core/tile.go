package core

import (
	"io"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// TileState is the lifecycle state of a tile.
type TileState uint8

const (
	TileIdle TileState = iota
	TileSelected
	TileMoving
	TileMerging
)

// String returns the state name.
func (s TileState) String() string {
	switch s {
	case TileIdle:
		return "idle"
	case TileSelected:
		return "selected"
	case TileMoving:
		return "moving"
	case TileMerging:
		return "merging"
	default:
		return "unknown"
	}
}

// Ability tags a special tile. AbilityNone marks a regular tile.
type Ability uint8

const (
	AbilityNone Ability = iota
	AbilityBlaster
	AbilityDoubler
	AbilityPainter
	AbilityFreeze
)

// String returns the ability name.
func (a Ability) String() string {
	switch a {
	case AbilityNone:
		return "none"
	case AbilityBlaster:
		return "blaster"
	case AbilityDoubler:
		return "doubler"
	case AbilityPainter:
		return "painter"
	case AbilityFreeze:
		return "freeze"
	default:
		return "unknown"
	}
}

// Char returns the glyph drawn for the ability.
func (a Ability) Char() rune {
	switch a {
	case AbilityBlaster:
		return '*'
	case AbilityDoubler:
		return 'x'
	case AbilityPainter:
		return '~'
	case AbilityFreeze:
		return '#'
	default:
		return ' '
	}
}

// ParseAbility converts a name to an Ability.
func ParseAbility(s string) (Ability, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AbilityNone, true
	case "blaster":
		return AbilityBlaster, true
	case "doubler":
		return AbilityDoubler, true
	case "painter":
		return AbilityPainter, true
	case "freeze":
		return AbilityFreeze, true
	default:
		return AbilityNone, false
	}
}

// Tile is a value-bearing unit owned by at most one board cell.
// Its position is never stored on the tile; the board maps cells to tiles.
type Tile struct {
	ID           uuid.UUID
	Value        int
	Color        Color
	State        TileState
	Ability      Ability
	TimesDoubled int

	armedSeq  uint64 // 0 when not pending activation
	placed    bool
	destroyed bool
}

// NewTile creates a regular tile.
func NewTile(id uuid.UUID, value int, color Color) *Tile {
	return &Tile{ID: id, Value: value, Color: color}
}

// NewSpecial creates a special tile. Special tiles carry no value.
func NewSpecial(id uuid.UUID, ability Ability, color Color) *Tile {
	return &Tile{ID: id, Color: color, Ability: ability}
}

// IsSpecial reports whether the tile has an ability.
func (t *Tile) IsSpecial() bool {
	return t.Ability != AbilityNone
}

// Armed reports whether a special tile is waiting to activate.
func (t *Tile) Armed() bool {
	return t.armedSeq != 0
}

// Destroyed reports whether the tile was removed from play.
func (t *Tile) Destroyed() bool {
	return t.destroyed
}

// CanMergeWith reports whether t may merge into other.
// Only regular tiles of exactly the same color merge.
func (t *Tile) CanMergeWith(other *Tile) bool {
	if t == nil || other == nil || t == other {
		return false
	}
	if t.IsSpecial() || other.IsSpecial() {
		return false
	}
	return t.Color == other.Color
}

// IDSource hands out tile identities.
// A source built from a seed yields the same sequence on every run.
type IDSource struct {
	r io.Reader
}

// NewIDSource creates a deterministic identity source.
func NewIDSource(seed int64) *IDSource {
	return &IDSource{r: rand.New(rand.NewSource(seed))}
}

// Next returns the next identity.
func (s *IDSource) Next() uuid.UUID {
	if s == nil || s.r == nil {
		return uuid.New()
	}
	id, err := uuid.NewRandomFromReader(s.r)
	if err != nil {
		return uuid.New()
	}
	return id
}
