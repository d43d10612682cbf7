package formats

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

func TestParseYAML(t *testing.T) {
	data := []byte(`
id: "07"
name: Sample
size: {w: 4, h: 3}
threshold: 9
spawn_per_turn: 0
abilities: [blaster, freeze]
goal: {type: reach_value, target: 9}
tiles:
  - {x: 0, y: 0, v: 3, c: red}
  - {x: 3, y: 2, c: p, ability: painter}
`)
	lvl, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if lvl.Width != 4 || lvl.Height != 3 || lvl.Threshold != 9 {
		t.Errorf("unexpected dimensions %+v", lvl)
	}
	if lvl.SpawnPerTurn == nil || *lvl.SpawnPerTurn != 0 {
		t.Error("explicit zero spawn_per_turn should be kept")
	}
	if lvl.SpecialChance != nil {
		t.Error("unset special_chance should stay nil")
	}
	if len(lvl.Abilities) != 2 || lvl.Abilities[1] != core.AbilityFreeze {
		t.Errorf("unexpected abilities %v", lvl.Abilities)
	}
	if len(lvl.Tiles) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(lvl.Tiles))
	}
	painter := lvl.Tiles[1]
	if painter.At != core.C(3, 2) || painter.Color != core.ColorPurple || painter.Ability != core.AbilityPainter {
		t.Errorf("unexpected painter tile %+v", painter)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing id", "size: {w: 3, h: 3}", "id is required"},
		{"too small", "id: x\nsize: {w: 1, h: 3}", "at least 2x2"},
		{"unknown goal", "id: x\nsize: {w: 3, h: 3}\ngoal: {type: win, target: 1}", "unknown goal"},
		{"goal without target", "id: x\nsize: {w: 3, h: 3}\ngoal: {type: merges}", "positive target"},
		{"off board", "id: x\nsize: {w: 3, h: 3}\ntiles: [{x: 3, y: 0, v: 1, c: red}]", "off the board"},
		{"duplicate", "id: x\nsize: {w: 3, h: 3}\ntiles: [{x: 0, y: 0, v: 1, c: red}, {x: 0, y: 0, v: 2, c: red}]", "two tiles"},
		{"bad colour", "id: x\nsize: {w: 3, h: 3}\ntiles: [{x: 0, y: 0, v: 1, c: orange}]", "unknown colour"},
		{"bad ability", "id: x\nsize: {w: 3, h: 3}\ntiles: [{x: 0, y: 0, c: red, ability: laser}]", "unknown ability"},
		{"zero value", "id: x\nsize: {w: 3, h: 3}\ntiles: [{x: 0, y: 0, c: red}]", "positive value"},
		{"bad yaml", "id: [", "yaml unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
