package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/games/fission"
	"github.com/vovakirdan/tilefission/internal/games/fission/levels"
	"github.com/vovakirdan/tilefission/internal/storage"
)

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}

func TestMenuHidesEndlessModes(t *testing.T) {
	m := NewMenuModel(nil, testRuntime())

	for _, item := range m.items {
		if strings.HasSuffix(item.GameID, "_endless") {
			t.Errorf("menu lists %q", item.GameID)
		}
	}
	if len(m.items) == 0 || m.items[0].GameID != fission.IDCampaign {
		t.Fatalf("items = %+v", m.items)
	}
	if m.items[0].Controls == "" || !strings.Contains(m.View(), m.items[0].Controls) {
		t.Errorf("controls not shown for %q", m.items[0].GameID)
	}

	next, _ := m.Update(enterKey)
	m = next.(MenuModel)
	if m.Selected() == nil || m.Selected().GameID != fission.IDCampaign {
		t.Errorf("Selected() = %+v", m.Selected())
	}
}

func TestMenuScoreboardKey(t *testing.T) {
	m := NewMenuModel(nil, testRuntime())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}
}

func builtinLevels(t *testing.T) []levels.Level {
	t.Helper()
	lvls, err := levels.Load("")
	if err != nil {
		t.Fatalf("levels.Load() error = %v", err)
	}
	if len(lvls) < 2 {
		t.Fatalf("got %d builtin levels", len(lvls))
	}
	return lvls
}

func TestFissionModeSelectEndless(t *testing.T) {
	m := NewFissionModeModel(80, 24, builtinLevels(t), nil)

	for _, msg := range []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}, enterKey} {
		next, _ := m.Update(msg)
		m = next.(FissionModeModel)
	}

	sel := m.Selected()
	if sel == nil || sel.Mode != FissionModeEndless {
		t.Fatalf("Selected() = %+v", sel)
	}
	if sel.GameID() != fission.IDEndless {
		t.Errorf("GameID() = %q", sel.GameID())
	}
}

func TestFissionLevelPickerStartsAtFirstUncleared(t *testing.T) {
	lvls := builtinLevels(t)
	cleared := map[string]storage.LevelRecord{
		lvls[0].ID: {LevelID: lvls[0].ID, BestScore: 50, BestMoves: 3, Clears: 1},
	}
	m := NewFissionModeModel(100, 30, lvls, cleared)

	down := tea.KeyMsg{Type: tea.KeyDown}
	for _, msg := range []tea.Msg{down, down, enterKey} {
		next, _ := m.Update(msg)
		m = next.(FissionModeModel)
	}
	if !m.inLevelSelect {
		t.Fatal("third entry should open the level picker")
	}
	if view := m.View(); !strings.Contains(view, "✓") || !strings.Contains(view, lvls[1].Name) {
		t.Errorf("level picker view missing marks:\n%s", view)
	}

	next, _ := m.Update(enterKey)
	m = next.(FissionModeModel)
	sel := m.Selected()
	if sel == nil || sel.LevelID != lvls[1].ID || sel.GameID() != fission.IDCampaign {
		t.Errorf("Selected() = %+v", sel)
	}
}

func TestFissionModeBack(t *testing.T) {
	m := NewFissionModeModel(80, 24, nil, nil)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(FissionModeModel)
	if !m.WantsBack() || m.Selected() != nil {
		t.Errorf("WantsBack() = %v, Selected() = %+v", m.WantsBack(), m.Selected())
	}
}

func TestSessionFlow(t *testing.T) {
	cfg := config.DefaultFissionConfig()
	cfg.Levels.Dir = ""
	opts := fission.Options{Config: &cfg}
	s := NewSessionModel(nil, testRuntime(), "alice", opts, log.New(io.Discard))

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	step(enterKey)
	if s.screen != screenModeSelect {
		t.Fatalf("screen = %v after picking the game", s.screen)
	}

	step(tea.KeyMsg{Type: tea.KeyDown})
	step(enterKey)
	if s.screen != screenGame || s.gameModel == nil {
		t.Fatalf("screen = %v, want the game", s.screen)
	}
	if id := s.gameModel.game.ID(); id != fission.IDEndless {
		t.Errorf("started %q", id)
	}

	step(TickMsg{})
	step(runeKey('p'))
	step(TickMsg{})
	step(tea.KeyMsg{Type: tea.KeyEscape})
	if s.screen != screenMenu || s.gameModel != nil {
		t.Errorf("screen = %v after leaving a paused game", s.screen)
	}

	step(runeKey('q'))
	if !s.quitting {
		t.Error("q in the menu should end the session")
	}
}
