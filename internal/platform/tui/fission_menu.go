package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/core"
	"github.com/vovakirdan/tilefission/internal/games/fission"
	"github.com/vovakirdan/tilefission/internal/games/fission/levels"
	"github.com/vovakirdan/tilefission/internal/storage"
)

// FissionMode represents the selected game mode.
type FissionMode int

const (
	FissionModeCampaign FissionMode = iota
	FissionModeEndless
)

// FissionSelection holds the user's selection from the mode menu.
type FissionSelection struct {
	Mode    FissionMode
	LevelID string // empty = start from the first level
}

// GameID returns the registry ID for the selection.
func (s FissionSelection) GameID() string {
	if s.Mode == FissionModeEndless {
		return fission.IDEndless
	}
	return fission.IDCampaign
}

// Apply passes the starting level to the next campaign game.
func (s FissionSelection) Apply() string {
	if s.Mode == FissionModeCampaign && s.LevelID != "" {
		fission.SetStartLevel(s.LevelID)
	}
	return s.GameID()
}

// FissionMenuKeyMap defines key bindings for the mode and level menus.
type FissionMenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k FissionMenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k FissionMenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Quit},
	}
}

// DefaultFissionMenuKeyMap returns the default menu bindings.
func DefaultFissionMenuKeyMap() FissionMenuKeyMap {
	return FissionMenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var fissionModes = []string{
	"Campaign",
	"Endless Mode",
	"Select Level...",
}

// FissionModeModel lets users choose the game mode and starting level.
type FissionModeModel struct {
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	levels        []levels.Level
	cleared       map[string]storage.LevelRecord
	keys          FissionMenuKeyMap
	help          help.Model
	selection     FissionSelection
	choosing      bool
	quitting      bool
	back          bool
}

// NewFissionModeModel creates a mode selection model. cleared may be nil.
func NewFissionModeModel(width, height int, lvls []levels.Level, cleared map[string]storage.LevelRecord) FissionModeModel {
	if cleared == nil {
		cleared = make(map[string]storage.LevelRecord)
	}
	h := help.New()
	h.Width = width
	return FissionModeModel{
		width:    width,
		height:   height,
		levels:   lvls,
		cleared:  cleared,
		keys:     DefaultFissionMenuKeyMap(),
		help:     h,
		choosing: true,
	}
}

// Init initializes the model.
func (m FissionModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m FissionModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inLevelSelect {
			return m.handleLevelSelectKey(msg)
		}
		return m.handleModeSelectKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m FissionModeModel) handleModeSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(fissionModes)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		switch m.cursor {
		case 0:
			m.choosing = false
			m.selection = FissionSelection{Mode: FissionModeCampaign}
			return m, tea.Quit
		case 1:
			m.choosing = false
			m.selection = FissionSelection{Mode: FissionModeEndless}
			return m, tea.Quit
		case 2:
			if len(m.levels) > 0 {
				m.inLevelSelect = true
				m.levelCursor = m.firstUncleared()
			}
		}
	case key.Matches(msg, m.keys.Back):
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m FissionModeModel) handleLevelSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.choosing = false
		m.selection = FissionSelection{
			Mode:    FissionModeCampaign,
			LevelID: m.levels[m.levelCursor].ID,
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.inLevelSelect = false
	}
	return m, nil
}

// firstUncleared returns the index of the first level without a clear.
func (m FissionModeModel) firstUncleared() int {
	for i, lvl := range m.levels {
		if _, ok := m.cleared[lvl.ID]; !ok {
			return i
		}
	}
	return 0
}

// View renders the mode/level selection.
func (m FissionModeModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewModeSelect()
}

func (m FissionModeModel) viewModeSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled("F I S S I O N", m.width, theme.MenuTitle))
	b.WriteString("\n\n")
	b.WriteString(centerStyled("Select game mode:", m.width, theme.MenuDescription))
	b.WriteString("\n\n")

	for i, mode := range fissionModes {
		if i == 0 {
			mode = fmt.Sprintf("%s (%d levels, %d cleared)", mode, len(m.levels), m.clearedCount())
		}
		style := theme.MenuItemNormal
		cursor := "  "
		if i == m.cursor {
			style = theme.MenuItemActive
			cursor = "> "
		}
		b.WriteString(centerStyled(cursor+mode, m.width, style))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))

	return b.String()
}

func (m FissionModeModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled("SELECT LEVEL", m.width, theme.MenuTitle))
	b.WriteString("\n\n")

	for i, lvl := range m.levels {
		cursor := "  "
		style := theme.MenuItemNormal
		if i == m.levelCursor {
			cursor = "> "
			style = theme.MenuItemActive
		}
		mark := " "
		if _, ok := m.cleared[lvl.ID]; ok {
			mark = "✓"
		}

		line := fmt.Sprintf("%s%s %s. %-18s %dx%d  %s", cursor, mark, lvl.ID, lvl.Name, lvl.Width, lvl.Height, lvl.Goal)
		b.WriteString(centerStyled(line, m.width, style))
		b.WriteString("\n")
	}

	cur := m.levels[m.levelCursor]
	b.WriteString("\n")
	if rec, ok := m.cleared[cur.ID]; ok {
		best := fmt.Sprintf("Best: %d points in %d moves (%d clears)", rec.BestScore, rec.BestMoves, rec.Clears)
		b.WriteString(centerStyled(best, m.width, theme.LevelCleared))
		b.WriteString("\n")
	}
	if hint := cur.Metadata["hint"]; hint != "" {
		b.WriteString(centerStyled(hint, m.width, theme.LevelHint))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))

	return b.String()
}

func (m FissionModeModel) clearedCount() int {
	n := 0
	for _, lvl := range m.levels {
		if _, ok := m.cleared[lvl.ID]; ok {
			n++
		}
	}
	return n
}

// Selected returns the selection, or nil if still choosing.
func (m FissionModeModel) Selected() *FissionSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsChoosing returns true if still in selection mode.
func (m FissionModeModel) IsChoosing() bool {
	return m.choosing
}

// IsQuitting returns true if user wants to quit.
func (m FissionModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m FissionModeModel) WantsBack() bool {
	return m.back
}

// loadMenuLevels returns the campaign levels and the cleared ones.
// Failures leave the picker empty rather than blocking the menu.
func loadMenuLevels(store *storage.Store, levelsDir string) ([]levels.Level, map[string]storage.LevelRecord) {
	// A broken user directory still yields the builtin levels
	lvls, _ := levels.Load(config.ExpandHome(levelsDir)) //nolint:errcheck // best effort
	var cleared map[string]storage.LevelRecord
	if store != nil {
		if c, err := store.ClearedLevels(); err == nil {
			cleared = c
		}
	}
	return lvls, cleared
}

// RunFissionModeSelector runs the mode selection and returns the selection.
// A nil selection means the user backed out or quit.
func RunFissionModeSelector(store *storage.Store, cfg core.RuntimeConfig, levelsDir string) (*FissionSelection, core.RuntimeConfig, error) {
	lvls, cleared := loadMenuLevels(store, levelsDir)
	model := NewFissionModeModel(cfg.ScreenW, cfg.ScreenH, lvls, cleared)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(FissionModeModel)
	if !ok {
		return nil, cfg, nil
	}
	cfg.ScreenW, cfg.ScreenH = m.width, m.height

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
