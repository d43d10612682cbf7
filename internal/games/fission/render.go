package fission

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	platformcore "github.com/vovakirdan/tilefission/internal/core"
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

const (
	cellWidth  = 6 // including the left border
	cellHeight = 2 // including the top border
	hudHeight  = 3
	footHeight = 2
)

// layout places the board on the screen.
type layout struct {
	boardX, boardY int
	boardW, boardH int
}

// relayout centres the board and points the board geometry at it, so that
// screen positions map to cells through WorldToGrid.
func (g *Game) relayout() {
	w, h := g.board.Width(), g.board.Height()
	l := layout{
		boardW: w*cellWidth + 1,
		boardH: h*cellHeight + 1,
		boardY: hudHeight,
	}
	l.boardX = (g.screenW - l.boardW) / 2
	if l.boardX < 0 {
		l.boardX = 0
	}
	g.layout = l
	g.tooSmall = g.screenW < l.boardW || g.screenH < hudHeight+l.boardH+footHeight

	err := g.board.SetGeometry(core.Geometry{
		Origin: core.Vec{X: float64(l.boardX), Y: float64(l.boardY)},
		CellW:  cellWidth,
		CellH:  cellHeight,
	})
	if err != nil {
		g.log.Error("board geometry rejected", "err", err)
	}
}

// tileColors maps tile colours onto screen colours.
var tileColors = [core.ColorCount]platformcore.Color{
	core.ColorRed:    platformcore.ColorRed,
	core.ColorGreen:  platformcore.ColorGreen,
	core.ColorBlue:   platformcore.ColorBlue,
	core.ColorYellow: platformcore.ColorYellow,
	core.ColorPurple: platformcore.ColorMagenta,
}

func screenColor(c core.Color) platformcore.Color {
	if c >= core.ColorCount {
		return platformcore.ColorGray
	}
	return tileColors[c]
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	if g.board == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	g.renderGrid(dst)
	g.renderTiles(dst)
	g.renderEffects(dst)
	g.renderFooter(dst)
	g.renderOverlays(dst)
}

func (g *Game) renderTooSmall(dst *platformcore.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	need := fmt.Sprintf("Need %dx%d", g.layout.boardW, hudHeight+g.layout.boardH+footHeight)
	dst.DrawTextCentered(y+1, need)
}

func (g *Game) renderHUD(dst *platformcore.Screen) {
	l := g.layout
	title := "FISSION"
	if lvl := g.Level(); lvl != nil {
		title = fmt.Sprintf("FISSION %s/%d  %s", lvl.ID, len(g.levels), lvl.Name)
	}
	dst.DrawTextColor(l.boardX+(l.boardW-utf8.RuneCountInString(title))/2, 0, title, platformcore.ColorBrightWhite)

	dst.DrawText(l.boardX, 1, fmt.Sprintf("Score: %d  Moves: %d", g.tally.score, g.tally.moves))

	var info string
	if lvl := g.Level(); lvl != nil {
		info = fmt.Sprintf("%s: %d/%d", lvl.Goal.String(), g.goal.progress(g.machine.Stats()), lvl.Goal.Target)
	} else {
		info = fmt.Sprintf("Max: %d  Split > %d", g.board.MaxValue(), g.machine.Rules().SplitThreshold)
	}
	x := l.boardX + l.boardW - utf8.RuneCountInString(info)
	if x < l.boardX {
		x = l.boardX
	}
	dst.DrawText(x, 2, info)

	if g.machine.SkipNextSpawn() || g.effects.Has(core.EffectFreeze) {
		dst.DrawTextColor(l.boardX, 2, "FROZEN", platformcore.ColorCyan)
	}
}

// renderGrid draws cell borders; the cursor cell is outlined in white.
func (g *Game) renderGrid(dst *platformcore.Screen) {
	l := g.layout
	w, h := g.board.Width(), g.board.Height()
	for y := range h + 1 {
		for x := range w + 1 {
			px := l.boardX + x*cellWidth
			py := l.boardY + y*cellHeight
			dst.SetColor(px, py, junction(x, y, w, h), platformcore.ColorGray)
			if x < w {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', platformcore.ColorGray)
				}
			}
			if y < h {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', platformcore.ColorGray)
				}
			}
		}
	}

	cursorColor := platformcore.ColorBrightWhite
	if g.lastInput == core.InputRejected && g.effects.Has(core.EffectReject) {
		cursorColor = platformcore.ColorBrightRed
	}
	g.outlineCell(dst, g.cursor, cursorColor)
}

func junction(x, y, w, h int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == w:
		return '┐'
	case y == h && x == 0:
		return '└'
	case y == h && x == w:
		return '┘'
	case y == 0:
		return '┬'
	case y == h:
		return '┴'
	case x == 0:
		return '├'
	case x == w:
		return '┤'
	default:
		return '┼'
	}
}

func (g *Game) outlineCell(dst *platformcore.Screen, c core.Coord, color platformcore.Color) {
	px, py := g.cellOrigin(c)
	dst.DrawBoxColor(platformcore.NewRect(px, py, cellWidth+1, cellHeight+1), color)
}

// cellOrigin returns the screen position of the top-left border of c.
func (g *Game) cellOrigin(c core.Coord) (int, int) {
	return g.layout.boardX + c.X*cellWidth, g.layout.boardY + c.Y*cellHeight
}

// tileLabel formats a tile for a cell interior.
func tileLabel(t *core.Tile) string {
	if t.IsSpecial() {
		r := t.Ability.Char()
		return string([]rune{r, r, r})
	}
	s := strconv.Itoa(t.Value)
	if t.TimesDoubled > 0 {
		s += "x"
	}
	return s
}

func (g *Game) renderTiles(dst *platformcore.Screen) {
	sel, hasSel := g.machine.Selection()
	g.board.Each(func(c core.Coord, t *core.Tile) {
		px, py := g.cellOrigin(c)
		color := screenColor(t.Color)
		label := tileLabel(t)
		if hasSel && sel == c {
			color = color.Bright()
			label = "[" + label + "]"
		}
		if t.Armed() {
			color = color.Bright()
		}
		inner := cellWidth - 1
		pad := (inner - utf8.RuneCountInString(label)) / 2
		if pad < 0 {
			pad = 0
		}
		dst.DrawTextColor(px+1+pad, py+1, label, color)
	})
}

// renderEffects overlays the running effects on the board.
func (g *Game) renderEffects(dst *platformcore.Screen) {
	for _, pl := range g.effects.Running() {
		switch pl.Kind {
		case core.EffectMove:
			fx, fy := pl.position()
			px := g.layout.boardX + int(math.Round(fx*cellWidth)) + cellWidth/2
			py := g.layout.boardY + int(math.Round(fy*cellHeight)) + 1
			dst.SetColor(px, py, '•', screenColor(pl.Color).Bright())
		case core.EffectMerge, core.EffectSpawn:
			g.flashCell(dst, pl.To, screenColor(pl.Color).Bright())
		case core.EffectSplit:
			g.flashCell(dst, pl.From, platformcore.ColorOrange)
			for _, c := range pl.Cells {
				g.flashCell(dst, c, screenColor(pl.Color).Bright())
			}
		case core.EffectActivate:
			for _, c := range pl.Cells {
				g.flashCell(dst, c, platformcore.ColorBrightYellow)
			}
		}
	}
}

// flashCell recolours the interior of a cell, keeping its text.
func (g *Game) flashCell(dst *platformcore.Screen, c core.Coord, color platformcore.Color) {
	px, py := g.cellOrigin(c)
	for i := 1; i < cellWidth; i++ {
		cell := dst.GetCell(px+i, py+1)
		r := cell.Rune
		if r == ' ' {
			r = '·'
		}
		dst.SetColor(px+i, py+1, r, color)
	}
}

func (g *Game) renderFooter(dst *platformcore.Screen) {
	y := g.layout.boardY + g.layout.boardH
	status := g.statusLine()
	dst.DrawText(g.layout.boardX, y, status)
	dst.DrawTextColor(g.layout.boardX, y+1, g.Controls(), platformcore.ColorGray)
}

func (g *Game) statusLine() string {
	if sel, ok := g.machine.Selection(); ok {
		if t, found := g.board.TileAt(sel); found && t.IsSpecial() {
			return fmt.Sprintf("%s selected: pick it again to fire", t.Ability)
		}
		return "Pick a target in the same row or column"
	}
	switch g.lastInput {
	case core.InputRejected:
		return "Move rejected"
	case core.InputActivationStarted:
		return "Special fired"
	}
	if lvl := g.Level(); lvl != nil {
		if hint, ok := lvl.Metadata["hint"]; ok {
			return hint
		}
	}
	return ""
}

func (g *Game) renderOverlays(dst *platformcore.Screen) {
	l := g.layout
	cx := l.boardX + l.boardW/2
	cy := l.boardY + l.boardH/2

	switch {
	case g.paused:
		g.drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case g.won:
		g.drawOverlay(dst, cx, cy, "CAMPAIGN COMPLETE!", fmt.Sprintf("Score: %d", g.tally.score), "Press R to restart")
	case g.levelCleared:
		lvl := g.Level()
		next := "Final level complete!"
		if g.levelIndex < len(g.levels)-1 {
			next = "Next: " + g.levels[g.levelIndex+1].Name
		}
		g.drawOverlay(dst, cx, cy, lvl.Name+" cleared!", next)
	case g.gameOver:
		g.drawOverlay(dst, cx, cy, "GAME OVER", fmt.Sprintf("Max tile: %d", g.board.MaxValue()), "Press R to restart")
	}
}

// drawOverlay draws a boxed message centred on (cx, cy).
func (g *Game) drawOverlay(dst *platformcore.Screen, cx, cy int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}
	box := platformcore.NewRect(cx-(maxLen+4)/2, cy-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBoxColor(box, platformcore.ColorBrightWhite)
	for i, line := range lines {
		dst.DrawText(cx-utf8.RuneCountInString(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows: Cursor  Space/Click: Pick  X: Cancel  P: Pause  Q: Quit"
}
