package fission

import (
	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

// Durations are effect lengths in ticks, per effect kind.
// A zero duration finishes the effect on the tick it is played.
type Durations map[core.EffectKind]int

// DurationsFrom reads effect lengths from the timing config.
func DurationsFrom(t config.TimingConfig) Durations {
	return Durations{
		core.EffectSelect:   t.SelectTicks,
		core.EffectDeselect: 0,
		core.EffectReject:   t.RejectTicks,
		core.EffectMove:     t.MoveTicks,
		core.EffectMerge:    t.MergeTicks,
		core.EffectSplit:    t.SplitTicks,
		core.EffectActivate: t.SpecialTicks,
		core.EffectFreeze:   t.SpecialTicks,
		core.EffectSpawn:    t.SpawnTicks,
	}
}

// cosmetic effects never hold up a phase boundary.
func cosmetic(k core.EffectKind) bool {
	switch k {
	case core.EffectSelect, core.EffectDeselect, core.EffectReject:
		return true
	}
	return false
}

// Playing is an effect on the timeline.
type Playing struct {
	core.Effect
	Elapsed  int
	Duration int
}

// Progress returns how far the effect has run, 0.0 to 1.0.
func (p Playing) Progress() float64 {
	if p.Duration <= 0 {
		return 1
	}
	t := float64(p.Elapsed) / float64(p.Duration)
	if t > 1 {
		t = 1
	}
	return t
}

// EffectPlayer runs effects on a tick timeline and reports Busy while a
// non-cosmetic effect is running. It never touches the board.
type EffectPlayer struct {
	durations Durations
	playing   []Playing
	played    int
}

// NewEffectPlayer creates a player with the given durations.
func NewEffectPlayer(d Durations) *EffectPlayer {
	return &EffectPlayer{durations: d}
}

// Play schedules an effect.
func (p *EffectPlayer) Play(e core.Effect) {
	p.played++
	if e.Kind == core.EffectDeselect || e.Kind == core.EffectSelect {
		p.drop(func(pl Playing) bool { return pl.Kind == core.EffectSelect })
	}
	d := p.durations[e.Kind]
	if d <= 0 {
		return
	}
	p.playing = append(p.playing, Playing{Effect: e, Duration: d})
}

// Busy reports whether a blocking effect is still running.
func (p *EffectPlayer) Busy() bool {
	for _, pl := range p.playing {
		if !cosmetic(pl.Kind) {
			return true
		}
	}
	return false
}

// Tick advances every effect by one tick and drops finished ones.
func (p *EffectPlayer) Tick() {
	for i := range p.playing {
		p.playing[i].Elapsed++
	}
	p.drop(func(pl Playing) bool { return pl.Elapsed >= pl.Duration })
}

func (p *EffectPlayer) drop(done func(Playing) bool) {
	kept := p.playing[:0]
	for _, pl := range p.playing {
		if !done(pl) {
			kept = append(kept, pl)
		}
	}
	p.playing = kept
}

// Running returns the running effects, oldest first.
func (p *EffectPlayer) Running() []Playing {
	return p.playing
}

// At returns the newest running effect touching cell c.
func (p *EffectPlayer) At(c core.Coord) (Playing, bool) {
	for i := len(p.playing) - 1; i >= 0; i-- {
		pl := p.playing[i]
		if pl.Kind == core.EffectMove {
			continue
		}
		if pl.To == c {
			return pl, true
		}
		for _, cell := range pl.Cells {
			if cell == c {
				return pl, true
			}
		}
	}
	return Playing{}, false
}

// Has reports whether an effect of kind k is running.
func (p *EffectPlayer) Has(k core.EffectKind) bool {
	for _, pl := range p.playing {
		if pl.Kind == k {
			return true
		}
	}
	return false
}

// Played returns the number of effects received since creation.
func (p *EffectPlayer) Played() int { return p.played }

// Reset drops every running effect.
func (p *EffectPlayer) Reset() {
	p.playing = nil
}

func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// position interpolates a move effect between its two cells.
func (p Playing) position() (x, y float64) {
	t := easeOutQuad(p.Progress())
	x = float64(p.From.X) + float64(p.To.X-p.From.X)*t
	y = float64(p.From.Y) + float64(p.To.Y-p.From.Y)*t
	return x, y
}
