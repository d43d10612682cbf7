package fission

import (
	"testing"

	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

func TestEffectPlayerBusy(t *testing.T) {
	p := NewEffectPlayer(Durations{
		core.EffectSelect: 4,
		core.EffectMove:   3,
		core.EffectMerge:  0,
	})

	p.Play(core.Effect{Kind: core.EffectSelect, To: core.C(1, 1)})
	if p.Busy() {
		t.Error("a selection effect should not block the pipeline")
	}

	p.Play(core.Effect{Kind: core.EffectMerge, To: core.C(2, 2)})
	if p.Has(core.EffectMerge) {
		t.Error("a zero-length effect should finish immediately")
	}

	p.Play(core.Effect{Kind: core.EffectMove, From: core.C(0, 0), To: core.C(0, 3)})
	for i := 0; i < 3; i++ {
		if !p.Busy() {
			t.Fatalf("tick %d: move effect should still be running", i)
		}
		p.Tick()
	}
	if p.Busy() {
		t.Error("move effect should be over after its duration")
	}
	if !p.Has(core.EffectSelect) {
		t.Error("selection should still run for one more tick")
	}
	p.Tick()
	if len(p.Running()) != 0 {
		t.Errorf("expected no running effects, got %+v", p.Running())
	}
	if p.Played() != 3 {
		t.Errorf("Played() = %d, want 3", p.Played())
	}
}

func TestEffectPlayerDeselectEndsSelect(t *testing.T) {
	p := NewEffectPlayer(Durations{core.EffectSelect: 10})
	p.Play(core.Effect{Kind: core.EffectSelect, To: core.C(0, 0)})
	p.Play(core.Effect{Kind: core.EffectDeselect, To: core.C(0, 0)})
	if p.Has(core.EffectSelect) {
		t.Error("deselect should cut the selection effect")
	}
}

func TestEffectPlayerConfiguredDeselect(t *testing.T) {
	p := NewEffectPlayer(DurationsFrom(config.DefaultFissionConfig().Timing))
	p.Play(core.Effect{Kind: core.EffectSelect, To: core.C(2, 2)})
	if !p.Has(core.EffectSelect) {
		t.Fatal("selection should be highlighted")
	}
	p.Play(core.Effect{Kind: core.EffectDeselect, To: core.C(2, 2)})
	if p.Has(core.EffectSelect) || len(p.Running()) != 0 {
		t.Errorf("running after deselect: %+v", p.Running())
	}
	if p.Played() != 2 {
		t.Errorf("Played() = %d, want 2", p.Played())
	}
}

func TestEffectPlayerAt(t *testing.T) {
	p := NewEffectPlayer(Durations{core.EffectSplit: 5, core.EffectActivate: 5})
	p.Play(core.Effect{Kind: core.EffectSplit, From: core.C(1, 1), To: core.C(1, 1), Cells: []core.Coord{core.C(1, 2), core.C(2, 1)}})
	p.Play(core.Effect{Kind: core.EffectActivate, To: core.C(3, 3), Cells: []core.Coord{core.C(2, 1)}})

	tests := []struct {
		at   core.Coord
		want core.EffectKind
		ok   bool
	}{
		{core.C(1, 1), core.EffectSplit, true},
		{core.C(1, 2), core.EffectSplit, true},
		{core.C(2, 1), core.EffectActivate, true}, // newest wins
		{core.C(0, 0), 0, false},
	}
	for _, tc := range tests {
		got, ok := p.At(tc.at)
		if ok != tc.ok || (ok && got.Kind != tc.want) {
			t.Errorf("At(%v) = %v, %v; want %v, %v", tc.at, got.Kind, ok, tc.want, tc.ok)
		}
	}

	p.Reset()
	if p.Busy() {
		t.Error("Reset should drop every effect")
	}
}

func TestPlayingProgress(t *testing.T) {
	pl := Playing{Effect: core.Effect{Kind: core.EffectMove, From: core.C(0, 0), To: core.C(4, 0)}, Duration: 4}

	if x, _ := pl.position(); x != 0 {
		t.Errorf("start position = %v, want 0", x)
	}
	pl.Elapsed = 2
	if got := pl.Progress(); got != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", got)
	}
	if x, _ := pl.position(); x != 3 { // easeOutQuad(0.5) = 0.75
		t.Errorf("mid position = %v, want 3", x)
	}
	pl.Elapsed = 9
	if x, y := pl.position(); x != 4 || y != 0 {
		t.Errorf("end position = (%v, %v), want (4, 0)", x, y)
	}
	if (Playing{}).Progress() != 1 {
		t.Error("zero duration should report full progress")
	}
}

func TestDurationsFromConfig(t *testing.T) {
	cfg := instantConfig()
	cfg.Timing.MergeTicks = 7
	cfg.Timing.SpecialTicks = 9
	d := DurationsFrom(cfg.Timing)
	if d[core.EffectMerge] != 7 || d[core.EffectActivate] != 9 || d[core.EffectFreeze] != 9 {
		t.Errorf("DurationsFrom() = %v", d)
	}
}
