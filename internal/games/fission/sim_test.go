package fission

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

func TestRunSimulation(t *testing.T) {
	opts := SimOptions{
		Games:    4,
		Seed:     100,
		MaxTurns: 150,
		Config:   config.DefaultFissionConfig(),
	}
	report, err := RunSimulation(context.Background(), opts)
	if err != nil {
		t.Fatalf("RunSimulation() failed: %v", err)
	}
	if len(report.Results) != 4 {
		t.Fatalf("got %d results, want 4", len(report.Results))
	}

	threshold := opts.Config.Rules.SplitThreshold
	for _, res := range report.Results {
		switch res.Outcome {
		case OutcomeGameOver, OutcomeTurnLimit:
		default:
			t.Errorf("seed %d: unexpected outcome %q", res.Seed, res.Outcome)
		}
		if res.Stats.Corrections != 0 {
			t.Errorf("seed %d: %d board corrections", res.Seed, res.Stats.Corrections)
		}
		if res.Stats.MaxValue > threshold {
			t.Errorf("seed %d: max value %d above threshold %d", res.Seed, res.Stats.MaxValue, threshold)
		}
		if res.Moves != res.Stats.Turns {
			t.Errorf("seed %d: moves %d != turns %d", res.Seed, res.Moves, res.Stats.Turns)
		}
		if res.Score > report.BestScore {
			t.Errorf("best score %d below result %d", report.BestScore, res.Score)
		}
	}

	again, err := RunSimulation(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(report, again) {
		t.Error("simulation is not deterministic for a fixed seed")
	}
}

func TestRunSimulationCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := RunSimulation(ctx, SimOptions{Games: 3, Config: config.DefaultFissionConfig()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("cancelled run played %d games", len(report.Results))
	}
}

func TestBotChoose(t *testing.T) {
	ids := core.NewIDSource(1)
	bot := NewBot(1)

	b := core.NewBoard(3, 3)
	b.Place(core.C(0, 0), core.NewTile(ids.Next(), 2, core.ColorRed))
	b.Place(core.C(2, 0), core.NewTile(ids.Next(), 5, core.ColorRed))
	b.Place(core.C(0, 2), core.NewTile(ids.Next(), 1, core.ColorRed))

	turn, ok := bot.Choose(b)
	if !ok {
		t.Fatal("bot found no turn")
	}
	plan := b.PlanMove(turn.From, turn.To)
	if plan.Outcome != core.MoveMerge {
		t.Fatalf("bot chose %+v (%v), want a merge", turn, plan.Outcome)
	}
	src, _ := b.TileAt(turn.From)
	dst, _ := b.TileAt(turn.To)
	if src.Value+dst.Value != 7 {
		t.Errorf("bot merged into %d, want the largest merge 7", src.Value+dst.Value)
	}

	b = core.NewBoard(3, 3)
	b.Place(core.C(0, 0), core.NewTile(ids.Next(), 2, core.ColorRed))
	b.Place(core.C(1, 1), core.NewSpecial(ids.Next(), core.AbilityBlaster, core.ColorBlue))
	turn, ok = bot.Choose(b)
	if !ok || !turn.Activation() || turn.From != core.C(1, 1) {
		t.Errorf("bot chose %+v, want to fire the special", turn)
	}

	if _, ok := bot.Choose(core.NewBoard(2, 2)); ok {
		t.Error("an empty board offers no turn")
	}
}
