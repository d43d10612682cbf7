package core

import (
	"math/rand"

	"github.com/charmbracelet/log"
)

// InputResult tells the caller what a coordinate did.
type InputResult uint8

const (
	InputIgnored InputResult = iota
	InputRejected
	InputSelected
	InputDeselected
	InputMoveStarted
	InputActivationStarted
)

// String returns the result name.
func (r InputResult) String() string {
	switch r {
	case InputIgnored:
		return "ignored"
	case InputRejected:
		return "rejected"
	case InputSelected:
		return "selected"
	case InputDeselected:
		return "deselected"
	case InputMoveStarted:
		return "move_started"
	case InputActivationStarted:
		return "activation_started"
	default:
		return "unknown"
	}
}

type phaseHandler struct {
	enter  func(m *Machine)
	update func(m *Machine) bool // true when the phase is done
	exit   func(m *Machine)
}

func done(*Machine) bool { return true }

// phaseHandlers is indexed by Phase and lists one handler per phase, in order.
var phaseHandlers = [...]phaseHandler{
	{enter: (*Machine).enterWaiting},                                       // WaitingForInput
	{enter: (*Machine).enterMoving, update: done},                          // Moving
	{enter: (*Machine).enterMerging, update: done},                         // Merging
	{enter: (*Machine).enterSplitting, update: (*Machine).updateSplitting}, // Splitting
	{update: (*Machine).updateSpecials},                                    // SpecialActivation
	{enter: (*Machine).enterSpawning, update: done},                        // Spawning
	{update: done},                                                         // GameOverCheck
	{enter: (*Machine).enterGameOver},                                      // GameOver
	{enter: (*Machine).enterLevelComplete},                                 // LevelComplete
}

// A phase added without a handler, or a stray handler, breaks the build here.
func _() {
	var x [1]struct{}
	_ = x[len(phaseHandlers)-int(phaseCount)]
	_ = x[int(phaseCount)-len(phaseHandlers)]
}

// Machine runs the turn pipeline over a board. It is not safe for concurrent use;
// a single goroutine owns it and calls HandleInput and Update.
type Machine struct {
	board     *Board
	rules     Rules
	log       *log.Logger
	rng       *rand.Rand
	ids       *IDSource
	scorer    Scorer
	moves     MoveCounter
	presenter Presenter
	levels    LevelTracker
	handlers  [phaseCount]phaseHandler

	phase        Phase
	selected     Coord
	hasSelection bool
	plan         MovePlan
	activation   bool
	turnCounted  bool
	splitQueue   []Coord
	splitCursor  int
	skipSpawn    bool
	waitTicks    int
	stats        Stats
}

// NewMachine creates a machine waiting for input on b.
func NewMachine(b *Board, deps Deps, rules Rules) *Machine {
	d := deps.withDefaults(1)
	m := &Machine{
		board:     b,
		rules:     rules.normalized(),
		log:       d.Logger,
		rng:       d.RNG,
		ids:       d.IDs,
		scorer:    d.Scorer,
		moves:     d.Moves,
		presenter: d.Presenter,
		levels:    d.Levels,
		handlers:  phaseHandlers,
		phase:     PhaseWaitingForInput,
	}
	m.reconcile(m.phase)
	return m
}

// Board returns the board the machine mutates.
func (m *Machine) Board() *Board { return m.board }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Rules returns the active rules.
func (m *Machine) Rules() Rules { return m.rules }

// SetRules replaces the rules. Changes made mid-turn apply from the next phase on.
func (m *Machine) SetRules(r Rules) {
	m.rules = r.normalized()
}

// Selection returns the selected cell, if any.
func (m *Machine) Selection() (Coord, bool) {
	return m.selected, m.hasSelection
}

// SkipNextSpawn reports whether a freeze is waiting to cancel a spawn.
func (m *Machine) SkipNextSpawn() bool { return m.skipSpawn }

// Stats returns the cumulative counters.
func (m *Machine) Stats() Stats {
	s := m.stats
	s.MaxValue = m.board.MaxValue()
	s.Tiles = m.board.TileCount()
	return s
}

// AcceptingInput reports whether HandleInput will act.
func (m *Machine) AcceptingInput() bool {
	return m.phase == PhaseWaitingForInput
}

// HandleInput applies one grid coordinate from the player.
// The first coordinate selects a tile; the second is the move target.
// Selecting a special tile twice activates it.
func (m *Machine) HandleInput(c Coord) InputResult {
	if m.phase != PhaseWaitingForInput {
		m.log.Debug("input ignored", "phase", m.phase, "at", c)
		return InputIgnored
	}
	if !m.board.InBounds(c) {
		m.log.Info("input rejected", "at", c, "reason", RejectOutOfBounds)
		return InputRejected
	}

	if !m.hasSelection {
		t, ok := m.board.TileAt(c)
		if !ok {
			m.log.Debug("input rejected", "at", c, "reason", RejectNoTile)
			return InputRejected
		}
		t.State = TileSelected
		m.selected, m.hasSelection = c, true
		m.presenter.Play(Effect{Kind: EffectSelect, TileID: t.ID, From: c, To: c, Value: t.Value, Color: t.Color, Ability: t.Ability})
		return InputSelected
	}

	from := m.selected
	if c == from {
		t, ok := m.board.TileAt(c)
		m.clearSelection()
		if ok && t.IsSpecial() {
			if err := m.board.Arm(c); err != nil {
				m.log.Error("cannot arm special", "at", c, "err", err)
				return InputRejected
			}
			m.activation = true
			m.log.Debug("activation requested", "at", c, "ability", t.Ability)
			m.fire(EventActivationRequested)
			return InputActivationStarted
		}
		return InputDeselected
	}

	plan := m.board.PlanMove(from, c)
	m.clearSelection()
	if plan.Outcome == MoveRejected {
		m.log.Info("move rejected", "from", from, "to", c, "reason", plan.Reason)
		m.presenter.Play(Effect{Kind: EffectReject, From: from, To: c})
		return InputRejected
	}
	m.plan = plan
	m.log.Debug("move accepted", "from", from, "to", c, "outcome", plan.Outcome)
	m.fire(EventMoveAccepted)
	return InputMoveStarted
}

func (m *Machine) clearSelection() {
	if !m.hasSelection {
		return
	}
	if t, ok := m.board.TileAt(m.selected); ok {
		if t.State == TileSelected {
			t.State = TileIdle
		}
		m.presenter.Play(Effect{Kind: EffectDeselect, TileID: t.ID, From: m.selected, To: m.selected})
	}
	m.hasSelection = false
}

// Update advances the pipeline by one tick. Each phase boundary first waits for the
// presenter; the wait is bounded by the join timeout.
func (m *Machine) Update() {
	if m.phase == PhaseWaitingForInput || m.phase.Terminal() {
		return
	}
	if !m.join() {
		return
	}
	if h := m.handlers[m.phase]; h.update != nil && !h.update(m) {
		return
	}
	m.fire(EventPhaseComplete)
}

// Settle calls Update until the machine waits for input, ends, or maxUpdates is reached.
// It returns true when the turn has fully resolved.
func (m *Machine) Settle(maxUpdates int) bool {
	for i := 0; i < maxUpdates; i++ {
		if m.phase == PhaseWaitingForInput || m.phase.Terminal() {
			return true
		}
		m.Update()
	}
	return m.phase == PhaseWaitingForInput || m.phase.Terminal()
}

func (m *Machine) fire(ev Event) {
	from := m.phase
	if h := m.handlers[from]; h.exit != nil {
		h.exit(m)
	}
	m.reconcile(from)
	m.checkLevel()

	next, err := NextPhase(from, ev, m.guards())
	if err != nil {
		m.log.Error("phase transition refused", "phase", from, "event", ev, "err", err)
		if from == PhaseWaitingForInput || from.Terminal() {
			return
		}
		next = PhaseGameOverCheck
	}

	m.countTurn(next)
	m.phase = next
	m.waitTicks = 0
	m.log.Debug("phase", "from", from, "to", next, "event", ev)
	if h := m.handlers[next]; h.enter != nil {
		h.enter(m)
	}
}

func (m *Machine) guards() Guards {
	return Guards{
		Outcome:         m.plan.Outcome,
		SplitPending:    len(m.splitQueue) > 0 || len(m.board.FindTilesExceedingThreshold(m.rules.SplitThreshold)) > 0,
		SpecialsPending: len(m.board.PendingSpecials()) > 0,
		ValidMoveExists: m.board.FindValidMoveExists(),
		LevelComplete:   m.levels.IsLevelComplete(),
	}
}

// countTurn reports the turn once, when move resolution (relocation, or merge plus
// any split) is over. Activation turns count once the activations are done.
func (m *Machine) countTurn(next Phase) {
	if m.turnCounted || (m.plan.Outcome == MoveRejected && !m.activation) {
		return
	}
	switch next {
	case PhaseMoving, PhaseMerging, PhaseSplitting:
		return
	case PhaseSpecialActivation:
		if m.activation {
			return
		}
	}
	m.turnCounted = true
	m.stats.Turns++
	m.moves.IncrementMoves()
}

// join reports whether the presenter has caught up. On timeout tiles are forced idle
// and the board is re-checked.
func (m *Machine) join() bool {
	if !m.presenter.Busy() {
		m.settleTiles()
		m.waitTicks = 0
		return true
	}
	m.waitTicks++
	if m.waitTicks < m.rules.JoinTimeoutTicks {
		return false
	}
	m.log.Warn("presenter join timed out, forcing tiles idle", "phase", m.phase, "ticks", m.waitTicks)
	m.stats.JoinTimeouts++
	m.settleTiles()
	m.reconcile(m.phase)
	m.waitTicks = 0
	return true
}

func (m *Machine) settleTiles() {
	m.board.Each(func(_ Coord, t *Tile) {
		if t.State == TileMoving || t.State == TileMerging {
			t.State = TileIdle
		}
	})
}

func (m *Machine) reconcile(at Phase) {
	fixes := m.board.CheckConsistency()
	for _, f := range fixes {
		m.log.Error("board inconsistency corrected", "phase", at, "kind", f.Kind, "at", f.At, "tile", f.TileID)
	}
	m.stats.Corrections += len(fixes)
	if m.hasSelection {
		if _, ok := m.board.TileAt(m.selected); !ok {
			m.hasSelection = false
		}
	}
}

func (m *Machine) checkLevel() {
	m.levels.CheckLevelCompletion(m.Stats())
}

func (m *Machine) enterWaiting() {
	m.plan = MovePlan{}
	m.activation = false
	m.turnCounted = false
	m.splitQueue = nil
	m.splitCursor = 0
}

func (m *Machine) enterMoving() {
	p := m.plan
	t, ok := m.board.TileAt(p.From)
	if !ok {
		m.log.Error("moving tile vanished", "from", p.From)
		m.plan.Outcome = MoveRejected
		return
	}
	t.State = TileMoving
	m.presenter.Play(Effect{Kind: EffectMove, TileID: t.ID, From: p.From, To: p.To, Value: t.Value, Color: t.Color, Ability: t.Ability})
	if p.Outcome != MoveRelocate {
		return
	}
	if err := m.board.Move(p.From, p.To); err != nil {
		m.log.Error("relocation failed", "from", p.From, "to", p.To, "err", err)
		m.plan.Outcome = MoveRejected
	}
}

func (m *Machine) enterMerging() {
	p := m.plan
	res, err := m.board.merge(p.From, p.To)
	if err != nil {
		m.log.Error("merge failed", "from", p.From, "to", p.To, "err", err)
		return
	}
	t, _ := m.board.TileAt(p.To)
	t.State = TileMerging
	m.stats.Merges++
	m.scorer.AddScore(res.Value * m.rules.MergeMultiplier)
	m.presenter.Play(Effect{Kind: EffectMerge, TileID: t.ID, From: p.From, To: p.To, Value: res.Value, Color: t.Color})
	m.log.Debug("merged", "at", p.To, "value", res.Value)

	if armed := m.board.armAround(p.To); len(armed) > 0 {
		m.log.Debug("specials armed", "by", "merge", "cells", armed)
	}
	if res.Value > m.rules.SplitThreshold {
		m.splitQueue = append(m.splitQueue, p.To)
	}
}

func (m *Machine) enterSplitting() {
	m.splitQueue = UnionCoords(m.splitQueue, m.board.FindTilesExceedingThreshold(m.rules.SplitThreshold))
	m.splitCursor = 0
}

func (m *Machine) updateSplitting() bool {
	if m.splitCursor >= len(m.splitQueue) {
		m.splitQueue = nil
		m.splitCursor = 0
		return true
	}
	c := m.splitQueue[m.splitCursor]
	m.splitCursor++
	m.splitAt(c)
	return false
}

func (m *Machine) splitAt(c Coord) {
	t, ok := m.board.TileAt(c)
	if !ok || t.IsSpecial() || t.Value <= m.rules.SplitThreshold {
		m.log.Warn("stale split entry skipped", "at", c)
		return
	}
	res, err := m.board.PerformSplit(c, m.rules.SplitThreshold, m.ids)
	if err != nil {
		m.log.Error("split failed", "at", c, "err", err)
		return
	}
	m.stats.Splits++
	m.scorer.AddScore(m.rules.SplitPoints)

	cells := make([]Coord, 0, len(res.Placed))
	for _, p := range res.Placed {
		cells = append(cells, p.At)
	}
	m.presenter.Play(Effect{Kind: EffectSplit, From: c, To: c, Value: res.Value, Color: res.Color, Cells: cells})
	m.log.Debug("split", "at", c, "value", res.Value, "parts", len(res.Placed), "overflow", res.Overflow)

	if len(res.Dropped) > 0 {
		m.stats.Dropped += len(res.Dropped)
		m.log.Warn("split parts dropped, no free cell", "at", c, "dropped", res.Dropped)
	}
	if armed := m.board.armAround(c); len(armed) > 0 {
		m.log.Debug("specials armed", "by", "split", "cells", armed)
	}
}

// updateSpecials fires one pending special per call so each activation is joined
// before the next one scans the board.
func (m *Machine) updateSpecials() bool {
	pending := m.board.PendingSpecials()
	if len(pending) == 0 {
		return true
	}
	c := pending[0]
	res, err := m.board.Activate(c, m.rules)
	if err != nil {
		m.log.Error("activation failed", "at", c, "err", err)
		_, _ = m.board.Clear(c)
		return false
	}
	m.stats.Activations++
	if res.Points > 0 {
		m.scorer.AddScore(res.Points)
	}
	m.scorer.AddSpecialBonus()
	if res.SkipSpawn {
		m.skipSpawn = true
	}
	m.presenter.Play(Effect{Kind: EffectActivate, From: c, To: c, Ability: res.Ability, Color: res.Color, Value: res.Points, Cells: res.Affected})
	m.log.Debug("special activated", "at", c, "ability", res.Ability, "affected", len(res.Affected), "points", res.Points)
	return false
}

func (m *Machine) enterSpawning() {
	if m.skipSpawn {
		m.skipSpawn = false
		m.presenter.Play(Effect{Kind: EffectFreeze})
		m.log.Info("spawn skipped by freeze")
		return
	}
	for i := 0; i < m.rules.SpawnPerTurn; i++ {
		if !m.spawnOne(true) {
			break
		}
	}
}

// SpawnInitial places n regular tiles on random free cells and returns how many fit.
func (m *Machine) SpawnInitial(n int) int {
	placed := 0
	for i := 0; i < n; i++ {
		if !m.spawnOne(false) {
			break
		}
		placed++
	}
	return placed
}

func (m *Machine) spawnOne(allowSpecial bool) bool {
	free := m.board.EmptyCells()
	if len(free) == 0 {
		m.log.Debug("no free cell to spawn into")
		return false
	}
	c := free[m.rng.Intn(len(free))]
	palette := Palette(m.rules.Colors)
	color := palette[m.rng.Intn(len(palette))]

	var t *Tile
	if allowSpecial && len(m.rules.Abilities) > 0 && m.rng.Float64() < m.rules.SpecialChance {
		t = NewSpecial(m.ids.Next(), m.rules.Abilities[m.rng.Intn(len(m.rules.Abilities))], color)
	} else {
		span := m.rules.SpawnMaxValue - m.rules.SpawnMinValue + 1
		t = NewTile(m.ids.Next(), m.rules.SpawnMinValue+m.rng.Intn(span), color)
	}
	if err := m.board.Place(c, t); err != nil {
		m.log.Error("spawn failed", "at", c, "err", err)
		return false
	}
	m.stats.Spawns++
	m.presenter.Play(Effect{Kind: EffectSpawn, TileID: t.ID, From: c, To: c, Value: t.Value, Color: t.Color, Ability: t.Ability})
	return true
}

func (m *Machine) enterGameOver() {
	s := m.Stats()
	m.log.Info("game over", "turns", s.Turns, "merges", s.Merges, "splits", s.Splits, "max", s.MaxValue)
}

func (m *Machine) enterLevelComplete() {
	s := m.Stats()
	m.log.Info("level complete", "turns", s.Turns, "merges", s.Merges, "splits", s.Splits, "max", s.MaxValue)
}
