package core

// ActivationResult reports what a special tile did.
type ActivationResult struct {
	Ability   Ability
	At        Coord
	Color     Color
	Affected  []Coord
	Points    int
	SkipSpawn bool
}

// Activator is the behaviour of one ability.
// Activate runs against the live board and always destroys the special tile at at.
type Activator interface {
	Activate(b *Board, at Coord, rules Rules) ActivationResult
}

var activators = map[Ability]Activator{
	AbilityBlaster: blaster{},
	AbilityDoubler: doubler{},
	AbilityPainter: painter{},
	AbilityFreeze:  freeze{},
}

// ActivatorFor returns the behaviour registered for an ability.
func ActivatorFor(a Ability) (Activator, bool) {
	act, ok := activators[a]
	return act, ok
}

// Activate fires the special tile at c.
func (b *Board) Activate(c Coord, rules Rules) (ActivationResult, error) {
	t, ok := b.TileAt(c)
	if !ok {
		return ActivationResult{}, ErrCellEmpty
	}
	act, ok := ActivatorFor(t.Ability)
	if !ok {
		return ActivationResult{}, ErrNotSpecial
	}
	return act.Activate(b, c, rules), nil
}

// targets returns the 8-neighbourhood of c with the last merged cell moved to the front.
func (b *Board) targets(c Coord) []Coord {
	ns := b.Neighbors8(c)
	lm, ok := b.LastMerged()
	if !ok || !c.Adjacent8(lm) {
		return ns
	}
	out := make([]Coord, 0, len(ns))
	out = append(out, lm)
	for _, n := range ns {
		if n != lm {
			out = append(out, n)
		}
	}
	return out
}

func (b *Board) consume(c Coord, res *ActivationResult) {
	if t, ok := b.TileAt(c); ok {
		res.Ability = t.Ability
		res.Color = t.Color
	}
	_, _ = b.Clear(c)
}

// blaster destroys every neighbour and scores their values.
type blaster struct{}

func (blaster) Activate(b *Board, at Coord, _ Rules) ActivationResult {
	res := ActivationResult{At: at}
	for _, n := range b.targets(at) {
		t, ok := b.TileAt(n)
		if !ok {
			continue
		}
		res.Points += t.Value
		if _, err := b.Clear(n); err == nil {
			res.Affected = append(res.Affected, n)
		}
	}
	b.consume(at, &res)
	return res
}

// doubler doubles every regular neighbour.
type doubler struct{}

func (doubler) Activate(b *Board, at Coord, _ Rules) ActivationResult {
	res := ActivationResult{At: at}
	for _, n := range b.targets(at) {
		t, ok := b.TileAt(n)
		if !ok || t.IsSpecial() {
			continue
		}
		t.Value *= 2
		t.TimesDoubled++
		res.Points += t.Value * t.TimesDoubled
		res.Affected = append(res.Affected, n)
	}
	b.consume(at, &res)
	return res
}

// painter recolours regular neighbours to its own colour.
type painter struct{}

func (painter) Activate(b *Board, at Coord, rules Rules) ActivationResult {
	res := ActivationResult{At: at}
	self, ok := b.TileAt(at)
	if !ok {
		return res
	}
	for _, n := range b.targets(at) {
		t, ok := b.TileAt(n)
		if !ok || t.IsSpecial() || t.Color == self.Color {
			continue
		}
		t.Color = self.Color
		res.Points += rules.PaintPoints
		res.Affected = append(res.Affected, n)
	}
	b.consume(at, &res)
	return res
}

// freeze cancels the next spawn.
type freeze struct{}

func (freeze) Activate(b *Board, at Coord, _ Rules) ActivationResult {
	res := ActivationResult{At: at, SkipSpawn: true}
	b.consume(at, &res)
	return res
}
