package core

// Rules parameterizes the engine.
type Rules struct {
	// SplitThreshold is the largest value a tile may hold once a turn resolves.
	SplitThreshold int

	SpawnPerTurn  int
	SpawnMinValue int
	SpawnMaxValue int
	Colors        int

	// SpecialChance is the probability that a spawned tile is special.
	SpecialChance float64
	Abilities     []Ability

	MergeMultiplier int // merge points = resulting value × multiplier
	SplitPoints     int // points per split
	PaintPoints     int // points per recoloured tile

	// JoinTimeoutTicks bounds how long a phase boundary waits for the presenter.
	JoinTimeoutTicks int
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		SplitThreshold:   12,
		SpawnPerTurn:     1,
		SpawnMinValue:    1,
		SpawnMaxValue:    3,
		Colors:           3,
		SpecialChance:    0.08,
		Abilities:        []Ability{AbilityBlaster, AbilityDoubler, AbilityPainter, AbilityFreeze},
		MergeMultiplier:  1,
		SplitPoints:      10,
		PaintPoints:      2,
		JoinTimeoutTicks: 120,
	}
}

// normalized clamps out-of-range values so the engine can always run.
func (r Rules) normalized() Rules {
	d := DefaultRules()
	if r.SplitThreshold < 2 {
		r.SplitThreshold = d.SplitThreshold
	}
	if r.SpawnPerTurn < 0 {
		r.SpawnPerTurn = 0
	}
	if r.SpawnMinValue < 1 {
		r.SpawnMinValue = 1
	}
	if r.SpawnMaxValue < r.SpawnMinValue {
		r.SpawnMaxValue = r.SpawnMinValue
	}
	if r.SpawnMaxValue > r.SplitThreshold {
		r.SpawnMaxValue = r.SplitThreshold
	}
	if r.SpawnMinValue > r.SpawnMaxValue {
		r.SpawnMinValue = r.SpawnMaxValue
	}
	if r.Colors < 1 || r.Colors > int(ColorCount) {
		r.Colors = d.Colors
	}
	if r.SpecialChance < 0 {
		r.SpecialChance = 0
	}
	if r.SpecialChance > 1 {
		r.SpecialChance = 1
	}
	if r.MergeMultiplier < 0 {
		r.MergeMultiplier = 0
	}
	if r.JoinTimeoutTicks < 1 {
		r.JoinTimeoutTicks = d.JoinTimeoutTicks
	}
	abilities := make([]Ability, 0, len(r.Abilities))
	for _, a := range r.Abilities {
		if a != AbilityNone {
			abilities = append(abilities, a)
		}
	}
	r.Abilities = abilities
	return r
}
