package core

// RuntimeConfig is handed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed for deterministic play
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is what the platform needs to know about a running game.
type GameState struct {
	Score    int
	Moves    int
	MaxTile  int    // largest tile on the board
	Level    string // level ID, empty in endless mode
	GameOver bool   // lost, or the campaign is finished
	Won      bool   // the campaign was completed
	Paused   bool
}

// LevelClear reports a finished campaign level.
type LevelClear struct {
	LevelID string
	Score   int // points earned on this level
	Moves   int
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State   GameState
	Cleared []LevelClear
}
