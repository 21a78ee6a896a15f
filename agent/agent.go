package agent

import "wargames/game"

type Agent interface {
	// FindMove returns the next action for the current player. It never mutates state.
	FindMove(state *game.GameState) game.Action
}

// New returns the agent registered under name: "rule" or "random".
func New(name string, rng game.Randomizer) (Agent, bool) {
	switch name {
	case "rule":
		return NewRuleAgent(rng), true
	case "random":
		return NewRandomAgent(rng), true
	default:
		return nil, false
	}
}
