package agent

import "wargames/game"

type randomAgent struct {
	rng game.Randomizer
}

// NewRandomAgent returns a baseline that picks uniformly among the legal actions.
func NewRandomAgent(rng game.Randomizer) Agent {
	return randomAgent{rng: rng}
}

func (a randomAgent) FindMove(gs *game.GameState) game.Action {
	actions := gs.LegalActions()
	if len(actions) == 0 {
		return game.NewEndTurnAction()
	}
	return actions[a.rng.Intn(len(actions))]
}
