package searcher

import (
	"wargames/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const WIN = 1.0  // Reward for the winner of a playout
const LOSS = 0.0 // Reward for everyone else, also used as virtual loss

// MaxCutoff bounds a rollout when no cutoff is configured.
const MaxCutoff = 400

type Node interface {
	// SelectOrExpand descends one level, applying the chosen action to state.
	// It returns the node itself when it is terminal.
	SelectOrExpand(state *game.GameState) (child Node, expanded bool)
	Backup(reward Reward) Node
	Visits() int
	applyLoss()
	score(normalizer float64) float64
}

// Reward scores a finished or cut off playout for each faction, in [LOSS, WIN].
type Reward func(player game.Faction) float64

func winnerReward(winner game.Faction) Reward {
	return func(player game.Faction) float64 {
		if player == winner {
			return WIN
		}
		return LOSS
	}
}
