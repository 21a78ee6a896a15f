package searcher

import (
	"sync"

	"wargames/game"
)

// chance is the node after a dice-driven action; its children are the
// outcomes seen so far, told apart by state hash.
type chance struct {
	sync.Mutex
	parent   Node
	player   game.Faction
	children []*decision
	rewards  float64
	visits   int
}

func newChance(parent *decision, player game.Faction) *chance {
	return &chance{
		parent: parent,
		player: player,
	}
}

// SelectOrExpand expects state to already carry the rolled outcome.
func (c *chance) SelectOrExpand(state *game.GameState) (Node, bool) {
	c.Lock()
	defer c.Unlock()

	// Select if explored outcome
	expanded := false
	child := c.selects(state.Hash())
	// Expand if unexplored outcome
	if child == nil {
		child = newDecision(c, c.player, state)
		c.children = append(c.children, child)
		expanded = true
	}

	child.applyLoss()
	return child, expanded
}

func (c *chance) selects(hash game.StateHash) *decision {
	for _, child := range c.children {
		if child.hash == hash {
			return child
		}
	}
	return nil
}

func (c *chance) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.rewards += LOSS
	c.visits++
}

func (c *chance) score(normalizer float64) float64 {
	c.Lock()
	defer c.Unlock()

	return ucb1(c.rewards, c.visits, normalizer)
}

func (c *chance) Backup(reward Reward) Node {
	c.Lock()
	defer c.Unlock()

	c.reverseLoss()

	c.rewards += reward(c.player)
	c.visits++

	return c.parent
}

func (c *chance) reverseLoss() {
	c.rewards -= LOSS
	c.visits--
}

func (c *chance) Visits() int {
	c.Lock()
	defer c.Unlock()

	return c.visits
}
