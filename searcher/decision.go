package searcher

import (
	"fmt"
	"math"
	"sync"

	"wargames/game"
)

// decision is a node where a player picks an action.
type decision struct {
	sync.Mutex
	parent   Node
	player   game.Faction // player whose action led here
	hash     game.StateHash
	actions  []game.Action
	children []Node
	rewards  float64
	visits   int
}

func newDecision(parent Node, player game.Faction, state *game.GameState) *decision {
	var actions []game.Action
	if !state.IsOver() {
		actions = state.LegalActions()
	}
	return &decision{
		parent:   parent,
		player:   player,
		hash:     state.Hash(),
		actions:  actions,
		children: make([]Node, 0, len(actions)),
	}
}

func (d *decision) SelectOrExpand(state *game.GameState) (Node, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.actions) == 0 { // Terminal node
		return d, false
	}

	mover := state.CurrentPlayer
	if len(d.actions) > len(d.children) { // Expandable node
		action := d.actions[len(d.children)]
		play(state, action)

		var child Node
		if action.IsStochastic() {
			child = newChance(d, mover)
		} else {
			child = newDecision(d, mover, state)
		}
		d.children = append(d.children, child)
		child.applyLoss()
		// A chance node still has to pick the outcome
		return child, !action.IsStochastic()
	}

	// Fully expanded node
	ith := d.pickChild()
	play(state, d.actions[ith])
	child := d.children[ith]
	child.applyLoss()
	return child, false
}

func (d *decision) pickChild() int {
	normalizer := CSquared * math.Log(float64(max(d.visits, 1)))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(normalizer)
		if score == math.Inf(1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) score(normalizer float64) float64 {
	d.Lock()
	defer d.Unlock()

	return ucb1(d.rewards, d.visits, normalizer)
}

func (d *decision) Backup(reward Reward) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.player)
	d.visits++

	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

func (d *decision) Visits() int {
	d.Lock()
	defer d.Unlock()

	return d.visits
}

// bestAction returns the most visited action, the first one on ties.
func (d *decision) bestAction() (game.Action, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.children) == 0 {
		return game.Action{}, false
	}

	bestIndex := 0
	maxVisits := d.children[0].Visits()
	for i, child := range d.children[1:] {
		if v := child.Visits(); v > maxVisits {
			maxVisits = v
			bestIndex = i + 1
		}
	}
	return d.actions[bestIndex], true
}

// Policy maps every expanded action to its share of the visits.
func (d *decision) Policy() map[game.Action]float64 {
	d.Lock()
	defer d.Unlock()

	total := 0
	for _, child := range d.children {
		total += child.Visits()
	}

	policy := make(map[game.Action]float64, len(d.children))
	for i, child := range d.children {
		if total > 0 {
			policy[d.actions[i]] = float64(child.Visits()) / float64(total)
		}
	}
	return policy
}

func play(state *game.GameState, action game.Action) {
	if _, err := state.Apply(action); err != nil {
		panic(fmt.Sprintf("legal action %s was rejected: %v", action, err))
	}
}
