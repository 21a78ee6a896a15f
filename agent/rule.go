package agent

import "wargames/game"

// MIN_ADVANTAGE is the troop lead the rule agent needs before it attacks.
const MIN_ADVANTAGE = 2

type ruleAgent struct {
	rng game.Randomizer
}

// NewRuleAgent returns the built-in opponent. rng is only used when no border territory exists.
func NewRuleAgent(rng game.Randomizer) Agent {
	return ruleAgent{rng: rng}
}

func (a ruleAgent) FindMove(gs *game.GameState) game.Action {
	return Decide(gs, a.rng)
}

// Decide picks the rule agent's action for the current phase:
// reinforce the weakest border, attack where the lead is largest, then
// pull the strongest interior garrison forward. It never uses special attacks.
func Decide(gs *game.GameState, rng game.Randomizer) game.Action {
	switch gs.Phase {
	case game.ReinforcePhase:
		return decideReinforcement(gs, rng)
	case game.AttackPhase:
		return decideAttack(gs)
	case game.FortifyPhase:
		return decideFortify(gs)
	default:
		return game.NewEndTurnAction()
	}
}

func decideReinforcement(gs *game.GameState, rng game.Randomizer) game.Action {
	owned := gs.OwnedTerritories(gs.CurrentPlayer)
	if len(owned) == 0 {
		return game.NewEndTurnAction()
	}

	target := -1
	for _, id := range owned {
		if !gs.IsBorder(id) {
			continue
		}
		if target == -1 || gs.TroopCounts[id] < gs.TroopCounts[target] {
			target = id
		}
	}
	if target == -1 {
		target = owned[rng.Intn(len(owned))]
	}
	return game.NewReinforceAction(target)
}

func decideAttack(gs *game.GameState) game.Action {
	bestFrom, bestTo, bestAdvantage := -1, -1, 0

	for _, from := range gs.OwnedTerritories(gs.CurrentPlayer) {
		if !gs.Rules.CanAttackFrom(gs.TroopCounts[from]) {
			continue
		}
		for _, to := range gs.Map.Territories[from].AdjacentIDs {
			if gs.Ownership[to] == gs.CurrentPlayer {
				continue
			}
			if advantage := gs.TroopCounts[from] - gs.TroopCounts[to]; advantage > bestAdvantage {
				bestFrom, bestTo, bestAdvantage = from, to, advantage
			}
		}
	}

	if bestFrom >= 0 && bestAdvantage >= MIN_ADVANTAGE {
		return game.NewAttackAction(bestFrom, bestTo)
	}
	return game.NewEndPhaseAction()
}

func decideFortify(gs *game.GameState) game.Action {
	from := -1
	for _, id := range gs.OwnedTerritories(gs.CurrentPlayer) {
		if gs.IsBorder(id) || gs.TroopCounts[id] <= 1 {
			continue
		}
		if from == -1 || gs.TroopCounts[id] > gs.TroopCounts[from] {
			from = id
		}
	}
	if from == -1 {
		return game.NewEndTurnAction()
	}

	// Only the strongest interior is considered
	to := -1
	for _, id := range gs.OwnedTerritories(gs.CurrentPlayer) {
		if !gs.IsBorder(id) || !gs.Map.AreAdjacent(from, id) {
			continue
		}
		if to == -1 || gs.TroopCounts[id] < gs.TroopCounts[to] {
			to = id
		}
	}
	if to == -1 {
		return game.NewEndTurnAction()
	}
	return game.NewFortifyAction(from, to, gs.TroopCounts[from]-1)
}
