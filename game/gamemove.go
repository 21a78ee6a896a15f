package game

import "fmt"

// IsStochastic reports whether the outcome of the action depends on dice.
func (a Action) IsStochastic() bool {
	return a.Type == AttackAction || a.Type == SpecialAttackAction
}

// LegalActions returns every action the current player may take.
func (gs *GameState) LegalActions() []Action {
	switch gs.Phase {
	case ReinforcePhase:
		return gs.reinforcementActions()
	case AttackPhase:
		return gs.attackActions()
	case FortifyPhase:
		return gs.fortifyActions()
	default:
		return nil
	}
}

func (gs *GameState) reinforcementActions() []Action {
	actions := []Action{}
	if gs.Reinforcements <= 0 {
		return actions
	}
	for id, owner := range gs.Ownership {
		if owner == gs.CurrentPlayer {
			actions = append(actions, NewReinforceAction(id))
		}
	}
	return actions
}

func (gs *GameState) attackActions() []Action {
	actions := []Action{}
	special := gs.SpecialAttacks[gs.CurrentPlayer] > 0

	for id, owner := range gs.Ownership {
		if owner != gs.CurrentPlayer {
			continue
		}
		for _, adjID := range gs.Map.Territories[id].AdjacentIDs {
			if gs.CanAttack(id, adjID) {
				actions = append(actions, NewAttackAction(id, adjID))
			}
			if special && gs.CanSpecialAttack(id, adjID) {
				actions = append(actions, NewSpecialAttackAction(id, adjID))
			}
		}
	}

	return append(actions, NewEndPhaseAction())
}

func (gs *GameState) fortifyActions() []Action {
	actions := []Action{}

	for id, owner := range gs.Ownership {
		if owner != gs.CurrentPlayer || gs.TroopCounts[id] <= 1 {
			continue
		}
		maxTroops := gs.TroopCounts[id] - 1
		troopAmounts := []int{1}
		if half := maxTroops / 2; half > 1 {
			troopAmounts = append(troopAmounts, half)
		}
		if maxTroops > 1 {
			troopAmounts = append(troopAmounts, maxTroops)
		}
		for _, adjID := range gs.Map.Territories[id].AdjacentIDs {
			if gs.Ownership[adjID] != gs.CurrentPlayer {
				continue
			}
			for _, numTroops := range troopAmounts {
				actions = append(actions, NewFortifyAction(id, adjID, numTroops))
			}
		}
	}

	return append(actions, NewEndTurnAction())
}

// Apply executes an action through the matching mutator. The attack result is nil for
// actions that do not fight.
func (gs *GameState) Apply(a Action) (*AttackResult, error) {
	switch a.Type {
	case ReinforceAction:
		return nil, gs.PlaceReinforcement(a.To)
	case AttackAction:
		return gs.Attack(a.From, a.To)
	case SpecialAttackAction:
		return gs.SpecialAttack(a.From, a.To)
	case FortifyAction:
		_, err := gs.Fortify(a.From, a.To, a.NumTroops)
		return nil, err
	case EndPhaseAction:
		return nil, gs.EndAttackPhase()
	case EndTurnAction:
		return nil, gs.EndTurn()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a.Type))
	}
}
