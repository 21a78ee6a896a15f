package game

// validateTarget checks the gating shared by standard and special attacks.
func (gs *GameState) validateTarget(from, to int) error {
	if err := gs.checkPhase(AttackPhase); err != nil {
		return err
	}
	if !gs.Map.Valid(from) || !gs.Map.Valid(to) {
		return ErrUnknownTerritory
	}
	if gs.Ownership[from] != gs.CurrentPlayer {
		return ErrNotOwner
	}
	if gs.Ownership[to] == gs.CurrentPlayer {
		return ErrOwnTerritory
	}
	if !gs.Map.AreAdjacent(from, to) {
		return ErrNotAdjacent
	}
	return nil
}

func (gs *GameState) validateAttack(from, to int) error {
	if err := gs.validateTarget(from, to); err != nil {
		return err
	}
	if !gs.Rules.CanAttackFrom(gs.TroopCounts[from]) {
		return ErrInsufficientTroops
	}
	return nil
}

func (gs *GameState) CanAttack(from, to int) bool {
	return gs.validateAttack(from, to) == nil
}

// Attack resolves a single dice round between two adjacent territories.
// On conquest the attacker moves in as many troops as it rolled dice, keeping one home.
func (gs *GameState) Attack(from, to int) (*AttackResult, error) {
	if err := gs.validateAttack(from, to); err != nil {
		return nil, err
	}

	attackerDice := gs.Rules.AttackDice(gs.TroopCounts[from])
	defenderDice := gs.Rules.DefendDice(gs.TroopCounts[to])
	attackerRolls := rollDice(gs.rng, attackerDice)
	defenderRolls := rollDice(gs.rng, defenderDice)

	attackerLosses, defenderLosses := gs.Rules.DetermineAttackOutcome(attackerRolls, defenderRolls)
	gs.TroopCounts[from] -= attackerLosses
	gs.TroopCounts[to] -= defenderLosses

	result := &AttackResult{
		From:       from,
		To:         to,
		AttackDice: attackerRolls,
		DefendDice: defenderRolls,
		AttackLoss: attackerLosses,
		DefendLoss: defenderLosses,
	}

	if gs.TroopCounts[to] <= 0 {
		moveTroops := max(1, min(gs.TroopCounts[from]-1, attackerDice))
		gs.Ownership[to] = gs.CurrentPlayer
		gs.TroopCounts[to] = moveTroops
		gs.TroopCounts[from] -= moveTroops
		result.Conquered = true
		result.Captured = []int{to}
	}

	gs.LastAttack = result.copy()
	if result.Conquered {
		gs.settleOwnership()
	}
	return result, nil
}
