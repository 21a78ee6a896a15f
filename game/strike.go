package game

import "golang.org/x/exp/slices"

func (gs *GameState) validateSpecialAttack(from, to int) error {
	if err := gs.validateTarget(from, to); err != nil {
		return err
	}
	if gs.SpecialAttacks[gs.CurrentPlayer] <= 0 {
		return ErrNoSpecialAttacks
	}
	pool := 0
	for _, tid := range gs.Region(from) {
		pool += max(0, gs.TroopCounts[tid]-1)
	}
	if pool < 1 {
		return ErrInsufficientTroops
	}
	return nil
}

func (gs *GameState) CanSpecialAttack(from, to int) bool {
	return gs.validateSpecialAttack(from, to) == nil
}

// Region returns the territories reachable from start through territories of the
// same owner and continent, in breadth-first order. start comes first.
func (gs *GameState) Region(start int) []int {
	owner := gs.Ownership[start]
	continent := gs.Map.Territories[start].Continent

	visited := map[int]bool{start: true}
	queue := []int{start}
	region := []int{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		for _, adjID := range gs.Map.Territories[current].AdjacentIDs {
			if visited[adjID] || gs.Ownership[adjID] != owner || gs.Map.Territories[adjID].Continent != continent {
				continue
			}
			visited[adjID] = true
			queue = append(queue, adjID)
		}
	}
	return region
}

// SpecialAttack launches a massive strike: every territory in the attacking region
// pools its spare troops, and the pool is split evenly across the defending region.
// Each defender is fought until its share of attackers or its garrison runs out.
// Conquered territories are left with a single troop.
func (gs *GameState) SpecialAttack(from, to int) (*AttackResult, error) {
	if err := gs.validateSpecialAttack(from, to); err != nil {
		return nil, err
	}

	gs.SpecialAttacks[gs.CurrentPlayer]--
	gs.LastSpecialAttackTurn[gs.CurrentPlayer] = gs.TurnNumber

	attackingRegion := gs.Region(from)
	defendingRegion := gs.Region(to)

	power := make([]int, len(attackingRegion))
	totalPower := 0
	for i, tid := range attackingRegion {
		power[i] = max(0, gs.TroopCounts[tid]-1)
		totalPower += power[i]
	}
	troopsPerDefender := max(1, totalPower/len(defendingRegion))

	result := &AttackResult{From: from, To: to, Special: true}
	var attackRolls, defendRolls []int

	for _, defenderID := range defendingRegion {
		remainingAttackers := troopsPerDefender
		remainingDefenders := gs.TroopCounts[defenderID]

		for remainingAttackers > 0 && remainingDefenders > 0 {
			// Allotted attackers carry no garrison of their own
			atkRolls := rollDice(gs.rng, gs.Rules.AttackDice(remainingAttackers+1))
			defRolls := rollDice(gs.rng, gs.Rules.DefendDice(remainingDefenders))
			attackRolls = append(attackRolls, atkRolls...)
			defendRolls = append(defendRolls, defRolls...)

			atkLoss, defLoss := gs.Rules.DetermineAttackOutcome(atkRolls, defRolls)
			remainingAttackers -= atkLoss
			remainingDefenders -= defLoss
			result.AttackLoss += atkLoss
			result.DefendLoss += defLoss
		}

		gs.TroopCounts[defenderID] = remainingDefenders
		if remainingDefenders <= 0 {
			gs.Ownership[defenderID] = gs.CurrentPlayer
			gs.TroopCounts[defenderID] = 1
			result.Captured = append(result.Captured, defenderID)
		}
	}

	gs.distributeAttackLosses(attackingRegion, power, totalPower, result.AttackLoss)

	result.AttackDice = attackRolls[:min(len(attackRolls), DISPLAY_ATTACK_DICE)]
	result.DefendDice = defendRolls[:min(len(defendRolls), DISPLAY_DEFEND_DICE)]
	result.Conquered = slices.Contains(result.Captured, to)

	gs.LastAttack = result.copy()
	if len(result.Captured) > 0 {
		gs.settleOwnership()
	}
	return result, nil
}

// distributeAttackLosses charges losses to each attacking territory in proportion to the
// troops it contributed. Rounding leftovers are taken one at a time from territories that
// can still spare a troop, and are dropped once none can.
func (gs *GameState) distributeAttackLosses(region []int, power []int, totalPower, totalLosses int) {
	if totalLosses <= 0 || totalPower <= 0 {
		return
	}

	remaining := totalLosses
	for i, tid := range region {
		losses := min(totalLosses*power[i]/totalPower, power[i])
		gs.TroopCounts[tid] -= losses
		remaining -= losses
	}

	for remaining > 0 {
		spare := false
		for _, tid := range region {
			if remaining == 0 {
				break
			}
			if gs.TroopCounts[tid] > 1 {
				gs.TroopCounts[tid]--
				remaining--
				spare = spare || gs.TroopCounts[tid] > 1
			}
		}
		if !spare {
			break
		}
	}
}
