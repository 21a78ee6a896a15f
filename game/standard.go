package game

import (
	"sort"

	"golang.org/x/exp/rand"
)

type StandardRules struct {
	MaxAttackDice   int
	MaxDefendDice   int
	MinAttackTroops int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		MaxAttackDice:   3,
		MaxDefendDice:   2,
		MinAttackTroops: 2,
	}
}

// AttackDice keeps one troop home.
func (sr *StandardRules) AttackDice(troops int) int {
	return max(0, min(sr.MaxAttackDice, troops-1))
}

func (sr *StandardRules) DefendDice(troops int) int {
	return max(0, min(sr.MaxDefendDice, troops))
}

func (sr *StandardRules) CanAttackFrom(troops int) bool {
	return troops >= sr.MinAttackTroops
}

// DetermineAttackOutcome compares sorted rolls pairwise. Ties go to the defender.
func (sr *StandardRules) DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int) {
	battles := min(len(attackerRolls), len(defenderRolls))
	for i := 0; i < battles; i++ {
		if attackerRolls[i] > defenderRolls[i] {
			defenderLosses++
		} else {
			attackerLosses++
		}
	}
	return
}

// NewRandomizer returns a seeded source. A zero seed is a valid seed.
func NewRandomizer(seed uint64) Randomizer {
	return rand.New(rand.NewSource(seed))
}

func rollDice(r Randomizer, num int) []int {
	rolls := make([]int, num)
	for i := 0; i < num; i++ {
		rolls[i] = r.Intn(6) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
	return rolls
}
