package game

type Rules interface {
	AttackDice(troops int) int  // Dice the attacker rolls from a territory holding troops
	DefendDice(troops int) int  // Dice the defender rolls for a territory holding troops
	CanAttackFrom(troops int) bool
	DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int)
}

// Randomizer is the only source of nondeterminism in the game.
// Intn returns a uniformly distributed value in [0, n).
type Randomizer interface {
	Intn(n int) int
}
