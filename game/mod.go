package game

import "errors"

const (
	SPECIAL_ATTACK_INTERVAL = 10 // Turn cycles between special attack grants
	INITIAL_SPECIAL_ATTACKS = 1
	DISPLAY_ATTACK_DICE     = 6 // Dice kept in a special attack result
	DISPLAY_DEFEND_DICE     = 4
	MIN_REINFORCEMENTS      = 3
)

// Rejections returned by the state mutators. The state is untouched whenever one is returned.
var (
	ErrGameOver           = errors.New("game is over")
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrUnknownTerritory   = errors.New("unknown territory")
	ErrNotOwner           = errors.New("territory not owned by current player")
	ErrOwnTerritory       = errors.New("cannot attack own territory")
	ErrNotAdjacent        = errors.New("territories are not adjacent")
	ErrInsufficientTroops = errors.New("not enough troops")
	ErrNoReinforcements   = errors.New("no reinforcements left")
	ErrNoSpecialAttacks   = errors.New("no special attacks available")
	ErrInvalidCount       = errors.New("invalid troop count")
	ErrUnknownAction      = errors.New("unknown action")
)

// StateHash fingerprints the rule-relevant part of a GameState.
type StateHash uint64
