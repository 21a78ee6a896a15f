package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newAttackState(t *testing.T) *GameState {
	t.Helper()
	gs := newTestState(t)
	gs.Phase = AttackPhase
	gs.Reinforcements = 0
	return gs
}

func TestAttack(t *testing.T) {
	t.Run("conquest moves one troop per attacking die", func(t *testing.T) {
		gs := newAttackState(t)
		setTerritory(gs, 15, NATO, 5)
		setTerritory(gs, 14, Warsaw, 1)
		gs.SetRandomizer(dice(6, 5, 4, 3))

		result, err := gs.Attack(15, 14)
		require.NoError(t, err)
		require.Equal(t, []int{6, 5, 4}, result.AttackDice)
		require.Equal(t, []int{3}, result.DefendDice)
		require.Equal(t, 0, result.AttackLoss)
		require.Equal(t, 1, result.DefendLoss)
		require.True(t, result.Conquered)
		require.Equal(t, []int{14}, result.Captured)

		require.Equal(t, NATO, gs.Ownership[14])
		require.Equal(t, 3, gs.TroopCounts[14])
		require.Equal(t, 2, gs.TroopCounts[15])
		require.Equal(t, result, gs.LastAttack)
		require.Equal(t, AttackPhase, gs.Phase, "attacking does not end the phase")
	})

	t.Run("small attacker moves what it can", func(t *testing.T) {
		gs := newAttackState(t)
		setTerritory(gs, 15, NATO, 2)
		setTerritory(gs, 14, Warsaw, 1)
		gs.SetRandomizer(dice(6, 1))

		result, err := gs.Attack(15, 14)
		require.NoError(t, err)
		require.True(t, result.Conquered)
		require.Equal(t, 1, gs.TroopCounts[14])
		require.Equal(t, 1, gs.TroopCounts[15])
	})

	t.Run("ties favor the defender", func(t *testing.T) {
		gs := newAttackState(t)
		setTerritory(gs, 15, NATO, 3)
		setTerritory(gs, 14, Warsaw, 2)
		gs.SetRandomizer(dice(4, 4, 4, 4))

		result, err := gs.Attack(15, 14)
		require.NoError(t, err)
		require.Equal(t, 2, result.AttackLoss)
		require.Equal(t, 0, result.DefendLoss)
		require.False(t, result.Conquered)
		require.Nil(t, result.Captured)
		require.Equal(t, 1, gs.TroopCounts[15])
		require.Equal(t, 2, gs.TroopCounts[14])
		require.Equal(t, Warsaw, gs.Ownership[14])
	})

	t.Run("split outcome", func(t *testing.T) {
		gs := newAttackState(t)
		setTerritory(gs, 15, NATO, 4)
		setTerritory(gs, 14, Warsaw, 3)
		// attacker 6,2,1 against defender 5,3
		gs.SetRandomizer(dice(2, 6, 1, 3, 5))

		result, err := gs.Attack(15, 14)
		require.NoError(t, err)
		require.Equal(t, []int{6, 2, 1}, result.AttackDice)
		require.Equal(t, []int{5, 3}, result.DefendDice)
		require.Equal(t, 1, result.AttackLoss)
		require.Equal(t, 1, result.DefendLoss)
		require.Equal(t, 3, gs.TroopCounts[15])
		require.Equal(t, 2, gs.TroopCounts[14])
	})

	t.Run("losses always match compared dice", func(t *testing.T) {
		for seed := uint64(1); seed <= 200; seed++ {
			gs := NewGameState(CreateMap(), NewStandardRules(), WithRandomizer(NewRandomizer(seed)))
			gs.Phase = AttackPhase
			attackers := 2 + int(seed%6)
			defenders := 1 + int(seed%3)
			setTerritory(gs, 15, NATO, attackers)
			setTerritory(gs, 14, Warsaw, defenders)
			total := gs.TotalTroops(NATO) + gs.TotalTroops(Warsaw)

			result, err := gs.Attack(15, 14)
			require.NoError(t, err)

			compared := min(len(result.AttackDice), len(result.DefendDice))
			require.Equal(t, min(3, attackers-1), len(result.AttackDice))
			require.Equal(t, min(2, defenders), len(result.DefendDice))
			require.Equal(t, compared, result.AttackLoss+result.DefendLoss, "seed %d", seed)
			require.Equal(t, total-compared, gs.TotalTroops(NATO)+gs.TotalTroops(Warsaw), "seed %d", seed)
			requireValidBoard(t, gs)
		}
	})

	t.Run("taking the last territory wins the game", func(t *testing.T) {
		gs := newAttackState(t)
		for id := range gs.Ownership {
			setTerritory(gs, id, NATO, 3)
		}
		setTerritory(gs, 37, Warsaw, 1)
		gs.ActivePlayers = []Faction{NATO, Warsaw}
		gs.SetRandomizer(dice(6, 6, 1))

		result, err := gs.Attack(32, 37)
		require.NoError(t, err)
		require.True(t, result.Conquered)
		require.Equal(t, NATO, gs.Winner)
		require.Equal(t, GameOverPhase, gs.Phase)
		require.False(t, gs.CanAttack(0, 1))
	})

	t.Run("conquest eliminates a faction", func(t *testing.T) {
		gs := newAttackState(t)
		for id, owner := range gs.Ownership {
			if owner == Warsaw {
				gs.Ownership[id] = NonAligned
			}
		}
		setTerritory(gs, 14, Warsaw, 1)
		setTerritory(gs, 15, NATO, 4)
		gs.SetRandomizer(dice(6, 6, 6, 1))

		_, err := gs.Attack(15, 14)
		require.NoError(t, err)
		require.Equal(t, []Faction{NATO, NonAligned}, gs.ActivePlayers)
		require.Equal(t, None, gs.Winner)
		require.Equal(t, AttackPhase, gs.Phase)
	})

	t.Run("rejections leave the state untouched", func(t *testing.T) {
		tests := []struct {
			name     string
			prepare  func(gs *GameState)
			from, to int
			err      error
		}{
			{"wrong phase", func(gs *GameState) { gs.Phase = ReinforcePhase }, 15, 14, ErrWrongPhase},
			{"not owner", func(gs *GameState) {}, 14, 15, ErrNotOwner},
			{"own territory", func(gs *GameState) {}, 15, 16, ErrOwnTerritory},
			{"not adjacent", func(gs *GameState) {}, 15, 19, ErrNotAdjacent},
			{"single troop", func(gs *GameState) { gs.TroopCounts[15] = 1 }, 15, 14, ErrInsufficientTroops},
			{"unknown territory", func(gs *GameState) {}, 15, 100, ErrUnknownTerritory},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				gs := newAttackState(t)
				tt.prepare(gs)
				before, hash := gs.Copy(), gs.Hash()

				require.False(t, gs.CanAttack(tt.from, tt.to))
				result, err := gs.Attack(tt.from, tt.to)
				require.ErrorIs(t, err, tt.err)
				require.Nil(t, result)
				require.Equal(t, hash, gs.Hash())
				require.Equal(t, before, gs)
			})
		}
	})
}

func TestStandardRules(t *testing.T) {
	sr := NewStandardRules()

	require.Equal(t, 0, sr.AttackDice(1))
	require.Equal(t, 1, sr.AttackDice(2))
	require.Equal(t, 3, sr.AttackDice(10))
	require.Equal(t, 1, sr.DefendDice(1))
	require.Equal(t, 2, sr.DefendDice(7))
	require.False(t, sr.CanAttackFrom(1))
	require.True(t, sr.CanAttackFrom(2))

	atkLoss, defLoss := sr.DetermineAttackOutcome([]int{6, 3, 2}, []int{5, 3})
	require.Equal(t, 1, atkLoss)
	require.Equal(t, 1, defLoss)
}

func TestRollDice(t *testing.T) {
	rolls := rollDice(dice(2, 5, 3), 3)
	require.Equal(t, []int{5, 3, 2}, rolls)

	r := NewRandomizer(3)
	for i := 0; i < 100; i++ {
		for _, roll := range rollDice(r, 3) {
			require.GreaterOrEqual(t, roll, 1)
			require.LessOrEqual(t, roll, 6)
		}
	}
}
