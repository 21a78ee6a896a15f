package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegalActions(t *testing.T) {
	t.Run("reinforce on every owned territory", func(t *testing.T) {
		gs := newTestState(t)
		actions := gs.LegalActions()
		require.Len(t, actions, 18)
		for _, a := range actions {
			require.Equal(t, ReinforceAction, a.Type)
			require.Equal(t, NATO, gs.Ownership[a.To])
		}

		gs.Reinforcements = 0
		require.Empty(t, gs.LegalActions())
	})

	t.Run("attacks are all valid", func(t *testing.T) {
		gs := newAttackState(t)
		actions := gs.LegalActions()
		require.Equal(t, NewEndPhaseAction(), actions[len(actions)-1])

		special := 0
		for _, a := range actions[:len(actions)-1] {
			switch a.Type {
			case AttackAction:
				require.True(t, gs.CanAttack(a.From, a.To), a.String())
			case SpecialAttackAction:
				special++
				require.True(t, gs.CanSpecialAttack(a.From, a.To), a.String())
			default:
				t.Fatalf("unexpected action %s", a)
			}
		}
		require.Positive(t, special)

		gs.SpecialAttacks[NATO] = 0
		for _, a := range gs.LegalActions() {
			require.NotEqual(t, SpecialAttackAction, a.Type)
		}
	})

	t.Run("fortify amounts", func(t *testing.T) {
		gs := newTestState(t)
		gs.Phase = FortifyPhase
		for id := range gs.Ownership {
			gs.TroopCounts[id] = 1
		}
		gs.TroopCounts[32] = 9 // Japan has no friendly neighbour
		gs.TroopCounts[38] = 5

		actions := gs.LegalActions()
		require.Equal(t, NewEndTurnAction(), actions[len(actions)-1])
		require.ElementsMatch(t, []Action{
			NewFortifyAction(38, 39, 1), NewFortifyAction(38, 39, 2), NewFortifyAction(38, 39, 4),
			NewFortifyAction(38, 40, 1), NewFortifyAction(38, 40, 2), NewFortifyAction(38, 40, 4),
		}, actions[:len(actions)-1])
	})

	t.Run("nothing after the game ends", func(t *testing.T) {
		gs := newTestState(t)
		gs.Phase = GameOverPhase
		require.Nil(t, gs.LegalActions())
	})
}

func TestApply(t *testing.T) {
	gs := newTestState(t)
	gs.Reinforcements = 1
	gs.SetRandomizer(dice(6, 6, 6, 1, 1))

	result, err := gs.Apply(NewReinforceAction(15))
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, AttackPhase, gs.Phase)

	setTerritory(gs, 15, NATO, 5)
	setTerritory(gs, 14, Warsaw, 1)
	result, err = gs.Apply(NewAttackAction(15, 14))
	require.NoError(t, err)
	require.True(t, result.Conquered)

	_, err = gs.Apply(NewEndPhaseAction())
	require.NoError(t, err)
	require.Equal(t, FortifyPhase, gs.Phase)

	_, err = gs.Apply(NewFortifyAction(14, 15, 1))
	require.NoError(t, err)
	require.Equal(t, 3, gs.TroopCounts[15])

	_, err = gs.Apply(NewSpecialAttackAction(15, 19))
	require.ErrorIs(t, err, ErrWrongPhase)

	_, err = gs.Apply(Action{Type: ActionType(42)})
	require.ErrorIs(t, err, ErrUnknownAction)

	_, err = gs.Apply(NewEndTurnAction())
	require.NoError(t, err)
	require.Equal(t, Warsaw, gs.CurrentPlayer)
}

func TestActionType(t *testing.T) {
	var at ActionType
	require.NoError(t, at.UnmarshalText([]byte("special_attack")))
	require.Equal(t, SpecialAttackAction, at)
	require.ErrorIs(t, at.UnmarshalText([]byte("surrender")), ErrUnknownAction)

	require.Equal(t, "fortify 1->2 x3", NewFortifyAction(1, 2, 3).String())
	require.Equal(t, "end_turn", NewEndTurnAction().String())
	require.True(t, NewAttackAction(0, 1).IsStochastic())
	require.False(t, NewReinforceAction(0).IsStochastic())
}
