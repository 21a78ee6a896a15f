package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wargames/game"
)

func newState(t *testing.T) *game.GameState {
	t.Helper()
	return game.NewGameState(game.CreateMap(), game.NewStandardRules(),
		game.WithRandomizer(game.NewRandomizer(5)),
		game.WithInitialTroops(3, 3))
}

func TestDecideReinforcement(t *testing.T) {
	t.Run("weakest border first found", func(t *testing.T) {
		gs := newState(t)
		gs.TroopCounts[8] = 1  // Central America, border
		gs.TroopCounts[13] = 1 // Iceland, border, later id
		gs.TroopCounts[4] = 1  // Ontario, interior

		action := Decide(gs, game.NewRandomizer(1))
		require.Equal(t, game.NewReinforceAction(8), action)
	})

	t.Run("random territory when nothing borders an enemy", func(t *testing.T) {
		gs := newState(t)
		for id := range gs.Ownership {
			gs.Ownership[id] = game.NATO
		}
		action := Decide(gs, game.NewRandomizer(1))
		require.Equal(t, game.ReinforceAction, action.Type)
		require.True(t, gs.Map.Valid(action.To))
	})

	t.Run("end turn without territory", func(t *testing.T) {
		gs := newState(t)
		gs.CurrentPlayer = game.Warsaw
		for id, owner := range gs.Ownership {
			if owner == game.Warsaw {
				gs.Ownership[id] = game.NATO
			}
		}
		require.Equal(t, game.NewEndTurnAction(), Decide(gs, game.NewRandomizer(1)))
	})
}

func TestDecideAttack(t *testing.T) {
	newAttackState := func(t *testing.T) *game.GameState {
		gs := newState(t)
		gs.Phase = game.AttackPhase
		gs.Reinforcements = 0
		return gs
	}

	t.Run("largest advantage", func(t *testing.T) {
		gs := newAttackState(t)
		gs.TroopCounts[15] = 6 // Great Britain vs Scandinavia (3)
		gs.TroopCounts[8] = 8  // Central America vs Venezuela
		gs.TroopCounts[9] = 2

		require.Equal(t, game.NewAttackAction(8, 9), Decide(gs, nil))
	})

	t.Run("ties keep the first pair", func(t *testing.T) {
		gs := newAttackState(t)
		gs.TroopCounts[8] = 6  // vs Venezuela (3)
		gs.TroopCounts[15] = 6 // vs Scandinavia (3)

		require.Equal(t, game.NewAttackAction(8, 9), Decide(gs, nil))
	})

	t.Run("needs a lead of two", func(t *testing.T) {
		gs := newAttackState(t)
		gs.TroopCounts[8] = 4 // lead of one at best

		require.Equal(t, game.NewEndPhaseAction(), Decide(gs, nil))

		gs.TroopCounts[8] = 5
		require.Equal(t, game.NewAttackAction(8, 9), Decide(gs, nil))
	})

	t.Run("every chosen attack is legal", func(t *testing.T) {
		gs := newAttackState(t)
		gs.TroopCounts[0] = 9
		action := Decide(gs, nil)
		require.Equal(t, game.AttackAction, action.Type)
		require.True(t, gs.CanAttack(action.From, action.To))
	})
}

func TestDecideFortify(t *testing.T) {
	newFortifyState := func(t *testing.T) *game.GameState {
		gs := newState(t)
		gs.Phase = game.FortifyPhase
		gs.Reinforcements = 0
		return gs
	}

	t.Run("strongest interior to weakest adjacent border", func(t *testing.T) {
		gs := newFortifyState(t)
		gs.Ownership[5] = game.Warsaw // Quebec turns Greenland and Ontario into borders
		gs.TroopCounts[3] = 7         // Alberta, interior
		gs.TroopCounts[1] = 9         // Northwest Territory, interior and stronger
		gs.TroopCounts[2] = 2         // Greenland
		gs.TroopCounts[4] = 1         // Ontario

		require.Equal(t, game.NewFortifyAction(1, 4, 8), Decide(gs, nil))
	})

	t.Run("interior without border neighbour ends the turn", func(t *testing.T) {
		gs := newFortifyState(t)
		for id := range gs.Ownership {
			gs.Ownership[id] = game.NATO
		}
		gs.Ownership[41] = game.Warsaw
		gs.TroopCounts[4] = 9

		require.Equal(t, game.NewEndTurnAction(), Decide(gs, nil))
	})

	t.Run("no interior with spare troops", func(t *testing.T) {
		gs := newFortifyState(t)
		for id := range gs.TroopCounts {
			gs.TroopCounts[id] = 1
		}
		require.Equal(t, game.NewEndTurnAction(), Decide(gs, nil))
	})
}

func TestDecideDoesNotMutate(t *testing.T) {
	gs := newState(t)
	for _, phase := range []game.Phase{game.ReinforcePhase, game.AttackPhase, game.FortifyPhase, game.GameOverPhase} {
		gs.Phase = phase
		hash := gs.Hash()
		Decide(gs, game.NewRandomizer(2))
		require.Equal(t, hash, gs.Hash(), phase.String())
	}
}

func TestRandomAgent(t *testing.T) {
	gs := newState(t)
	a := NewRandomAgent(game.NewRandomizer(9))
	for i := 0; i < 20; i++ {
		action := a.FindMove(gs)
		require.Contains(t, gs.LegalActions(), action)
	}

	gs.Phase = game.GameOverPhase
	require.Equal(t, game.NewEndTurnAction(), a.FindMove(gs))
}

func TestNew(t *testing.T) {
	a, ok := New("rule", game.NewRandomizer(1))
	require.True(t, ok)
	require.IsType(t, ruleAgent{}, a)

	a, ok = New("random", game.NewRandomizer(1))
	require.True(t, ok)
	require.IsType(t, randomAgent{}, a)

	_, ok = New("mcts", nil)
	require.False(t, ok)
}
