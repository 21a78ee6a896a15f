package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedDice replays die faces in order, wrapping around when exhausted.
type scriptedDice struct {
	faces []int
	calls int
}

func dice(faces ...int) *scriptedDice {
	return &scriptedDice{faces: faces}
}

func (d *scriptedDice) Intn(n int) int {
	face := d.faces[d.calls%len(d.faces)]
	d.calls++
	return (face - 1) % n
}

func newTestState(t *testing.T) *GameState {
	t.Helper()
	return NewGameState(CreateMap(), NewStandardRules(), WithRandomizer(NewRandomizer(7)))
}

func setTerritory(gs *GameState, id int, owner Faction, troops int) {
	gs.Ownership[id] = owner
	gs.TroopCounts[id] = troops
}

func requireValidBoard(t *testing.T, gs *GameState) {
	t.Helper()
	for id := range gs.Map.Territories {
		require.GreaterOrEqual(t, gs.TroopCounts[id], 1, "territory %d should keep at least one troop", id)
		require.NotEqual(t, None, gs.Ownership[id], "territory %d should have an owner", id)
	}
}

func TestNewGameState(t *testing.T) {
	gs := newTestState(t)

	require.Len(t, gs.Ownership, 42)
	require.Equal(t, NATO, gs.CurrentPlayer, "NATO moves first")
	require.Equal(t, []Faction{NATO, Warsaw, NonAligned}, gs.ActivePlayers)
	require.Equal(t, ReinforcePhase, gs.Phase)
	require.Equal(t, 1, gs.TurnNumber)
	require.Equal(t, None, gs.Winner)
	require.Equal(t, 13, gs.Reinforcements, "18 territories, North America and Australia")
	require.Nil(t, gs.LastAttack)

	for _, f := range Factions {
		require.Equal(t, 1, gs.SpecialAttacks[f], "%s should start with one special attack", f)
		require.Equal(t, 0, gs.LastSpecialAttackTurn[f])
	}
	for id, territory := range gs.Map.Territories {
		require.Equal(t, territory.Alignment, gs.Ownership[id])
		require.GreaterOrEqual(t, gs.TroopCounts[id], 3)
		require.LessOrEqual(t, gs.TroopCounts[id], 5)
	}

	t.Run("options", func(t *testing.T) {
		gs := NewGameState(CreateMap(), NewStandardRules(),
			WithHuman(Warsaw),
			WithRandomizer(dice(1)),
			WithInitialTroops(2, 2))

		require.True(t, gs.IsHuman(Warsaw))
		require.False(t, gs.IsHuman(NATO))
		for id := range gs.Map.Territories {
			require.Equal(t, 2, gs.TroopCounts[id])
		}
	})

	t.Run("same seed deals the same board", func(t *testing.T) {
		a := NewGameState(CreateMap(), NewStandardRules(), WithRandomizer(NewRandomizer(99)))
		b := NewGameState(CreateMap(), NewStandardRules(), WithRandomizer(NewRandomizer(99)))
		require.Equal(t, a.TroopCounts, b.TroopCounts)
		require.Equal(t, a.Hash(), b.Hash())
	})
}

func TestPlaceReinforcement(t *testing.T) {
	t.Run("last troop opens the attack phase", func(t *testing.T) {
		gs := newTestState(t)
		gs.Reinforcements = 1
		before := gs.TroopCounts[0]

		require.NoError(t, gs.PlaceReinforcement(0))
		require.Equal(t, 0, gs.Reinforcements)
		require.Equal(t, AttackPhase, gs.Phase)
		require.Equal(t, before+1, gs.TroopCounts[0])
	})

	t.Run("phase holds while troops remain", func(t *testing.T) {
		gs := newTestState(t)
		require.NoError(t, gs.PlaceReinforcement(4))
		require.Equal(t, 12, gs.Reinforcements)
		require.Equal(t, ReinforcePhase, gs.Phase)
	})

	t.Run("rejections leave the state untouched", func(t *testing.T) {
		tests := []struct {
			name    string
			prepare func(gs *GameState)
			id      int
			err     error
		}{
			{"enemy territory", func(gs *GameState) {}, 14, ErrNotOwner},
			{"unknown territory", func(gs *GameState) {}, 42, ErrUnknownTerritory},
			{"negative territory", func(gs *GameState) {}, -1, ErrUnknownTerritory},
			{"wrong phase", func(gs *GameState) { gs.Phase = AttackPhase }, 0, ErrWrongPhase},
			{"nothing left", func(gs *GameState) { gs.Reinforcements = 0 }, 0, ErrNoReinforcements},
			{"game over", func(gs *GameState) { gs.Phase = GameOverPhase }, 0, ErrGameOver},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				gs := newTestState(t)
				tt.prepare(gs)
				before, hash := gs.Copy(), gs.Hash()

				err := gs.PlaceReinforcement(tt.id)
				require.ErrorIs(t, err, tt.err)
				require.Equal(t, hash, gs.Hash())
				require.Equal(t, before, gs)
			})
		}
	})
}

func TestEndAttackPhase(t *testing.T) {
	gs := newTestState(t)
	require.ErrorIs(t, gs.EndAttackPhase(), ErrWrongPhase)

	gs.Phase = AttackPhase
	require.NoError(t, gs.EndAttackPhase())
	require.Equal(t, FortifyPhase, gs.Phase)
}

func TestFortify(t *testing.T) {
	newFortifyState := func(t *testing.T) *GameState {
		gs := newTestState(t)
		gs.Phase = FortifyPhase
		setTerritory(gs, 4, NATO, 6)
		setTerritory(gs, 5, NATO, 1)
		return gs
	}

	t.Run("moves troops and keeps the phase", func(t *testing.T) {
		gs := newFortifyState(t)
		moved, err := gs.Fortify(4, 5, 3)
		require.NoError(t, err)
		require.Equal(t, 3, moved)
		require.Equal(t, 3, gs.TroopCounts[4])
		require.Equal(t, 4, gs.TroopCounts[5])
		require.Equal(t, FortifyPhase, gs.Phase)

		_, err = gs.Fortify(5, 4, 1)
		require.NoError(t, err, "fortify may repeat")
	})

	t.Run("count is clamped to leave one troop", func(t *testing.T) {
		gs := newFortifyState(t)
		moved, err := gs.Fortify(4, 5, 50)
		require.NoError(t, err)
		require.Equal(t, 5, moved)
		require.Equal(t, 1, gs.TroopCounts[4])
		require.Equal(t, 6, gs.TroopCounts[5])
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			from, to int
			count    int
			err      error
		}{
			{"zero count", 4, 5, 0, ErrInvalidCount},
			{"negative count", 4, 5, -2, ErrInvalidCount},
			{"source of one", 5, 4, 1, ErrInsufficientTroops},
			{"not adjacent", 4, 0, 1, ErrNotAdjacent},
			{"enemy target", 17, 14, 1, ErrNotOwner},
			{"unknown", 4, 99, 1, ErrUnknownTerritory},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				gs := newFortifyState(t)
				hash := gs.Hash()
				_, err := gs.Fortify(tt.from, tt.to, tt.count)
				require.ErrorIs(t, err, tt.err)
				require.Equal(t, hash, gs.Hash())
			})
		}
	})

	t.Run("only in fortify phase", func(t *testing.T) {
		gs := newFortifyState(t)
		gs.Phase = AttackPhase
		require.False(t, gs.CanFortify(4, 5))
		_, err := gs.Fortify(4, 5, 1)
		require.ErrorIs(t, err, ErrWrongPhase)
	})
}

func TestEndTurn(t *testing.T) {
	t.Run("rotation wraps to the first player", func(t *testing.T) {
		gs := newTestState(t)
		gs.CurrentPlayer = NonAligned
		gs.Phase = FortifyPhase
		gs.Reinforcements = 0

		require.NoError(t, gs.EndTurn())
		require.Equal(t, NATO, gs.CurrentPlayer)
		require.Equal(t, 2, gs.TurnNumber)
		require.Equal(t, ReinforcePhase, gs.Phase)
		require.Equal(t, gs.ComputeReinforcement(NATO), gs.Reinforcements)
	})

	t.Run("turn number holds mid rotation", func(t *testing.T) {
		gs := newTestState(t)
		gs.Phase = FortifyPhase

		require.NoError(t, gs.EndTurn())
		require.Equal(t, Warsaw, gs.CurrentPlayer)
		require.Equal(t, 1, gs.TurnNumber)
		require.Equal(t, 4, gs.Reinforcements)

		require.NoError(t, gs.EndTurn())
		require.Equal(t, NonAligned, gs.CurrentPlayer)
		require.Equal(t, 9, gs.Reinforcements, "South America and Africa")
	})

	t.Run("special attacks granted on turn 11", func(t *testing.T) {
		gs := newTestState(t)
		gs.CurrentPlayer = NonAligned
		gs.TurnNumber = 10

		require.NoError(t, gs.EndTurn())
		require.Equal(t, 11, gs.TurnNumber)
		for _, f := range Factions {
			require.Equal(t, 2, gs.SpecialAttacks[f])
		}

		gs.CurrentPlayer = NonAligned
		require.NoError(t, gs.EndTurn())
		require.Equal(t, 12, gs.TurnNumber)
		require.Equal(t, 2, gs.SpecialAttacks[NATO], "no grant outside the interval")
	})

	t.Run("eliminated faction is skipped", func(t *testing.T) {
		gs := newTestState(t)
		for id, owner := range gs.Ownership {
			if owner == Warsaw {
				gs.Ownership[id] = NATO
			}
		}
		gs.Phase = FortifyPhase

		require.NoError(t, gs.EndTurn())
		require.Equal(t, NonAligned, gs.CurrentPlayer)
		require.Equal(t, []Faction{NATO, NonAligned}, gs.ActivePlayers)
		require.Equal(t, None, gs.Winner)
	})

	t.Run("last faction standing wins", func(t *testing.T) {
		gs := newTestState(t)
		for id := range gs.Ownership {
			gs.Ownership[id] = NATO
		}
		gs.Phase = FortifyPhase

		require.NoError(t, gs.EndTurn())
		require.Equal(t, NATO, gs.Winner)
		require.Equal(t, GameOverPhase, gs.Phase)
		require.Equal(t, []Faction{NATO}, gs.ActivePlayers)

		require.ErrorIs(t, gs.EndTurn(), ErrGameOver)
		require.ErrorIs(t, gs.PlaceReinforcement(0), ErrGameOver)
		_, err := gs.Attack(0, 1)
		require.ErrorIs(t, err, ErrGameOver)
	})
}

func TestHalt(t *testing.T) {
	t.Run("ends the game without a winner", func(t *testing.T) {
		gs := newTestState(t)
		gs.Halt()
		require.True(t, gs.IsOver())
		require.Equal(t, None, gs.Winner)
		require.Zero(t, gs.Reinforcements)
		require.Empty(t, gs.LegalActions())
		require.ErrorIs(t, gs.PlaceReinforcement(0), ErrGameOver)
	})

	t.Run("keeps a decided winner", func(t *testing.T) {
		gs := newTestState(t)
		gs.Phase = GameOverPhase
		gs.Winner = Warsaw
		gs.Halt()
		require.Equal(t, Warsaw, gs.Winner)
	})
}

func TestCopy(t *testing.T) {
	gs := newTestState(t)
	gs.LastAttack = &AttackResult{From: 1, To: 2, AttackDice: []int{6}}

	c := gs.Copy()
	require.Equal(t, gs, c)
	require.Equal(t, gs.Hash(), c.Hash())

	c.TroopCounts[0] = 99
	c.Ownership[1] = Warsaw
	c.SpecialAttacks[NATO] = 5
	c.ActivePlayers[0] = NonAligned
	c.LastAttack.AttackDice[0] = 1

	require.NotEqual(t, 99, gs.TroopCounts[0])
	require.Equal(t, NATO, gs.Ownership[1])
	require.Equal(t, 1, gs.SpecialAttacks[NATO])
	require.Equal(t, NATO, gs.ActivePlayers[0])
	require.Equal(t, 6, gs.LastAttack.AttackDice[0])
	require.NotEqual(t, gs.Hash(), c.Hash())
}

func TestIsBorder(t *testing.T) {
	gs := newTestState(t)
	require.False(t, gs.IsBorder(4), "Ontario is surrounded by NATO")
	require.True(t, gs.IsBorder(8), "Central America touches Venezuela")
	require.True(t, gs.IsBorder(0), "Alaska touches Kamchatka")
}

func TestPhaseText(t *testing.T) {
	var p Phase
	require.NoError(t, p.UnmarshalText([]byte("fortify")))
	require.Equal(t, FortifyPhase, p)
	require.Error(t, p.UnmarshalText([]byte("aiTurn")))
	require.Equal(t, "gameOver", GameOverPhase.String())
}
