package searcher

import "wargames/game"

// Evaluate scores a non-terminal state for every faction.
type Evaluate func(state *game.GameState) Reward

// EvaluateTerritories rewards each faction with its share of the map.
func EvaluateTerritories(state *game.GameState) Reward {
	total := float64(len(state.Map.Territories))
	return func(player game.Faction) float64 {
		return float64(state.TerritoriesOwned(player)) / total
	}
}

// EvaluateResources averages the territory share, the troop share and the
// share of income a faction would collect next turn.
func EvaluateResources(state *game.GameState) Reward {
	territories := float64(len(state.Map.Territories))
	troops, income := 0, 0
	for _, f := range game.Factions {
		troops += state.TotalTroops(f)
		if state.TerritoriesOwned(f) > 0 {
			income += state.ComputeReinforcement(f)
		}
	}

	return func(player game.Faction) float64 {
		owned := state.TerritoriesOwned(player)
		if owned == 0 {
			return LOSS
		}
		score := float64(owned) / territories
		if troops > 0 {
			score += float64(state.TotalTroops(player)) / float64(troops)
		}
		if income > 0 {
			score += float64(state.ComputeReinforcement(player)) / float64(income)
		}
		return score / 3
	}
}
