package game

// ComputeReinforcement returns the troops a faction receives at the start of its turn:
// one per three territories (at least three) plus the bonus of every continent it holds whole.
// It depends on ownership only.
func ComputeReinforcement(m *Map, ownership []Faction, f Faction) int {
	numTerritories := 0
	for _, owner := range ownership {
		if owner == f {
			numTerritories++
		}
	}
	troops := max(MIN_REINFORCEMENTS, numTerritories/3)

	for _, continent := range m.Continents {
		if getContinentOwner(continent, ownership) == f {
			troops += continent.Bonus
		}
	}
	return troops
}

func (gs *GameState) ComputeReinforcement(f Faction) int {
	return ComputeReinforcement(gs.Map, gs.Ownership, f)
}

// getContinentOwner returns the faction holding every territory of the continent, or None if split
func getContinentOwner(continent *Continent, ownership []Faction) Faction {
	if len(continent.TerritoryIDs) == 0 {
		return None
	}
	owner := ownership[continent.TerritoryIDs[0]]
	for _, id := range continent.TerritoryIDs[1:] {
		if ownership[id] != owner {
			return None
		}
	}
	return owner
}

func (gs *GameState) TerritoriesOwned(f Faction) int {
	count := 0
	for _, owner := range gs.Ownership {
		if owner == f {
			count++
		}
	}
	return count
}

func (gs *GameState) TotalTroops(f Faction) int {
	troops := 0
	for id, owner := range gs.Ownership {
		if owner == f {
			troops += gs.TroopCounts[id]
		}
	}
	return troops
}

// ContinentsOwned lists the continents f holds whole, in bonus order.
func (gs *GameState) ContinentsOwned(f Faction) []string {
	names := []string{}
	for _, continent := range gs.Map.Continents {
		if getContinentOwner(continent, gs.Ownership) == f {
			names = append(names, continent.Name)
		}
	}
	return names
}

// OwnedTerritories lists the IDs held by f in ascending order.
func (gs *GameState) OwnedTerritories(f Faction) []int {
	ids := []int{}
	for id, owner := range gs.Ownership {
		if owner == f {
			ids = append(ids, id)
		}
	}
	return ids
}

type Standing struct {
	Faction        Faction
	Territories    int
	Troops         int
	Continents     []string
	SpecialAttacks int
	Active         bool
}

// Standings summarizes every faction, in turn order.
func (gs *GameState) Standings() []Standing {
	standings := make([]Standing, 0, len(Factions))
	for _, f := range Factions {
		territories := gs.TerritoriesOwned(f)
		standings = append(standings, Standing{
			Faction:        f,
			Territories:    territories,
			Troops:         gs.TotalTroops(f),
			Continents:     gs.ContinentsOwned(f),
			SpecialAttacks: gs.SpecialAttacks[f],
			Active:         territories > 0,
		})
	}
	return standings
}
