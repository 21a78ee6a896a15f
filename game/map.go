package game

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type Territory struct {
	ID           int     // Stable identifier, also the index into state slices
	Name         string  // Full name of the territory
	Abbreviation string  // Four-letter short name
	Continent    string  // One of the six continent names
	Longitude    float64 // Map anchor for presenters
	Latitude     float64
	Alignment    Faction // Owner at game start
	AdjacentIDs  []int   // IDs of adjacent territories
}

// Continent groups territories that grant Bonus troops when held by one faction.
type Continent struct {
	Name         string
	Bonus        int
	TerritoryIDs []int
}

// Map is the static game board. It is never mutated once built.
type Map struct {
	Territories []*Territory // Indexed by territory ID
	Continents  []*Continent // Fixed bonus evaluation order
}

// NewMap creates and returns an empty Map.
func NewMap() *Map {
	return &Map{}
}

// AddTerritory adds a territory, which must carry the next free ID.
func (m *Map) AddTerritory(t *Territory) {
	if t.ID != len(m.Territories) {
		panic(fmt.Sprintf("territory %s added out of order: id %d, expected %d", t.Abbreviation, t.ID, len(m.Territories)))
	}
	m.Territories = append(m.Territories, t)

	for _, c := range m.Continents {
		if c.Name == t.Continent {
			c.TerritoryIDs = append(c.TerritoryIDs, t.ID)
			return
		}
	}
	panic(fmt.Sprintf("territory %s names unknown continent %q", t.Abbreviation, t.Continent))
}

// AddContinent registers a continent before its territories are added.
func (m *Map) AddContinent(name string, bonus int) {
	m.Continents = append(m.Continents, &Continent{Name: name, Bonus: bonus})
}

// AddBorder adds a bidirectional border between two territories.
func (m *Map) AddBorder(id1, id2 int) {
	if !slices.Contains(m.Territories[id1].AdjacentIDs, id2) {
		m.Territories[id1].AdjacentIDs = append(m.Territories[id1].AdjacentIDs, id2)
	}
	if !slices.Contains(m.Territories[id2].AdjacentIDs, id1) {
		m.Territories[id2].AdjacentIDs = append(m.Territories[id2].AdjacentIDs, id1)
	}
}

// AreAdjacent checks if two territories share a border.
func (m *Map) AreAdjacent(id1, id2 int) bool {
	if !m.Valid(id1) || !m.Valid(id2) {
		return false
	}
	return slices.Contains(m.Territories[id1].AdjacentIDs, id2)
}

// Valid reports whether id names a territory on this map.
func (m *Map) Valid(id int) bool {
	return id >= 0 && id < len(m.Territories)
}

func (m *Map) Continent(name string) *Continent {
	for _, c := range m.Continents {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Lookup finds a territory by its abbreviation.
func (m *Map) Lookup(abbrev string) (*Territory, bool) {
	for _, t := range m.Territories {
		if t.Abbreviation == abbrev {
			return t, true
		}
	}
	return nil, false
}

// CreateMap builds the 42-territory world board.
func CreateMap() *Map {
	m := NewMap()
	for _, c := range continentData {
		m.AddContinent(c.name, c.bonus)
	}
	for id, row := range territoryData {
		m.AddTerritory(&Territory{
			ID:           id,
			Name:         row.name,
			Abbreviation: row.abbrev,
			Continent:    row.continent,
			Longitude:    row.lon,
			Latitude:     row.lat,
			Alignment:    row.alignment,
			AdjacentIDs:  []int{},
		})
	}
	for id, row := range territoryData {
		for _, adj := range row.adjacent {
			m.AddBorder(id, adj)
		}
	}
	return m
}

// GLOBAL DATA

const (
	NorthAmerica = "North America"
	SouthAmerica = "South America"
	Europe       = "Europe"
	Africa       = "Africa"
	Asia         = "Asia"
	Australia    = "Australia"
)

var continentData = []struct {
	name  string
	bonus int
}{
	{NorthAmerica, 5},
	{SouthAmerica, 2},
	{Europe, 5},
	{Africa, 3},
	{Asia, 7},
	{Australia, 2},
}

// Initial alignment follows Cold War blocs: NATO holds North America, Western Europe,
// Japan and Oceania; the Warsaw Pact holds the Soviet sphere; the rest is non-aligned.
var territoryData = []struct {
	name, abbrev, continent string
	lon, lat                float64
	alignment               Faction
	adjacent                []int
}{
	{"Alaska", "ALSK", NorthAmerica, -150, 63, NATO, []int{1, 3, 37}},
	{"Northwest Territory", "NWTR", NorthAmerica, -120, 67, NATO, []int{0, 2, 3, 4}},
	{"Greenland", "GRLD", NorthAmerica, -42, 72, NATO, []int{1, 4, 5, 13}},
	{"Alberta", "ALBT", NorthAmerica, -115, 55, NATO, []int{0, 1, 4, 6}},
	{"Ontario", "ONTR", NorthAmerica, -88, 52, NATO, []int{1, 2, 3, 5, 6, 7}},
	{"Quebec", "QUBC", NorthAmerica, -72, 52, NATO, []int{2, 4, 7}},
	{"Western US", "WUSA", NorthAmerica, -110, 40, NATO, []int{3, 4, 7, 8}},
	{"Eastern US", "EUSA", NorthAmerica, -82, 36, NATO, []int{4, 5, 6, 8}},
	{"Central America", "CAME", NorthAmerica, -95, 20, NATO, []int{6, 7, 9}},
	{"Venezuela", "VNZL", SouthAmerica, -67, 8, NonAligned, []int{8, 10, 11}},
	{"Brazil", "BRZL", SouthAmerica, -50, -10, NonAligned, []int{9, 11, 12, 21}},
	{"Peru", "PERU", SouthAmerica, -75, -12, NonAligned, []int{9, 10, 12}},
	{"Argentina", "ARGN", SouthAmerica, -63, -35, NonAligned, []int{10, 11}},
	{"Iceland", "ICLD", Europe, -20, 65, NATO, []int{2, 14, 15}},
	{"Scandinavia", "SCAN", Europe, 15, 62, Warsaw, []int{13, 15, 17, 19}},
	{"Great Britain", "GRBR", Europe, -3, 55, NATO, []int{13, 14, 16, 17}},
	{"Western Europe", "WEUR", Europe, 2, 46, NATO, []int{15, 17, 18, 21}},
	{"Northern Europe", "NEUR", Europe, 15, 52, NATO, []int{14, 15, 16, 18, 19}},
	{"Southern Europe", "SEUR", Europe, 18, 43, NonAligned, []int{16, 17, 19, 21, 22, 35}},
	{"Ukraine", "UKRN", Europe, 38, 52, Warsaw, []int{14, 17, 18, 26, 35, 30}},
	{"Madagascar", "MDGS", Africa, 47, -20, NonAligned, []int{23, 24}},
	{"North Africa", "NAFR", Africa, 5, 25, NonAligned, []int{10, 16, 18, 22, 23, 25}},
	{"Egypt", "EGPT", Africa, 30, 27, NonAligned, []int{18, 21, 23, 35}},
	{"East Africa", "EAFR", Africa, 35, 0, NonAligned, []int{20, 21, 22, 24, 25}},
	{"South Africa", "SAFR", Africa, 25, -30, NonAligned, []int{20, 23, 25}},
	{"Congo", "CONG", Africa, 20, -5, NonAligned, []int{21, 23, 24}},
	{"Ural", "URAL", Asia, 60, 60, Warsaw, []int{19, 27, 30, 33}},
	{"Siberia", "SIBR", Asia, 90, 65, Warsaw, []int{26, 28, 29, 31, 33}},
	{"Yakutsk", "YAKT", Asia, 130, 64, Warsaw, []int{27, 29, 37}},
	{"Irkutsk", "IRKT", Asia, 105, 55, Warsaw, []int{27, 28, 31, 37}},
	{"Afghanistan", "AFGH", Asia, 65, 35, Warsaw, []int{19, 26, 33, 34, 35}},
	{"Mongolia", "MNGL", Asia, 105, 47, Warsaw, []int{27, 29, 33, 37}},
	{"Japan", "JAPN", Asia, 138, 37, NATO, []int{37}},
	{"China", "CHIN", Asia, 98, 35, Warsaw, []int{26, 27, 30, 31, 34, 36}},
	{"India", "INDA", Asia, 78, 22, Warsaw, []int{30, 33, 35, 36}},
	{"Middle East", "MDST", Asia, 45, 30, NonAligned, []int{18, 19, 22, 30, 34}},
	{"Siam", "SIAM", Asia, 102, 15, Warsaw, []int{33, 34, 38}},
	{"Kamchatka", "KMCH", Asia, 160, 60, Warsaw, []int{0, 28, 29, 31, 32}},
	{"Indonesia", "INDO", Australia, 115, -3, NATO, []int{36, 39, 40}},
	{"New Guinea", "NGUI", Australia, 145, -5, NATO, []int{38, 40, 41}},
	{"W. Australia", "WAUS", Australia, 125, -28, NATO, []int{38, 39, 41}},
	{"E. Australia", "EAUS", Australia, 148, -27, NATO, []int{39, 40}},
}
