package game

import (
	"fmt"
	"strings"
)

// Faction identifies a competing side. Its value indexes per-faction counters.
type Faction int

const (
	None Faction = iota - 1 // No faction, e.g. no winner yet
	NATO
	Warsaw
	NonAligned
)

// Factions lists every faction in turn order.
var Factions = []Faction{NATO, Warsaw, NonAligned}

var factionNames = map[Faction][2]string{
	NATO:       {"NATO", "NATO"},
	Warsaw:     {"WARSAW PACT", "USSR"},
	NonAligned: {"NON-ALIGNED", "NAM"},
}

func (f Faction) String() string {
	if names, ok := factionNames[f]; ok {
		return names[0]
	}
	return "NONE"
}

// ShortName is the abbreviated label shown on the map.
func (f Faction) ShortName() string {
	if names, ok := factionNames[f]; ok {
		return names[1]
	}
	return "-"
}

// ParseFaction accepts either the full or the short name, case-insensitively.
func ParseFaction(s string) (Faction, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "NONE" || s == "" {
		return None, nil
	}
	for f, names := range factionNames {
		if s == names[0] || s == names[1] {
			return f, nil
		}
	}
	return None, fmt.Errorf("unknown faction %q", s)
}

func (f Faction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Faction) UnmarshalText(text []byte) error {
	parsed, err := ParseFaction(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
