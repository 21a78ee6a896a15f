package communication

import (
	"context"
	"fmt"

	"wargames/game"
)

// Communicator is what a remote player needs from a running game.
type Communicator interface {
	GetState(ctx context.Context) (StateView, error)
	GetMap(ctx context.Context) (MapView, error)
	LegalActions(ctx context.Context) ([]game.Action, error)
	SendAction(ctx context.Context, action game.Action) (ActionResponse, error)
	Reset(ctx context.Context) (StateView, error)
}

type TerritoryInfo struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Abbreviation string       `json:"abbreviation"`
	Continent    string       `json:"continent"`
	Longitude    float64      `json:"longitude"`
	Latitude     float64      `json:"latitude"`
	Alignment    game.Faction `json:"alignment"`
	Adjacent     []int        `json:"adjacent"`
}

type ContinentInfo struct {
	Name        string `json:"name"`
	Bonus       int    `json:"bonus"`
	Territories []int  `json:"territories"`
}

// MapView is the static catalog, sent once to presenters.
type MapView struct {
	Territories []TerritoryInfo `json:"territories"`
	Continents  []ContinentInfo `json:"continents"`
}

func NewMapView(m *game.Map) MapView {
	view := MapView{
		Territories: make([]TerritoryInfo, 0, len(m.Territories)),
		Continents:  make([]ContinentInfo, 0, len(m.Continents)),
	}
	for _, t := range m.Territories {
		view.Territories = append(view.Territories, TerritoryInfo{
			ID:           t.ID,
			Name:         t.Name,
			Abbreviation: t.Abbreviation,
			Continent:    t.Continent,
			Longitude:    t.Longitude,
			Latitude:     t.Latitude,
			Alignment:    t.Alignment,
			Adjacent:     append([]int{}, t.AdjacentIDs...),
		})
	}
	for _, c := range m.Continents {
		view.Continents = append(view.Continents, ContinentInfo{
			Name:        c.Name,
			Bonus:       c.Bonus,
			Territories: append([]int{}, c.TerritoryIDs...),
		})
	}
	return view
}

type TerritoryState struct {
	ID     int          `json:"id"`
	Owner  game.Faction `json:"owner"`
	Troops int          `json:"troops"`
}

type AttackResultView struct {
	From       int   `json:"from"`
	To         int   `json:"to"`
	AttackDice []int `json:"attackDice"`
	DefendDice []int `json:"defendDice"`
	AttackLoss int   `json:"attackLoss"`
	DefendLoss int   `json:"defendLoss"`
	Conquered  bool  `json:"conquered"`
	Special    bool  `json:"special"`
	Captured   []int `json:"captured"`
}

func NewAttackResultView(r *game.AttackResult) *AttackResultView {
	if r == nil {
		return nil
	}
	return &AttackResultView{
		From:       r.From,
		To:         r.To,
		AttackDice: append([]int{}, r.AttackDice...),
		DefendDice: append([]int{}, r.DefendDice...),
		AttackLoss: r.AttackLoss,
		DefendLoss: r.DefendLoss,
		Conquered:  r.Conquered,
		Special:    r.Special,
		Captured:   append([]int{}, r.Captured...),
	}
}

type StandingView struct {
	Faction        game.Faction `json:"faction"`
	Name           string       `json:"name"`
	Territories    int          `json:"territories"`
	Troops         int          `json:"troops"`
	Continents     []string     `json:"continents"`
	SpecialAttacks int          `json:"specialAttacks"`
	Active         bool         `json:"active"`
}

// StateView is everything a presenter needs to draw one moment of the game.
type StateView struct {
	Session               string               `json:"session"`
	Human                 game.Faction         `json:"human"`
	CurrentPlayer         game.Faction         `json:"currentPlayer"`
	ActivePlayers         []game.Faction       `json:"activePlayers"`
	Phase                 game.Phase           `json:"phase"`
	TurnNumber            int                  `json:"turnNumber"`
	Reinforcements        int                  `json:"reinforcements"`
	SpecialAttacks        map[game.Faction]int `json:"specialAttacks"`
	LastSpecialAttackTurn map[game.Faction]int `json:"lastSpecialAttackTurn"`
	Winner                game.Faction         `json:"winner"`
	Territories           []TerritoryState     `json:"territories"`
	LastAttack            *AttackResultView    `json:"lastAttack,omitempty"`
	Standings             []StandingView       `json:"standings"`
}

func NewStateView(session string, gs *game.GameState) StateView {
	view := StateView{
		Session:               session,
		Human:                 gs.Human,
		CurrentPlayer:         gs.CurrentPlayer,
		ActivePlayers:         append([]game.Faction{}, gs.ActivePlayers...),
		Phase:                 gs.Phase,
		TurnNumber:            gs.TurnNumber,
		Reinforcements:        gs.Reinforcements,
		SpecialAttacks:        map[game.Faction]int{},
		LastSpecialAttackTurn: map[game.Faction]int{},
		Winner:                gs.Winner,
		Territories:           make([]TerritoryState, len(gs.Ownership)),
		LastAttack:            NewAttackResultView(gs.LastAttack),
	}
	for f, n := range gs.SpecialAttacks {
		view.SpecialAttacks[f] = n
	}
	for f, turn := range gs.LastSpecialAttackTurn {
		view.LastSpecialAttackTurn[f] = turn
	}
	for id, owner := range gs.Ownership {
		view.Territories[id] = TerritoryState{ID: id, Owner: owner, Troops: gs.TroopCounts[id]}
	}
	for _, s := range gs.Standings() {
		view.Standings = append(view.Standings, StandingView{
			Faction:        s.Faction,
			Name:           s.Faction.String(),
			Territories:    s.Territories,
			Troops:         s.Troops,
			Continents:     s.Continents,
			SpecialAttacks: s.SpecialAttacks,
			Active:         s.Active,
		})
	}
	return view
}

// GameState rebuilds a playable state on m so that a remote agent can decide on it.
// Dice rolled on the result are local and never reach the server.
func (v StateView) GameState(m *game.Map) (*game.GameState, error) {
	if len(v.Territories) != len(m.Territories) {
		return nil, fmt.Errorf("state has %d territories, map has %d", len(v.Territories), len(m.Territories))
	}

	gs := game.NewGameState(m, game.NewStandardRules(),
		game.WithHuman(v.Human),
		game.WithRandomizer(game.NewRandomizer(uint64(v.TurnNumber))))
	for _, t := range v.Territories {
		if !m.Valid(t.ID) {
			return nil, fmt.Errorf("%w: %d", game.ErrUnknownTerritory, t.ID)
		}
		gs.Ownership[t.ID] = t.Owner
		gs.TroopCounts[t.ID] = t.Troops
	}
	gs.CurrentPlayer = v.CurrentPlayer
	gs.ActivePlayers = append([]game.Faction{}, v.ActivePlayers...)
	gs.Phase = v.Phase
	gs.TurnNumber = v.TurnNumber
	gs.Reinforcements = v.Reinforcements
	gs.Winner = v.Winner
	for f, n := range v.SpecialAttacks {
		gs.SpecialAttacks[f] = n
	}
	for f, turn := range v.LastSpecialAttackTurn {
		gs.LastSpecialAttackTurn[f] = turn
	}
	return gs, nil
}

// ActionResponse answers a submitted action with its outcome and the state after
// every AI turn that followed.
type ActionResponse struct {
	Result *AttackResultView `json:"result,omitempty"`
	State  StateView         `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateMessage is pushed over the websocket: "state" on connect, "update" for every
// applied action, "reset" for a new board, "over" when the turn limit stops the game
// and "error" when a client action is refused.
type UpdateMessage struct {
	Type   string            `json:"type"`
	Player game.Faction      `json:"player"`
	Action *game.Action      `json:"action,omitempty"`
	Result *AttackResultView `json:"result,omitempty"`
	State  *StateView        `json:"state,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// AttackResult converts the view back into the game's result type.
func (v *AttackResultView) AttackResult() *game.AttackResult {
	if v == nil {
		return nil
	}
	return &game.AttackResult{
		From:       v.From,
		To:         v.To,
		AttackDice: append([]int(nil), v.AttackDice...),
		DefendDice: append([]int(nil), v.DefendDice...),
		AttackLoss: v.AttackLoss,
		DefendLoss: v.DefendLoss,
		Conquered:  v.Conquered,
		Special:    v.Special,
		Captured:   append([]int(nil), v.Captured...),
	}
}
