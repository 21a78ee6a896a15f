package metrics

import (
	"sync/atomic"
	"time"

	"wargames/game"
)

type TurnMetric struct {
	Turn      int          // Game turn number the turn was played in
	Player    game.Faction // Faction that played the turn
	Actions   int          // Decisions taken, including rejected ones
	Rejected  int          // Decisions the game refused
	Attacks   int
	Conquests int  // Territories captured
	Capped    bool // Whether the action limit forced the turn to end
	Duration  time.Duration
}

type GameMetric struct {
	StartingPlayer game.Faction
	Winner         game.Faction // None when the turn limit was reached
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	Turns          int // Turn number reached
	TotalActions   int
}

type Collector interface {
	Start(player game.Faction, turn int)
	AddAction(action game.Action, result *game.AttackResult, err error)
	SetCapped(value bool)
	Complete() TurnMetric
}

type collector struct {
	player    game.Faction
	turn      int
	startTime time.Time
	actions   atomic.Int32
	rejected  atomic.Int32
	attacks   atomic.Int32
	conquests atomic.Int32
	capped    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(player game.Faction, turn int) {
	m.startTime = time.Now()
	m.player = player
	m.turn = turn
}

func (m *collector) AddAction(action game.Action, result *game.AttackResult, err error) {
	m.actions.Add(1)
	if err != nil {
		m.rejected.Add(1)
		return
	}
	if result != nil {
		m.attacks.Add(1)
		m.conquests.Add(int32(len(result.Captured)))
	}
}

func (m *collector) SetCapped(value bool) {
	m.capped.Store(value)
}

func (m *collector) Complete() TurnMetric {
	return TurnMetric{
		Turn:      m.turn,
		Player:    m.player,
		Actions:   int(m.actions.Load()),
		Rejected:  int(m.rejected.Load()),
		Attacks:   int(m.attacks.Load()),
		Conquests: int(m.conquests.Load()),
		Capped:    m.capped.Load(),
		Duration:  time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(player game.Faction, turn int)              {}
func (m *dummyCollector) AddAction(game.Action, *game.AttackResult, error) {}
func (m *dummyCollector) SetCapped(value bool)                             {}
func (m *dummyCollector) Complete() TurnMetric                             { return TurnMetric{} }
