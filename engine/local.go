package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"wargames/agent"
	"wargames/experiments/metrics"
	"wargames/game"
	"wargames/meta"
)

// LocalEngine runs a game in-process with every faction driven by an agent.
type LocalEngine struct {
	State    *game.GameState
	Agents   map[game.Faction]agent.Agent
	Runner   TurnRunner
	MaxTurns int

	collectMetrics bool
}

type Option func(*LocalEngine)

func WithMaxTurns(turns int) Option {
	return func(e *LocalEngine) {
		e.MaxTurns = turns
	}
}

func WithMaxActionsPerTurn(actions int) Option {
	return func(e *LocalEngine) {
		e.Runner.MaxActions = actions
	}
}

// WithMetrics collects per-turn metrics instead of discarding them.
func WithMetrics() Option {
	return func(e *LocalEngine) {
		e.collectMetrics = true
	}
}

func NewLocalEngine(state *game.GameState, agents map[game.Faction]agent.Agent, options ...Option) *LocalEngine {
	if len(agents) == 0 {
		panic("need at least one agent")
	}

	e := &LocalEngine{
		State:    state,
		Agents:   agents,
		Runner:   NewTurnRunner(),
		MaxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until a winner is found.
func (e *LocalEngine) Run(ctx context.Context) (game.Faction, metrics.GameMetric, []metrics.TurnMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.CurrentPlayer,
		Winner:         game.None,
		StartTime:      time.Now(),
	}
	turnMetrics := []metrics.TurnMetric{}

	log.Info().Msgf("%s is starting", e.State.CurrentPlayer)

	for !e.State.IsOver() && e.State.TurnNumber <= e.MaxTurns {
		player := e.State.CurrentPlayer
		a, ok := e.Agents[player]
		if !ok {
			return game.None, gameMetric, turnMetrics, fmt.Errorf("no agent for %s", player)
		}

		collector := metrics.NewCollector()
		if err := e.Runner.Play(ctx, e.State, a, collector); err != nil {
			return game.None, gameMetric, turnMetrics, fmt.Errorf("turn %d of %s: %w", e.State.TurnNumber, player, err)
		}

		turnMetric := collector.Complete()
		gameMetric.TotalActions += turnMetric.Actions
		if e.collectMetrics {
			turnMetrics = append(turnMetrics, turnMetric)
		}
	}

	gameMetric.Winner = e.State.Winner
	gameMetric.Turns = e.State.TurnNumber
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)

	if e.State.Winner != game.None {
		log.Info().Msgf("game ended on turn %d with winner %s", e.State.TurnNumber, e.State.Winner)
	} else {
		log.Info().Msgf("stopped after %d turns without a winner", e.MaxTurns)
	}

	return e.State.Winner, gameMetric, turnMetrics, nil
}
