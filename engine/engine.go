package engine

import (
	"context"
	"errors"
	"time"

	"wargames/agent"
	"wargames/experiments/metrics"
	"wargames/game"
	"wargames/meta"
)

type Engine interface {
	// Run plays until there is a winner, the turn limit is reached or ctx is done
	Run(ctx context.Context) (winner game.Faction, gameMetric metrics.GameMetric, turnMetrics []metrics.TurnMetric, err error)
}

// Step is one decision taken by an AI player and what the game made of it.
type Step struct {
	Player game.Faction
	Action game.Action
	Result *game.AttackResult
	Err    error
}

// TurnRunner plays out a whole AI turn.
type TurnRunner struct {
	MaxActions int           // Decisions allowed before the turn is forced to end
	Delay      time.Duration // Pause before each decision
	Observe    func(Step)    // Optional, called after each decision
}

func NewTurnRunner() TurnRunner {
	return TurnRunner{MaxActions: meta.MAX_ACTIONS_PER_TURN}
}

// Play asks a for decisions until the current player's turn is over.
// A fortify decision is followed by the end of the turn, as is an end-phase
// decision outside the attack phase. Rejected decisions count towards MaxActions.
func (r TurnRunner) Play(ctx context.Context, gs *game.GameState, a agent.Agent, collector metrics.Collector) error {
	player := gs.CurrentPlayer
	collector.Start(player, gs.TurnNumber)

	for actions := 0; gs.CurrentPlayer == player && !gs.IsOver(); actions++ {
		if actions >= r.MaxActions {
			collector.SetCapped(true)
			return r.finish(gs, player)
		}
		if err := r.wait(ctx); err != nil {
			return err
		}

		action := a.FindMove(gs)
		var result *game.AttackResult
		var err error

		switch action.Type {
		case game.FortifyAction:
			result, err = gs.Apply(action)
			r.record(collector, player, action, result, err)
			return r.finish(gs, player)
		case game.EndPhaseAction:
			if gs.Phase != game.AttackPhase {
				r.record(collector, player, action, nil, nil)
				return r.finish(gs, player)
			}
			result, err = gs.Apply(action)
		default:
			result, err = gs.Apply(action)
		}
		r.record(collector, player, action, result, err)
	}
	return nil
}

func (r TurnRunner) record(collector metrics.Collector, player game.Faction, action game.Action, result *game.AttackResult, err error) {
	collector.AddAction(action, result, err)
	if r.Observe != nil {
		r.Observe(Step{Player: player, Action: action, Result: result, Err: err})
	}
}

// finish ends the turn on the player's behalf. Observers see it as an end-turn step.
func (r TurnRunner) finish(gs *game.GameState, player game.Faction) error {
	err := gs.EndTurn()
	if errors.Is(err, game.ErrGameOver) {
		return nil
	}
	if err == nil && r.Observe != nil {
		r.Observe(Step{Player: player, Action: game.NewEndTurnAction()})
	}
	return err
}

func (r TurnRunner) wait(ctx context.Context) error {
	if r.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
