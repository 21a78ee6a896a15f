package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"wargames/agent"
	"wargames/communication"
	"wargames/communication/client"
	"wargames/experiments/metrics"
	"wargames/game"
	"wargames/meta"
)

// RemoteEngine plays the human faction of a game hosted by a server.
// The server runs the AI factions between two human turns.
type RemoteEngine struct {
	Comm       communication.Communicator
	Agent      agent.Agent
	MaxActions int
	MaxTurns   int

	gameMap *game.Map
}

func NewRemoteEngine(comm communication.Communicator, a agent.Agent) *RemoteEngine {
	return &RemoteEngine{
		Comm:       comm,
		Agent:      a,
		MaxActions: meta.MAX_ACTIONS_PER_TURN,
		MaxTurns:   meta.MAX_TURNS,
		gameMap:    game.CreateMap(),
	}
}

func (e *RemoteEngine) Run(ctx context.Context) (game.Faction, metrics.GameMetric, []metrics.TurnMetric, error) {
	gameMetric := metrics.GameMetric{Winner: game.None, StartTime: time.Now()}
	turnMetrics := []metrics.TurnMetric{}

	view, err := e.Comm.GetState(ctx)
	if err != nil {
		return game.None, gameMetric, turnMetrics, err
	}
	if view.Human == game.None {
		return game.None, gameMetric, turnMetrics, errors.New("server game has no human faction")
	}
	gameMetric.StartingPlayer = view.CurrentPlayer
	log.Info().Msgf("playing %s in session %s", view.Human, view.Session)

	for view.Phase != game.GameOverPhase && view.TurnNumber <= e.MaxTurns {
		if view.CurrentPlayer != view.Human {
			return game.None, gameMetric, turnMetrics, fmt.Errorf("server is not waiting for %s", view.Human)
		}

		var turnMetric metrics.TurnMetric
		view, turnMetric, err = e.playTurn(ctx, view)
		if err != nil {
			return game.None, gameMetric, turnMetrics, err
		}
		gameMetric.TotalActions += turnMetric.Actions
		turnMetrics = append(turnMetrics, turnMetric)
	}

	gameMetric.Winner = view.Winner
	gameMetric.Turns = view.TurnNumber
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	log.Info().Msgf("remote game ended on turn %d, winner %s", view.TurnNumber, view.Winner)
	return view.Winner, gameMetric, turnMetrics, nil
}

// playTurn follows the same rules as TurnRunner.Play, over the wire.
func (e *RemoteEngine) playTurn(ctx context.Context, view communication.StateView) (communication.StateView, metrics.TurnMetric, error) {
	collector := metrics.NewCollector()
	collector.Start(view.Human, view.TurnNumber)

	for actions := 0; ; actions++ {
		if actions >= e.MaxActions {
			collector.SetCapped(true)
			view, err := e.endTurn(ctx)
			return view, collector.Complete(), err
		}

		gs, err := view.GameState(e.gameMap)
		if err != nil {
			return view, collector.Complete(), err
		}
		action := e.Agent.FindMove(gs)

		if action.Type == game.EndPhaseAction && gs.Phase != game.AttackPhase {
			collector.AddAction(action, nil, nil)
			view, err := e.endTurn(ctx)
			return view, collector.Complete(), err
		}

		resp, err := e.Comm.SendAction(ctx, action)
		if errors.Is(err, client.ErrRejected) {
			collector.AddAction(action, nil, err)
			if view, err = e.Comm.GetState(ctx); err != nil {
				return view, collector.Complete(), err
			}
			if view.Phase == game.GameOverPhase || view.CurrentPlayer != view.Human {
				return view, collector.Complete(), nil
			}
			continue
		}
		if err != nil {
			return view, collector.Complete(), err
		}
		collector.AddAction(action, resp.Result.AttackResult(), nil)
		view = resp.State

		switch {
		case action.Type == game.EndTurnAction, view.Phase == game.GameOverPhase:
			return view, collector.Complete(), nil
		case action.Type == game.FortifyAction:
			view, err := e.endTurn(ctx)
			return view, collector.Complete(), err
		}
	}
}

func (e *RemoteEngine) endTurn(ctx context.Context) (communication.StateView, error) {
	resp, err := e.Comm.SendAction(ctx, game.NewEndTurnAction())
	if err != nil {
		return communication.StateView{}, fmt.Errorf("failed to end turn: %w", err)
	}
	return resp.State, nil
}
