package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wargames/agent"
	"wargames/engine"
	"wargames/experiments/metrics"
	"wargames/game"
	"wargames/meta"
)

var (
	ErrNotYourTurn = errors.New("not the human player's turn")
	ErrSessionOver = errors.New("session is over")
)

// Update is published after every applied action and after a reset.
type Update struct {
	Session uuid.UUID
	Player  game.Faction
	Action  *game.Action // nil for a fresh game or a stop at the turn limit
	Result  *game.AttackResult
	State   *game.GameState
}

// Session is one human faction playing against AI factions.
// Human actions go through Play; AI turns run right after, paced by the configured delay.
type Session struct {
	mu     sync.Mutex // serialises every mutation of state
	cfg    meta.Config
	human  game.Faction
	id     uuid.UUID
	state  *game.GameState
	agents map[game.Faction]agent.Agent
	runner engine.TurnRunner
	logger zerolog.Logger

	viewMu sync.RWMutex
	view   *game.GameState
	viewID uuid.UUID

	subMu       sync.Mutex
	subscribers map[int]chan Update
	nextSub     int
}

// NewSession builds a session from cfg. An empty cfg.Human makes every faction AI-driven.
func NewSession(cfg meta.Config, logger zerolog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	human, err := game.ParseFaction(cfg.Human)
	if err != nil {
		return nil, fmt.Errorf("invalid human faction: %w", err)
	}

	s := &Session{
		cfg:         cfg,
		human:       human,
		runner:      engine.TurnRunner{MaxActions: cfg.MaxActionsPerTurn, Delay: cfg.AIDelay},
		logger:      logger.With().Str("component", "gamemaster").Logger(),
		subscribers: map[int]chan Update{},
	}
	s.runner.Observe = s.observe
	s.newGame()
	return s, nil
}

func (s *Session) newGame() {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := game.NewRandomizer(seed)

	s.id = uuid.New()
	s.state = game.NewGameState(game.CreateMap(), game.NewStandardRules(),
		game.WithHuman(s.human),
		game.WithRandomizer(rng),
		game.WithInitialTroops(s.cfg.InitialTroopsMin, s.cfg.InitialTroopsMax))

	s.agents = map[game.Faction]agent.Agent{}
	for _, f := range game.Factions {
		if f != s.human {
			s.agents[f] = agent.NewRuleAgent(game.NewRandomizer(seed + uint64(f) + 1))
		}
	}

	s.logger.Info().Str("session", s.id.String()).Uint64("seed", seed).Msgf("new game, human plays %s", s.human)
	s.publish(Update{Session: s.id, Player: s.state.CurrentPlayer, State: s.state.Copy()})
}

func (s *Session) ID() uuid.UUID {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.viewID
}

func (s *Session) Human() game.Faction {
	return s.human
}

// State returns a snapshot taken after the latest applied action. It does not
// wait for a running AI turn.
func (s *Session) State() *game.GameState {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.view.Copy()
}

// LegalActions lists the human player's options, empty when it is not their turn.
func (s *Session) LegalActions() []game.Action {
	view := s.State()
	if !view.IsHuman(view.CurrentPlayer) || view.IsOver() {
		return []game.Action{}
	}
	return view.LegalActions()
}

// Start runs AI turns until the human player is up. It is a no-op when they already are.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runAITurns(ctx)
}

// Play applies a human action, then lets the AI factions play until the human is up again.
func (s *Session) Play(ctx context.Context, action game.Action) (*game.AttackResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsOver() {
		return nil, ErrSessionOver
	}
	if s.limitReached() {
		s.stop()
		return nil, ErrSessionOver
	}
	if !s.state.IsHuman(s.state.CurrentPlayer) {
		return nil, ErrNotYourTurn
	}

	player := s.state.CurrentPlayer
	result, err := s.state.Apply(action)
	if err != nil {
		s.logger.Debug().Err(err).Msgf("rejected %s from %s", action, player)
		return nil, err
	}
	s.observe(engine.Step{Player: player, Action: action, Result: result})

	if err := s.runAITurns(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// Reset throws the current game away and deals a new board.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.newGame()
	return s.runAITurns(ctx)
}

func (s *Session) runAITurns(ctx context.Context) error {
	for !s.state.IsOver() {
		if s.limitReached() {
			s.stop()
			return nil
		}
		if s.state.IsHuman(s.state.CurrentPlayer) {
			return nil
		}

		player := s.state.CurrentPlayer
		a, ok := s.agents[player]
		if !ok {
			return fmt.Errorf("no agent for %s", player)
		}
		if err := s.runner.Play(ctx, s.state, a, metrics.NewDummyCollector()); err != nil {
			return fmt.Errorf("AI turn of %s: %w", player, err)
		}
		s.logger.Debug().Int("turn", s.state.TurnNumber).Msgf("%s finished its turn", player)
	}

	s.logger.Info().Msgf("game over on turn %d, %s wins", s.state.TurnNumber, s.state.Winner)
	return nil
}

func (s *Session) limitReached() bool {
	return s.state.TurnNumber > s.cfg.MaxTurns
}

// stop ends the game without a winner once the turn limit has run out.
func (s *Session) stop() {
	s.state.Halt()
	s.logger.Info().Msgf("stopped after %d turns without a winner", s.cfg.MaxTurns)
	s.publish(Update{Session: s.id, Player: game.None, State: s.state.Copy()})
}

func (s *Session) observe(step engine.Step) {
	if step.Err != nil {
		return
	}
	action := step.Action
	s.publish(Update{Session: s.id, Player: step.Player, Action: &action, Result: step.Result, State: s.state.Copy()})
}

// Subscribe returns a channel of updates and a function to stop receiving them.
// A subscriber that falls behind misses updates rather than blocking the game.
func (s *Session) Subscribe() (<-chan Update, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Update, 64)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *Session) publish(u Update) {
	s.viewMu.Lock()
	s.view = u.State
	s.viewID = u.Session
	s.viewMu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			s.logger.Warn().Int("subscriber", id).Msg("dropping update for slow subscriber")
		}
	}
}
