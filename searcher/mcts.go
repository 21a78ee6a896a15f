package searcher

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"wargames/game"
)

type Option func(mcts *MCTS)

// MCTS is a tree-parallel Monte Carlo tree search agent with virtual loss.
// Dice-driven actions go through chance nodes keyed by the resulting state.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   Evaluate
	rng        game.Randomizer
	metrics    MetricsCollector
	last       SearchMetric
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

// NewMCTS needs either WithEpisodes or WithDuration. rng seeds the workers.
func NewMCTS(goroutines int, rng game.Randomizer, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
		cutoff:     MaxCutoff,
		evaluate:   EvaluateResources,
		rng:        rng,
		metrics:    NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

func (m *MCTS) FindMove(state *game.GameState) game.Action {
	root, metric := m.search(state)
	m.last = metric

	action, ok := root.bestAction()
	if !ok {
		return game.NewEndTurnAction()
	}
	log.Debug().Msgf("%s picked %s after %d episodes", state.CurrentPlayer, action, metric.Episodes)
	return action
}

// LastMetric returns the metrics of the latest search, zero unless WithMetrics was given.
func (m *MCTS) LastMetric() SearchMetric {
	return m.last
}

// Simulate searches from state and returns the visit share of each action
// expanded at the root. state itself is never modified.
func (m *MCTS) Simulate(state *game.GameState) (map[game.Action]float64, SearchMetric) {
	root, metric := m.search(state)
	return root.Policy(), metric
}

func (m *MCTS) search(state *game.GameState) (*decision, SearchMetric) {
	root := newDecision(nil, game.None, state)

	m.metrics.Start(m.goroutines, m.cutoff)
	if len(root.actions) > 1 {
		seeds := make([]uint64, m.goroutines)
		for i := range seeds {
			seeds[i] = uint64(m.rng.Intn(math.MaxInt32))
		}
		if m.episodes > 0 {
			m.iterate(root, state, seeds)
		} else {
			m.countdown(root, state, seeds)
		}
	} else if len(root.actions) == 1 {
		// Nothing to search, expand the only child so it gets picked
		episode := state.Copy()
		episode.SetRandomizer(game.NewRandomizer(0))
		root.SelectOrExpand(episode)
	}
	return root, m.metrics.Complete()
}

func (m *MCTS) iterate(root *decision, state *game.GameState, seeds []uint64) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for _, seed := range seeds {
		wg.Add(1)
		go func(rng game.Randomizer) {
			defer wg.Done()

			for range task {
				m.simulate(root, state, rng)
			}
		}(game.NewRandomizer(seed))
	}

	wg.Wait()
}

func (m *MCTS) countdown(root *decision, state *game.GameState, seeds []uint64) {
	done := make(chan any)
	var wg sync.WaitGroup

	for _, seed := range seeds {
		wg.Add(1)
		go func(rng game.Randomizer) {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					m.simulate(root, state, rng)
				}
			}
		}(game.NewRandomizer(seed))
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) simulate(root *decision, state *game.GameState, rng game.Randomizer) {
	episode := state.Copy()
	episode.SetRandomizer(rng)

	leaf := selectThenExpand(root, episode)
	reward := rollout(episode, m.cutoff, m.evaluate, rng, m.metrics)
	backup(leaf, reward)
}

func selectThenExpand(root Node, state *game.GameState) Node {
	node := root
	for {
		child, expanded := node.SelectOrExpand(state)
		if child == node || expanded {
			return child
		}
		node = child
	}
}

func rollout(state *game.GameState, cutoff int, evaluate Evaluate, rng game.Randomizer, metrics MetricsCollector) Reward {
	depth := 0
	for ; !state.IsOver() && depth < cutoff; depth++ {
		actions := state.LegalActions()
		if len(actions) == 0 {
			break
		}
		play(state, actions[rng.Intn(len(actions))]) // Random rollout policy
	}

	metrics.AddRollout(depth, state.IsOver())
	if state.IsOver() {
		return winnerReward(state.Winner)
	}

	// At cutoff, score the position for every faction
	return evaluate(state)
}

func backup(leaf Node, reward Reward) {
	node := leaf
	for node != nil {
		node = node.Backup(reward)
	}
}
