package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"wargames/agent"
	"wargames/engine"
	"wargames/experiments/metrics"
	"wargames/game"
	"wargames/meta"
	"wargames/searcher"
)

const TimeBudget = 10 * time.Millisecond // Search time per MCTS decision

var (
	ruleConfig   = metrics.AgentConfig{ID: 1, Kind: "rule"}
	randomConfig = metrics.AgentConfig{ID: 2, Kind: "random"}
)

// Experiment runs a batch of games and stores the records under cfg.OutDir.
type Experiment func(ctx context.Context, cfg meta.Config) error

var registry = map[string]Experiment{
	"rule_vs_random": RunRuleVsRandom,
	"search":         RunSearchExperiment,
	"parallelism":    RunParallelizationExperiment,
}

// Lookup returns the experiment registered under name.
func Lookup(name string) (Experiment, bool) {
	e, ok := registry[name]
	return e, ok
}

// Names lists the registered experiments in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RunRuleVsRandom seats the rule agent against two random agents, rotating its seat.
func RunRuleVsRandom(ctx context.Context, cfg meta.Config) error {
	matchUps := rotations(ruleConfig, randomConfig)
	return runExperiment(ctx, cfg, "rule_vs_random", []metrics.AgentConfig{ruleConfig, randomConfig}, matchUps)
}

// RunSearchExperiment seats MCTS against two rule agents, rotating its seat.
func RunSearchExperiment(ctx context.Context, cfg meta.Config) error {
	mcts := metrics.AgentConfig{ID: 3, Kind: "mcts", Goroutines: 4, Duration: TimeBudget, Cutoff: 60}
	matchUps := rotations(mcts, ruleConfig)
	return runExperiment(ctx, cfg, "search", []metrics.AgentConfig{ruleConfig, mcts}, matchUps)
}

// RunParallelizationExperiment pairs MCTS agents of growing parallelism against
// a sequential baseline with the same time budget.
func RunParallelizationExperiment(ctx context.Context, cfg meta.Config) error {
	baseline := metrics.AgentConfig{ID: 10, Kind: "mcts", Goroutines: 1, Duration: TimeBudget, Cutoff: 60}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][]metrics.AgentConfig{}
	for i, goroutines := range []int{2, 4, 8, 16} {
		config := metrics.AgentConfig{ID: 11 + i, Kind: "mcts", Goroutines: goroutines, Duration: TimeBudget, Cutoff: 60}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline, baseline})
	}
	return runExperiment(ctx, cfg, "parallelism", configs, matchUps)
}

// rotations puts the tested agent in each seat once, the others filled by opponent.
func rotations(tested, opponent metrics.AgentConfig) [][]metrics.AgentConfig {
	matchUps := [][]metrics.AgentConfig{}
	for seat := range game.Factions {
		matchUp := []metrics.AgentConfig{opponent, opponent, opponent}
		matchUp[seat] = tested
		matchUps = append(matchUps, matchUp)
	}
	return matchUps
}

func runExperiment(ctx context.Context, cfg meta.Config, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	count := 0
	gameRecords := []metrics.GameRecord{}
	turnRecords := []metrics.TurnRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d: %+v", mi+1, len(matchUps), matchUp)

		for i := 0; i < cfg.Games; i++ {
			count++
			winner, gameMetric, turnMetrics, err := runGame(ctx, cfg, matchUp, seed+uint64(count))
			if err != nil {
				return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			ids := make([]int, len(matchUp))
			for seat, config := range matchUp {
				ids[seat] = config.ID
			}
			gameRecords = append(gameRecords, metrics.GameRecord{ID: count, Agents: ids, GameMetric: gameMetric})
			for _, tm := range turnMetrics {
				turnRecords = append(turnRecords, metrics.TurnRecord{Game: count, TurnMetric: tm})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(cfg.OutDir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteTurnRecords(turnRecords); err != nil {
		return fmt.Errorf("failed to write turn records: %w", err)
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return nil
}

// runGame plays one all-AI game with matchUp[i] driving game.Factions[i].
func runGame(ctx context.Context, cfg meta.Config, matchUp []metrics.AgentConfig, seed uint64) (game.Faction, metrics.GameMetric, []metrics.TurnMetric, error) {
	state := game.NewGameState(game.CreateMap(), game.NewStandardRules(),
		game.WithRandomizer(game.NewRandomizer(seed)),
		game.WithInitialTroops(cfg.InitialTroopsMin, cfg.InitialTroopsMax))

	agents := map[game.Faction]agent.Agent{}
	for seat, config := range matchUp {
		a, err := NewAgent(config, game.NewRandomizer(seed*31+uint64(seat)))
		if err != nil {
			return game.None, metrics.GameMetric{}, nil, err
		}
		agents[game.Factions[seat]] = a
	}

	e := engine.NewLocalEngine(state, agents,
		engine.WithMaxTurns(cfg.MaxTurns),
		engine.WithMaxActionsPerTurn(cfg.MaxActionsPerTurn),
		engine.WithMetrics())
	return e.Run(ctx)
}

// NewAgent builds the agent described by config.
func NewAgent(config metrics.AgentConfig, rng game.Randomizer) (agent.Agent, error) {
	if config.Kind == "mcts" {
		return createMCTS(config, rng), nil
	}
	a, ok := agent.New(config.Kind, rng)
	if !ok {
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}
	return a, nil
}

func createMCTS(config metrics.AgentConfig, rng game.Randomizer) *searcher.MCTS {
	options := []searcher.Option{}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Episodes <= 0 && config.Duration <= 0 {
		options = append(options, searcher.WithDuration(TimeBudget))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	return searcher.NewMCTS(config.Goroutines, rng, options...)
}
