package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wargames/communication/client"
	"wargames/communication/server"
	"wargames/engine"
	"wargames/experiments"
	"wargames/experiments/metrics"
	"wargames/game"
	"wargames/gamemaster"
	"wargames/meta"
)

type flags struct {
	mode       string
	configPath string
	experiment string
	games      int
	seed       uint64
	addr       string
	human      string
	serverURL  string
	agent      string
	logLevel   string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.mode, "mode", "simulate", "simulate, serve or remote")
	flag.StringVar(&f.configPath, "config", "", "YAML config file")
	flag.StringVar(&f.experiment, "experiment", "rule_vs_random", "experiment to run in simulate mode: "+strings.Join(experiments.Names(), ", "))
	flag.IntVar(&f.games, "games", 0, "games per matchup, overrides the config")
	flag.Uint64Var(&f.seed, "seed", 0, "random seed, overrides the config")
	flag.StringVar(&f.addr, "addr", "", "listen address in serve mode, overrides the config")
	flag.StringVar(&f.human, "human", "", "human faction in serve mode, overrides the config")
	flag.StringVar(&f.serverURL, "server", "http://localhost:8080", "server to join in remote mode")
	flag.StringVar(&f.agent, "agent", "rule", "agent playing in remote mode: rule, random or mcts")
	flag.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error, overrides the config")
	flag.Parse()
	return f
}

func loadConfig(f flags) (meta.Config, error) {
	cfg := meta.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = meta.Load(f.configPath); err != nil {
			return cfg, err
		}
	}

	if f.games > 0 {
		cfg.Games = f.games
	}
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.human != "" {
		cfg.Human = f.human
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return nil
}

func main() {
	f := parseFlags()

	cfg, err := loadConfig(f)
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch f.mode {
	case "simulate":
		err = simulate(ctx, cfg, f.experiment)
	case "serve":
		err = serve(ctx, cfg)
	case "remote":
		err = remote(ctx, cfg, f.serverURL, f.agent)
	default:
		err = fmt.Errorf("unknown mode %q", f.mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", f.mode)
	}
}

func simulate(ctx context.Context, cfg meta.Config, name string) error {
	experiment, ok := experiments.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown experiment %q, want one of %s", name, strings.Join(experiments.Names(), ", "))
	}
	return experiment(ctx, cfg)
}

func serve(ctx context.Context, cfg meta.Config) error {
	gin.SetMode(gin.ReleaseMode)

	session, err := gamemaster.NewSession(cfg, log.Logger)
	if err != nil {
		return err
	}
	if err := session.Start(ctx); err != nil {
		return err
	}

	srv := server.NewServer(session, log.Logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Close(shutdownCtx)
	}
}

func remote(ctx context.Context, cfg meta.Config, serverURL, kind string) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a, err := experiments.NewAgent(metrics.AgentConfig{Kind: kind, Goroutines: 4}, game.NewRandomizer(seed))
	if err != nil {
		return err
	}

	e := engine.NewRemoteEngine(client.NewClient(serverURL), a)
	e.MaxActions = cfg.MaxActionsPerTurn
	e.MaxTurns = cfg.MaxTurns

	winner, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().Msgf("winner %s after %d turns and %d actions", winner, gameMetric.Turns, gameMetric.TotalActions)
	return nil
}
