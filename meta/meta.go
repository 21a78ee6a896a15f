// meta/meta.go
package meta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MAX_TURNS bounds a headless game in completed turn cycles.
const MAX_TURNS = 300

// MAX_ACTIONS_PER_TURN caps AI decisions within a single turn.
const MAX_ACTIONS_PER_TURN = 60

// Initial troop band per territory.
const (
	INITIAL_TROOPS_MIN = 3
	INITIAL_TROOPS_MAX = 5
)

// GAMES is the default number of games per experiment matchup.
const GAMES = 30

// Config holds the runtime settings shared by the CLI, the headless engine and the server.
type Config struct {
	Human             string        `yaml:"human"` // faction name, empty for all-AI
	Seed              uint64        `yaml:"seed"`  // 0 seeds from the clock
	MaxTurns          int           `yaml:"maxTurns"`
	MaxActionsPerTurn int           `yaml:"maxActionsPerTurn"`
	AIDelay           time.Duration `yaml:"aiDelay"`
	InitialTroopsMin  int           `yaml:"initialTroopsMin"`
	InitialTroopsMax  int           `yaml:"initialTroopsMax"`
	Addr              string        `yaml:"addr"`
	LogLevel          string        `yaml:"logLevel"`
	Games             int           `yaml:"games"`
	OutDir            string        `yaml:"outDir"`
}

func Default() Config {
	return Config{
		Human:             "NATO",
		MaxTurns:          MAX_TURNS,
		MaxActionsPerTurn: MAX_ACTIONS_PER_TURN,
		InitialTroopsMin:  INITIAL_TROOPS_MIN,
		InitialTroopsMax:  INITIAL_TROOPS_MAX,
		Addr:              ":8080",
		LogLevel:          "info",
		Games:             GAMES,
		OutDir:            "experiments",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping any field the document does not set.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.MaxTurns <= 0:
		return fmt.Errorf("maxTurns must be positive, got %d", c.MaxTurns)
	case c.MaxActionsPerTurn <= 0:
		return fmt.Errorf("maxActionsPerTurn must be positive, got %d", c.MaxActionsPerTurn)
	case c.AIDelay < 0:
		return fmt.Errorf("aiDelay must not be negative, got %s", c.AIDelay)
	case c.InitialTroopsMin < 1:
		return fmt.Errorf("initialTroopsMin must be at least 1, got %d", c.InitialTroopsMin)
	case c.InitialTroopsMax < c.InitialTroopsMin:
		return fmt.Errorf("initialTroopsMax %d is below initialTroopsMin %d", c.InitialTroopsMax, c.InitialTroopsMin)
	case c.Games < 0:
		return fmt.Errorf("games must not be negative, got %d", c.Games)
	}
	return nil
}
