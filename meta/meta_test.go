package meta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("overrides only the given fields", func(t *testing.T) {
		cfg := Default()
		err := Parse([]byte("human: WARSAW PACT\nseed: 42\naiDelay: 250ms\n"), &cfg)

		require.NoError(t, err)
		require.Equal(t, "WARSAW PACT", cfg.Human)
		require.Equal(t, uint64(42), cfg.Seed)
		require.Equal(t, 250*time.Millisecond, cfg.AIDelay)
		require.Equal(t, MAX_TURNS, cfg.MaxTurns, "Unset fields should keep defaults")
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, Parse([]byte(""), &cfg))
		require.Equal(t, Default(), cfg)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		cfg := Default()
		require.Error(t, Parse([]byte("maxturns: 5\n"), &cfg))
	})

	t.Run("inverted troop band is rejected", func(t *testing.T) {
		cfg := Default()
		require.Error(t, Parse([]byte("initialTroopsMin: 6\ninitialTroopsMax: 4\n"), &cfg))
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wargames.yaml")
		require.NoError(t, os.WriteFile(path, []byte("games: 3\naddr: \":9000\"\n"), 0o644))

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, 3, cfg.Games)
		require.Equal(t, ":9000", cfg.Addr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.MaxActionsPerTurn = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.AIDelay = -time.Second
	require.Error(t, cfg.Validate())
}
