package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFaction(t *testing.T) {
	require.Equal(t, "WARSAW PACT", Warsaw.String())
	require.Equal(t, "USSR", Warsaw.ShortName())
	require.Equal(t, "NON-ALIGNED", NonAligned.String())
	require.Equal(t, "NAM", NonAligned.ShortName())
	require.Equal(t, "NONE", None.String())

	t.Run("parse", func(t *testing.T) {
		tests := []struct {
			input    string
			expected Faction
		}{
			{"NATO", NATO},
			{"nato", NATO},
			{"Warsaw Pact", Warsaw},
			{"ussr", Warsaw},
			{" NAM ", NonAligned},
			{"non-aligned", NonAligned},
			{"", None},
			{"none", None},
		}
		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				f, err := ParseFaction(tt.input)
				require.NoError(t, err)
				require.Equal(t, tt.expected, f)
			})
		}

		_, err := ParseFaction("SEATO")
		require.Error(t, err)
	})

	t.Run("json uses names", func(t *testing.T) {
		data, err := json.Marshal(map[Faction]int{NATO: 1, Warsaw: 2})
		require.NoError(t, err)
		require.JSONEq(t, `{"NATO":1,"WARSAW PACT":2}`, string(data))

		var decoded struct {
			Winner Faction `json:"winner"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"winner":"NAM"}`), &decoded))
		require.Equal(t, NonAligned, decoded.Winner)
	})
}
