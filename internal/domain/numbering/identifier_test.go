package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier_String(t *testing.T) {
	key := CounterKey{Team: "GR", Period: "2507"}

	assert.Equal(t, "GR-2507-0360", NewIdentifier(key, 360).String())
	assert.Equal(t, "GR-2507-0001", NewIdentifier(key, 1).String())
	assert.Equal(t, "GR-2507-12345", NewIdentifier(key, 12345).String())
}

func TestParseIdentifier(t *testing.T) {
	t.Run("parses formatted identifier", func(t *testing.T) {
		id, err := ParseIdentifier("GR-2507-0361")
		require.NoError(t, err)
		assert.Equal(t, TeamCode("GR"), id.Team)
		assert.Equal(t, PeriodKey("2507"), id.Period)
		assert.Equal(t, int64(361), id.Sequence)
		assert.Equal(t, "GR-2507-0361", id.String())
		assert.Equal(t, CounterKey{Team: "GR", Period: "2507"}, id.Key())
	})

	for _, bad := range []string{"", "GR-2507-361", "GR-2513-0001", "gr-2507-0001", "GR-2507-0000", "GR2507-0001"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseIdentifier(bad)
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}

func TestNewCounterKey(t *testing.T) {
	key, err := NewCounterKey("GR", "2507")
	require.NoError(t, err)
	assert.Equal(t, "GR/2507", key.String())

	_, err = NewCounterKey("G-R", "2507")
	assert.ErrorIs(t, err, ErrInvalidTeam)

	_, err = NewCounterKey("GR", "25")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestIdentifier_IsZero(t *testing.T) {
	assert.True(t, Identifier{}.IsZero())
	assert.False(t, NewIdentifier(CounterKey{Team: "GR", Period: "2507"}, 1).IsZero())
}
