package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodFor(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  PeriodKey
	}{
		{"empty range falls back to now", "", "2509"},
		{"dash separated range uses end date", "2025-06-28 ~ 2025-07-02", "2507"},
		{"slash dates with bare hyphen", "2025/06/28-2025/07/02", "2507"},
		{"dotted dates", "2025.01.10 to 2025.02.01", "2502"},
		{"kanji dates", "2025年7月1日～2025年8月15日", "2508"},
		{"single date", "2024-12-31", "2412"},
		{"unpadded month and day", "2025-7-1 ~ 2025-8-3", "2508"},
		{"free text without dates", "first half of July", "2509"},
		{"year and month only", "2025-07", "2509"},
		{"invalid calendar date", "2025-07-01 ~ 2025-02-30", "2509"},
		{"month out of range", "2025-13-01", "2509"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodFor(tt.input, now))
		})
	}
}

func TestPeriodOf_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2025, time.June, 30, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, PeriodKey("2506"), PeriodOf(instant))
	assert.Equal(t, PeriodKey("2507"), PeriodOf(instant.In(tokyo)))
}

func TestParsePeriodKey(t *testing.T) {
	t.Run("accepts YYMM", func(t *testing.T) {
		p, err := ParsePeriodKey("2507")
		require.NoError(t, err)
		assert.Equal(t, "2507", p.String())
	})

	for _, bad := range []string{"", "257", "25071", "2500", "2513", "abcd"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParsePeriodKey(bad)
			assert.ErrorIs(t, err, ErrInvalidPeriod)
		})
	}
}

func TestParseTeamCode(t *testing.T) {
	code, err := ParseTeamCode("GR")
	require.NoError(t, err)
	assert.Equal(t, TeamCode("GR"), code)

	for _, bad := range []string{"", "gr", "G-R", "GR ", "ABCDEFGHIJKLMNOPQ"} {
		_, err := ParseTeamCode(bad)
		assert.ErrorIs(t, err, ErrInvalidTeam, bad)
	}
}
