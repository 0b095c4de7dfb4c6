package audit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBaseline(t *testing.T) {
	now := time.Now()

	t.Run("no records means first", func(t *testing.T) {
		b := ComputeBaseline("GR", nil)

		assert.True(t, b.IsFirst)
		assert.Nil(t, b.Latest)
		assert.False(t, b.HasDelta)
		assert.True(t, b.Delta.IsZero())
	})

	t.Run("single record has no delta", func(t *testing.T) {
		b := ComputeBaseline("GR", []Record{{Title: "Q1", Score: decimal.NewFromFloat(72.5), EvaluatedAt: now}})

		assert.False(t, b.IsFirst)
		require.NotNil(t, b.Latest)
		assert.Equal(t, "Q1", b.Latest.Title)
		assert.Nil(t, b.Previous)
		assert.False(t, b.HasDelta)
	})

	t.Run("delta against previous record", func(t *testing.T) {
		b := ComputeBaseline("GR", []Record{
			{Title: "Q2", Score: decimal.RequireFromString("80.25"), EvaluatedAt: now},
			{Title: "Q1", Score: decimal.RequireFromString("72.5"), EvaluatedAt: now.Add(-time.Hour)},
			{Title: "Q0", Score: decimal.RequireFromString("10"), EvaluatedAt: now.Add(-2 * time.Hour)},
		})

		require.NotNil(t, b.Previous)
		assert.Equal(t, "Q1", b.Previous.Title)
		assert.True(t, b.HasDelta)
		assert.True(t, decimal.RequireFromString("7.75").Equal(b.Delta))
	})
}
