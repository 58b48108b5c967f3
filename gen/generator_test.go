package gen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
	"github.com/R23Yadam/Batch-Auction-Simulator/sim"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{N: 500, Seed: 42, CrossRate: 0.3, TickSize: 0.01}

	var first, second bytes.Buffer
	require.NoError(t, Generate(cfg, &first))
	require.NoError(t, Generate(cfg, &second))

	assert.Equal(t, first.String(), second.String(), "same seed must produce identical output")

	var other bytes.Buffer
	cfg.Seed = 43
	require.NoError(t, Generate(cfg, &other))
	assert.NotEqual(t, first.String(), other.String(), "different seed must produce a different stream")
}

func TestGeneratedStreamIsWellFormed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(Config{N: 1000, Seed: 7, CrossRate: 0.5, TickSize: 0.01}, &buf))

	orders, err := sim.ReadOrders(&buf)
	require.NoError(t, err)
	require.Len(t, orders, 1000)

	seen := make(map[int64]bool)
	var lastTimestamp int64
	for _, order := range orders {
		require.NoError(t, order.Validate(), "generated order %d must be valid", order.ID)
		assert.False(t, seen[order.ID], "order ids must be unique")
		seen[order.ID] = true
		assert.GreaterOrEqual(t, order.Timestamp, lastTimestamp, "timestamps must be non-decreasing")
		lastTimestamp = order.Timestamp

		if order.Type == models.OrderTypeCancel {
			assert.Positive(t, order.CancelID)
		}
	}
}
