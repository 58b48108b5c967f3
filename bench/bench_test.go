package bench

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderPercentiles(t *testing.T) {
	rec := NewRecorder()
	rec.Start()
	for i := 1; i <= 100; i++ {
		rec.Record(time.Duration(i) * time.Microsecond)
	}
	rec.Stop()

	res := rec.Results("continuous", 0)

	assert.Equal(t, 100, res.OrdersProcessed)
	assert.Equal(t, 51.0, res.LatencyUSP50)
	assert.Equal(t, 96.0, res.LatencyUSP95)
	assert.Equal(t, 100.0, res.LatencyUSP99)
	assert.Equal(t, "continuous", res.Mode)
	assert.NotEmpty(t, res.GoVersion)
}

func TestRecorderEmpty(t *testing.T) {
	rec := NewRecorder()
	rec.Start()
	rec.Stop()

	res := rec.Results("batch", 100)
	assert.Equal(t, 0, res.OrdersProcessed)
	assert.Equal(t, int64(0), res.OrdersPerSec)
	assert.Equal(t, int64(100), res.IntervalMS)
}

func TestRecorderSave(t *testing.T) {
	rec := NewRecorder()
	rec.Start()
	rec.Record(5 * time.Microsecond)
	rec.Stop()

	path := filepath.Join(t.TempDir(), "bench.json")
	require.NoError(t, rec.Save(path, "batch", 100))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var res Results
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "batch", res.Mode)
	assert.Equal(t, int64(100), res.IntervalMS)
	assert.Equal(t, 1, res.OrdersProcessed)
}
