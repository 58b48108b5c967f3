// Package bench measures per-order latency and throughput of either
// execution mode and writes the results as JSON.
package bench

import (
	"encoding/json"
	"os"
	"runtime"
	"sort"
	"time"
)

// Recorder collects per-order latencies in microseconds.
type Recorder struct {
	latenciesUS []float64
	startTime   time.Time
	endTime     time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start marks the beginning of the measured run.
func (r *Recorder) Start() {
	r.startTime = time.Now()
}

// Record adds one order's processing latency.
func (r *Recorder) Record(d time.Duration) {
	r.latenciesUS = append(r.latenciesUS, float64(d.Nanoseconds())/1e3)
}

// Stop marks the end of the measured run.
func (r *Recorder) Stop() {
	r.endTime = time.Now()
}

// Results is the benchmark summary written to disk.
type Results struct {
	OrdersProcessed int     `json:"orders_processed"`
	OrdersPerSec    int64   `json:"orders_per_sec"`
	LatencyUSP50    float64 `json:"latency_us_p50"`
	LatencyUSP95    float64 `json:"latency_us_p95"`
	LatencyUSP99    float64 `json:"latency_us_p99"`
	Mode            string  `json:"mode"`
	IntervalMS      int64   `json:"interval_ms,omitempty"`
	CPU             string  `json:"cpu"`
	GoVersion       string  `json:"go_version"`
}

// Results summarizes the recorded run.
func (r *Recorder) Results(mode string, intervalMS int64) Results {
	res := Results{
		Mode:       mode,
		IntervalMS: intervalMS,
		CPU:        runtime.GOARCH,
		GoVersion:  runtime.Version(),
	}
	if len(r.latenciesUS) == 0 {
		return res
	}

	elapsed := r.endTime.Sub(r.startTime).Seconds()
	res.OrdersProcessed = len(r.latenciesUS)
	if elapsed > 0 {
		res.OrdersPerSec = int64(float64(res.OrdersProcessed) / elapsed)
	}

	sorted := make([]float64, len(r.latenciesUS))
	copy(sorted, r.latenciesUS)
	sort.Float64s(sorted)

	res.LatencyUSP50 = percentile(sorted, 0.50)
	res.LatencyUSP95 = percentile(sorted, 0.95)
	res.LatencyUSP99 = percentile(sorted, 0.99)
	return res
}

// Save writes the benchmark results as indented JSON.
func (r *Recorder) Save(path, mode string, intervalMS int64) error {
	data, err := json.MarshalIndent(r.Results(mode, intervalMS), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
