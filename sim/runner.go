// Package sim drives the two execution modes over a recorded order stream:
// continuous feeds the matching engine one order at a time, batch groups
// orders into fixed intervals and clears each with a uniform-price auction.
package sim

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/bench"
	"github.com/R23Yadam/Batch-Auction-Simulator/engine"
	"github.com/R23Yadam/Batch-Auction-Simulator/logging"
	"github.com/R23Yadam/Batch-Auction-Simulator/metrics"
	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// ErrInvalidInterval is returned when the batch interval width is not a
// positive duration.
var ErrInvalidInterval = errors.New("batch interval must be positive")

// Result collects the outputs of one simulation run.
type Result struct {
	Trades   []*models.Trade
	Quotes   []models.Quote
	Orders   int
	Rejected int
}

// RunContinuous replays the order stream through the continuous matching
// engine in arrival order. Malformed orders are rejected and logged without
// touching the book. rec may be nil when latency is not being measured.
func RunContinuous(orders []*models.Order, rec *bench.Recorder) *Result {
	eng := engine.NewEngine()
	result := &Result{}
	started := time.Now()

	for _, order := range orders {
		t0 := time.Now()
		trades, quote, err := eng.Process(order)
		elapsed := time.Since(t0)
		metrics.RecordOrderLatency("continuous", elapsed.Seconds())
		if rec != nil {
			rec.Record(elapsed)
		}
		if err != nil {
			result.Rejected++
			logging.LogOrderRejected(order.ID, err.Error())
			continue
		}
		result.Orders++
		result.Trades = append(result.Trades, trades...)
		result.Quotes = append(result.Quotes, quote)
	}

	logging.LogSimulationDone("continuous", result.Orders, len(result.Trades), time.Since(started))
	return result
}

// RunBatch groups orders into half-open intervals
// [k*interval, (k+1)*interval) by timestamp and clears each interval with a
// uniform-price auction. The logged quote per interval is the pre-auction
// snapshot, not the clearing price, and only when both sides are defined.
func RunBatch(orders []*models.Order, intervalMS int64, tick decimal.Decimal, rec *bench.Recorder) (*Result, error) {
	if intervalMS <= 0 {
		return nil, fmt.Errorf("%w: %dms", ErrInvalidInterval, intervalMS)
	}

	result := &Result{}
	started := time.Now()
	intervalNS := intervalMS * int64(time.Millisecond)

	batches := make(map[int64][]*models.Order)
	for _, order := range orders {
		if err := order.Validate(); err != nil {
			result.Rejected++
			metrics.RecordOrderRejected("batch", models.RejectionReason(err))
			logging.LogOrderRejected(order.ID, err.Error())
			continue
		}
		result.Orders++
		metrics.RecordOrderProcessed("batch", string(order.Type))
		intervalID := order.Timestamp / intervalNS
		batches[intervalID] = append(batches[intervalID], order)
	}

	intervalIDs := make([]int64, 0, len(batches))
	for id := range batches {
		intervalIDs = append(intervalIDs, id)
	}
	sort.Slice(intervalIDs, func(i, j int) bool { return intervalIDs[i] < intervalIDs[j] })

	for _, intervalID := range intervalIDs {
		batch := batches[intervalID]
		snapshot := engine.PreAuctionSnapshot(batch)

		t0 := time.Now()
		cleared := engine.ClearBatch(batch, snapshot, tick)
		perOrder := time.Since(t0) / time.Duration(len(batch))
		for range batch {
			metrics.RecordOrderLatency("batch", perOrder.Seconds())
			if rec != nil {
				rec.Record(perOrder)
			}
		}

		if snapshot.BestBid != nil && snapshot.BestAsk != nil {
			result.Quotes = append(result.Quotes, snapshot)
		}
		result.Trades = append(result.Trades, cleared.Trades...)

		clearingPrice := ""
		if cleared.ClearingPrice != nil {
			clearingPrice = cleared.ClearingPrice.String()
		}
		logging.LogBatchCleared(intervalID, len(batch), len(cleared.Trades), cleared.Volume, clearingPrice)
	}

	logging.LogSimulationDone("batch", result.Orders, len(result.Trades), time.Since(started))
	return result, nil
}
