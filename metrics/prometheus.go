package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter: orders processed, by execution mode and order type
	OrdersProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_processed_total",
			Help: "Total number of orders processed by the engine",
		},
		[]string{"mode", "type"},
	)

	// Counter: orders rejected at the validation boundary
	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Total number of orders rejected due to validation errors",
		},
		[]string{"mode", "reason"},
	)

	// Counter: trades executed, by execution mode
	TradesExecutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trades_executed_total",
			Help: "Total number of trades executed",
		},
		[]string{"mode"},
	)

	// Counter: total quantity traded, by execution mode
	TradedVolumeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traded_volume_total",
			Help: "Total quantity traded",
		},
		[]string{"mode"},
	)

	// Histogram: per-order processing latency
	OrderLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_latency_seconds",
			Help:    "Time taken to process a single order",
			Buckets: prometheus.ExponentialBuckets(0.0000005, 2, 18), // 0.5us to ~130ms
		},
		[]string{"mode"},
	)

	// Gauge: current resting volume per book side
	OrderbookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orderbook_depth",
			Help: "Current resting quantity in the order book",
		},
		[]string{"side"},
	)

	// Gauges: best bid/ask and spread
	BestBidPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "best_bid_price",
		Help: "Current best bid price in the order book",
	})

	BestAskPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "best_ask_price",
		Help: "Current best ask price in the order book",
	})

	OrderbookSpread = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderbook_spread",
		Help: "Current spread between best ask and best bid",
	})

	// Histogram: matched volume per batch auction
	BatchClearedVolume = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "batch_cleared_volume",
		Help:    "Matched volume per batch auction interval",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// Gauge: most recent batch clearing price
	BatchClearingPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "batch_clearing_price",
		Help: "Clearing price of the most recent batch auction",
	})
)

// RecordOrderProcessed increments the orders_processed_total counter
func RecordOrderProcessed(mode, orderType string) {
	OrdersProcessedTotal.WithLabelValues(mode, orderType).Inc()
}

// RecordOrderRejected increments the orders_rejected_total counter
func RecordOrderRejected(mode, reason string) {
	OrdersRejectedTotal.WithLabelValues(mode, reason).Inc()
}

// RecordOrderLatency records the time taken to process an order
func RecordOrderLatency(mode string, seconds float64) {
	OrderLatencySeconds.WithLabelValues(mode).Observe(seconds)
}

// RecordTrade records a trade execution and its quantity
func RecordTrade(mode string, quantity float64) {
	TradesExecutedTotal.WithLabelValues(mode).Inc()
	TradedVolumeTotal.WithLabelValues(mode).Add(quantity)
}

// RecordBatchCleared records the outcome of one batch auction
func RecordBatchCleared(volume, clearingPrice float64) {
	BatchClearedVolume.Observe(volume)
	BatchClearingPrice.Set(clearingPrice)
}

// UpdateOrderbookDepth updates the resting-volume gauge for one side
func UpdateOrderbookDepth(side string, depth float64) {
	OrderbookDepth.WithLabelValues(side).Set(depth)
}

// UpdateBestPrices updates best bid/ask and spread gauges
func UpdateBestPrices(bestBid, bestAsk float64) {
	if bestBid > 0 {
		BestBidPrice.Set(bestBid)
	}
	if bestAsk > 0 {
		BestAskPrice.Set(bestAsk)
	}
	if bestBid > 0 && bestAsk > 0 {
		OrderbookSpread.Set(bestAsk - bestBid)
	}
}
