package engine

import (
	"sync"

	"github.com/R23Yadam/Batch-Auction-Simulator/metrics"
	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// Engine is the continuous matching engine: it consumes one order at a time
// in strict arrival order, matches it against the resting book with
// price-time priority, and emits zero or more trades plus exactly one quote
// snapshot per processed order.
//
// The matching path is single-threaded and synchronous. The mutex only
// serializes callers that share one engine (the live server); it is not a
// concurrency model for the book itself.
type Engine struct {
	mu   sync.Mutex
	book *OrderBook

	tradeHandler func(*models.Trade)
	quoteHandler func(models.Quote)

	ordersProcessed uint64
}

func NewEngine() *Engine {
	return &Engine{book: NewOrderBook()}
}

// SetTradeHandler registers a callback invoked for every emitted trade.
func (e *Engine) SetTradeHandler(handler func(*models.Trade)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tradeHandler = handler
}

// SetQuoteHandler registers a callback invoked with the post-order quote.
func (e *Engine) SetQuoteHandler(handler func(models.Quote)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quoteHandler = handler
}

// Process validates and executes a single order. Malformed orders are
// rejected with an error and leave the book untouched. A CANCEL whose target
// is unknown or already resolved is a no-op, not an error.
func (e *Engine) Process(order *models.Order) ([]*models.Trade, models.Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := order.Validate(); err != nil {
		metrics.RecordOrderRejected("continuous", models.RejectionReason(err))
		return nil, e.book.Snapshot(), err
	}

	var trades []*models.Trade
	switch order.Type {
	case models.OrderTypeCancel:
		e.book.RemoveOrder(order.CancelID)
	case models.OrderTypeMarket:
		trades = e.submitMarket(order)
	case models.OrderTypeIOC:
		trades = e.submitIOC(order)
	default:
		trades = e.submitLimit(order)
	}

	e.ordersProcessed++
	metrics.RecordOrderProcessed("continuous", string(order.Type))

	quote := e.book.Snapshot()
	e.publish(trades, quote)
	e.updateBookMetrics(quote)
	return trades, quote, nil
}

// Cancel removes a resting order by id. Unknown ids are a no-op; the return
// value reports whether an order was actually removed.
func (e *Engine) Cancel(orderID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.RemoveOrder(orderID) != nil
}

// Snapshot returns the current best bid/ask quote.
func (e *Engine) Snapshot() models.Quote {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Snapshot()
}

// TopLevels returns the top N levels of each side for display surfaces.
func (e *Engine) TopLevels(n int) (bids, asks []*PriceLevel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.GetTopLevels(n)
}

// RestingCount returns the number of orders currently resting in the book.
func (e *Engine) RestingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Size()
}

// submitLimit matches while the limit price crosses the opposite best, then
// rests any remainder.
func (e *Engine) submitLimit(order *models.Order) []*models.Trade {
	trades, remaining := e.matchAggressively(order, true)
	if remaining > 0 {
		e.book.AddOrder(&RestingOrder{
			ID:        order.ID,
			Side:      order.Side,
			Price:     order.Price,
			Qty:       remaining,
			Timestamp: order.Timestamp,
		})
	}
	return trades
}

// submitMarket matches unconditionally until the opposite side is exhausted;
// any remainder is discarded. A market order never rests.
func (e *Engine) submitMarket(order *models.Order) []*models.Trade {
	trades, _ := e.matchAggressively(order, false)
	return trades
}

// submitIOC matches like a limit order but discards the remainder instead
// of resting it.
func (e *Engine) submitIOC(order *models.Order) []*models.Trade {
	trades, _ := e.matchAggressively(order, true)
	return trades
}

// matchAggressively runs the shared matching loop: repeatedly take the head
// of the best opposite level, trade min(remaining, resting) at the RESTING
// order's price, and remove consumed orders and emptied levels. priceGated
// controls whether the incoming order's limit price must cross.
func (e *Engine) matchAggressively(order *models.Order, priceGated bool) ([]*models.Trade, int64) {
	trades := make([]*models.Trade, 0)
	remaining := order.Qty

	for remaining > 0 {
		var bestLevel *PriceLevel
		if order.Side == models.SideBuy {
			bestLevel = e.book.GetBestAsk()
		} else {
			bestLevel = e.book.GetBestBid()
		}
		if bestLevel == nil {
			break
		}

		if priceGated {
			crosses := false
			if order.Side == models.SideBuy {
				crosses = order.Price.GreaterThanOrEqual(bestLevel.Price)
			} else {
				crosses = order.Price.LessThanOrEqual(bestLevel.Price)
			}
			if !crosses {
				break
			}
		}

		resting := bestLevel.Front()
		matchQty := remaining
		if resting.Qty < matchQty {
			matchQty = resting.Qty
		}

		var trade *models.Trade
		if order.Side == models.SideBuy {
			trade = models.NewTrade(order.ID, resting.ID, resting.Price, matchQty, order.Side)
		} else {
			trade = models.NewTrade(resting.ID, order.ID, resting.Price, matchQty, order.Side)
		}
		trades = append(trades, trade)
		remaining -= matchQty

		if resting.Qty == matchQty {
			e.book.RemoveOrder(resting.ID)
		} else {
			e.book.ReduceOrder(resting.ID, matchQty)
		}
	}

	return trades, remaining
}

func (e *Engine) publish(trades []*models.Trade, quote models.Quote) {
	if e.tradeHandler != nil {
		for _, trade := range trades {
			e.tradeHandler(trade)
		}
	}
	for _, trade := range trades {
		metrics.RecordTrade("continuous", float64(trade.Qty))
	}
	if e.quoteHandler != nil {
		e.quoteHandler(quote)
	}
}

func (e *Engine) updateBookMetrics(quote models.Quote) {
	bidVolume, askVolume := e.book.GetDepth()
	metrics.UpdateOrderbookDepth(string(models.SideBuy), float64(bidVolume))
	metrics.UpdateOrderbookDepth(string(models.SideSell), float64(askVolume))

	bestBid, bestAsk := 0.0, 0.0
	if quote.BestBid != nil {
		bestBid, _ = quote.BestBid.Float64()
	}
	if quote.BestAsk != nil {
		bestAsk, _ = quote.BestAsk.Float64()
	}
	metrics.UpdateBestPrices(bestBid, bestAsk)
}
