package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/metrics"
	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// BatchResult is the outcome of clearing one auction interval. A nil
// ClearingPrice means no price crossed and no trades were produced.
type BatchResult struct {
	ClearingPrice *decimal.Decimal
	Trades        []*models.Trade
	Volume        int64
}

// batchEntry is one side's view of an order inside the auction. Market
// entries cross unconditionally at any clearing price and contribute no
// candidate price of their own.
type batchEntry struct {
	id        int64
	price     decimal.Decimal
	qty       int64
	timestamp int64
	market    bool
}

// ClearBatch computes the single uniform clearing price that maximizes
// executable volume over the interval's orders and allocates fills at that
// price in FIFO order. preQuote is the pre-auction snapshot used only for
// tie-breaking; tick is the minimum price increment used when no pre-auction
// mid exists.
//
// CANCELs inside the interval are ignored. IOC orders participate exactly
// like limit orders. Every trade is labeled taker_side=BUY; a batch auction
// has no maker/taker distinction.
func ClearBatch(orders []*models.Order, preQuote models.Quote, tick decimal.Decimal) *BatchResult {
	bids, asks := splitBatch(orders)

	sortBids(bids)
	sortAsks(asks)

	candidates := candidatePrices(bids, asks)
	if len(candidates) == 0 {
		return &BatchResult{}
	}

	maxVolume, winners := maxExecutableVolume(bids, asks, candidates)
	if maxVolume == 0 {
		return &BatchResult{}
	}

	clearingPrice := resolveTie(winners, preQuote, tick)
	trades := allocateFills(bids, asks, clearingPrice, maxVolume)

	price, _ := clearingPrice.Float64()
	metrics.RecordBatchCleared(float64(maxVolume), price)
	for _, trade := range trades {
		metrics.RecordTrade("batch", float64(trade.Qty))
	}

	return &BatchResult{ClearingPrice: &clearingPrice, Trades: trades, Volume: maxVolume}
}

// PreAuctionSnapshot derives the pre-auction quote from the interval's
// priced orders: best bid is the highest bid price, best ask the lowest ask
// price. Sides with no priced orders report nil.
func PreAuctionSnapshot(orders []*models.Order) models.Quote {
	var quote models.Quote
	for _, o := range orders {
		if !o.HasPrice() {
			continue
		}
		switch o.Side {
		case models.SideBuy:
			if quote.BestBid == nil || o.Price.GreaterThan(*quote.BestBid) {
				price := o.Price
				quote.BestBid = &price
			}
		case models.SideSell:
			if quote.BestAsk == nil || o.Price.LessThan(*quote.BestAsk) {
				price := o.Price
				quote.BestAsk = &price
			}
		}
	}
	return quote
}

func splitBatch(orders []*models.Order) (bids, asks []*batchEntry) {
	for _, o := range orders {
		if o.Type == models.OrderTypeCancel {
			continue
		}
		entry := &batchEntry{
			id:        o.ID,
			price:     o.Price,
			qty:       o.Qty,
			timestamp: o.Timestamp,
			market:    o.Type == models.OrderTypeMarket,
		}
		if o.Side == models.SideBuy {
			bids = append(bids, entry)
		} else {
			asks = append(asks, entry)
		}
	}
	return bids, asks
}

// sortBids orders by price descending, then timestamp, then id. Market bids
// outrank every priced bid.
func sortBids(bids []*batchEntry) {
	sort.Slice(bids, func(i, j int) bool {
		a, b := bids[i], bids[j]
		if a.market != b.market {
			return a.market
		}
		if !a.market && !a.price.Equal(b.price) {
			return a.price.GreaterThan(b.price)
		}
		if a.timestamp != b.timestamp {
			return a.timestamp < b.timestamp
		}
		return a.id < b.id
	})
}

// sortAsks orders by price ascending, then timestamp, then id. Market asks
// outrank every priced ask.
func sortAsks(asks []*batchEntry) {
	sort.Slice(asks, func(i, j int) bool {
		a, b := asks[i], asks[j]
		if a.market != b.market {
			return a.market
		}
		if !a.market && !a.price.Equal(b.price) {
			return a.price.LessThan(b.price)
		}
		if a.timestamp != b.timestamp {
			return a.timestamp < b.timestamp
		}
		return a.id < b.id
	})
}

// candidatePrices returns the sorted distinct prices observed across both
// sides' priced orders.
func candidatePrices(bids, asks []*batchEntry) []decimal.Decimal {
	seen := make(map[string]decimal.Decimal)
	for _, e := range bids {
		if !e.market {
			seen[e.price.String()] = e.price
		}
	}
	for _, e := range asks {
		if !e.market {
			seen[e.price.String()] = e.price
		}
	}
	prices := make([]decimal.Decimal, 0, len(seen))
	for _, p := range seen {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].LessThan(prices[j]) })
	return prices
}

// maxExecutableVolume evaluates V(p) = min(D(p), S(p)) at every candidate
// price and returns the maximum along with every price achieving it, in
// ascending order. D(p) counts bids willing to pay p or more, S(p) asks
// willing to accept p or less; market entries count on every candidate.
func maxExecutableVolume(bids, asks []*batchEntry, candidates []decimal.Decimal) (int64, []decimal.Decimal) {
	var maxVolume int64
	var winners []decimal.Decimal

	for _, p := range candidates {
		var demand, supply int64
		for _, e := range bids {
			if e.market || e.price.GreaterThanOrEqual(p) {
				demand += e.qty
			}
		}
		for _, e := range asks {
			if e.market || e.price.LessThanOrEqual(p) {
				supply += e.qty
			}
		}
		volume := demand
		if supply < volume {
			volume = supply
		}

		if volume > maxVolume {
			maxVolume = volume
			winners = winners[:0]
			winners = append(winners, p)
		} else if volume == maxVolume && volume > 0 {
			winners = append(winners, p)
		}
	}

	return maxVolume, winners
}

// resolveTie picks the clearing price among the winning candidates:
// a unique winner stands; otherwise the winner closest to the pre-auction
// mid wins, with the lowest price breaking an equidistant tie; with no
// pre-auction mid, the midpoint of the winning band rounded to the tick.
func resolveTie(winners []decimal.Decimal, preQuote models.Quote, tick decimal.Decimal) decimal.Decimal {
	if len(winners) == 1 {
		return winners[0]
	}

	if preMid, ok := preQuote.Mid(); ok {
		best := winners[0]
		bestDist := winners[0].Sub(preMid).Abs()
		for _, p := range winners[1:] {
			dist := p.Sub(preMid).Abs()
			// winners are ascending, so strict-less keeps the lowest of
			// any equidistant pair
			if dist.LessThan(bestDist) {
				best = p
				bestDist = dist
			}
		}
		return best
	}

	midpoint := winners[0].Add(winners[len(winners)-1]).Div(decimal.NewFromInt(2))
	return midpoint.Div(tick).Round(0).Mul(tick)
}

// allocateFills walks the sorted bid and ask queues in lockstep, matching
// greedily at the uniform clearing price until the target volume is reached.
func allocateFills(bids, asks []*batchEntry, price decimal.Decimal, targetVolume int64) []*models.Trade {
	validBids := make([]*batchEntry, 0, len(bids))
	for _, e := range bids {
		if e.market || e.price.GreaterThanOrEqual(price) {
			validBids = append(validBids, e)
		}
	}
	validAsks := make([]*batchEntry, 0, len(asks))
	for _, e := range asks {
		if e.market || e.price.LessThanOrEqual(price) {
			validAsks = append(validAsks, e)
		}
	}

	bidRemaining := make([]int64, len(validBids))
	for i, e := range validBids {
		bidRemaining[i] = e.qty
	}
	askRemaining := make([]int64, len(validAsks))
	for i, e := range validAsks {
		askRemaining[i] = e.qty
	}

	trades := make([]*models.Trade, 0)
	var traded int64
	bidIdx, askIdx := 0, 0

	for traded < targetVolume && bidIdx < len(validBids) && askIdx < len(validAsks) {
		if bidRemaining[bidIdx] == 0 {
			bidIdx++
			continue
		}
		if askRemaining[askIdx] == 0 {
			askIdx++
			continue
		}

		qty := bidRemaining[bidIdx]
		if askRemaining[askIdx] < qty {
			qty = askRemaining[askIdx]
		}
		if targetVolume-traded < qty {
			qty = targetVolume - traded
		}

		trades = append(trades, models.NewTrade(validBids[bidIdx].id, validAsks[askIdx].id, price, qty, models.SideBuy))
		bidRemaining[bidIdx] -= qty
		askRemaining[askIdx] -= qty
		traded += qty
	}

	return trades
}
