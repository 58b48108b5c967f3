package engine

import (
	"container/list"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// RestingOrder is a limit order (or its unmatched remainder) held in the
// book awaiting a future match. Qty is the remaining quantity and is always
// positive; fully consumed orders are removed immediately.
type RestingOrder struct {
	ID        int64
	Side      models.Side
	Price     decimal.Decimal
	Qty       int64
	Timestamp int64
}

// PriceLevel is a price plus a FIFO queue of resting orders at that price.
// Queue order is arrival order and is preserved for the level's lifetime.
type PriceLevel struct {
	Price  decimal.Decimal
	Orders *list.List // of *RestingOrder
	Volume int64
}

// NewPriceLevel creates an empty price level.
func NewPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{Price: price, Orders: list.New()}
}

func (pl *PriceLevel) AddOrder(order *RestingOrder) *list.Element {
	element := pl.Orders.PushBack(order)
	pl.Volume += order.Qty
	return element
}

func (pl *PriceLevel) RemoveOrder(element *list.Element) {
	if element == nil {
		return
	}
	order := element.Value.(*RestingOrder)
	pl.Volume -= order.Qty
	pl.Orders.Remove(element)
}

// Front returns the oldest resting order at this level, nil if empty.
func (pl *PriceLevel) Front() *RestingOrder {
	if e := pl.Orders.Front(); e != nil {
		return e.Value.(*RestingOrder)
	}
	return nil
}

func (pl *PriceLevel) IsEmpty() bool {
	return pl.Orders.Len() == 0
}

func (pl *PriceLevel) Less(than btree.Item) bool {
	other := than.(*PriceLevel)
	return pl.Price.LessThan(other.Price)
}

// OrderBookSide holds one side's price levels in a btree keyed by price, so
// the best non-empty level is always an O(log n) Min/Max away.
type OrderBookSide struct {
	tree *btree.BTree
}

func NewOrderBookSide() *OrderBookSide {
	return &OrderBookSide{tree: btree.New(32)}
}

func (obs *OrderBookSide) GetOrCreatePriceLevel(price decimal.Decimal) *PriceLevel {
	searchLevel := &PriceLevel{Price: price}
	if item := obs.tree.Get(searchLevel); item != nil {
		return item.(*PriceLevel)
	}
	newLevel := NewPriceLevel(price)
	obs.tree.ReplaceOrInsert(newLevel)
	return newLevel
}

func (obs *OrderBookSide) RemovePriceLevel(price decimal.Decimal) {
	obs.tree.Delete(&PriceLevel{Price: price})
}

// GetBestPrice returns the best price level (highest for bids, lowest for
// asks), nil when the side is empty.
func (obs *OrderBookSide) GetBestPrice(isBid bool) *PriceLevel {
	var item btree.Item
	if isBid {
		item = obs.tree.Max()
	} else {
		item = obs.tree.Min()
	}
	if item != nil {
		return item.(*PriceLevel)
	}
	return nil
}

// Ascend iterates price levels in ascending price order.
func (obs *OrderBookSide) Ascend(iterator btree.ItemIterator) {
	obs.tree.Ascend(iterator)
}

// Descend iterates price levels in descending price order.
func (obs *OrderBookSide) Descend(iterator btree.ItemIterator) {
	obs.tree.Descend(iterator)
}

// Len returns the number of price levels.
func (obs *OrderBookSide) Len() int {
	return obs.tree.Len()
}

// OrderLocation tracks where a resting order sits in the book, giving O(1)
// cancellation by id.
type OrderLocation struct {
	PriceLevel *PriceLevel
	Element    *list.Element
}

// OrderBook is the resident state of the continuous matching engine: bids
// and asks plus the id index. It is owned by a single execution context;
// the Engine serializes access.
type OrderBook struct {
	Bids   *OrderBookSide // descending price priority
	Asks   *OrderBookSide // ascending price priority
	Orders map[int64]*OrderLocation
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids:   NewOrderBookSide(),
		Asks:   NewOrderBookSide(),
		Orders: make(map[int64]*OrderLocation),
	}
}

func (ob *OrderBook) side(s models.Side) *OrderBookSide {
	if s == models.SideBuy {
		return ob.Bids
	}
	return ob.Asks
}

// AddOrder rests an order at the tail of its price's FIFO queue, creating
// the level if absent, and indexes it by id.
func (ob *OrderBook) AddOrder(order *RestingOrder) {
	priceLevel := ob.side(order.Side).GetOrCreatePriceLevel(order.Price)
	element := priceLevel.AddOrder(order)
	ob.Orders[order.ID] = &OrderLocation{PriceLevel: priceLevel, Element: element}
}

// RemoveOrder removes an order from its level and the index, dropping the
// level if it became empty. Returns nil when the id is not resting.
func (ob *OrderBook) RemoveOrder(orderID int64) *RestingOrder {
	location, exists := ob.Orders[orderID]
	if !exists {
		return nil
	}
	order := location.Element.Value.(*RestingOrder)
	location.PriceLevel.RemoveOrder(location.Element)
	if location.PriceLevel.IsEmpty() {
		ob.side(order.Side).RemovePriceLevel(location.PriceLevel.Price)
	}
	delete(ob.Orders, orderID)
	return order
}

// ReduceOrder decrements a resting order's remaining quantity after a match
// and keeps the level volume consistent. The order must still have qty > 0
// afterwards; full consumption goes through RemoveOrder.
func (ob *OrderBook) ReduceOrder(orderID, qty int64) {
	location, exists := ob.Orders[orderID]
	if !exists {
		return
	}
	order := location.Element.Value.(*RestingOrder)
	order.Qty -= qty
	location.PriceLevel.Volume -= qty
}

// GetOrder retrieves a resting order by id, nil if not resting.
func (ob *OrderBook) GetOrder(orderID int64) *RestingOrder {
	location, exists := ob.Orders[orderID]
	if !exists {
		return nil
	}
	return location.Element.Value.(*RestingOrder)
}

// GetBestBid returns the highest bid price level.
func (ob *OrderBook) GetBestBid() *PriceLevel {
	return ob.Bids.GetBestPrice(true)
}

// GetBestAsk returns the lowest ask price level.
func (ob *OrderBook) GetBestAsk() *PriceLevel {
	return ob.Asks.GetBestPrice(false)
}

// Snapshot returns the current best bid/ask quote. A side with no resting
// orders reports nil.
func (ob *OrderBook) Snapshot() models.Quote {
	var quote models.Quote
	if bestBid := ob.GetBestBid(); bestBid != nil {
		price := bestBid.Price
		quote.BestBid = &price
	}
	if bestAsk := ob.GetBestAsk(); bestAsk != nil {
		price := bestAsk.Price
		quote.BestAsk = &price
	}
	return quote
}

// GetSpread returns the bid-ask spread, zero if either side is empty.
func (ob *OrderBook) GetSpread() decimal.Decimal {
	bestBid := ob.GetBestBid()
	bestAsk := ob.GetBestAsk()
	if bestBid == nil || bestAsk == nil {
		return decimal.Zero
	}
	return bestAsk.Price.Sub(bestBid.Price)
}

// GetDepth returns the total resting volume on each side.
func (ob *OrderBook) GetDepth() (bidVolume, askVolume int64) {
	ob.Bids.Ascend(func(item btree.Item) bool {
		bidVolume += item.(*PriceLevel).Volume
		return true
	})
	ob.Asks.Ascend(func(item btree.Item) bool {
		askVolume += item.(*PriceLevel).Volume
		return true
	})
	return bidVolume, askVolume
}

// GetTopLevels returns the top N price levels for bids and asks, best first.
func (ob *OrderBook) GetTopLevels(n int) (bids, asks []*PriceLevel) {
	bids = make([]*PriceLevel, 0, n)
	asks = make([]*PriceLevel, 0, n)

	count := 0
	ob.Bids.Descend(func(item btree.Item) bool {
		if count >= n {
			return false
		}
		bids = append(bids, item.(*PriceLevel))
		count++
		return true
	})

	count = 0
	ob.Asks.Ascend(func(item btree.Item) bool {
		if count >= n {
			return false
		}
		asks = append(asks, item.(*PriceLevel))
		count++
		return true
	})

	return bids, asks
}

// Size returns the total number of resting orders.
func (ob *OrderBook) Size() int {
	return len(ob.Orders)
}
