package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is an immutable fill produced by either execution mode.
// In continuous mode TakerSide is the side of the order that triggered the
// match; in batch mode it is fixed to BUY as a labeling convention for
// downstream consumers.
type Trade struct {
	TradeID   uuid.UUID       `json:"trade_id"`
	BuyerID   int64           `json:"buyer_id"`
	SellerID  int64           `json:"seller_id"`
	Price     decimal.Decimal `json:"price"`
	Qty       int64           `json:"qty"`
	TakerSide Side            `json:"taker_side"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewTrade creates a trade between a buyer and a seller order.
func NewTrade(buyerID, sellerID int64, price decimal.Decimal, qty int64, takerSide Side) *Trade {
	return &Trade{
		TradeID:   uuid.New(),
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Price:     price,
		Qty:       qty,
		TakerSide: takerSide,
		Timestamp: time.Now(),
	}
}

// Quote is a best bid/ask snapshot. Continuous mode emits one after every
// processed order; batch mode logs the pre-auction snapshot, never the
// clearing price. A nil pointer means that side of the book is empty.
type Quote struct {
	BestBid *decimal.Decimal `json:"bid"`
	BestAsk *decimal.Decimal `json:"ask"`
}

// Mid returns the midpoint of the quote. The second return value is false
// when either side is undefined.
func (q Quote) Mid() (decimal.Decimal, bool) {
	if q.BestBid == nil || q.BestAsk == nil {
		return decimal.Decimal{}, false
	}
	return q.BestBid.Add(*q.BestAsk).Div(decimal.NewFromInt(2)), true
}

// Crossed reports whether the quote shows bid >= ask. The continuous engine
// guarantees this never holds after an operation completes.
func (q Quote) Crossed() bool {
	if q.BestBid == nil || q.BestAsk == nil {
		return false
	}
	return q.BestBid.GreaterThanOrEqual(*q.BestAsk)
}
