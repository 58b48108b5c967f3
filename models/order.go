package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Side represents the side of an order (buy or sell)
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType represents the type of order
type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeIOC    OrderType = "IOC"
	OrderTypeCancel OrderType = "CANCEL"
)

var (
	ErrInvalidType         = errors.New("invalid order type")
	ErrInvalidSide         = errors.New("invalid order side")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrMissingCancelTarget = errors.New("cancel order missing target order id")
)

// Order is the common order vocabulary consumed by both the continuous
// matching engine and the batch clearing engine. CANCEL is a tagged variant:
// the wire format carries the target id in the price column, the parser
// moves it into CancelID so the core never sees a loosely-typed record.
type Order struct {
	Timestamp int64           `json:"timestamp"` // nanoseconds, arrival rank
	ID        int64           `json:"order_id"`
	Type      OrderType       `json:"type"`
	Side      Side            `json:"side,omitempty"`
	Price     decimal.Decimal `json:"price,omitempty"` // zero for MARKET
	Qty       int64           `json:"qty,omitempty"`
	CancelID  int64           `json:"cancel_id,omitempty"` // CANCEL only
}

// NewLimitOrder creates a LIMIT order.
func NewLimitOrder(id, timestamp int64, side Side, price decimal.Decimal, qty int64) *Order {
	return &Order{Timestamp: timestamp, ID: id, Type: OrderTypeLimit, Side: side, Price: price, Qty: qty}
}

// NewMarketOrder creates a MARKET order. Market orders carry no price.
func NewMarketOrder(id, timestamp int64, side Side, qty int64) *Order {
	return &Order{Timestamp: timestamp, ID: id, Type: OrderTypeMarket, Side: side, Qty: qty}
}

// NewIOCOrder creates an immediate-or-cancel order.
func NewIOCOrder(id, timestamp int64, side Side, price decimal.Decimal, qty int64) *Order {
	return &Order{Timestamp: timestamp, ID: id, Type: OrderTypeIOC, Side: side, Price: price, Qty: qty}
}

// NewCancelOrder creates a CANCEL referencing an earlier order id.
func NewCancelOrder(id, timestamp, targetID int64) *Order {
	return &Order{Timestamp: timestamp, ID: id, Type: OrderTypeCancel, CancelID: targetID}
}

// HasPrice reports whether this order type carries a limit price.
func (o *Order) HasPrice() bool {
	return o.Type == OrderTypeLimit || o.Type == OrderTypeIOC
}

// Validate rejects malformed orders at the ingestion boundary so they can
// never corrupt book state. Unknown-id cancels are NOT an error here; the
// engine resolves those as a no-op.
func (o *Order) Validate() error {
	switch o.Type {
	case OrderTypeCancel:
		if o.CancelID <= 0 {
			return fmt.Errorf("order %d: %w", o.ID, ErrMissingCancelTarget)
		}
		return nil
	case OrderTypeLimit, OrderTypeIOC:
		if o.Price.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("order %d: %w", o.ID, ErrInvalidPrice)
		}
	case OrderTypeMarket:
	default:
		return fmt.Errorf("order %d: %w: %q", o.ID, ErrInvalidType, o.Type)
	}

	if o.Side != SideBuy && o.Side != SideSell {
		return fmt.Errorf("order %d: %w: %q", o.ID, ErrInvalidSide, o.Side)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("order %d: %w", o.ID, ErrInvalidQuantity)
	}
	return nil
}

// RejectionReason maps a validation error to a bounded label value safe for
// metrics. Unrecognized errors collapse to a single catch-all so rejected
// orders can never mint unbounded label cardinality.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidType):
		return "invalid_type"
	case errors.Is(err, ErrInvalidSide):
		return "invalid_side"
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrMissingCancelTarget):
		return "missing_cancel_target"
	default:
		return "validation_failed"
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}
