package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		order   *Order
		wantErr error
	}{
		{
			name:  "valid limit",
			order: NewLimitOrder(1, 0, SideBuy, decimal.RequireFromString("100.5"), 10),
		},
		{
			name:  "valid market",
			order: NewMarketOrder(2, 0, SideSell, 5),
		},
		{
			name:  "valid ioc",
			order: NewIOCOrder(3, 0, SideBuy, decimal.RequireFromString("99"), 1),
		},
		{
			name:  "valid cancel",
			order: NewCancelOrder(4, 0, 1),
		},
		{
			name:    "limit without price",
			order:   &Order{ID: 5, Type: OrderTypeLimit, Side: SideBuy, Qty: 10},
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "negative price",
			order:   NewLimitOrder(6, 0, SideSell, decimal.RequireFromString("-1"), 10),
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "zero qty",
			order:   NewMarketOrder(7, 0, SideBuy, 0),
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "cancel without target",
			order:   &Order{ID: 8, Type: OrderTypeCancel},
			wantErr: ErrMissingCancelTarget,
		},
		{
			name:    "unknown side",
			order:   &Order{ID: 9, Type: OrderTypeMarket, Side: "HOLD", Qty: 5},
			wantErr: ErrInvalidSide,
		},
		{
			name:    "unknown type",
			order:   &Order{ID: 10, Type: "STOP", Side: SideBuy, Qty: 5},
			wantErr: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		order *Order
		want  string
	}{
		{&Order{ID: 1, Type: "STOP", Side: SideBuy, Qty: 5}, "invalid_type"},
		{&Order{ID: 2, Type: OrderTypeMarket, Side: "HOLD", Qty: 5}, "invalid_side"},
		{&Order{ID: 3, Type: OrderTypeLimit, Side: SideBuy, Qty: 5}, "invalid_price"},
		{&Order{ID: 4, Type: OrderTypeMarket, Side: SideBuy}, "invalid_quantity"},
		{&Order{ID: 5, Type: OrderTypeCancel}, "missing_cancel_target"},
	}

	for _, tt := range tests {
		err := tt.order.Validate()
		require.Error(t, err)
		assert.Equal(t, tt.want, RejectionReason(err))
	}

	// The order id embedded in the error must never leak into the label.
	err := (&Order{ID: 12345, Type: OrderTypeMarket, Side: SideBuy}).Validate()
	assert.NotContains(t, RejectionReason(err), "12345")

	assert.Equal(t, "validation_failed", RejectionReason(errors.New("anything else")))
}

func TestHasPrice(t *testing.T) {
	assert.True(t, NewLimitOrder(1, 0, SideBuy, decimal.RequireFromString("1"), 1).HasPrice())
	assert.True(t, NewIOCOrder(2, 0, SideBuy, decimal.RequireFromString("1"), 1).HasPrice())
	assert.False(t, NewMarketOrder(3, 0, SideBuy, 1).HasPrice())
	assert.False(t, NewCancelOrder(4, 0, 1).HasPrice())
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
}

func TestQuoteMid(t *testing.T) {
	bid := decimal.RequireFromString("101")
	ask := decimal.RequireFromString("99")

	mid, ok := Quote{BestBid: &bid, BestAsk: &ask}.Mid()
	require.True(t, ok)
	assert.True(t, mid.Equal(decimal.RequireFromString("100")))

	_, ok = Quote{BestBid: &bid}.Mid()
	assert.False(t, ok)
	_, ok = Quote{}.Mid()
	assert.False(t, ok)
}

func TestQuoteCrossed(t *testing.T) {
	bid := decimal.RequireFromString("100")
	ask := decimal.RequireFromString("100")
	assert.True(t, Quote{BestBid: &bid, BestAsk: &ask}.Crossed())

	lower := decimal.RequireFromString("99")
	assert.False(t, Quote{BestBid: &lower, BestAsk: &ask}.Crossed())
	assert.False(t, Quote{BestBid: &bid}.Crossed())
}
