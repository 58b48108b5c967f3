package sim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

func TestReadOrders(t *testing.T) {
	input := strings.Join([]string{
		"timestamp,order_id,type,side,price,qty",
		"1000,1,LIMIT,BUY,100.50,10",
		"2000,2,MARKET,SELL,,5",
		"3000,3,IOC,BUY,99.25,7",
		"4000,4,CANCEL,,1,0",
		"",
	}, "\n")

	orders, err := ReadOrders(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 4)

	assert.Equal(t, models.OrderTypeLimit, orders[0].Type)
	assert.True(t, orders[0].Price.Equal(decimal.RequireFromString("100.50")))
	assert.Equal(t, int64(10), orders[0].Qty)

	assert.Equal(t, models.OrderTypeMarket, orders[1].Type)
	assert.False(t, orders[1].HasPrice())

	cancel := orders[3]
	assert.Equal(t, models.OrderTypeCancel, cancel.Type)
	assert.Equal(t, int64(1), cancel.CancelID, "cancel target comes from the price column")
}

func TestReadOrdersRejectsBadHeader(t *testing.T) {
	_, err := ReadOrders(strings.NewReader("a,b,c,d,e,f\n"))
	assert.Error(t, err)
}

func TestReadOrdersReportsLine(t *testing.T) {
	input := "timestamp,order_id,type,side,price,qty\nnotanumber,1,LIMIT,BUY,100,10\n"
	_, err := ReadOrders(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestWriteTradesRoundTrip(t *testing.T) {
	trades := []*models.Trade{
		models.NewTrade(1, 2, decimal.RequireFromString("100.5"), 10, models.SideSell),
		models.NewTrade(3, 4, decimal.RequireFromString("99"), 5, models.SideBuy),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, trades))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "buyer_id,seller_id,price,qty,taker_side", lines[0])
	assert.Equal(t, "1,2,100.5,10,SELL", lines[1])
	assert.Equal(t, "3,4,99,5,BUY", lines[2])
}

func TestWriteQuotesEmptySides(t *testing.T) {
	bid := decimal.RequireFromString("100")
	quotes := []models.Quote{
		{BestBid: &bid},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteQuotes(&buf, quotes))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "bid,ask", lines[0])
	assert.Equal(t, "100,", lines[1])
}
