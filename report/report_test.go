package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

func trade(buyerID, sellerID int64, p string, qty int64) *models.Trade {
	return models.NewTrade(buyerID, sellerID, decimal.RequireFromString(p), qty, models.SideBuy)
}

func TestVWAP(t *testing.T) {
	trades := []*models.Trade{
		trade(1, 2, "100", 10),
		trade(3, 4, "102", 30),
	}

	vwap, ok := VWAP(trades)
	require.True(t, ok)
	assert.True(t, vwap.Equal(decimal.RequireFromString("101.5")), "got %s", vwap)

	_, ok = VWAP(nil)
	assert.False(t, ok)
}

func TestAverageMid(t *testing.T) {
	bid := decimal.RequireFromString("100")
	ask := decimal.RequireFromString("102")
	quotes := []models.Quote{
		{BestBid: &bid, BestAsk: &ask},
		{BestBid: &bid}, // one-sided, skipped
	}

	mid, ok := AverageMid(quotes)
	require.True(t, ok)
	assert.True(t, mid.Equal(decimal.RequireFromString("101")))

	_, ok = AverageMid(nil)
	assert.False(t, ok)
}

func TestSlippage(t *testing.T) {
	trades := []*models.Trade{
		trade(1, 2, "101", 10),
		trade(3, 4, "99", 10),
	}

	slips := Slippage(trades, decimal.RequireFromString("100"))
	require.Len(t, slips, 2)
	assert.True(t, slips[0].Equal(decimal.RequireFromString("1")))
	assert.True(t, slips[1].Equal(decimal.RequireFromString("-1")))
}

func TestWriteTearsheet(t *testing.T) {
	bid := decimal.RequireFromString("100")
	ask := decimal.RequireFromString("101")

	var buf bytes.Buffer
	err := WriteTearsheet(&buf,
		[]*models.Trade{trade(1, 2, "100.5", 10)},
		[]models.Quote{{BestBid: &bid, BestAsk: &ask}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "**Total Trades:** 1")
	assert.Contains(t, out, "**Total Volume:** 10")
	assert.Contains(t, out, "**VWAP:** 100.5000")
	assert.Contains(t, out, "**Average Mid:** 100.5000")
}

func TestCompareModes(t *testing.T) {
	batch := []*models.Trade{trade(1, 2, "100", 20)}
	cont := []*models.Trade{trade(1, 2, "100", 10), trade(3, 4, "101", 10)}

	out := CompareModes(batch, cont)
	assert.Contains(t, out, "| Trades | 1 | 2 |")
	assert.Contains(t, out, "| Volume | 20 | 20 |")
	assert.Contains(t, out, "| VWAP | 100.0000 | 100.5000 |")
}

func TestLoadTrades(t *testing.T) {
	input := strings.Join([]string{
		"buyer_id,seller_id,price,qty,taker_side",
		"1,2,100.5,10,SELL",
		"",
	}, "\n")

	trades, err := LoadTrades(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, int64(1), trades[0].BuyerID)
	assert.True(t, trades[0].Price.Equal(decimal.RequireFromString("100.5")))
	assert.Equal(t, models.SideSell, trades[0].TakerSide)
}

func TestLoadQuotes(t *testing.T) {
	input := strings.Join([]string{
		"bid,ask",
		"100,101",
		"100,",
		"",
	}, "\n")

	quotes, err := LoadQuotes(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.NotNil(t, quotes[0].BestBid)
	assert.True(t, quotes[0].BestAsk.Equal(decimal.RequireFromString("101")))
	assert.Nil(t, quotes[1].BestAsk)
}
