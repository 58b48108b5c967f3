// Package report computes post-trade quality metrics (VWAP, mid, slippage)
// from recorded trade and quote streams and renders them as markdown.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// VWAP returns the volume-weighted average price of the trades. The second
// return value is false when there is no traded volume.
func VWAP(trades []*models.Trade) (decimal.Decimal, bool) {
	totalValue := decimal.Zero
	var totalQty int64

	for _, t := range trades {
		totalValue = totalValue.Add(t.Price.Mul(decimal.NewFromInt(t.Qty)))
		totalQty += t.Qty
	}
	if totalQty == 0 {
		return decimal.Decimal{}, false
	}
	return totalValue.Div(decimal.NewFromInt(totalQty)), true
}

// AverageMid returns the mean midpoint over quotes where both sides are
// defined.
func AverageMid(quotes []models.Quote) (decimal.Decimal, bool) {
	sum := decimal.Zero
	count := 0
	for _, q := range quotes {
		if mid, ok := q.Mid(); ok {
			sum = sum.Add(mid)
			count++
		}
	}
	if count == 0 {
		return decimal.Decimal{}, false
	}
	return sum.Div(decimal.NewFromInt(int64(count))), true
}

// Slippage returns the signed difference of each trade price from a
// reference price, in trade order.
func Slippage(trades []*models.Trade, reference decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(trades))
	for i, t := range trades {
		out[i] = t.Price.Sub(reference)
	}
	return out
}

// TotalVolume sums traded quantity.
func TotalVolume(trades []*models.Trade) int64 {
	var total int64
	for _, t := range trades {
		total += t.Qty
	}
	return total
}

// WriteTearsheet renders a markdown summary of one run.
func WriteTearsheet(w io.Writer, trades []*models.Trade, quotes []models.Quote) error {
	var b strings.Builder
	b.WriteString("# Trade Metrics Tearsheet\n\n")
	fmt.Fprintf(&b, "**Total Trades:** %d\n", len(trades))
	fmt.Fprintf(&b, "**Total Volume:** %d\n", TotalVolume(trades))

	if vwap, ok := VWAP(trades); ok {
		fmt.Fprintf(&b, "**VWAP:** %s\n", vwap.StringFixed(4))
	} else {
		b.WriteString("**VWAP:** N/A\n")
	}
	if mid, ok := AverageMid(quotes); ok {
		fmt.Fprintf(&b, "**Average Mid:** %s\n", mid.StringFixed(4))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// CompareModes renders a markdown table comparing batch and continuous runs
// over the same order stream.
func CompareModes(batchTrades, contTrades []*models.Trade) string {
	var b strings.Builder
	b.WriteString("# Batch vs Continuous Comparison\n\n")
	b.WriteString("| Metric | Batch | Continuous |\n")
	b.WriteString("| --- | --- | --- |\n")
	fmt.Fprintf(&b, "| Trades | %d | %d |\n", len(batchTrades), len(contTrades))
	fmt.Fprintf(&b, "| Volume | %d | %d |\n", TotalVolume(batchTrades), TotalVolume(contTrades))
	fmt.Fprintf(&b, "| VWAP | %s | %s |\n", formatVWAP(batchTrades), formatVWAP(contTrades))
	b.WriteString("\n")
	return b.String()
}

func formatVWAP(trades []*models.Trade) string {
	vwap, ok := VWAP(trades)
	if !ok {
		return "N/A"
	}
	return vwap.StringFixed(4)
}
