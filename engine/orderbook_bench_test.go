package engine

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

func BenchmarkContinuousMatching(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	orders := make([]*models.Order, 0, b.N)
	for i := 0; i < b.N; i++ {
		side := models.SideBuy
		if rng.Intn(2) == 1 {
			side = models.SideSell
		}
		p := decimal.NewFromFloat(95 + float64(rng.Intn(1000))*0.01)
		orders = append(orders, models.NewLimitOrder(int64(i+1), int64(i), side, p, int64(rng.Intn(100)+1)))
	}

	eng := NewEngine()
	b.ReportAllocs()
	b.ResetTimer()
	for _, order := range orders {
		if _, _, err := eng.Process(order); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBatchClearing(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	batch := make([]*models.Order, 0, 1000)
	for i := 0; i < 1000; i++ {
		side := models.SideBuy
		if rng.Intn(2) == 1 {
			side = models.SideSell
		}
		p := decimal.NewFromFloat(95 + float64(rng.Intn(1000))*0.01)
		batch = append(batch, models.NewLimitOrder(int64(i+1), int64(i), side, p, int64(rng.Intn(100)+1)))
	}
	snapshot := PreAuctionSnapshot(batch)
	tick := decimal.RequireFromString("0.01")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ClearBatch(batch, snapshot, tick)
	}
}
