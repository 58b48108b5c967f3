// Package gen produces deterministic order streams for the simulator.
// Identical configuration always yields byte-identical CSV output.
package gen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/R23Yadam/Batch-Auction-Simulator/logging"
	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// Config controls the synthetic order stream.
type Config struct {
	N         int     // number of orders to generate
	Seed      int64   // RNG seed; same seed, same stream
	CrossRate float64 // fraction of priced orders that cross the spread
	TickSize  float64 // minimum price increment
}

const (
	startMid    = 100.0
	midFloor    = 50.0
	spreadTicks = 5
	maxQty      = 100
)

// Generate writes a CSV order stream to w. Columns are
// timestamp,order_id,type,side,price,qty; CANCEL rows carry the target
// order id in the price column and leave side and qty empty.
func Generate(cfg Config, w io.Writer) error {
	if cfg.TickSize <= 0 {
		cfg.TickSize = 0.01
	}
	logging.GetLogger().WithField("event", logging.EventGeneratorStarted).
		Debugf("generating %d orders with seed %d", cfg.N, cfg.Seed)

	rng := rand.New(rand.NewSource(cfg.Seed))
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "order_id", "type", "side", "price", "qty"}); err != nil {
		return err
	}

	mid := startMid
	var timestamp int64
	var liveIDs []int64
	nextID := int64(1)

	for i := 0; i < cfg.N; i++ {
		// Drift the mid occasionally so levels spread out over a run.
		if rng.Float64() < 0.1 {
			direction := 1.0
			if rng.Intn(2) == 0 {
				direction = -1.0
			}
			mid += direction * cfg.TickSize * float64(rng.Intn(3)+1)
			mid = math.Max(mid, midFloor)
		}

		typeRoll := rng.Float64()
		if typeRoll < 0.05 && len(liveIDs) > 0 {
			idx := rng.Intn(len(liveIDs))
			cancelID := liveIDs[idx]
			liveIDs = append(liveIDs[:idx], liveIDs[idx+1:]...)

			row := []string{
				strconv.FormatInt(timestamp, 10),
				strconv.FormatInt(nextID, 10),
				string(models.OrderTypeCancel),
				"",
				strconv.FormatInt(cancelID, 10),
				"",
			}
			if err := writer.Write(row); err != nil {
				return err
			}
			nextID++
		} else {
			orderType := models.OrderTypeLimit
			if typeRoll >= 0.95 {
				orderType = models.OrderTypeMarket
			} else if typeRoll >= 0.80 {
				orderType = models.OrderTypeIOC
			}

			side := models.SideBuy
			if rng.Float64() >= 0.5 {
				side = models.SideSell
			}

			priceField := ""
			if orderType != models.OrderTypeMarket {
				var price float64
				if rng.Float64() < cfg.CrossRate {
					// Aggressive: at or through the spread.
					offset := cfg.TickSize * float64(rng.Intn(spreadTicks+1))
					if side == models.SideBuy {
						price = mid + offset
					} else {
						price = mid - offset
					}
				} else {
					// Passive: away from the mid.
					offset := cfg.TickSize * float64(rng.Intn(spreadTicks*2)+1)
					if side == models.SideBuy {
						price = mid - offset
					} else {
						price = mid + offset
					}
				}
				price = math.Round(price/cfg.TickSize) * cfg.TickSize
				price = math.Max(price, cfg.TickSize)
				priceField = fmt.Sprintf("%.2f", price)
			}

			qty := rng.Intn(maxQty) + 1
			row := []string{
				strconv.FormatInt(timestamp, 10),
				strconv.FormatInt(nextID, 10),
				string(orderType),
				string(side),
				priceField,
				strconv.Itoa(qty),
			}
			if err := writer.Write(row); err != nil {
				return err
			}

			liveIDs = append(liveIDs, nextID)
			nextID++
		}

		timestamp += int64(rng.Intn(9901) + 100)
	}

	writer.Flush()
	return writer.Error()
}
