package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// ReadOrders parses an order stream CSV
// (timestamp,order_id,type,side,price,qty) into typed orders. The price
// column of a CANCEL row is repurposed as the target order id and lands in
// Order.CancelID; the core never sees the overloaded column.
func ReadOrders(r io.Reader) ([]*models.Order, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != "timestamp" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var orders []*models.Order
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		line++

		order, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func parseRecord(record []string) (*models.Order, error) {
	timestamp, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}
	id, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("order_id: %w", err)
	}

	order := &models.Order{
		Timestamp: timestamp,
		ID:        id,
		Type:      models.OrderType(record[2]),
		Side:      models.Side(record[3]),
	}

	if order.Type == models.OrderTypeCancel {
		targetID, err := strconv.ParseInt(record[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cancel target: %w", err)
		}
		order.CancelID = targetID
		return order, nil
	}

	if record[4] != "" {
		price, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		order.Price = price
	}
	if record[5] != "" {
		qty, err := strconv.ParseInt(record[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("qty: %w", err)
		}
		order.Qty = qty
	}
	return order, nil
}

// WriteTrades writes trades in the external record format consumed by the
// metrics layer.
func WriteTrades(w io.Writer, trades []*models.Trade) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"buyer_id", "seller_id", "price", "qty", "taker_side"}); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			strconv.FormatInt(t.BuyerID, 10),
			strconv.FormatInt(t.SellerID, 10),
			t.Price.String(),
			strconv.FormatInt(t.Qty, 10),
			string(t.TakerSide),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteQuotes writes quote snapshots; an empty cell means that side of the
// book was empty at snapshot time.
func WriteQuotes(w io.Writer, quotes []models.Quote) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"bid", "ask"}); err != nil {
		return err
	}
	for _, q := range quotes {
		bid, ask := "", ""
		if q.BestBid != nil {
			bid = q.BestBid.String()
		}
		if q.BestAsk != nil {
			ask = q.BestAsk.String()
		}
		if err := writer.Write([]string{bid, ask}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
