package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

// LoadTrades reads a trades CSV produced by a simulation run.
func LoadTrades(r io.Reader) ([]*models.Trade, error) {
	reader := csv.NewReader(r)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var trades []*models.Trade
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		buyerID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("buyer_id: %w", err)
		}
		sellerID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seller_id: %w", err)
		}
		price, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		qty, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("qty: %w", err)
		}

		trades = append(trades, &models.Trade{
			BuyerID:   buyerID,
			SellerID:  sellerID,
			Price:     price,
			Qty:       qty,
			TakerSide: models.Side(record[4]),
		})
	}
	return trades, nil
}

// LoadQuotes reads a quotes CSV; empty cells mean the side was undefined.
func LoadQuotes(r io.Reader) ([]models.Quote, error) {
	reader := csv.NewReader(r)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var quotes []models.Quote
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var quote models.Quote
		if record[0] != "" {
			bid, err := decimal.NewFromString(record[0])
			if err != nil {
				return nil, fmt.Errorf("bid: %w", err)
			}
			quote.BestBid = &bid
		}
		if record[1] != "" {
			ask, err := decimal.NewFromString(record[1])
			if err != nil {
				return nil, fmt.Errorf("ask: %w", err)
			}
			quote.BestAsk = &ask
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
