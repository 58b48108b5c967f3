// Package cache publishes trades and quotes to Redis so external consumers
// can follow a run live, and keeps the most recent quote in a key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

const (
	TradesChannel = "batchsim:trades"
	QuotesChannel = "batchsim:quotes"
	lastQuoteKey  = "batchsim:last_quote"
	lastQuoteTTL  = time.Hour
)

// Publisher fans trades and quotes out over Redis pub/sub.
type Publisher struct {
	client *redis.Client
}

// NewPublisher connects to Redis and verifies the connection.
func NewPublisher(ctx context.Context, addr string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Publisher{client: client}, nil
}

// PublishTrade sends one trade to the trades channel.
func (p *Publisher) PublishTrade(ctx context.Context, trade *models.Trade) error {
	payload, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("marshal trade: %w", err)
	}
	if err := p.client.Publish(ctx, TradesChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish trade: %w", err)
	}
	return nil
}

// PublishQuote sends a quote snapshot and refreshes the last-quote key.
func (p *Publisher) PublishQuote(ctx context.Context, quote models.Quote) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	if err := p.client.Publish(ctx, QuotesChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish quote: %w", err)
	}
	if err := p.client.Set(ctx, lastQuoteKey, payload, lastQuoteTTL).Err(); err != nil {
		return fmt.Errorf("set last quote: %w", err)
	}
	return nil
}

// LastQuote returns the most recently published quote, if any.
func (p *Publisher) LastQuote(ctx context.Context) (models.Quote, bool, error) {
	var quote models.Quote
	payload, err := p.client.Get(ctx, lastQuoteKey).Bytes()
	if err == redis.Nil {
		return quote, false, nil
	}
	if err != nil {
		return quote, false, fmt.Errorf("get last quote: %w", err)
	}
	if err := json.Unmarshal(payload, &quote); err != nil {
		return quote, false, fmt.Errorf("unmarshal quote: %w", err)
	}
	return quote, true, nil
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
