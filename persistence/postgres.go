// Package persistence stores simulation outputs in PostgreSQL for later
// analysis. The book itself is never persisted; only immutable trades are.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/R23Yadam/Batch-Auction-Simulator/models"
)

const tradesSchema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id   UUID PRIMARY KEY,
	run_id     TEXT NOT NULL,
	mode       TEXT NOT NULL,
	buyer_id   BIGINT NOT NULL,
	seller_id  BIGINT NOT NULL,
	price      NUMERIC(20, 8) NOT NULL,
	qty        BIGINT NOT NULL,
	taker_side TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore handles database operations for recorded trades.
type PostgresStore struct {
	db *sql.DB
}

// Open connects to PostgreSQL, verifies the connection, and bootstraps the
// schema.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, tradesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// InsertTrades bulk-loads a run's trades with COPY inside one transaction.
func (ps *PostgresStore) InsertTrades(ctx context.Context, runID, mode string, trades []*models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("trades",
		"trade_id", "run_id", "mode", "buyer_id", "seller_id", "price", "qty", "taker_side"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}

	for _, t := range trades {
		_, err = stmt.ExecContext(ctx, t.TradeID, runID, mode,
			t.BuyerID, t.SellerID, t.Price.String(), t.Qty, string(t.TakerSide))
		if err != nil {
			stmt.Close()
			return fmt.Errorf("copy trade %s: %w", t.TradeID, err)
		}
	}

	// Flush the COPY buffer.
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}
	return tx.Commit()
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
