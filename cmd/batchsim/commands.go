package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/R23Yadam/Batch-Auction-Simulator/bench"
	"github.com/R23Yadam/Batch-Auction-Simulator/cache"
	"github.com/R23Yadam/Batch-Auction-Simulator/engine"
	"github.com/R23Yadam/Batch-Auction-Simulator/gen"
	"github.com/R23Yadam/Batch-Auction-Simulator/logging"
	"github.com/R23Yadam/Batch-Auction-Simulator/persistence"
	"github.com/R23Yadam/Batch-Auction-Simulator/report"
	"github.com/R23Yadam/Batch-Auction-Simulator/server"
	"github.com/R23Yadam/Batch-Auction-Simulator/sim"
)

type genCommand struct {
	N         int     `long:"n" required:"true" description:"Number of orders to generate"`
	Seed      int64   `long:"seed" required:"true" description:"Random seed"`
	CrossRate float64 `long:"cross-rate" default:"0.3" description:"Fraction of priced orders that cross the spread"`
	Tick      float64 `long:"tick" default:"0.01" description:"Price tick size"`
	Out       string  `long:"out" description:"Output file (default stdout)"`
}

func (c *genCommand) Execute(args []string) error {
	out := os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return gen.Generate(gen.Config{N: c.N, Seed: c.Seed, CrossRate: c.CrossRate, TickSize: c.Tick}, out)
}

// sinkOptions are the optional external destinations for a run's trades.
type sinkOptions struct {
	PGDSN     string `long:"pg-dsn" description:"PostgreSQL DSN; when set, trades are persisted"`
	RedisAddr string `long:"redis-addr" description:"Redis address; when set, trades and quotes are published"`
}

type simulateCommand struct {
	In         string `long:"in" required:"true" description:"Input order stream CSV"`
	Mode       string `long:"mode" required:"true" choice:"batch" choice:"continuous" description:"Execution mode"`
	IntervalMS int64  `long:"interval" default:"100" description:"Batch interval width (ms)"`
	Tick       string `long:"tick" default:"0.01" description:"Tick size for the no-pre-mid fallback"`
	Out        string `long:"out" required:"true" description:"Output directory"`
	sinkOptions
}

func (c *simulateCommand) Execute(args []string) error {
	result, err := runMode(c.In, c.Mode, c.IntervalMS, c.Tick, nil)
	if err != nil {
		return err
	}
	if err := writeResult(c.Out, result); err != nil {
		return err
	}
	if err := deliverToSinks(c.sinkOptions, c.Mode, result); err != nil {
		return err
	}
	fmt.Printf("%s simulation complete: %d trades\n", c.Mode, len(result.Trades))
	return nil
}

type benchmarkCommand struct {
	In         string `long:"in" required:"true" description:"Input order stream CSV"`
	Mode       string `long:"mode" required:"true" choice:"batch" choice:"continuous" description:"Execution mode"`
	IntervalMS int64  `long:"interval" default:"100" description:"Batch interval width (ms)"`
	Tick       string `long:"tick" default:"0.01" description:"Tick size for the no-pre-mid fallback"`
	Out        string `long:"out" required:"true" description:"Output directory"`
}

func (c *benchmarkCommand) Execute(args []string) error {
	recorder := bench.NewRecorder()
	recorder.Start()
	result, err := runMode(c.In, c.Mode, c.IntervalMS, c.Tick, recorder)
	if err != nil {
		return err
	}
	recorder.Stop()

	if err := writeResult(c.Out, result); err != nil {
		return err
	}
	if err := recorder.Save(filepath.Join(c.Out, "bench.json"), c.Mode, c.IntervalMS); err != nil {
		return err
	}
	fmt.Printf("Benchmark complete. Results in %s\n", filepath.Join(c.Out, "bench.json"))
	return nil
}

type compareCommand struct {
	In         string `long:"in" required:"true" description:"Input order stream CSV"`
	IntervalMS int64  `long:"interval" required:"true" description:"Batch interval width (ms)"`
	Tick       string `long:"tick" default:"0.01" description:"Tick size for the no-pre-mid fallback"`
	Out        string `long:"out" default:"out" description:"Output directory"`
}

func (c *compareCommand) Execute(args []string) error {
	batchResult, err := runMode(c.In, "batch", c.IntervalMS, c.Tick, nil)
	if err != nil {
		return err
	}
	if err := writeResult(filepath.Join(c.Out, "batch"), batchResult); err != nil {
		return err
	}

	contResult, err := runMode(c.In, "continuous", c.IntervalMS, c.Tick, nil)
	if err != nil {
		return err
	}
	if err := writeResult(filepath.Join(c.Out, "continuous"), contResult); err != nil {
		return err
	}

	fmt.Print(report.CompareModes(batchResult.Trades, contResult.Trades))
	return nil
}

type metricsCommand struct {
	Trades string `long:"trades" required:"true" description:"Trades CSV"`
	Quotes string `long:"quotes" required:"true" description:"Quotes CSV"`
	Out    string `long:"out" required:"true" description:"Output directory"`
}

func (c *metricsCommand) Execute(args []string) error {
	tradesFile, err := os.Open(c.Trades)
	if err != nil {
		return err
	}
	defer tradesFile.Close()
	trades, err := report.LoadTrades(tradesFile)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	quotesFile, err := os.Open(c.Quotes)
	if err != nil {
		return err
	}
	defer quotesFile.Close()
	quotes, err := report.LoadQuotes(quotesFile)
	if err != nil {
		return fmt.Errorf("load quotes: %w", err)
	}

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return err
	}
	path := filepath.Join(c.Out, "tearsheet.md")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteTearsheet(f, trades, quotes); err != nil {
		return err
	}
	fmt.Printf("Metrics written to %s\n", path)
	return nil
}

type serveCommand struct {
	Listen    string `long:"listen" default:":8080" description:"HTTP listen address"`
	RedisAddr string `long:"redis-addr" description:"Redis address; when set, /quote falls back to the last published quote"`
}

func (c *serveCommand) Execute(args []string) error {
	var quotes server.QuoteCache
	if c.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		publisher, err := cache.NewPublisher(ctx, c.RedisAddr)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer publisher.Close()
		quotes = publisher
	}
	return server.New(engine.NewEngine(), quotes).ListenAndServe(c.Listen)
}

func runMode(inPath, mode string, intervalMS int64, tickStr string, recorder *bench.Recorder) (*sim.Result, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	orders, err := sim.ReadOrders(f)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	if mode == "batch" {
		tick, err := decimal.NewFromString(tickStr)
		if err != nil || tick.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("invalid tick size %q", tickStr)
		}
		return sim.RunBatch(orders, intervalMS, tick, recorder)
	}
	return sim.RunContinuous(orders, recorder), nil
}

func writeResult(outDir string, result *sim.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	tradesFile, err := os.Create(filepath.Join(outDir, "trades.csv"))
	if err != nil {
		return err
	}
	defer tradesFile.Close()
	if err := sim.WriteTrades(tradesFile, result.Trades); err != nil {
		return err
	}

	quotesFile, err := os.Create(filepath.Join(outDir, "quotes.csv"))
	if err != nil {
		return err
	}
	defer quotesFile.Close()
	return sim.WriteQuotes(quotesFile, result.Quotes)
}

func deliverToSinks(sinks sinkOptions, mode string, result *sim.Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sinks.PGDSN != "" {
		store, err := persistence.Open(ctx, sinks.PGDSN)
		if err != nil {
			return fmt.Errorf("postgres sink: %w", err)
		}
		defer store.Close()
		runID := uuid.New().String()
		if err := store.InsertTrades(ctx, runID, mode, result.Trades); err != nil {
			logging.LogSinkError("postgres", err)
			return err
		}
	}

	if sinks.RedisAddr != "" {
		publisher, err := cache.NewPublisher(ctx, sinks.RedisAddr)
		if err != nil {
			return fmt.Errorf("redis sink: %w", err)
		}
		defer publisher.Close()
		for _, trade := range result.Trades {
			if err := publisher.PublishTrade(ctx, trade); err != nil {
				logging.LogSinkError("redis", err)
				return err
			}
		}
		for _, quote := range result.Quotes {
			if err := publisher.PublishQuote(ctx, quote); err != nil {
				logging.LogSinkError("redis", err)
				return err
			}
		}
	}

	return nil
}
