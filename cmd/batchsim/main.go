// batchsim is a single-asset market simulator with two interchangeable
// execution modes: a continuous price-time-priority limit order book and a
// periodic uniform-price batch auction.
package main

import (
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/R23Yadam/Batch-Auction-Simulator/logging"
)

func main() {
	logging.InitLogger()

	parser := flags.NewParser(nil, flags.Default)
	parser.ShortDescription = "Batch auction and continuous LOB simulator"

	mustAddCommand(parser, "gen", "Generate a deterministic order stream CSV", &genCommand{})
	mustAddCommand(parser, "simulate", "Replay an order stream in batch or continuous mode", &simulateCommand{})
	mustAddCommand(parser, "benchmark", "Replay with per-order latency measurement", &benchmarkCommand{})
	mustAddCommand(parser, "compare", "Run both modes and compare trade quality", &compareCommand{})
	mustAddCommand(parser, "metrics", "Compute a tearsheet from recorded trades and quotes", &metricsCommand{})
	mustAddCommand(parser, "serve", "Run a live continuous engine over HTTP/WebSocket", &serveCommand{})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func mustAddCommand(parser *flags.Parser, name, description string, cmd interface{}) {
	if _, err := parser.AddCommand(name, description, description, cmd); err != nil {
		logging.GetLogger().WithError(err).Fatalf("register %s command", name)
	}
}
