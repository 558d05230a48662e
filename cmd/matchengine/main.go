// Command matchengine runs the multi-symbol matching engine, its
// simulated market-maker liquidity fleet, and the JSON-over-TCP session
// server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/kestrelmarkets/matchengine/internal/engine"
	"github.com/kestrelmarkets/matchengine/internal/hub"
	"github.com/kestrelmarkets/matchengine/internal/server"
	"github.com/kestrelmarkets/matchengine/internal/sim/driver"
	"github.com/kestrelmarkets/matchengine/internal/sim/maker"
)

// tickIntervalYears is the GBM step size for a 100ms wall-clock tick,
// expressed in trading years (252 trading days * 6.5 trading hours each) —
// independent of real sleep drift.
const tickIntervalYears = 1.7e-8

// startupSymbol describes one of the five symbols installed at startup
// and the market-maker parameters quoting it.
type startupSymbol struct {
	ticker string
	price  float64
	seed   int64
}

var startupSymbols = []startupSymbol{
	{"AAPL", 150, 1},
	{"MSFT", 380, 2},
	{"GOOGL", 140, 3},
	{"AMZN", 180, 4},
	{"TSLA", 250, 5},
}

const (
	makerMu        = 0.05
	makerSigma     = 0.20
	makerSpreadBps = 20
	makerSize      = 100
	makerLevels    = 5
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := flag.Int("port", 8080, "TCP port to listen on")
	flag.Parse()

	if err := run(*port); err != nil {
		log.Error().Err(err).Msg("fatal startup error")
		fmt.Fprintln(os.Stderr, "matchengine:", err)
		os.Exit(1)
	}
}

func run(port int) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	symbols := make([]string, len(startupSymbols))
	for i, s := range startupSymbols {
		symbols[i] = s.ticker
	}
	eng := engine.New(symbols...)

	pool := maker.NewPool()
	for _, s := range startupSymbols {
		pool.Add(maker.New(maker.Config{
			Symbol:    s.ticker,
			S0:        s.price,
			Mu:        makerMu,
			Sigma:     makerSigma,
			Dt:        tickIntervalYears,
			Seed:      s.seed,
			SpreadBps: makerSpreadBps,
			OrderSize: makerSize,
			Levels:    makerLevels,
		}))
	}

	broadcastHub := hub.New()
	sim := driver.New(eng, pool, broadcastHub, driver.DefaultInterval)
	srv := server.New("0.0.0.0", port, eng, broadcastHub)

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error { return srv.Run(t) })
	t.Go(func() error { return sim.Run(t) })

	<-ctx.Done()
	t.Kill(nil)
	if err := t.Wait(); err != nil {
		return err
	}

	log.Info().Msg("shutdown complete")
	return nil
}
