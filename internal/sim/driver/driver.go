// Package driver implements the simulation driver: the periodic tick that
// advances every market-maker agent, then snapshots each book and hands
// market-data updates to the broadcast hub.
package driver

import (
	"time"

	tomb "gopkg.in/tomb.v2"

	"github.com/kestrelmarkets/matchengine/internal/common"
	"github.com/kestrelmarkets/matchengine/internal/orderbook"
	"github.com/kestrelmarkets/matchengine/internal/sim/maker"
	"github.com/kestrelmarkets/matchengine/internal/wire"
)

// DefaultInterval is the default wall-clock tick period.
const DefaultInterval = 100 * time.Millisecond

// Pool is the subset of sim/maker.Pool the driver needs.
type Pool interface {
	TickAll(engine maker.Submitter)
}

// Engine is the subset of engine.Engine the driver (and, via Pool, each
// agent) needs: submit/cancel for agents, symbol/book lookup for the
// snapshot pass.
type Engine interface {
	Submit(symbol string, side common.Side, typ common.OrderType, price float64, qty uint64, owner string) (*common.Order, common.MatchResult, error)
	Cancel(symbol string, orderID uint64) (bool, error)
	Symbols() []string
	Book(symbol string) *orderbook.Book
}

// Broadcaster is the subset of hub.Hub the driver needs.
type Broadcaster interface {
	Broadcast(update wire.MarketData)
}

// Driver runs the periodic tick on its own goroutine.
type Driver struct {
	engine   Engine
	pool     Pool
	hub      Broadcaster
	interval time.Duration
}

// New builds a driver. interval <= 0 selects DefaultInterval.
func New(engine Engine, pool Pool, hub Broadcaster, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{engine: engine, pool: pool, hub: hub, interval: interval}
}

// Run drives the tick loop until t is dying. It is meant to be started
// with t.Go, the same supervision idiom the network server uses.
func (d *Driver) Run(t *tomb.Tomb) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.Dying():
			return nil
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Driver) tick() {
	d.pool.TickAll(d.engine)

	for _, symbol := range d.engine.Symbols() {
		book := d.engine.Book(symbol)
		if book == nil {
			continue
		}
		d.hub.Broadcast(snapshotToWire(book))
	}
}

func snapshotToWire(book *orderbook.Book) wire.MarketData {
	snap := book.Snapshot()

	var bidSize, askSize uint64
	if levels := book.SnapshotLevels(common.Buy, 1); len(levels) > 0 {
		bidSize = levels[0].Quantity
	}
	if levels := book.SnapshotLevels(common.Sell, 1); len(levels) > 0 {
		askSize = levels[0].Quantity
	}

	return wire.MarketData{
		Type:      "MARKET_DATA",
		Ticker:    snap.Symbol,
		Bid:       snap.BestBid,
		Ask:       snap.BestAsk,
		Last:      snap.Last,
		BidSize:   bidSize,
		AskSize:   askSize,
		LastSize:  snap.LastSize,
		Timestamp: common.NowMicros(),
	}
}
