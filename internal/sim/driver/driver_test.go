package driver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"

	"github.com/kestrelmarkets/matchengine/internal/common"
	"github.com/kestrelmarkets/matchengine/internal/orderbook"
	"github.com/kestrelmarkets/matchengine/internal/sim/driver"
	"github.com/kestrelmarkets/matchengine/internal/sim/maker"
	"github.com/kestrelmarkets/matchengine/internal/wire"
)

type fakeEngine struct {
	book *orderbook.Book
}

func (f *fakeEngine) Submit(symbol string, side common.Side, typ common.OrderType, price float64, qty uint64, owner string) (*common.Order, common.MatchResult, error) {
	return f.book.Submit(side, typ, price, qty, owner)
}

func (f *fakeEngine) Cancel(symbol string, orderID uint64) (bool, error) {
	return f.book.Cancel(orderID), nil
}

func (f *fakeEngine) Symbols() []string { return []string{"AAPL"} }

func (f *fakeEngine) Book(symbol string) *orderbook.Book {
	if symbol != "AAPL" {
		return nil
	}
	return f.book
}

type fakePool struct {
	ticks int
}

func (p *fakePool) TickAll(engine maker.Submitter) {
	p.ticks++
}

type fakeBroadcaster struct {
	updates []wire.MarketData
}

func (b *fakeBroadcaster) Broadcast(update wire.MarketData) {
	b.updates = append(b.updates, update)
}

func TestDriverTickAdvancesPoolAndBroadcasts(t *testing.T) {
	book := orderbook.NewBook("AAPL")
	book.Submit(common.Buy, common.LimitOrder, 99, 10, "maker")
	book.Submit(common.Sell, common.LimitOrder, 101, 10, "maker")

	eng := &fakeEngine{book: book}
	pool := &fakePool{}
	bc := &fakeBroadcaster{}

	d := driver.New(eng, pool, bc, 10*time.Millisecond)

	var tomb tomb.Tomb
	tomb.Go(func() error { return d.Run(&tomb) })

	time.Sleep(35 * time.Millisecond)
	tomb.Kill(nil)
	tomb.Wait()

	assert.GreaterOrEqual(t, pool.ticks, 2)
	require.NotEmpty(t, bc.updates)
	last := bc.updates[len(bc.updates)-1]
	assert.Equal(t, "AAPL", last.Ticker)
	assert.Equal(t, 99.0, last.Bid)
	assert.Equal(t, 101.0, last.Ask)
}

func TestDefaultIntervalUsedWhenNonPositive(t *testing.T) {
	book := orderbook.NewBook("AAPL")
	eng := &fakeEngine{book: book}
	pool := &fakePool{}
	d := driver.New(eng, pool, &fakeBroadcaster{}, 0)
	assert.NotNil(t, d)

	// A zero interval would make time.NewTicker panic; with the 100ms
	// default no tick fires within 30ms.
	var tb tomb.Tomb
	tb.Go(func() error { return d.Run(&tb) })
	time.Sleep(30 * time.Millisecond)
	tb.Kill(nil)
	tb.Wait()

	assert.Equal(t, 0, pool.ticks)
}
