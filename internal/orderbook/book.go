// Package orderbook implements the per-symbol price-level index and order
// book: an ordered, self-balancing price structure per side, FIFO queues
// per level, and the price-time-priority crossing loop that drives a
// single symbol's matching.
package orderbook

import (
	"sync"

	"github.com/kestrelmarkets/matchengine/internal/common"
)

// LevelView is a read-only snapshot of one price level, safe to hand to
// market-data consumers without aliasing the live FIFO.
type LevelView struct {
	Price    float64
	Quantity uint64
}

// Book owns one symbol's bid and ask indices, the resting-order arena, the
// next-order-id counter, and cached best bid/ask/last-trade state, all
// behind a single mutex. Every exported mutating method takes the lock
// itself; Submit and Cancel are the only two entry points that mutate book
// state.
type Book struct {
	mu sync.Mutex

	Symbol string

	bids *SideIndex
	asks *SideIndex

	// arena indexes every currently-resting order by id for O(1) cancel
	// lookups, per the §9 guidance to favor a dense id-keyed store over
	// walking linked lists.
	arena map[uint64]*common.Order

	nextID uint64

	bestBid, bestAsk float64
	lastPrice        float64
	lastQty          uint64
}

// NewBook constructs an empty book for symbol.
func NewBook(symbol string) *Book {
	return &Book{
		Symbol: symbol,
		bids:   NewSideIndex(common.Buy),
		asks:   NewSideIndex(common.Sell),
		arena:  make(map[uint64]*common.Order),
	}
}

func (b *Book) restingIndex(side common.Side) *SideIndex {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) opposingIndex(side common.Side) *SideIndex {
	if side == common.Buy {
		return b.asks
	}
	return b.bids
}

// acceptablePrice reports whether a level at levelPrice may cross against
// an aggressor of the given side/type/limit: a buy limit crosses asks
// priced at or below its limit, a sell limit crosses bids priced at or
// above its limit, and market orders cross any resting price.
func acceptablePrice(side common.Side, typ common.OrderType, limit, levelPrice float64) bool {
	if typ == common.MarketOrder {
		return true
	}
	if side == common.Buy {
		return levelPrice <= limit
	}
	return levelPrice >= limit
}

// Submit drives the crossing loop for one incoming order, fully under the
// book's lock. It returns the final state of the incoming order (resting,
// filled, or cancelled-and-discarded for an unfillable market order) and
// the execution reports produced.
func (b *Book) Submit(side common.Side, typ common.OrderType, price float64, qty uint64, owner string) (*common.Order, common.MatchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	order := &common.Order{
		ID:         b.nextID,
		Symbol:     b.Symbol,
		Side:       side,
		Type:       typ,
		LimitPrice: price,
		Original:   qty,
		Status:     common.StatusNew,
		CreatedAt:  common.NowMicros(),
		Owner:      owner,
	}

	var reports common.MatchResult
	opposing := b.opposingIndex(side)

	for order.Remaining() > 0 {
		level, ok := opposing.Best()
		if !ok || !acceptablePrice(side, typ, price, level.Price) {
			break
		}

		for order.Remaining() > 0 && !level.empty() {
			resting := level.front()
			matchQty := min(order.Remaining(), resting.Remaining())

			order.Fill(matchQty)
			resting.Fill(matchQty)
			level.TotalQuantity -= matchQty

			b.lastPrice = level.Price
			b.lastQty = matchQty
			ts := common.NowMicros()

			reports = append(reports,
				common.ExecutionReport{
					OrderID:   order.ID,
					CounterID: resting.ID,
					Price:     level.Price,
					Quantity:  matchQty,
					Status:    order.Status,
					Timestamp: ts,
				},
				common.ExecutionReport{
					OrderID:   resting.ID,
					CounterID: order.ID,
					Price:     level.Price,
					Quantity:  matchQty,
					Status:    resting.Status,
					Timestamp: ts,
				},
			)

			if resting.Remaining() == 0 {
				level.popFront()
				delete(b.arena, resting.ID)
			}
		}

		if level.empty() {
			opposing.Delete(level.Price)
		}
	}

	if order.Remaining() > 0 {
		if typ == common.MarketOrder {
			// Market orders never rest; discard the unfillable remainder.
			order.Status = common.StatusCancelled
		} else {
			resting := b.restingIndex(side)
			level := resting.GetOrCreate(price)
			level.Orders = append(level.Orders, order)
			level.TotalQuantity += order.Remaining()
			b.arena[order.ID] = order
		}
	}

	b.refreshBestCache()
	return order, reports
}

// Cancel locates the order across both sides, splices it from its level's
// FIFO, and deletes the level if it empties. Returns false if the id is
// unknown (already filled, already cancelled, or never existed).
func (b *Book) Cancel(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.arena[id]
	if !ok {
		return false
	}

	idx := b.restingIndex(order.Side)
	level, ok := idx.Find(order.LimitPrice)
	if !ok {
		return false
	}
	if _, removed := level.remove(id); !removed {
		return false
	}

	level.TotalQuantity -= order.Remaining()
	delete(b.arena, id)
	order.Status = common.StatusCancelled

	if level.empty() {
		idx.Delete(level.Price)
	}

	b.refreshBestCache()
	return true
}

func (b *Book) refreshBestCache() {
	if level, ok := b.bids.Best(); ok {
		b.bestBid = level.Price
	} else {
		b.bestBid = 0
	}
	if level, ok := b.asks.Best(); ok {
		b.bestAsk = level.Price
	} else {
		b.bestAsk = 0
	}
}

// BestBid returns the cached best bid price, or 0 if the bid side is empty.
func (b *Book) BestBid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestBid
}

// BestAsk returns the cached best ask price, or 0 if the ask side is empty.
func (b *Book) BestAsk() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestAsk
}

// Mid returns (bestBid+bestAsk)/2, falling back to whichever side exists,
// then to the last trade price.
func (b *Book) Mid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.bestBid > 0 && b.bestAsk > 0:
		return (b.bestBid + b.bestAsk) / 2
	case b.bestBid > 0:
		return b.bestBid
	case b.bestAsk > 0:
		return b.bestAsk
	default:
		return b.lastPrice
	}
}

// Spread returns bestAsk-bestBid, or 0 if either side is empty.
func (b *Book) Spread() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bestBid == 0 || b.bestAsk == 0 {
		return 0
	}
	return b.bestAsk - b.bestBid
}

// LastTrade returns the most recent trade price and quantity.
func (b *Book) LastTrade() (price float64, qty uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastPrice, b.lastQty
}

// Snapshot captures every cached field under a single lock acquisition,
// the shape the simulation driver hands to the broadcast hub each tick.
type Snapshot struct {
	Symbol   string
	BestBid  float64
	BestAsk  float64
	Last     float64
	LastSize uint64
}

// Snapshot returns a consistent point-in-time read of the book's cached
// state.
func (b *Book) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Symbol:   b.Symbol,
		BestBid:  b.bestBid,
		BestAsk:  b.bestAsk,
		Last:     b.lastPrice,
		LastSize: b.lastQty,
	}
}

// SnapshotLevels returns up to max levels of side in traversal order (best
// first), for market-data depth views.
func (b *Book) SnapshotLevels(side common.Side, max int) []LevelView {
	b.mu.Lock()
	defer b.mu.Unlock()

	levels := b.restingIndex(side).Items(max)
	out := make([]LevelView, len(levels))
	for i, l := range levels {
		out[i] = LevelView{Price: l.Price, Quantity: l.TotalQuantity}
	}
	return out
}
