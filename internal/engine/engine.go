// Package engine implements the matching engine: routing inbound
// submissions and cancels to the right per-symbol order book and
// assembling the resulting execution reports.
package engine

import (
	"errors"
	"sync"

	"github.com/kestrelmarkets/matchengine/internal/common"
	"github.com/kestrelmarkets/matchengine/internal/orderbook"
)

// ErrUnknownSymbol is returned by Submit and Cancel when the symbol has no
// registered book.
var ErrUnknownSymbol = errors.New("symbol not found")

// Engine holds the registry of per-symbol books. Book lookup is guarded by
// a registry-wide RWMutex; book mutation is guarded by each book's own
// mutex, so matching one symbol never blocks a lookup (or a submission)
// against another.
type Engine struct {
	mu    sync.RWMutex
	books map[string]*orderbook.Book
}

// New constructs an engine with one empty book per symbol.
func New(symbols ...string) *Engine {
	e := &Engine{books: make(map[string]*orderbook.Book, len(symbols))}
	for _, sym := range symbols {
		e.books[sym] = orderbook.NewBook(sym)
	}
	return e
}

// book resolves a symbol to its book without holding the lock across the
// caller's use of it — the book has its own mutex for that.
func (e *Engine) book(symbol string) (*orderbook.Book, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.books[symbol]
	return b, ok
}

// Submit resolves symbol's book and drives one submission through it,
// returning the resulting order and execution reports. ErrUnknownSymbol is
// returned, and no book is touched, if the symbol is not registered.
func (e *Engine) Submit(symbol string, side common.Side, typ common.OrderType, price float64, qty uint64, owner string) (*common.Order, common.MatchResult, error) {
	b, ok := e.book(symbol)
	if !ok {
		return nil, nil, ErrUnknownSymbol
	}
	order, reports := b.Submit(side, typ, price, qty, owner)
	return order, reports, nil
}

// Cancel resolves symbol's book and delegates to its Cancel. Idempotent:
// a second cancel of the same id returns false.
func (e *Engine) Cancel(symbol string, orderID uint64) (bool, error) {
	b, ok := e.book(symbol)
	if !ok {
		return false, ErrUnknownSymbol
	}
	return b.Cancel(orderID), nil
}

// Book exposes the underlying book for read-only market-data use (the
// simulation driver's per-tick snapshot loop). Returns nil if symbol is
// unregistered.
func (e *Engine) Book(symbol string) *orderbook.Book {
	b, _ := e.book(symbol)
	return b
}

// Symbols returns every registered symbol, in no particular order.
func (e *Engine) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.books))
	for sym := range e.books {
		out = append(out, sym)
	}
	return out
}
