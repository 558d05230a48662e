package orderbook

import "github.com/kestrelmarkets/matchengine/internal/common"

// PriceLevel holds every resting order at one exact price, FIFO by
// insertion order, plus a cached sum of their unfilled quantities so
// callers never need to walk the queue just to answer "how much is
// resting here".
type PriceLevel struct {
	Price         float64
	Orders        []*common.Order
	TotalQuantity uint64
}

// front returns the head-of-queue order, or nil if the level is empty.
func (l *PriceLevel) front() *common.Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// popFront removes the head-of-queue order. Callers must keep
// TotalQuantity in sync themselves, since the delta depends on whether the
// order was filled or cancelled.
func (l *PriceLevel) popFront() {
	if len(l.Orders) == 0 {
		return
	}
	l.Orders = l.Orders[1:]
}

// remove splices out the order with the given id, wherever it sits in the
// queue (used by cancel, not by the matching loop, which always
// consumes from the front).
func (l *PriceLevel) remove(id uint64) (*common.Order, bool) {
	for i, o := range l.Orders {
		if o.ID == id {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return o, true
		}
	}
	return nil, false
}

func (l *PriceLevel) empty() bool {
	return len(l.Orders) == 0
}
