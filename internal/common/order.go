package common

import "fmt"

// Order is a single resting or aggressing instruction. Identity (ID) is
// assigned by the owning book's counter, so two different books may issue
// the same numeric ID without collision.
type Order struct {
	ID         uint64
	Symbol     string
	Side       Side
	Type       OrderType
	LimitPrice float64 // meaningless for MarketOrder
	Original   uint64
	Filled     uint64
	Status     OrderStatus
	CreatedAt  int64 // microseconds since epoch

	// Owner records who submitted the order (a session id, or maker.Owner
	// for simulated quotes). Reports are sent back by the submitting
	// session itself, not looked up by Owner. It plays no part in matching
	// and is never compared.
	Owner string
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() uint64 {
	return o.Original - o.Filled
}

// Fill records a fill of qty against this order, updating Filled and
// Status. It never fills past Original.
func (o *Order) Fill(qty uint64) {
	o.Filled += qty
	if o.Filled >= o.Original {
		o.Filled = o.Original
		o.Status = StatusFilled
	} else if o.Filled > 0 {
		o.Status = StatusPartiallyFilled
	}
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{ID:%d Symbol:%s Side:%s Type:%s Price:%g Filled:%d/%d Status:%s Owner:%s}",
		o.ID, o.Symbol, o.Side, o.Type, o.LimitPrice, o.Filled, o.Original, o.Status, o.Owner,
	)
}

// ExecutionReport is the confirmation produced per fill, one copy per side
// of a trade. It is value-copied; no aliasing with the live Order.
type ExecutionReport struct {
	OrderID   uint64
	CounterID uint64
	Price     float64
	Quantity  uint64
	Status    OrderStatus
	Timestamp int64
}

// MatchResult is the ordered, growable sequence of reports produced by a
// single submission call.
type MatchResult []ExecutionReport
