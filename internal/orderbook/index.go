package orderbook

import (
	"github.com/tidwall/btree"

	"github.com/kestrelmarkets/matchengine/internal/common"
)

// SideIndex is the ordered price-level structure for one side of one
// symbol's book. It wraps a tidwall/btree generic tree, which gives
// O(log P) insert/find/delete and O(1) best-price access via Min, with a
// side-fixed comparator so the ordering direction (bid: highest first,
// ask: lowest first) never has to be threaded through call sites.
//
// Deletion goes through the tree's own keyed Delete, which structurally
// drops and rebalances the node. There is deliberately no "reset to empty"
// escape hatch here: zeroing an entire side's root after one level empties
// would silently discard every other resting level on that side.
type SideIndex struct {
	side common.Side
	tree *btree.BTreeG[*PriceLevel]
}

// NewSideIndex builds an index for one side. side fixes the traversal
// order for the lifetime of the index.
func NewSideIndex(side common.Side) *SideIndex {
	var less func(a, b *PriceLevel) bool
	if side == Buy {
		less = func(a, b *PriceLevel) bool { return a.Price > b.Price }
	} else {
		less = func(a, b *PriceLevel) bool { return a.Price < b.Price }
	}
	return &SideIndex{
		side: side,
		tree: btree.NewBTreeG(less),
	}
}

// Buy and Sell re-export common.Side so callers of this package rarely
// need to import common just to pick a side.
const (
	Buy  = common.Buy
	Sell = common.Sell
)

// Find returns the level at price, if one exists.
func (idx *SideIndex) Find(price float64) (*PriceLevel, bool) {
	return idx.tree.Get(&PriceLevel{Price: price})
}

// GetOrCreate returns the level at price, creating and inserting an empty
// one if absent.
func (idx *SideIndex) GetOrCreate(price float64) *PriceLevel {
	if level, ok := idx.tree.Get(&PriceLevel{Price: price}); ok {
		return level
	}
	level := &PriceLevel{Price: price}
	idx.tree.Set(level)
	return level
}

// Delete structurally removes the level at price, if present.
func (idx *SideIndex) Delete(price float64) {
	idx.tree.Delete(&PriceLevel{Price: price})
}

// Best returns the level reached first under this side's traversal order
// (highest bid, or lowest ask), or false if the side is empty.
func (idx *SideIndex) Best() (*PriceLevel, bool) {
	return idx.tree.Min()
}

// Len reports the number of distinct price levels.
func (idx *SideIndex) Len() int {
	return idx.tree.Len()
}

// Items returns up to max levels in traversal (best-first) order. max <= 0
// means unbounded. Used for market-data snapshots.
func (idx *SideIndex) Items(max int) []*PriceLevel {
	var out []*PriceLevel
	idx.tree.Scan(func(level *PriceLevel) bool {
		out = append(out, level)
		return max <= 0 || len(out) < max
	})
	return out
}
