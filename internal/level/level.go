// Package level implements the per-book arena of price levels: a pool with
// free-list reuse (Pool) and the Level record itself.
package level

import "lob/internal/types"

// Level is the aggregate record for all resting orders sharing one
// (side, price). Size is the cumulative resting quantity; Head/Tail thread
// the intrusive per-level FIFO of OrderIds that preserves time priority
// (spec 4.3, option (a) — an explicit per-level FIFO rather than scanning
// the order index for every match).
type Level struct {
	Price types.Price
	Size  types.Qty
	Head  types.OrderId
	Tail  types.OrderId
}

// Reset reinitializes a level's fields. Callers must call this after
// every Pool.Alloc, whether the id is fresh or reused from the free
// list, since neither path zeroes the level's contents.
func (l *Level) Reset(price types.Price) {
	l.Price = price
	l.Size = 0
	l.Head = types.NoOrder
	l.Tail = types.NoOrder
}

// Empty reports whether the level carries no resting quantity.
func (l *Level) Empty() bool {
	return l.Size == 0
}
