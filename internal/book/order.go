// Package book implements a single market: the sorted bid/ask level
// sequences over a per-book level pool, and the order index shared by the
// whole book manager.
package book

import "lob/internal/types"

// Auth carries the optional authentication tuple an order may be
// submitted with: the trader's address, a signing nonce, an expiry
// timestamp and a raw signature. A nil *Auth means the order was
// submitted without any of these — see spec 4.6 on how that affects
// settlement translation.
type Auth struct {
	Trader    [20]byte
	Nonce     uint64
	Expiry    uint64
	Signature [65]byte
}

// Order is a single resting or in-flight order. Prev/Next thread the
// intrusive per-level FIFO that preserves time priority within a level
// (spec 4.3); NoOrder terminates the list in both directions.
type Order struct {
	Qty     types.Qty
	LevelID types.LevelId
	BookID  types.BookId
	Prev    types.OrderId
	Next    types.OrderId
	Auth    *Auth
}

// Equal reports whether two orders match on level, book and quantity —
// the reference's assertion-only equality (spec 3); OrderId, not this
// comparison, is the true identity of an order.
func (o Order) Equal(other Order) bool {
	return o.LevelID == other.LevelID && o.BookID == other.BookID && o.Qty == other.Qty
}

// Index is the dense OrderId -> Order map shared by every book in a
// manager (spec 4.2). Absent slots are nil.
type Index struct {
	orders []*Order
}

// NewIndex returns an index pre-sized to hold InitialOrderCount orders.
func NewIndex() *Index {
	return &Index{orders: make([]*Order, types.InitialOrderCount)}
}

// Reserve grows the backing slice so that id is addressable.
func (ix *Index) Reserve(id types.OrderId) {
	idx := int(id)
	if idx >= len(ix.orders) {
		grown := make([]*Order, idx+1)
		copy(grown, ix.orders)
		ix.orders = grown
	}
}

// Insert stores order under id, growing the index if necessary.
func (ix *Index) Insert(id types.OrderId, order *Order) {
	ix.Reserve(id)
	ix.orders[id] = order
}

// Remove erases id from the index. A remove of an id that is not live is a
// silent no-op (spec 7 — missing OrderId operations never error).
func (ix *Index) Remove(id types.OrderId) {
	if int(id) < len(ix.orders) {
		ix.orders[id] = nil
	}
}

// Get returns the order stored under id, if any.
func (ix *Index) Get(id types.OrderId) (*Order, bool) {
	if int(id) >= len(ix.orders) {
		return nil, false
	}
	o := ix.orders[id]
	return o, o != nil
}

// UpdateQty performs order.Qty -= delta for the order stored under id. The
// caller guarantees qty >= delta; a missing id is a silent no-op.
func (ix *Index) UpdateQty(id types.OrderId, delta types.Qty) {
	if o, ok := ix.Get(id); ok {
		o.Qty = o.Qty.Sub(delta)
	}
}

// Iter calls fn for every live entry in index order.
func (ix *Index) Iter(fn func(types.OrderId, *Order)) {
	for i, o := range ix.orders {
		if o != nil {
			fn(types.OrderId(i), o)
		}
	}
}
