package book

import (
	"lob/internal/level"
	"lob/internal/types"

	"github.com/tidwall/btree"
)

// sideEntry is the (LevelId, signed price) pair cached in a side sequence
// so that price comparisons never need to dereference the pool (spec 3).
type sideEntry struct {
	LevelID types.LevelId
	Price   types.Price
}

// bySignedPriceDesc is the single comparator shared by both the bid and
// the ask sequence. Because bids store +p and asks store -p, sorting both
// sequences descending by signed price ranks the best bid (largest
// positive) and the best ask (smallest external price, i.e. the signed
// value closest to zero, i.e. the largest among negatives) at the head of
// their respective sequence with one comparator — the sign-per-side
// convention folds the side distinction into ordinary integer order, so
// the teacher's two separate btree comparators (one ascending, one
// descending, over an external float price) collapse into this one.
func bySignedPriceDesc(a, b *sideEntry) bool {
	return a.Price > b.Price
}

// OrderBook is a single market: a level pool plus the two sorted side
// sequences over it.
type OrderBook struct {
	Pool *level.Pool
	Bids *btree.BTreeG[*sideEntry]
	Asks *btree.BTreeG[*sideEntry]
}

// New returns an empty order book.
func New() *OrderBook {
	return &OrderBook{
		Pool: level.NewPool(),
		Bids: btree.NewBTreeG(bySignedPriceDesc),
		Asks: btree.NewBTreeG(bySignedPriceDesc),
	}
}

func (b *OrderBook) sideTree(isBid bool) *btree.BTreeG[*sideEntry] {
	if isBid {
		return b.Bids
	}
	return b.Asks
}

// AddOrder locates (or allocates) the level at price on the side implied
// by its sign, grows that level's size by qty, links id into the level's
// FIFO, and records the level on ord. index is the shared order index,
// needed only to relink the previous tail's Next pointer.
func (b *OrderBook) AddOrder(id types.OrderId, ord *Order, index *Index, price types.Price, qty types.Qty) {
	side := b.sideTree(price.IsBid())

	var levelID types.LevelId
	if entry, ok := side.Get(&sideEntry{Price: price}); ok {
		levelID = entry.LevelID
		lvl := b.Pool.MustGet(levelID)
		lvl.Size = lvl.Size.Add(qty)
	} else {
		levelID = b.Pool.Alloc()
		lvl := b.Pool.MustGet(levelID)
		lvl.Reset(price)
		lvl.Size = qty
		side.Set(&sideEntry{LevelID: levelID, Price: price})
	}

	ord.LevelID = levelID
	b.appendFIFO(levelID, index, id, ord)
}

// RemoveOrder decrements the order's level by its full remaining quantity,
// unlinks it from the level's FIFO, and frees the level if it empties out.
func (b *OrderBook) RemoveOrder(id types.OrderId, ord *Order, index *Index) {
	lvl := b.Pool.MustGet(ord.LevelID)
	b.unlinkFIFO(lvl, index, ord)
	lvl.Size = lvl.Size.Sub(ord.Qty)
	if lvl.Empty() {
		side := b.sideTree(lvl.Price.IsBid())
		side.Delete(&sideEntry{Price: lvl.Price})
		b.Pool.Free(ord.LevelID)
	}
}

// ReduceOrder decrements the order's level by qty without touching the
// order's own quantity or FIFO position. Requires ord.Qty > qty — a full
// reduction must go through RemoveOrder instead.
func (b *OrderBook) ReduceOrder(ord *Order, qty types.Qty) {
	lvl := b.Pool.MustGet(ord.LevelID)
	lvl.Size = lvl.Size.Sub(qty)
}

// BestBid returns the signed price at the head of the bid sequence.
func (b *OrderBook) BestBid() (types.Price, bool) {
	e, ok := b.Bids.Min()
	if !ok {
		return 0, false
	}
	return e.Price, true
}

// BestAsk returns the signed price at the head of the ask sequence.
func (b *OrderBook) BestAsk() (types.Price, bool) {
	e, ok := b.Asks.Min()
	if !ok {
		return 0, false
	}
	return e.Price, true
}

// BestBidLevel returns the LevelId at the head of the bid sequence.
func (b *OrderBook) BestBidLevel() (types.LevelId, bool) {
	e, ok := b.Bids.Min()
	if !ok {
		return 0, false
	}
	return e.LevelID, true
}

// BestAskLevel returns the LevelId at the head of the ask sequence.
func (b *OrderBook) BestAskLevel() (types.LevelId, bool) {
	e, ok := b.Asks.Min()
	if !ok {
		return 0, false
	}
	return e.LevelID, true
}

// BidLevels returns the bid side's LevelIds in price priority order,
// best first. Used for diagnostics and tests, never on the hot path.
func (b *OrderBook) BidLevels() []types.LevelId {
	return levelsOf(b.Bids)
}

// AskLevels returns the ask side's LevelIds in price priority order,
// best first.
func (b *OrderBook) AskLevels() []types.LevelId {
	return levelsOf(b.Asks)
}

func levelsOf(side *btree.BTreeG[*sideEntry]) []types.LevelId {
	var out []types.LevelId
	side.Scan(func(e *sideEntry) bool {
		out = append(out, e.LevelID)
		return true
	})
	return out
}

// FIFO returns the OrderIds resting at level, oldest first, by walking the
// intrusive list. Used for diagnostics and tests, never on the hot path.
func (b *OrderBook) FIFO(levelID types.LevelId, index *Index) []types.OrderId {
	lvl, ok := b.Pool.Get(levelID)
	if !ok {
		return nil
	}
	var out []types.OrderId
	for id := lvl.Head; id != types.NoOrder; {
		out = append(out, id)
		ord, ok := index.Get(id)
		if !ok {
			break
		}
		id = ord.Next
	}
	return out
}

// appendFIFO links id onto the tail of level's intrusive FIFO.
func (b *OrderBook) appendFIFO(levelID types.LevelId, index *Index, id types.OrderId, ord *Order) {
	lvl := b.Pool.MustGet(levelID)
	ord.Prev = lvl.Tail
	ord.Next = types.NoOrder
	if lvl.Tail != types.NoOrder {
		if tailOrder, ok := index.Get(lvl.Tail); ok {
			tailOrder.Next = id
		}
	} else {
		lvl.Head = id
	}
	lvl.Tail = id
}

// unlinkFIFO removes ord from level's intrusive FIFO.
func (b *OrderBook) unlinkFIFO(lvl *level.Level, index *Index, ord *Order) {
	if ord.Prev != types.NoOrder {
		if prevOrder, ok := index.Get(ord.Prev); ok {
			prevOrder.Next = ord.Next
		}
	} else {
		lvl.Head = ord.Next
	}
	if ord.Next != types.NoOrder {
		if nextOrder, ok := index.Get(ord.Next); ok {
			nextOrder.Prev = ord.Prev
		}
	} else {
		lvl.Tail = ord.Prev
	}
}
