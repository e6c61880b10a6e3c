// Package manager implements the book manager (spec 4.4): a dense vector
// of optional order books indexed by BookId, funneling every mutation
// through the shared order index.
package manager

import (
	"lob/internal/book"
	"lob/internal/types"
)

// NewOrder is the submission tuple the manager accepts, mirroring the
// (order_id, book_id, qty, price, is_bid, auth...) dataflow in spec 2.
type NewOrder struct {
	ID     types.OrderId
	BookID types.BookId
	Qty    types.Qty
	Price  uint32
	IsBid  bool
	Auth   *book.Auth
}

// Manager holds every registered book plus the shared order index. All
// mutation is funneled through it (spec 4.4).
type Manager struct {
	books []*book.OrderBook
	Index *book.Index
}

// New returns a manager with MaxBooks worth of (empty) book slots and a
// freshly allocated order index.
func New() *Manager {
	return &Manager{
		books: make([]*book.OrderBook, types.MaxBooks),
		Index: book.NewIndex(),
	}
}

// Book returns the book registered at id, if any. Does not create one.
func (m *Manager) Book(id types.BookId) (*book.OrderBook, bool) {
	if int(id) >= len(m.books) {
		return nil, false
	}
	b := m.books[id]
	return b, b != nil
}

func (m *Manager) ensureBook(id types.BookId) *book.OrderBook {
	if int(id) >= len(m.books) {
		grown := make([]*book.OrderBook, int(id)+1)
		copy(grown, m.books)
		m.books = grown
	}
	if m.books[id] == nil {
		m.books[id] = book.New()
	}
	return m.books[id]
}

// AddOrder computes the signed price from (is_bid, price), lazily creates
// the book, constructs the Order, rests it, and stores it in the index
// under order_id.
func (m *Manager) AddOrder(o NewOrder) {
	price := types.FromExternal(o.Price, o.IsBid)

	m.Index.Reserve(o.ID)
	ord := &book.Order{
		Qty:    o.Qty,
		BookID: o.BookID,
		Auth:   o.Auth,
	}

	b := m.ensureBook(o.BookID)
	b.AddOrder(o.ID, ord, m.Index, price, o.Qty)
	m.Index.Insert(o.ID, ord)
}

// RemoveOrder looks up order_id, routes to the owning book's RemoveOrder,
// and erases it from the index. A missing order_id is a silent no-op.
func (m *Manager) RemoveOrder(id types.OrderId) {
	ord, ok := m.Index.Get(id)
	if !ok {
		return
	}
	if b, ok := m.Book(ord.BookID); ok {
		b.RemoveOrder(id, ord, m.Index)
	}
	m.Index.Remove(id)
}

// CancelOrder reduces the resting level by qty and decrements the order's
// own quantity. A cancel whose qty equals the order's full remaining
// quantity is promoted to a full removal (spec 9, Open Question (a)) so
// that a zero-quantity order never lingers in the index.
func (m *Manager) CancelOrder(id types.OrderId, qty types.Qty) {
	ord, ok := m.Index.Get(id)
	if !ok {
		return
	}
	if ord.Qty == qty {
		m.RemoveOrder(id)
		return
	}
	if b, ok := m.Book(ord.BookID); ok {
		b.ReduceOrder(ord, qty)
	}
	m.Index.UpdateQty(id, qty)
}

// ExecuteOrder applies a fill of qty units against order_id: a full fill
// routes to RemoveOrder, a partial fill to the book's ReduceOrder. It
// emits no match record itself — that is the matching engine's job.
func (m *Manager) ExecuteOrder(id types.OrderId, qty types.Qty) {
	ord, ok := m.Index.Get(id)
	if !ok {
		return
	}
	if ord.Qty == qty {
		m.RemoveOrder(id)
		return
	}
	if b, ok := m.Book(ord.BookID); ok {
		b.ReduceOrder(ord, qty)
	}
	m.Index.UpdateQty(id, qty)
}

// ReplaceOrder captures oldId's current side (from its resting level's
// price sign) and book, removes it, then adds newId with that captured
// side and book, the given quantity and external price. The replacement
// never carries authentication fields forward from the old order — this
// preserves the reference's (possibly unintentional, spec 9) behavior, so
// callers that need an authenticated replacement must resubmit one.
func (m *Manager) ReplaceOrder(oldID, newID types.OrderId, newQty types.Qty, newPrice uint32) {
	ord, ok := m.Index.Get(oldID)
	if !ok {
		return
	}
	bookID := ord.BookID
	isBid := true
	if b, ok := m.Book(bookID); ok {
		if lvl, ok := b.Pool.Get(ord.LevelID); ok {
			isBid = lvl.Price.IsBid()
		}
		b.RemoveOrder(oldID, ord, m.Index)
	}
	m.Index.Remove(oldID)

	m.AddOrder(NewOrder{
		ID:     newID,
		BookID: bookID,
		Qty:    newQty,
		Price:  newPrice,
		IsBid:  isBid,
	})
}

// GetNextMatch returns the earliest-inserted order (the head of the
// level's FIFO) at the best level on the side opposite isBid, provided
// that level's price still crosses signedPrice.
func (m *Manager) GetNextMatch(bookID types.BookId, isBid bool, signedPrice types.Price) (types.OrderId, types.Qty, bool) {
	b, ok := m.Book(bookID)
	if !ok {
		return 0, 0, false
	}

	var levelID types.LevelId
	if isBid {
		levelID, ok = b.BestAskLevel()
	} else {
		levelID, ok = b.BestBidLevel()
	}
	if !ok {
		return 0, 0, false
	}

	lvl, ok := b.Pool.Get(levelID)
	if !ok {
		return 0, 0, false
	}
	if !types.Crosses(isBid, signedPrice, lvl.Price) {
		return 0, 0, false
	}

	if lvl.Head == types.NoOrder {
		return 0, 0, false
	}
	headOrder, ok := m.Index.Get(lvl.Head)
	if !ok {
		return 0, 0, false
	}
	return lvl.Head, headOrder.Qty, true
}
