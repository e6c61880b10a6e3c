// Package matching implements the price-time priority matching loop
// (spec 4.5): cross detection, the priority walk against resting orders,
// and emission of match records.
package matching

import (
	"lob/internal/book"
	"lob/internal/manager"
	"lob/internal/types"
)

// MatchDetails is one emitted match: the maker (resting) and taker
// (incoming) orders as they stood at match time, the executed quantity and
// price, and which side the maker was on.
type MatchDetails struct {
	MakerOrder   book.Order
	TakerOrder   book.Order
	ExecQty      types.Qty
	ExecPrice    uint32
	MakerIsBuyer bool
}

// Engine matches incoming orders against a book manager's resting books.
type Engine struct {
	Manager *manager.Manager
}

// New returns a matching engine over mgr.
func New(mgr *manager.Manager) *Engine {
	return &Engine{Manager: mgr}
}

// MatchOrder attempts to fill (order_id, book_id, qty, price, is_bid,
// auth...) against resting orders on the opposite side, in price-then-time
// priority, and rests whatever quantity remains. The execution price on
// every emitted match is the taker's limit price (spec 4.5 — an
// implementation electing maker-price execution must say so; this one
// uses taker-price semantics, matching the pinned test scenarios in
// spec 8).
func (e *Engine) MatchOrder(id types.OrderId, bookID types.BookId, qty types.Qty, price uint32, isBid bool, auth *book.Auth) (types.Qty, []MatchDetails) {
	remaining := qty
	signedPrice := types.FromExternal(price, isBid)

	var opposite types.Price
	var haveOpposite bool
	if b, ok := e.Manager.Book(bookID); ok {
		if isBid {
			opposite, haveOpposite = b.BestAsk()
		} else {
			opposite, haveOpposite = b.BestBid()
		}
	}

	var matches []MatchDetails
	canMatch := haveOpposite && types.Crosses(isBid, signedPrice, opposite)

	if canMatch {
		for remaining > 0 {
			makerID, makerQty, ok := e.Manager.GetNextMatch(bookID, isBid, signedPrice)
			if !ok {
				break
			}

			execQty := types.Min(remaining, makerQty)

			// Snapshot the maker before mutation so the emitted match
			// reflects the maker as it stood at match time.
			makerSnapshot, ok := e.Manager.Index.Get(makerID)
			if !ok {
				break
			}
			makerCopy := *makerSnapshot

			e.Manager.ExecuteOrder(makerID, execQty)

			matches = append(matches, MatchDetails{
				MakerOrder: makerCopy,
				TakerOrder: book.Order{
					Qty:     qty,
					LevelID: types.NoLevel,
					BookID:  bookID,
					Auth:    auth,
				},
				ExecQty:      execQty,
				ExecPrice:    price,
				MakerIsBuyer: !isBid,
			})

			remaining = remaining.Sub(execQty)
		}
	}

	if remaining > 0 {
		e.Manager.AddOrder(manager.NewOrder{
			ID:     id,
			BookID: bookID,
			Qty:    remaining,
			Price:  price,
			IsBid:  isBid,
			Auth:   auth,
		})
	}

	return remaining, matches
}
