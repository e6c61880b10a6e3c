package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lob/internal/manager"
	"lob/internal/types"
)

const bookID = types.BookId(0)

func restOrder(mgr *manager.Manager, id types.OrderId, qty types.Qty, price uint32, isBid bool) {
	mgr.AddOrder(manager.NewOrder{
		ID:     id,
		BookID: bookID,
		Qty:    qty,
		Price:  price,
		IsBid:  isBid,
	})
}

// Scenario 1: basic fill.
func TestMatchOrderBasicFill(t *testing.T) {
	mgr := manager.New()
	eng := New(mgr)

	restOrder(mgr, 1, 100, 100, false)

	remaining, matches := eng.MatchOrder(2, bookID, 60, 100, true, nil)

	assert.Equal(t, types.Qty(0), remaining)
	require.Len(t, matches, 1)
	assert.Equal(t, types.Qty(60), matches[0].ExecQty)
	assert.Equal(t, uint32(100), matches[0].ExecPrice)
	assert.False(t, matches[0].MakerIsBuyer)

	restingOrder, ok := mgr.Index.Get(1)
	require.True(t, ok)
	assert.Equal(t, types.Qty(40), restingOrder.Qty)
}

// Scenario 2: no-cross.
func TestMatchOrderNoCross(t *testing.T) {
	mgr := manager.New()
	eng := New(mgr)

	restOrder(mgr, 1, 100, 100, false)

	remaining, matches := eng.MatchOrder(2, bookID, 60, 99, true, nil)

	assert.Equal(t, types.Qty(60), remaining)
	assert.Empty(t, matches)

	b, ok := mgr.Book(bookID)
	require.True(t, ok)
	bestBid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, uint32(99), bestBid.Absolute())
}

// Scenario 3: walk the book.
func TestMatchOrderWalksBookInPriceOrder(t *testing.T) {
	mgr := manager.New()
	eng := New(mgr)

	restOrder(mgr, 1, 50, 100, false)
	restOrder(mgr, 2, 40, 101, false)

	remaining, matches := eng.MatchOrder(4, bookID, 90, 102, true, nil)

	assert.Equal(t, types.Qty(0), remaining)
	require.Len(t, matches, 2)
	assert.Equal(t, types.Qty(50), matches[0].ExecQty)
	assert.Equal(t, types.Qty(40), matches[1].ExecQty)

	b, ok := mgr.Book(bookID)
	require.True(t, ok)
	assert.Empty(t, b.AskLevels())

	_, ok = mgr.Index.Get(1)
	assert.False(t, ok)
	_, ok = mgr.Index.Get(2)
	assert.False(t, ok)
}

// Scenario 4: time priority at a level.
func TestMatchOrderRespectsTimePriorityAtALevel(t *testing.T) {
	mgr := manager.New()
	eng := New(mgr)

	restOrder(mgr, 1, 30, 100, false)
	restOrder(mgr, 2, 30, 100, false)

	remaining, matches := eng.MatchOrder(3, bookID, 30, 100, true, nil)

	assert.Equal(t, types.Qty(0), remaining)
	require.Len(t, matches, 1)

	order2, ok := mgr.Index.Get(2)
	require.True(t, ok)
	assert.Equal(t, types.Qty(30), order2.Qty)

	b, ok := mgr.Book(bookID)
	require.True(t, ok)
	levelID, ok := b.BestAskLevel()
	require.True(t, ok)
	lvl, ok := b.Pool.Get(levelID)
	require.True(t, ok)
	assert.Equal(t, types.Qty(30), lvl.Size)
}

// Scenario 5: replace preserves side.
func TestReplaceOrderPreservesSide(t *testing.T) {
	mgr := manager.New()
	restOrder(mgr, 1, 10, 50, true)

	mgr.ReplaceOrder(1, 2, 20, 55)

	_, ok := mgr.Index.Get(1)
	assert.False(t, ok)

	newOrder, ok := mgr.Index.Get(2)
	require.True(t, ok)
	assert.Equal(t, types.Qty(20), newOrder.Qty)
	assert.Nil(t, newOrder.Auth)

	b, ok := mgr.Book(bookID)
	require.True(t, ok)
	bestBid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, uint32(55), bestBid.Absolute())
	assert.True(t, bestBid.IsBid())
}
