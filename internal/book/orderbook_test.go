package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lob/internal/types"
)

func rest(t *testing.T, b *OrderBook, ix *Index, id types.OrderId, price types.Price, qty types.Qty) *Order {
	t.Helper()
	ord := &Order{Qty: qty}
	ix.Reserve(id)
	b.AddOrder(id, ord, ix, price, qty)
	ix.Insert(id, ord)
	return ord
}

func TestAddOrderAggregatesAtSameLevel(t *testing.T) {
	b := New()
	ix := NewIndex()

	rest(t, b, ix, 1, types.Price(100), 30)
	rest(t, b, ix, 2, types.Price(100), 30)

	levelID, ok := b.BestBidLevel()
	require.True(t, ok)

	lvl, ok := b.Pool.Get(levelID)
	require.True(t, ok)
	assert.Equal(t, types.Qty(60), lvl.Size)

	fifo := b.FIFO(levelID, ix)
	assert.Equal(t, []types.OrderId{1, 2}, fifo)
}

func TestRemoveOrderUnlinksAndMayFreeLevel(t *testing.T) {
	b := New()
	ix := NewIndex()

	o1 := rest(t, b, ix, 1, types.Price(100), 30)
	rest(t, b, ix, 2, types.Price(100), 30)

	b.RemoveOrder(1, o1, ix)
	ix.Remove(1)

	levelID, ok := b.BestBidLevel()
	require.True(t, ok)
	fifo := b.FIFO(levelID, ix)
	assert.Equal(t, []types.OrderId{2}, fifo)

	lvl, _ := b.Pool.Get(levelID)
	assert.Equal(t, types.Qty(30), lvl.Size)
}

func TestRemoveLastOrderFreesLevel(t *testing.T) {
	b := New()
	ix := NewIndex()

	o1 := rest(t, b, ix, 1, types.Price(100), 30)
	b.RemoveOrder(1, o1, ix)

	_, ok := b.BestBidLevel()
	assert.False(t, ok)
}

func TestBestBidAndBestAskRankOppositeSigns(t *testing.T) {
	b := New()
	ix := NewIndex()

	rest(t, b, ix, 1, types.FromExternal(99, true), 10)
	rest(t, b, ix, 2, types.FromExternal(100, true), 10)
	rest(t, b, ix, 3, types.FromExternal(105, false), 10)
	rest(t, b, ix, 4, types.FromExternal(101, false), 10)

	bestBid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, uint32(100), bestBid.Absolute())

	bestAsk, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, uint32(101), bestAsk.Absolute())
}

func TestReduceOrderLeavesFIFOPositionIntact(t *testing.T) {
	b := New()
	ix := NewIndex()

	o1 := rest(t, b, ix, 1, types.Price(100), 30)
	rest(t, b, ix, 2, types.Price(100), 30)

	b.ReduceOrder(o1, 10)

	levelID, _ := b.BestBidLevel()
	lvl, _ := b.Pool.Get(levelID)
	assert.Equal(t, types.Qty(50), lvl.Size)
	assert.Equal(t, []types.OrderId{1, 2}, b.FIFO(levelID, ix))
}
