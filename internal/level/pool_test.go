package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lob/internal/types"
)

func TestPoolAllocGrows(t *testing.T) {
	p := NewPoolWithCapacity(0)

	id1 := p.Alloc()
	id2 := p.Alloc()
	assert.NotEqual(t, id1, id2)

	lvl, ok := p.Get(id1)
	require.True(t, ok)
	assert.True(t, lvl.Empty())
}

func TestPoolFreeIsReusedLIFO(t *testing.T) {
	p := NewPoolWithCapacity(0)

	id1 := p.Alloc()
	id2 := p.Alloc()
	p.Free(id2)
	p.Free(id1)

	// LIFO: id1 was freed last, so it comes back first.
	reused := p.Alloc()
	assert.Equal(t, id1, reused)
}

func TestLevelResetClearsFIFO(t *testing.T) {
	var lvl Level
	lvl.Head = types.OrderId(7)
	lvl.Tail = types.OrderId(9)
	lvl.Size = 5

	lvl.Reset(types.Price(100))

	assert.Equal(t, types.Price(100), lvl.Price)
	assert.True(t, lvl.Empty())
	assert.Equal(t, types.NoOrder, lvl.Head)
	assert.Equal(t, types.NoOrder, lvl.Tail)
}
