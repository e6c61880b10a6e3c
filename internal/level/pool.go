package level

import "lob/internal/types"

// Pool is a per-book arena of Level records plus a LIFO free-list of
// retired LevelIds, grounded on original_source/optimized-lob/src/pool.rs.
// Alloc is O(1) amortized; the pool never shrinks.
type Pool struct {
	levels   []Level
	freeList []types.LevelId
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// NewPoolWithCapacity returns an empty pool pre-sized for capacity levels.
func NewPoolWithCapacity(capacity int) *Pool {
	return &Pool{
		levels:   make([]Level, 0, capacity),
		freeList: make([]types.LevelId, 0, capacity),
	}
}

// Alloc returns a LevelId, reusing the most recently freed id when one is
// available (LIFO, to maximize cache reuse) and otherwise growing the
// backing vector.
func (p *Pool) Alloc() types.LevelId {
	if n := len(p.freeList); n > 0 {
		id := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return id
	}
	id := types.LevelId(len(p.levels))
	p.levels = append(p.levels, Level{})
	return id
}

// Free releases id back to the pool. The level's contents are not zeroed;
// whoever allocates this id next must reinitialize it via Level.Reset
// before reading it.
func (p *Pool) Free(id types.LevelId) {
	p.freeList = append(p.freeList, id)
}

// Get dereferences id. Reading a freed-but-not-yet-reallocated id returns
// stale content — callers must not do this.
func (p *Pool) Get(id types.LevelId) (*Level, bool) {
	idx := int(id)
	if idx < 0 || idx >= len(p.levels) {
		return nil, false
	}
	return &p.levels[idx], true
}

// MustGet dereferences id, panicking if it is out of range. Used on the hot
// path where the caller has already established the id is live.
func (p *Pool) MustGet(id types.LevelId) *Level {
	return &p.levels[id]
}
