package types

// OrderId is a dense, 32-bit order identifier used as a direct index into
// the order index.
type OrderId uint32

// BookId is a dense identifier used to index the book vector held by the
// manager.
type BookId uint32

// LevelId is a 32-bit handle into a single book's level pool. Levels are
// always referred to by this handle, never by address, so that pool growth
// never invalidates an outstanding reference.
type LevelId uint32

// NoLevel is the sentinel LevelId carried by an order that has never been
// rested in a book (for example the synthetic taker order embedded in a
// MatchDetails record, which is never inserted).
const NoLevel LevelId = ^LevelId(0)

// NoOrder is the sentinel OrderId terminating a level's intrusive FIFO.
const NoOrder OrderId = ^OrderId(0)

// Initial capacity hints; these are starting sizes, not hard caps — every
// backing structure grows past them on demand.
const (
	InitialOrderCount = 1 << 20
	MaxBooks          = 1 << 14
	MaxLevels         = 1 << 20
)
