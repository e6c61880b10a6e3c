// Package types holds the primitive value types shared by the book, the
// manager and the matching engine: signed prices, quantities and the
// dense identifiers used to index pools and maps.
package types

// Price is a book-internal signed price. Bid orders store +p, ask orders
// store -p, so that within one side the natural numeric ordering of stored
// values ranks the side correctly and the sign alone records which side an
// order rests on.
type Price int32

// FromExternal builds the signed, book-internal price for an external
// unsigned price and side.
func FromExternal(p uint32, isBid bool) Price {
	if isBid {
		return Price(int32(p))
	}
	return -Price(int32(p))
}

// Absolute returns the external, unsigned magnitude of the price.
func (p Price) Absolute() uint32 {
	if p < 0 {
		return uint32(-p)
	}
	return uint32(p)
}

// IsBid reports whether the stored price belongs to the bid side.
func (p Price) IsBid() bool {
	return p > 0
}

// Crosses reports whether an incoming order at price p, on the side
// implied by isBid, crosses a resting level priced at level on the
// opposite side. For a bid the incoming price must be at least the ask
// level's absolute price; for an ask it must be at most the bid level's.
func Crosses(isBid bool, p, level Price) bool {
	if isBid {
		return p.Absolute() >= level.Absolute()
	}
	return p.Absolute() <= level.Absolute()
}
