package types

// Qty is an unsigned count of resting or executing units. Callers must
// guarantee lhs >= rhs before subtracting; the type does no underflow
// checking of its own, mirroring the reference's unchecked arithmetic.
type Qty uint32

// Add returns q + other.
func (q Qty) Add(other Qty) Qty {
	return q + other
}

// Sub returns q - other. The caller guarantees q >= other.
func (q Qty) Sub(other Qty) Qty {
	return q - other
}

// Min returns the smaller of q and other.
func Min(a, b Qty) Qty {
	if a < b {
		return a
	}
	return b
}

// IsZero reports whether the quantity is exhausted.
func (q Qty) IsZero() bool {
	return q == 0
}
