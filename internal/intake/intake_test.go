package intake

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		BookID:    0,
		Price:     100,
		Quantity:  10,
		IsBid:     true,
		Trader:    "0x1234567890123456789012345678901234567890",
		Nonce:     1,
		Signature: "0x" + strings.Repeat("ab", 65),
	}
}

func TestProcessValidSubmission(t *testing.T) {
	in := New()
	auth, err := in.Process(validSubmission())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), auth.Nonce)
	assert.Equal(t, ^uint64(0), auth.Expiry)
}

func TestProcessRejectsZeroQuantity(t *testing.T) {
	in := New()
	sub := validSubmission()
	sub.Quantity = 0
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestProcessRejectsZeroPrice(t *testing.T) {
	in := New()
	sub := validSubmission()
	sub.Price = 0
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProcessRejectsShortTraderAddress(t *testing.T) {
	in := New()
	sub := validSubmission()
	sub.Trader = "0x1234"
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrInvalidTrader)
}

func TestProcessRejectsOverlongSignature(t *testing.T) {
	in := New()
	sub := validSubmission()
	sub.Signature = sub.Signature + "ff"
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestProcessPermissiveDefaultsMissingExpiryToMax(t *testing.T) {
	in := New()
	sub := validSubmission()
	sub.Expiry = nil
	auth, err := in.Process(sub)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), auth.Expiry)
}

func TestStrictRejectsMissingExpiry(t *testing.T) {
	in := NewStrict()
	sub := validSubmission()
	sub.Expiry = nil
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrInvalidExpiry)
}

func TestStrictRejectsPastExpiry(t *testing.T) {
	in := NewStrict()
	in.Now = func() time.Time { return time.Unix(1_000_000, 0) }
	sub := validSubmission()
	past := uint64(999_999)
	sub.Expiry = &past
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrExpiryTooSoon)
}

func TestStrictRejectsFarFutureExpiry(t *testing.T) {
	in := NewStrict()
	in.Now = func() time.Time { return time.Unix(1_000_000, 0) }
	sub := validSubmission()
	far := uint64(1_000_000 + int64(maxExpiryHorizon.Seconds()) + 1)
	sub.Expiry = &far
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrExpiryTooFar)
}

func TestStrictRejectsShortSignature(t *testing.T) {
	in := NewStrict()
	in.Now = func() time.Time { return time.Unix(1_000_000, 0) }
	sub := validSubmission()
	sub.Signature = "0x1234"
	within := uint64(1_000_100)
	sub.Expiry = &within
	_, err := in.Process(sub)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
