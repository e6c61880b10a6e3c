package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lob/internal/book"
	"lob/internal/manager"
	"lob/internal/market"
	"lob/internal/matching"
	"lob/internal/types"
)

func fill(b byte) [20]byte {
	var out [20]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func fillSig(b byte) [65]byte {
	var out [65]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func fill32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

// Scenario 6: translate.
func TestTranslateMatchesReferenceScenario(t *testing.T) {
	cfg := &market.Config{
		BaseToken:     fill(1),
		SecurityToken: fill(2),
		SignatureType: 1,
	}

	mgr := manager.New()
	eng := matching.New(mgr)

	makerAuth := &book.Auth{
		Trader:    fill(5),
		Nonce:     1,
		Expiry:    ^uint64(0),
		Signature: fillSig(1),
	}
	mgr.AddOrder(manager.NewOrder{
		ID:     1,
		BookID: 0,
		Qty:    50,
		Price:  100,
		IsBid:  false,
		Auth:   makerAuth,
	})

	takerAuth := &book.Auth{
		Trader:    fill(7),
		Nonce:     3,
		Expiry:    ^uint64(0),
		Signature: fillSig(3),
	}
	_, matches := eng.MatchOrder(3, 0, 30, 100, true, takerAuth)
	require.Len(t, matches, 1)

	orders := TranslateBatch(matches, cfg)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, fill(2), o.MakerToken)
	assert.Equal(t, fill(1), o.TakerToken)
	assert.Equal(t, "30", o.MakerAmount.String())
	assert.Equal(t, "3000", o.TakerAmount.String())
	assert.False(t, o.MakerIsBuyer)

	assert.Equal(t, uint8(1), o.MakerSig.SignatureType)
	assert.Equal(t, uint8(1), o.MakerSig.V)
	assert.Equal(t, fill32(1), o.MakerSig.R)
	assert.Equal(t, fill32(1), o.MakerSig.S)

	assert.Equal(t, uint8(3), o.TakerSig.V)
	assert.Equal(t, uint8(1), o.TakerSig.SignatureType)
}
