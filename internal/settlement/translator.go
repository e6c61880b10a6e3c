// Package settlement translates matched orders into settlement records,
// the downstream format used to clear a match against counterparty
// accounts (spec 4.6).
package settlement

import (
	"math/big"

	"lob/internal/book"
	"lob/internal/market"
	"lob/internal/matching"
)

// Signature is a split 65-byte (r, s, v) signature tagged with the
// market's signature type.
type Signature struct {
	SignatureType uint8
	V             uint8
	R             [32]byte
	S             [32]byte
}

// Order is a single settlement record produced from one MatchDetails.
// Amounts and salt are big.Int — the standard library's answer to "u128
// arithmetic" in spec 4.6; the external price and quantity are 32-bit so
// their product fits comfortably, but the reference still widens to avoid
// any possibility of overflow and no third-party fixed-width-integer
// library appears anywhere in the retrieval pack.
type Order struct {
	MakerToken   [20]byte
	TakerToken   [20]byte
	MakerAmount  *big.Int
	TakerAmount  *big.Int
	Maker        [20]byte
	Taker        [20]byte
	FeeRecipient [20]byte
	Pool         [20]byte
	Expiration   uint64
	Salt         *big.Int
	MakerIsBuyer bool
	MakerSig     Signature
	TakerSig     Signature
}

// Translate converts a single match into a settlement order. It returns
// false if either side of the match lacks authentication (trader, nonce,
// expiry, signature) — the caller drops the match silently rather than
// failing the batch (spec 4.6, 7).
func Translate(m matching.MatchDetails, cfg *market.Config) (Order, bool) {
	maker, taker, ok := authPair(m.MakerOrder, m.TakerOrder)
	if !ok {
		return Order{}, false
	}

	makerToken, takerToken := cfg.SecurityToken, cfg.BaseToken
	if m.MakerIsBuyer {
		makerToken, takerToken = cfg.BaseToken, cfg.SecurityToken
	}

	execPrice := big.NewInt(0).SetUint64(uint64(m.ExecPrice))
	execQty := big.NewInt(0).SetUint64(uint64(m.ExecQty))
	notional := big.NewInt(0).Mul(execPrice, execQty)

	makerAmount, takerAmount := execQty, notional
	if m.MakerIsBuyer {
		makerAmount, takerAmount = notional, execQty
	}

	return Order{
		MakerToken:   makerToken,
		TakerToken:   takerToken,
		MakerAmount:  makerAmount,
		TakerAmount:  takerAmount,
		Maker:        maker.Trader,
		Taker:        taker.Trader,
		FeeRecipient: cfg.FeeRecipient,
		Pool:         cfg.Pool,
		Expiration:   maker.Expiry,
		Salt:         big.NewInt(0).SetUint64(maker.Nonce),
		MakerIsBuyer: m.MakerIsBuyer,
		MakerSig:     splitSignature(maker.Signature, cfg.SignatureType),
		TakerSig:     splitSignature(taker.Signature, cfg.SignatureType),
	}, true
}

// TranslateBatch translates a sequence of matches, preserving input order
// and dropping any entry missing authentication on either side.
func TranslateBatch(matches []matching.MatchDetails, cfg *market.Config) []Order {
	out := make([]Order, 0, len(matches))
	for _, m := range matches {
		if order, ok := Translate(m, cfg); ok {
			out = append(out, order)
		}
	}
	return out
}

func authPair(maker, taker book.Order) (*book.Auth, *book.Auth, bool) {
	if maker.Auth == nil || taker.Auth == nil {
		return nil, nil, false
	}
	return maker.Auth, taker.Auth, true
}

func splitSignature(sig [65]byte, sigType uint8) Signature {
	var s Signature
	s.SignatureType = sigType
	copy(s.R[:], sig[0:32])
	copy(s.S[:], sig[32:64])
	s.V = sig[64]
	return s
}
