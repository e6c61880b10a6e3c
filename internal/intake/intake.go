// Package intake implements the order-intake collaborator (spec 6): it
// turns an untrusted submission — string book name, hex trader address,
// hex signature, optional expiry — into the validated fields the engine
// needs, without performing any signature cryptography of its own.
// Grounded in original_source/optimized-lob/src/order_intake.rs, with hex
// decoding done the way DimaJoyti-ai-agentic-crypto-browser's web3 helpers
// do it: via go-ethereum's common package rather than a bare encoding/hex
// call, since trader and signature fields are Ethereum-style addresses.
package intake

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"lob/internal/book"
	"lob/internal/types"
)

var (
	ErrInvalidQuantity  = errors.New("intake: invalid quantity")
	ErrInvalidPrice     = errors.New("intake: invalid price")
	ErrInvalidBookID    = errors.New("intake: invalid book id")
	ErrInvalidTrader    = errors.New("intake: invalid trader address")
	ErrInvalidSignature = errors.New("intake: invalid signature")
	ErrInvalidNonce     = errors.New("intake: invalid nonce")
	ErrInvalidExpiry    = errors.New("intake: invalid expiry")
	ErrExpiryTooSoon    = errors.New("intake: expiry already passed")
	ErrExpiryTooFar     = errors.New("intake: expiry too far in the future")
)

// maxExpiryHorizon bounds how far into the future an expiry may be set
// in Strict mode.
const maxExpiryHorizon = 24 * time.Hour

// Submission is a single order as it arrives from outside the engine:
// every field still in wire form.
type Submission struct {
	BookID   types.BookId
	Price    uint32
	Quantity uint32
	IsBid    bool
	Trader   string
	Nonce    uint64
	Expiry   *uint64
	Signature string
}

// Mode selects how strictly a Submission is validated. Strict requires an
// exactly-65-byte signature and bounds expiry to [now, now+24h]; the
// permissive mode (the default, matching the reference's behavior)
// accepts a short, zero-padded signature and treats a missing expiry as
// "never".
type Mode int

const (
	Permissive Mode = iota
	Strict
)

// Intake validates submissions under a fixed Mode.
type Intake struct {
	Mode Mode
	// Now, if set, overrides time.Now for expiry checks (tests).
	Now func() time.Time
}

// New returns an Intake in permissive mode.
func New() *Intake {
	return &Intake{Mode: Permissive, Now: time.Now}
}

// NewStrict returns an Intake in strict mode.
func NewStrict() *Intake {
	return &Intake{Mode: Strict, Now: time.Now}
}

// Process validates s and, on success, returns the parsed auth record
// (trader address, nonce, resolved expiry and zero-padded signature). The
// order's price, quantity, side and book are read from s by the caller.
// Returns one of the sentinel errors above on failure.
func (in *Intake) Process(s Submission) (*book.Auth, error) {
	if s.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	if s.Price == 0 {
		return nil, ErrInvalidPrice
	}

	traderBytes := common.FromHex(s.Trader)
	if len(traderBytes) != 20 {
		return nil, ErrInvalidTrader
	}

	sigBytes := common.FromHex(s.Signature)
	if in.Mode == Strict && len(sigBytes) != 65 {
		return nil, ErrInvalidSignature
	}
	if len(sigBytes) > 65 {
		return nil, ErrInvalidSignature
	}

	expiry, err := in.resolveExpiry(s.Expiry)
	if err != nil {
		return nil, err
	}

	auth := &book.Auth{
		Nonce:  s.Nonce,
		Expiry: expiry,
	}
	copy(auth.Trader[:], traderBytes)
	copy(auth.Signature[:], sigBytes)

	return auth, nil
}

func (in *Intake) resolveExpiry(expiry *uint64) (uint64, error) {
	if expiry == nil {
		if in.Mode == Strict {
			return 0, ErrInvalidExpiry
		}
		return ^uint64(0), nil
	}

	if in.Mode != Strict {
		return *expiry, nil
	}

	nowFn := in.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().Unix()
	if int64(*expiry) < now {
		return 0, ErrExpiryTooSoon
	}
	if int64(*expiry) > now+int64(maxExpiryHorizon.Seconds()) {
		return 0, ErrExpiryTooFar
	}
	return *expiry, nil
}
