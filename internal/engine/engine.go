// Package engine is the top-level matching engine: it owns the book
// manager, the matching loop, the per-book market configs, the book
// registry, and intake validation, and wires a match straight through to
// settlement translation. One per-book worker goroutine, supervised by a
// shared tomb, processes that book's submissions in order (spec 5);
// different books run concurrently.
package engine

import (
	"errors"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"lob/internal/intake"
	"lob/internal/manager"
	"lob/internal/market"
	"lob/internal/matching"
	"lob/internal/registry"
	"lob/internal/settlement"
	"lob/internal/types"
	"lob/internal/workerpool"
)

var (
	ErrShuttingDown = errors.New("engine: shutting down")
)

// Engine ties every collaborator together behind one entry point.
type Engine struct {
	Registry *registry.Registry
	Markets  *market.Manager
	Manager  *manager.Manager
	Matching *matching.Engine
	Intake   *intake.Intake

	pool *workerpool.Pool
	t    *tomb.Tomb

	// OnSettlement, if set, is invoked with every settlement record
	// produced by a successful match. Left nil in tests that only care
	// about book state.
	OnSettlement func([]settlement.Order)
}

// New returns an Engine supervised by t, using in for submission
// validation.
func New(t *tomb.Tomb, in *intake.Intake) *Engine {
	mgr := manager.New()
	return &Engine{
		Registry: registry.New(),
		Markets:  market.NewManager(),
		Manager:  mgr,
		Matching: matching.New(mgr),
		Intake:   in,
		pool:     workerpool.New(t),
		t:        t,
	}
}

// RegisterBook associates name with a BookId, registers its market
// config, and starts its worker goroutine.
func (e *Engine) RegisterBook(name string, cfg market.Config) (types.BookId, error) {
	id, err := e.Registry.Register(name)
	if err != nil {
		return 0, err
	}
	e.Markets.Add(id, cfg)
	e.pool.Register(id)
	return id, nil
}

// PlaceOrder validates sub, then submits it to the matching engine on
// sub.BookID's worker goroutine, blocking until it has been processed.
// On a successful match it fans the resulting settlement records out to
// OnSettlement, if set.
func (e *Engine) PlaceOrder(id types.OrderId, sub intake.Submission) error {
	auth, err := e.Intake.Process(sub)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	ok := e.pool.Submit(sub.BookID, func() error {
		_, matches := e.Matching.MatchOrder(id, sub.BookID, types.Qty(sub.Quantity), sub.Price, sub.IsBid, auth)
		if len(matches) > 0 && e.OnSettlement != nil {
			cfg, ok := e.Markets.Get(sub.BookID)
			if ok {
				e.OnSettlement(settlement.TranslateBatch(matches, cfg))
			}
		}
		done <- nil
		return nil
	})
	if !ok {
		return ErrShuttingDown
	}
	return <-done
}

// CancelOrder reduces id's resting quantity by qty on its owning book's
// worker goroutine. A missing order or qty exceeding the resting amount
// results in a silent no-op (spec 7).
func (e *Engine) CancelOrder(bookID types.BookId, id types.OrderId, qty types.Qty) {
	e.pool.Submit(bookID, func() error {
		if ord, ok := e.Manager.Index.Get(id); ok && qty <= ord.Qty {
			e.Manager.CancelOrder(id, qty)
		}
		return nil
	})
}

// LogBook writes a diagnostic snapshot of bookID's best bid/ask to the
// structured logger.
func (e *Engine) LogBook(bookID types.BookId) {
	b, ok := e.Manager.Book(bookID)
	if !ok {
		log.Warn().Uint32("bookId", uint32(bookID)).Msg("log book: unknown book")
		return
	}

	bid, haveBid := b.BestBid()
	ask, haveAsk := b.BestAsk()

	ev := log.Info().Uint32("bookId", uint32(bookID))
	if haveBid {
		ev = ev.Uint32("bestBid", bid.Absolute())
	}
	if haveAsk {
		ev = ev.Uint32("bestAsk", ask.Absolute())
	}
	ev.Msg("book snapshot")
}

// Snapshot returns the resting level ids for both sides of bookID, for
// diagnostics and tests.
func (e *Engine) Snapshot(bookID types.BookId) (bids, asks []types.LevelId, ok bool) {
	b, ok := e.Manager.Book(bookID)
	if !ok {
		return nil, nil, false
	}
	return b.BidLevels(), b.AskLevels(), true
}
