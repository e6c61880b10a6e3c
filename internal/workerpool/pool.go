// Package workerpool adapts the teacher's worker.go into the per-book
// executor pool described in spec 5: one goroutine per book, started the
// first time that book is registered or submitted to, pulling tasks off
// that book's own queue so two books never contend for a worker and ops
// within a book stay ordered.
package workerpool

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"lob/internal/types"
)

// Task is one unit of work queued against a book.
type Task func() error

const queueSize = 256

// Pool runs one worker goroutine per registered book, each draining that
// book's own channel so no book's ops can be reordered or starved by
// another.
type Pool struct {
	t      *tomb.Tomb
	queues map[types.BookId]chan Task
}

// New returns an empty pool supervised by t.
func New(t *tomb.Tomb) *Pool {
	return &Pool{t: t, queues: make(map[types.BookId]chan Task)}
}

// Register starts a worker goroutine for bookID if one isn't already
// running. Safe to call more than once for the same book.
func (p *Pool) Register(bookID types.BookId) {
	if _, ok := p.queues[bookID]; ok {
		return
	}
	q := make(chan Task, queueSize)
	p.queues[bookID] = q
	p.t.Go(func() error { return p.worker(bookID, q) })
}

// Submit queues task against bookID, registering the book's worker first
// if needed. Returns false if the pool is dying and the task was
// dropped.
func (p *Pool) Submit(bookID types.BookId, task Task) bool {
	p.Register(bookID)
	select {
	case <-p.t.Dying():
		return false
	default:
	}
	select {
	case <-p.t.Dying():
		return false
	case p.queues[bookID] <- task:
		return true
	}
}

func (p *Pool) worker(bookID types.BookId, q chan Task) error {
	log.Info().Uint32("bookId", uint32(bookID)).Msg("book worker starting")
	for {
		select {
		case <-p.t.Dying():
			return nil
		case task := <-q:
			if err := task(); err != nil {
				log.Error().Err(err).Uint32("bookId", uint32(bookID)).Msg("book worker task failed")
			}
		}
	}
}
