// Package registry implements the book registry collaborator (spec 6): a
// string -> BookId mapping maintained outside the matching engine, which
// only ever accepts BookId. Grounded in
// original_source/optimized-lob/src/book_registry.rs; unlike that
// registry's hash-derived ids, ids here are handed out sequentially from
// zero, so they stay dense and index the manager's book vector and the
// market config store directly.
package registry

import (
	"errors"
	"sync"

	"lob/internal/types"
)

var (
	ErrBookAlreadyExists = errors.New("registry: book already exists")
	ErrBookNotFound      = errors.New("registry: book not found")
	ErrInvalidBookID     = errors.New("registry: invalid book id")
)

// Registry maps human book names to dense BookIds.
type Registry struct {
	mu    sync.RWMutex
	books map[string]types.BookId
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{books: make(map[string]types.BookId)}
}

// Register assigns name the next free BookId (0 for the first book, then
// 1, 2, ... in registration order) and stores the mapping, or returns
// ErrBookAlreadyExists if name is already registered.
func (r *Registry) Register(name string) (types.BookId, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[name]; ok {
		return 0, ErrBookAlreadyExists
	}

	id := types.BookId(len(r.books))

	r.books[name] = id
	return id, nil
}

// Resolve returns the BookId registered for name.
func (r *Registry) Resolve(name string) (types.BookId, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.books[name]
	if !ok {
		return 0, ErrBookNotFound
	}
	return id, nil
}

// List returns every registered book name, in no particular order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.books))
	for name := range r.books {
		names = append(names, name)
	}
	return names
}
