// Package market holds the per-book market configuration the settlement
// translator needs: token addresses, fee recipient, pool and signature
// type. Grounded in original_source/optimized-lob/src/market.rs, dropped
// from the distilled spec but needed to exercise the translator against
// more than one hand-built config.
package market

import "lob/internal/types"

// Config is the static configuration of a single market.
type Config struct {
	BaseToken     [20]byte
	SecurityToken [20]byte
	FeeRecipient  [20]byte
	Pool          [20]byte
	SignatureType uint8
}

// Manager is a dense BookId-indexed store of market configs.
type Manager struct {
	configs []*Config
}

// NewManager returns an empty market manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add registers config under bookID, growing the backing slice as needed.
func (m *Manager) Add(bookID types.BookId, config Config) {
	idx := int(bookID)
	if idx >= len(m.configs) {
		grown := make([]*Config, idx+1)
		copy(grown, m.configs)
		m.configs = grown
	}
	cfg := config
	m.configs[idx] = &cfg
}

// Get returns the config registered for bookID, if any.
func (m *Manager) Get(bookID types.BookId) (*Config, bool) {
	idx := int(bookID)
	if idx >= len(m.configs) {
		return nil, false
	}
	cfg := m.configs[idx]
	return cfg, cfg != nil
}
