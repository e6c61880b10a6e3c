package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndResolve(t *testing.T) {
	r := New()

	id, err := r.Register("ETH-USD")
	require.NoError(t, err)

	resolved, err := r.Resolve("ETH-USD")
	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := New()
	_, err := r.Register("ETH-USD")
	require.NoError(t, err)

	_, err = r.Register("ETH-USD")
	assert.ErrorIs(t, err, ErrBookAlreadyExists)
}

func TestResolveUnknownFails(t *testing.T) {
	r := New()
	_, err := r.Resolve("nope")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListReturnsEveryRegisteredName(t *testing.T) {
	r := New()
	_, _ = r.Register("ETH-USD")
	_, _ = r.Register("BTC-USD")

	names := r.List()
	assert.ElementsMatch(t, []string{"ETH-USD", "BTC-USD"}, names)
}

func TestDifferentNamesGetDifferentIds(t *testing.T) {
	r := New()
	a, _ := r.Register("ETH-USD")
	b, _ := r.Register("BTC-USD")
	assert.NotEqual(t, a, b)
}
