package workerpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"

	"lob/internal/types"
)

func TestSubmitRunsTaskOnItsBookWorker(t *testing.T) {
	var tb tomb.Tomb
	p := New(&tb)

	done := make(chan struct{})
	ok := p.Submit(types.BookId(1), func() error {
		close(done)
		return nil
	})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	tb.Kill(nil)
	_ = tb.Wait()
}

func TestSubmitPreservesOrderWithinOneBook(t *testing.T) {
	var tb tomb.Tomb
	p := New(&tb)

	results := make(chan int32, 3)
	for i := int32(1); i <= 3; i++ {
		i := i
		p.Submit(types.BookId(0), func() error {
			results <- i
			return nil
		})
	}

	for want := int32(1); want <= 3; want++ {
		select {
		case got := <-results:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("task never ran")
		}
	}

	tb.Kill(nil)
	_ = tb.Wait()
}
