package moderation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrikeLedger_IncrementAndCount(t *testing.T) {
	t.Parallel()
	ledger := NewStrikeLedger()

	assert.Equal(t, 0, ledger.Count("conn-1"))
	assert.Equal(t, 1, ledger.Increment("conn-1"))
	assert.Equal(t, 2, ledger.Increment("conn-1"))
	assert.Equal(t, 2, ledger.Count("conn-1"))

	// Strikes are per connection
	assert.Equal(t, 1, ledger.Increment("conn-2"))
	assert.Equal(t, 2, ledger.Count("conn-1"))
}

func TestStrikeLedger_Clear(t *testing.T) {
	t.Parallel()
	ledger := NewStrikeLedger()

	ledger.Increment("conn-1")
	ledger.Increment("conn-1")
	ledger.Clear("conn-1")

	assert.Equal(t, 0, ledger.Count("conn-1"))
	assert.Equal(t, 1, ledger.Increment("conn-1"), "cleared connection starts over")
}

func TestStrikeLedger_ConcurrentIncrements(t *testing.T) {
	t.Parallel()
	ledger := NewStrikeLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.Increment("conn-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, ledger.Count("conn-1"))
}
