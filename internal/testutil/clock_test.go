package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_ReadsStart(t *testing.T) {
	clock := NewFixedClock(Now)
	assert.Equal(t, Now, clock.Now())
	assert.Equal(t, Now, clock.Now(), "reading does not advance")
}

func TestFixedClock_AdvanceAndReset(t *testing.T) {
	clock := NewFixedClock(100)

	assert.Equal(t, int64(160), clock.Advance(60))
	assert.Equal(t, int64(160), clock.Now())

	clock.Reset()
	assert.Equal(t, int64(100), clock.Now())
}

func TestFixedClock_ConcurrentAdvance(t *testing.T) {
	clock := NewFixedClock(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(2)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), clock.Now())
}
