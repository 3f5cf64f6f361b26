package shop

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_AcquireRelease(t *testing.T) {
	g := NewGuard()

	assert.True(t, g.TryAcquire("user1"))
	assert.False(t, g.TryAcquire("user1"), "second acquire while held must fail")
	assert.True(t, g.TryAcquire("user2"), "other users are independent")

	g.Release("user1")
	assert.True(t, g.TryAcquire("user1"), "slot reusable after release")
}

func TestGuard_ReleaseWithoutAcquire(t *testing.T) {
	g := NewGuard()
	assert.NotPanics(t, func() { g.Release("ghost") })
	assert.True(t, g.TryAcquire("ghost"))
}

func TestGuard_ConcurrentSingleAdmission(t *testing.T) {
	g := NewGuard()

	var admitted int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("user1") {
				atomic.AddInt32(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted)
}
