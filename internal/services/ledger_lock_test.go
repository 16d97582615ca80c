package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"finledger/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestLedgerLock_SerializesCallers(t *testing.T) {
	lock := services.NewLedgerLock()

	var active, maxActive int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lock.WithLock(context.Background(), func(context.Context) error {
				current := atomic.AddInt32(&active, 1)
				for {
					seen := atomic.LoadInt32(&maxActive)
					if current <= seen || atomic.CompareAndSwapInt32(&maxActive, seen, current) {
						break
					}
				}
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
}

func TestLedgerLock_CancelledContextSkipsCallback(t *testing.T) {
	lock := services.NewLedgerLock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := lock.WithLock(ctx, func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
