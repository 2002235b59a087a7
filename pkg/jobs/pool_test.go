package jobs

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(2, nil)

	var counter int64
	for i := 0; i < 10; i++ {
		pool.Go(context.Background(), "count", func(context.Context) {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Wait()

	assert.Equal(t, int64(10), counter)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := NewPool(2, nil)

	var active, peak int64
	for i := 0; i < 8; i++ {
		pool.Go(context.Background(), "probe", func(context.Context) {
			current := atomic.AddInt64(&active, 1)
			for {
				observed := atomic.LoadInt64(&peak)
				if current <= observed || atomic.CompareAndSwapInt64(&peak, observed, current) {
					break
				}
			}
			atomic.AddInt64(&active, -1)
		})
	}
	pool.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestPoolRecoversFromPanic(t *testing.T) {
	pool := NewPool(1, nil)

	var ran int64
	pool.Go(context.Background(), "boom", func(context.Context) {
		panic("boom")
	})
	pool.Go(context.Background(), "after", func(context.Context) {
		atomic.AddInt64(&ran, 1)
	})
	pool.Wait()

	assert.Equal(t, int64(1), ran)
}

func TestPoolDropsTaskOnCancelledContext(t *testing.T) {
	pool := NewPool(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	pool.Go(ctx, "dropped", func(context.Context) {
		atomic.AddInt64(&ran, 1)
	})
	pool.Wait()

	assert.Equal(t, int64(0), ran)
}
