package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Pool runs independent tasks with bounded concurrency. Tasks must not share
// mutable state; callers typically hand each task its own result slot.
type Pool struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool constructs a pool allowing up to concurrency tasks in flight.
func NewPool(concurrency int, logger *zap.Logger) *Pool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		sem:    make(chan struct{}, concurrency),
		logger: logger,
	}
}

// Go schedules a task. It blocks while the pool is at capacity so that a
// burst of submissions cannot spawn unbounded goroutines. A cancelled
// context drops the task instead of starting it.
func (p *Pool) Go(ctx context.Context, name string, task func(context.Context)) {
	select {
	case <-ctx.Done():
		p.logger.Sugar().Warnw("task dropped, context cancelled", "task", name)
		return
	case p.sem <- struct{}{}:
	}

	p.wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Sugar().Errorw("task panicked", "task", name, "panic", r)
			}
			<-p.sem
			p.wg.Done()
		}()
		task(ctx)
	}()
}

// Wait blocks until every scheduled task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
