package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Pool runs fire-and-forget tasks with bounded concurrency. Task failures are logged and
// never cancel other tasks. Tasks run on the pool's own context, so a caller going away does
// not abort a write that has already been handed over.
type Pool struct {
	group  errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{ctx: ctx, cancel: cancel}
	p.group.SetLimit(size)
	return p
}

// Submit blocks only while the pool is saturated.
func (p *Pool) Submit(task string, fn func(ctx context.Context) error) {
	p.group.Go(func() error {
		start := time.Now()
		if err := fn(p.ctx); err != nil {
			log.Error().Err(err).Str("task", task).Msg("Background task failed")
			return nil
		}
		log.Debug().Str("task", task).Dur("took", time.Since(start)).Msg("Background task done")
		return nil
	})
}

// Shutdown waits for running tasks up to the deadline of ctx, then cancels them.
func (p *Pool) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}
