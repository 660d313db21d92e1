package xlite

import (
	"context"
	"sync"
)

// serializer is the single logical executor all units of work funnel
// through: one worker goroutine draining an unbuffered task channel.
// Submission order across concurrent callers is completion order.
type serializer struct {
	tasks    chan func()
	quit     chan struct{}
	stopOnce sync.Once
}

func newSerializer() *serializer {
	s := &serializer{
		tasks: make(chan func()),
		quit:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *serializer) loop() {
	for {
		select {
		case fn := <-s.tasks:
			fn()
		case <-s.quit:
			return
		}
	}
}

// run executes fn as a unit of work. On a scope-derived DB the unit
// runs inline on the calling goroutine (reentrancy bypass); otherwise
// it is queued on the executor and the caller blocks until it
// completes. ctx is checked while waiting to enqueue, but once a unit
// is accepted it runs to completion: there is no cancellation of an
// in-flight unit, so a statement that never returns stalls every
// later caller.
func (d *DB) run(ctx context.Context, fn func(context.Context) error) error {
	if d.owned {
		return fn(ctx)
	}
	done := make(chan error, 1)
	select {
	case d.sched.tasks <- func() { done <- fn(ctx) }:
	case <-d.sched.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-done
}
