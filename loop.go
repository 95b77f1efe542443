package motion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AnatoleLucet/motion/internal"
	"github.com/zoobzio/clockz"
)

// Loop is the host event loop deferred deliveries are scheduled on. The
// embedding application drains it from the goroutine that owns the
// reactive graph, tasks never run anywhere else.
type Loop struct {
	clock clockz.Clock
	queue *internal.SyncQueue
}

// NewLoop creates a loop whose timers run on clock. A nil clock means
// clockz.RealClock.
func NewLoop(clock clockz.Clock) *Loop {
	if clock == nil {
		clock = clockz.RealClock
	}

	return &Loop{
		clock: clock,
		queue: internal.NewSyncQueue(),
	}
}

// Clock returns the clock timers are scheduled with.
func (l *Loop) Clock() clockz.Clock {
	return l.clock
}

// Post queues fn for the next turn. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.queue.Enqueue(fn)
}

// After posts fn once d elapsed. The returned cancel prevents fn from
// running if it did not run yet.
func (l *Loop) After(d time.Duration, fn func()) (cancel func()) {
	var (
		once      sync.Once
		cancelled atomic.Bool
		done      = make(chan struct{})
	)

	timer := l.clock.NewTimer(d)

	go func() {
		select {
		case <-timer.C():
			if cancelled.Load() {
				return
			}

			l.Post(func() {
				if !cancelled.Load() {
					fn()
				}
			})

		case <-done:
			timer.Stop()
		}
	}()

	return func() {
		once.Do(func() {
			cancelled.Store(true)
			close(done)
		})
	}
}

// RunPending runs every task queued so far without blocking and returns
// how many ran. Tasks posted while running wait for the next call.
func (l *Loop) RunPending() int {
	tasks := l.queue.Take()
	for _, task := range tasks {
		task()
	}

	return len(tasks)
}

// RunOne blocks until a task is available and runs it.
func (l *Loop) RunOne(ctx context.Context) error {
	for {
		if task, ok := l.queue.TakeOne(); ok {
			task()
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.queue.Ready():
		}
	}
}

// Run processes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.RunOne(ctx); err != nil {
			return err
		}
	}
}
