package internal

import "sync"

// Queue is a FIFO of pending items. It is not safe for concurrent use,
// see SyncQueue for that.
type Queue[T any] struct {
	items []T
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

func (q *Queue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue pops the oldest item.
func (q *Queue[T]) Dequeue() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	item := q.items[0]

	var zero T
	q.items[0] = zero
	q.items = q.items[1:]

	return item, true
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

// SyncQueue is a mutex guarded queue of tasks that signals a channel
// whenever work is enqueued.
type SyncQueue struct {
	mu    sync.Mutex
	tasks []func()

	ready chan struct{}
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{
		tasks: make([]func(), 0),
		ready: make(chan struct{}, 1),
	}
}

func (q *SyncQueue) Enqueue(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Take removes and returns every queued task.
func (q *SyncQueue) Take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks := q.tasks
	q.tasks = make([]func(), 0)

	return tasks
}

// TakeOne removes and returns the oldest queued task.
func (q *SyncQueue) TakeOne() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}

	fn := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]

	if len(q.tasks) > 0 {
		select {
		case q.ready <- struct{}{}:
		default:
		}
	}

	return fn, true
}

// Ready is signaled after an Enqueue. A receive does not guarantee a task
// is still queued.
func (q *SyncQueue) Ready() <-chan struct{} {
	return q.ready
}
