// Package pushqueue serializes snapshot uploads. At most one push is in
// flight; while it runs, newer snapshots coalesce and only the latest
// is pushed next. Versions are monotonic and appear in logs only.
package pushqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PushFunc uploads one snapshot. version identifies the snapshot in
// logs; it carries no protocol meaning.
type PushFunc[T any] func(ctx context.Context, version uint64, snapshot T) error

const pushTimeout = 30 * time.Second

// Queue owns a single worker goroutine. Failed pushes are logged and
// dropped; the next enqueue supersedes them anyway.
type Queue[T any] struct {
	name   string
	push   PushFunc[T]
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending *entry[T]
	busy    bool
	closed  bool
	version uint64

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

type entry[T any] struct {
	version  uint64
	snapshot T
}

func New[T any](name string, push PushFunc[T], logger *slog.Logger) *Queue[T] {
	q := &Queue[T]{
		name:   name,
		push:   push,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	q.wg.Add(1)
	go q.run()
	return q
}

// Enqueue schedules snapshot for upload, replacing any snapshot that is
// still waiting. Returns the version assigned to this snapshot.
func (q *Queue[T]) Enqueue(snapshot T) uint64 {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0
	}
	q.version++
	v := q.version
	if q.pending != nil {
		q.logger.Debug("superseding queued snapshot",
			"queue", q.name, "superseded", q.pending.version, "version", v)
	}
	q.pending = &entry[T]{version: v, snapshot: snapshot}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return v
}

// Flush blocks until the queue is idle: nothing pending and nothing in
// flight. Tests use it to observe the post-push state.
func (q *Queue[T]) Flush() {
	q.mu.Lock()
	for q.pending != nil || q.busy {
		q.cond.Wait()
	}
	q.mu.Unlock()
}

// Close stops the worker after the in-flight push, if any, finishes.
// Pending snapshots that never started are dropped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	close(q.done)
	q.wg.Wait()
}

func (q *Queue[T]) run() {
	defer func() {
		q.mu.Lock()
		q.pending = nil
		q.busy = false
		q.cond.Broadcast()
		q.mu.Unlock()
		q.wg.Done()
	}()

	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
		}

		for {
			q.mu.Lock()
			e := q.pending
			q.pending = nil
			if e == nil {
				q.mu.Unlock()
				break
			}
			q.busy = true
			q.mu.Unlock()

			ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
			err := q.push(ctx, e.version, e.snapshot)
			cancel()
			if err != nil {
				q.logger.Warn("snapshot push failed",
					"queue", q.name, "version", e.version, "error", err)
			} else {
				q.logger.Debug("snapshot pushed", "queue", q.name, "version", e.version)
			}

			q.mu.Lock()
			q.busy = false
			q.cond.Broadcast()
			q.mu.Unlock()

			select {
			case <-q.done:
				return
			default:
			}
		}
	}
}
