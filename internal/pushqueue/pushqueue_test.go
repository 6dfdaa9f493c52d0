package pushqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnqueuePushes(t *testing.T) {
	var mu sync.Mutex
	var got []int

	q := New("test", func(ctx context.Context, version uint64, snapshot int) error {
		mu.Lock()
		got = append(got, snapshot)
		mu.Unlock()
		return nil
	}, discard())
	defer q.Close()

	q.Enqueue(1)
	q.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("pushed = %v, want [1]", got)
	}
}

func TestCoalescingKeepsLatest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var got []int

	q := New("test", func(ctx context.Context, version uint64, snapshot int) error {
		mu.Lock()
		first := len(got) == 0
		got = append(got, snapshot)
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
		return nil
	}, discard())
	defer q.Close()

	q.Enqueue(1)
	<-started
	// These queue up behind the in-flight push; only the last survives.
	q.Enqueue(2)
	q.Enqueue(3)
	q.Enqueue(4)
	close(release)
	q.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("pushed = %v, want [1 4]", got)
	}
}

func TestVersionsMonotonic(t *testing.T) {
	q := New("test", func(ctx context.Context, version uint64, snapshot int) error {
		return nil
	}, discard())
	defer q.Close()

	v1 := q.Enqueue(1)
	v2 := q.Enqueue(2)
	if v2 <= v1 {
		t.Errorf("versions not monotonic: %d then %d", v1, v2)
	}
}

func TestPushFailureDoesNotStall(t *testing.T) {
	calls := 0
	var mu sync.Mutex

	q := New("test", func(ctx context.Context, version uint64, snapshot int) error {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			return errors.New("backend down")
		}
		return nil
	}, discard())
	defer q.Close()

	q.Enqueue(1)
	q.Flush()
	q.Enqueue(2)
	q.Flush()

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("calls = %d, want 2: a failed push must not stall the queue", calls)
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	q := New("test", func(ctx context.Context, version uint64, snapshot int) error {
		t.Error("push ran after Close")
		return nil
	}, discard())
	q.Close()

	if v := q.Enqueue(1); v != 0 {
		t.Errorf("Enqueue after Close = %d, want 0", v)
	}
	// Double close is safe.
	q.Close()
}
