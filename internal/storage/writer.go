package storage

import (
	"context"
	"log/slog"
	"sync"
)

// job is one queued write, or a flush barrier when done is set.
type job struct {
	change Change
	done   chan struct{}
}

// writer persists snapshots on its own goroutine, one at a time, in the order
// they were queued. The queue is unbounded so committing never waits on I/O.
type writer struct {
	kv KV

	mu      sync.Mutex
	queue   []job
	closed  bool
	onSaved func(SaveEvent)

	wake     chan struct{}
	stop     chan struct{}
	finished chan struct{}
	once     sync.Once
}

func newWriter(kv KV) *writer {
	w := &writer{
		kv:       kv,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *writer) setOnSaved(fn func(SaveEvent)) {
	w.mu.Lock()
	w.onSaved = fn
	w.mu.Unlock()
}

func (w *writer) enqueue(change Change) bool {
	return w.push(job{change: change})
}

func (w *writer) push(j job) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	w.queue = append(w.queue, j)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

func (w *writer) pop() (job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return job{}, false
	}
	j := w.queue[0]
	w.queue[0] = job{}
	w.queue = w.queue[1:]
	return j, true
}

func (w *writer) loop() {
	defer close(w.finished)
	for {
		w.drain()
		select {
		case <-w.wake:
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		j, ok := w.pop()
		if !ok {
			return
		}
		w.process(j)
	}
}

func (w *writer) process(j job) {
	if j.done != nil {
		close(j.done)
		return
	}

	err := Save(w.kv, j.change.Collection)
	if err != nil {
		slog.Error("Failed to save workouts", "op", j.change.Operation, "item", j.change.ItemName, "error", err)
	}

	w.mu.Lock()
	fn := w.onSaved
	w.mu.Unlock()
	if fn != nil {
		fn(SaveEvent{Change: j.change, Err: err})
	}
}

// flush waits until everything queued before the call has been processed.
func (w *writer) flush(ctx context.Context) error {
	done := make(chan struct{})
	if !w.push(job{done: done}) {
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting work, writes what is queued and waits for the loop.
func (w *writer) close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
	})
	<-w.finished
}
