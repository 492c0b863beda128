package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/watchlist/internal/media"
)

const (
	writerQueueSize      = 256
	defaultWriterTimeout = 30 * time.Second
)

// Op is the kind of write a Task performs.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Task is one queued write.
type Task struct {
	Op    Op
	Items []media.Item
}

// Stats counts writer activity since creation.
type Stats struct {
	Dispatched int64
	Applied    int64
	Failed     int64
	Dropped    int64 // dispatched after Close
}

// Writer applies writes to a Gateway on a single background worker, in the
// order they were dispatched. Dispatch never blocks on I/O. Failures are
// logged and counted but never retried or returned to the caller.
type Writer struct {
	gw      Gateway
	log     *slog.Logger
	timeout time.Duration
	queue   chan Task
	stop    chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	closed  bool
	stats   Stats
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithTimeout bounds each gateway call.
func WithTimeout(d time.Duration) WriterOption {
	return func(w *Writer) {
		w.timeout = d
	}
}

// NewWriter starts a writer over gw. Call Close to stop it.
func NewWriter(gw Gateway, log *slog.Logger, opts ...WriterOption) *Writer {
	if log == nil {
		log = slog.Default()
	}
	w := &Writer{
		gw:      gw,
		log:     log.With("component", "writer"),
		timeout: defaultWriterTimeout,
		queue:   make(chan Task, writerQueueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w
}

// Insert queues an insert of items.
func (w *Writer) Insert(items ...media.Item) { w.dispatch(OpInsert, items) }

// Update queues an update of items.
func (w *Writer) Update(items ...media.Item) { w.dispatch(OpUpdate, items) }

// Delete queues a delete of items.
func (w *Writer) Delete(items ...media.Item) { w.dispatch(OpDelete, items) }

func (w *Writer) dispatch(op Op, items []media.Item) {
	if len(items) == 0 {
		return
	}
	cp := make([]media.Item, len(items))
	for i, it := range items {
		cp[i] = media.Clone(it)
	}

	w.mu.Lock()
	if w.closed {
		w.stats.Dropped++
		w.mu.Unlock()
		w.log.Warn("write after close dropped", "op", op, "items", len(items))
		return
	}
	w.pending++
	w.stats.Dispatched++
	w.mu.Unlock()

	// Blocks only when the queue is full.
	w.queue <- Task{Op: op, Items: cp}
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case t := <-w.queue:
			w.apply(t)
		case <-w.stop:
			return
		}
	}
}

func (w *Writer) apply(t Task) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	var err error
	switch t.Op {
	case OpInsert:
		err = w.gw.Insert(ctx, t.Items)
	case OpUpdate:
		err = w.gw.Update(ctx, t.Items)
	case OpDelete:
		err = w.gw.Delete(ctx, t.Items)
	}

	if err != nil {
		keys := make([]string, len(t.Items))
		for i, it := range t.Items {
			keys[i] = it.Key().String()
		}
		w.log.Error("persist failed", "op", t.Op, "keys", keys, "error", err)
	}

	w.mu.Lock()
	if err != nil {
		w.stats.Failed++
	} else {
		w.stats.Applied++
	}
	w.pending--
	if w.pending == 0 {
		w.idle.Broadcast()
	}
	w.mu.Unlock()
}

// Flush blocks until every task dispatched so far has been applied.
func (w *Writer) Flush() {
	w.mu.Lock()
	for w.pending > 0 {
		w.idle.Wait()
	}
	w.mu.Unlock()
}

// Close stops accepting work, drains the queue and stops the worker.
// It is safe to call more than once.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.Flush()
	close(w.stop)
	<-w.done
}

// Stats returns a snapshot of the writer counters.
func (w *Writer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
