package persist

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// DefaultCapacity is the queue size used when Options.Capacity is zero.
const DefaultCapacity = 256

var (
	// ErrQueueFull is returned by TrySend when the queue has no free slot.
	ErrQueueFull = errors.New("persist: queue full")
	// ErrClosed is returned by TrySend after Close.
	ErrClosed = errors.New("persist: worker closed")
)

// Saved describes a frame that reached disk.
type Saved struct {
	Path   string
	Frame  uint32
	Width  int
	Height int
	Bytes  int64
	Format Format
}

// Recorder is notified after every successful save.
type Recorder interface {
	RecordFrame(s Saved) error
}

// Options configures a Worker.
type Options struct {
	Logger   *log.Logger
	Capacity int
	Format   Format
	Recorder Recorder
}

// Worker writes frames on a dedicated goroutine.
type Worker struct {
	queue    chan Request
	done     chan struct{}
	logger   *log.Logger
	format   Format
	recorder Recorder

	mu     sync.Mutex
	closed bool

	saved  atomic.Int64
	failed atomic.Int64
}

// Start launches the worker goroutine.
func Start(opts Options) *Worker {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	w := &Worker{
		queue:    make(chan Request, capacity),
		done:     make(chan struct{}),
		logger:   logger,
		format:   opts.Format,
		recorder: opts.Recorder,
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	for req := range w.queue {
		n, err := Save(req, w.format)
		if err != nil {
			w.failed.Add(1)
			w.logger.Error("frame save failed", "frame", req.Frame, "error", err)
			continue
		}
		w.saved.Add(1)
		w.logger.Debug("frame saved", "frame", req.Frame, "path", req.Path, "bytes", n)

		if w.recorder == nil {
			continue
		}
		rec := Saved{
			Path:   req.Path,
			Frame:  req.Frame,
			Width:  req.Width,
			Height: req.Height,
			Bytes:  n,
			Format: w.format,
		}
		if err := w.recorder.RecordFrame(rec); err != nil {
			w.logger.Warn("could not record frame", "frame", req.Frame, "error", err)
		}
	}
}

// TrySend queues req without blocking.
func (w *Worker) TrySend(req Request) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	select {
	case w.queue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting requests. Queued requests are still written.
// Close is idempotent.
func (w *Worker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	close(w.queue)
}

// Done is closed once the worker has drained its queue and exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Format returns the encoding used for every request.
func (w *Worker) Format() Format {
	return w.format
}

// Saved returns the number of frames written so far.
func (w *Worker) Saved() int64 {
	return w.saved.Load()
}

// Failed returns the number of frames that could not be written.
func (w *Worker) Failed() int64 {
	return w.failed.Load()
}
