package main

import (
	"github.com/vovakirdan/pixelloop/internal/persist"
)

// lazySink starts the save worker on the first frame it is handed, the way
// the runtime starts its own worker once the window exists, while letting
// the CLI wait for the queue to drain after the run. It is only used from the
// app's event goroutine and then from the caller once Run has returned.
type lazySink struct {
	opts   persist.Options
	worker *persist.Worker
	closed bool
}

func newLazySink(opts persist.Options) *lazySink {
	return &lazySink{opts: opts}
}

func (l *lazySink) TrySend(req persist.Request) error {
	if l.closed {
		return persist.ErrClosed
	}
	if l.worker == nil {
		l.worker = persist.Start(l.opts)
	}
	return l.worker.TrySend(req)
}

func (l *lazySink) Close() {
	l.closed = true
	if l.worker != nil {
		l.worker.Close()
	}
}

// Started reports whether a worker was ever launched.
func (l *lazySink) Started() bool {
	return l.worker != nil
}

// Drain closes the sink and blocks until queued frames are on disk.
// It returns the worker's counters, zero when no frame was ever sent.
func (l *lazySink) Drain() (saved, failed int64) {
	l.Close()
	if l.worker == nil {
		return 0, 0
	}
	<-l.worker.Done()
	return l.worker.Saved(), l.worker.Failed()
}
