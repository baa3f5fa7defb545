package app

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"

	"github.com/vovakirdan/pixelloop/internal/persist"
)

// FrameSink receives save requests from the render loop. TrySend must not
// block. *persist.Worker is the production implementation.
type FrameSink interface {
	TrySend(req persist.Request) error
	Close()
}

// Option customizes an App.
type Option func(*options)

type options struct {
	logger   *log.Logger
	outDir   string
	shotDir  string
	stdout   io.Writer
	clock    func() time.Time
	capacity int
	format   persist.Format
	recorder persist.Recorder
	sink     FrameSink
	runTag   string
	onExit   func(Stats)
}

func defaultOptions() options {
	return options{
		logger:  log.Default(),
		outDir:  downloadsDir("frames"),
		shotDir: downloadsDir("pixelloop"),
		stdout:  os.Stdout,
		clock:   time.Now,
		format:  persist.PNG,
	}
}

func downloadsDir(sub string) string {
	home, err := homedir.Dir()
	if err != nil {
		return sub
	}
	return filepath.Join(home, "Downloads", sub)
}

// WithLogger sets the logger used by the runtime and its save worker.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOutputDir sets the directory saved frames are written to.
func WithOutputDir(dir string) Option {
	return func(o *options) { o.outDir = dir }
}

// WithShotDir sets the directory for screenshots.
func WithShotDir(dir string) Option {
	return func(o *options) { o.shotDir = dir }
}

// WithStdout redirects the end-of-run summary.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithQueueCapacity sets the save queue size. Zero means min(quota, 256).
func WithQueueCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithFormat selects the encoding of saved frames and screenshots.
func WithFormat(f persist.Format) Option {
	return func(o *options) { o.format = f }
}

// WithRecorder is notified of every frame the worker writes.
func WithRecorder(r persist.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithFrameSink replaces the background worker. The sink is used only when
// the save quota is non-zero.
func WithFrameSink(s FrameSink) Option {
	return func(o *options) { o.sink = s }
}

// WithRunTag sets the run component of saved file names. By default every
// app picks a random one, so runs sharing an output directory never collide.
func WithRunTag(tag string) Option {
	return func(o *options) { o.runTag = tag }
}

// OnExit registers fn to run with the final stats after a graceful shutdown.
func OnExit(fn func(Stats)) Option {
	return func(o *options) { o.onExit = fn }
}
