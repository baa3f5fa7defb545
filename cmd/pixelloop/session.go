package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/persist"
	"github.com/vovakirdan/pixelloop/internal/registry"
	"github.com/vovakirdan/pixelloop/internal/storage"
)

// defaultTerminalLog receives logs while the alternate screen is active,
// where stderr output would garble the frame.
const defaultTerminalLog = "~/.pixelloop/pixelloop.log"

// newLogger builds the CLI logger from --log-level and --log-file.
func newLogger(terminal bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", flagLogLevel)
	}

	path := flagLogFile
	if path == "" && terminal {
		path = defaultTerminalLog
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := openLogFile(path)
		switch {
		case err == nil:
			w = f
			closeFn = func() { _ = f.Close() }
		case flagLogFile != "":
			return nil, nil, err
		default:
			// The default terminal log is best effort.
			w = io.Discard
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "pixelloop",
		Level:           level,
	})
	// Sketches log drawing failures through the default logger.
	log.SetDefault(logger)
	return logger, closeFn, nil
}

func openLogFile(path string) (*os.File, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// openStore opens the run catalog. A missing catalog only costs history,
// so failures are logged and nil is returned.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("run catalog unavailable", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// session is one prepared sketch run.
type session struct {
	id     string
	prog   app.Program
	sink   *lazySink
	run    *storage.Run
	logger *log.Logger
}

// prepare resolves the sketch, its preset and the CLI overrides, and builds
// the app. store may be nil.
func prepare(id string, store *storage.Store, logger *log.Logger, extra ...app.Option) (*session, error) {
	sketch, err := registry.Create(id)
	if err != nil {
		return nil, err
	}

	preset, src, err := config.Load(id, flagConfig)
	if err != nil {
		return nil, err
	}
	if flagSeed != 0 {
		preset.Seed = flagSeed
	}
	if flagFormat != "" {
		preset.Output.Format = strings.ToLower(flagFormat)
	}
	format, err := preset.Format()
	if err != nil {
		return nil, err
	}
	cfg := preset.Apply(sketch.Config())
	logger.Debug("preset loaded", "sketch", id, "source", src, "config", cfg)

	s := &session{id: id, logger: logger}
	opts := []app.Option{app.WithLogger(logger), app.WithFormat(format)}

	outDir := preset.Output.Dir
	if flagOutDir != "" {
		outDir = flagOutDir
	}
	if outDir != "" {
		if outDir, err = homedir.Expand(outDir); err != nil {
			return nil, err
		}
		opts = append(opts, app.WithOutputDir(outDir))
	}

	var recorder persist.Recorder
	if store != nil {
		run, err := store.StartRun(id, cfg)
		if err != nil {
			logger.Warn("failed to record run", "sketch", id, "error", err)
		} else {
			s.run = run
			recorder = run
			opts = append(opts, app.WithRecorder(run), app.WithRunTag(shortRunID(run.ID)))
		}
	}

	if cfg.SaveQuota > 0 {
		s.sink = newLazySink(persist.Options{
			Logger:   logger,
			Capacity: int(min(cfg.SaveQuota, persist.DefaultCapacity)),
			Format:   format,
			Recorder: recorder,
		})
		opts = append(opts, app.WithFrameSink(s.sink))
	}

	opts = append(opts, extra...)
	prog, err := sketch.Build(cfg, preset, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", id, err)
	}
	s.prog = prog
	return s, nil
}

// execute runs the program on h, then waits for queued frames to reach
// disk and records the outcome in the catalog.
func (s *session) execute(h host.Host) error {
	err := s.prog.Run(h)

	if s.sink != nil {
		saved, failed := s.sink.Drain()
		s.logger.Debug("frames flushed", "sketch", s.id, "saved", saved, "failed", failed)
	}

	if s.run != nil {
		st := s.prog.Stats()
		if ferr := s.run.Finish(st.Frames, st.Elapsed); ferr != nil {
			s.logger.Warn("failed to finish run", "sketch", s.id, "error", ferr)
		}
	}
	return err
}
