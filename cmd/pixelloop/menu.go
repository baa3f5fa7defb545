package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a sketch picker menu",
	Long: `Start pixelloop in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to run a sketch.
When a sketch exits, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Run sketch
  Tab          - Browse recorded runs
  Q            - Quit

Examples:
  pixelloop menu
  pixelloop menu --fps 30
  pixelloop menu --db ./catalog.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	profile := termenv.NewOutput(os.Stdout).EnvColorProfile()

	// Menu loop
	for {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
			height = h
		}

		result, err := tui.RunMenu(width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if result.Quit {
			return
		}

		if result.OpenBrowser {
			if store == nil {
				fmt.Fprintln(os.Stderr, "Run catalog unavailable.")
				continue
			}
			goBack, err := tui.RunBrowser(store, width, height)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return
		}

		if result.SketchID == "" {
			return
		}

		// Summaries are dropped here; the catalog keeps them.
		var out bytes.Buffer
		s, err := prepare(result.SketchID, store, logger, app.WithStdout(&out))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		h := tui.New(tui.Options{Logger: logger, FPS: flagFPS, Profile: profile})
		if err := s.execute(h); err != nil {
			fmt.Fprintf(os.Stderr, "Error running %s: %v\n", result.SketchID, err)
		}
	}
}
