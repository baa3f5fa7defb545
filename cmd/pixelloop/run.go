package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/platform/headless"
	"github.com/vovakirdan/pixelloop/internal/platform/tui"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

var (
	flagHeadless  bool
	flagMaxFrames int
	flagASCII     bool
)

var runCmd = &cobra.Command{
	Use:   "run <sketch>",
	Short: "Run a sketch",
	Long: `Run the specified sketch in the terminal.

Frames are drawn with half-block characters. When stdout is not a terminal,
or with --headless, the sketch runs without a display and only its saved
frames and summary are produced.

Controls:
  Mouse           - Move, click (sketch specific)
  Arrows/keys     - Sketch specific
  Ctrl+S          - Save a screenshot
  Q/Esc/Ctrl+C    - Quit

Examples:
  pixelloop run rose
  pixelloop run waves --out ./frames --format bmp
  pixelloop run orbits --seed 42
  pixelloop run gradient --headless --max-frames 120`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a display")
	runCmd.Flags().IntVar(&flagMaxFrames, "max-frames", headless.DefaultMaxFrames, "Redraw budget in headless mode")
	runCmd.Flags().BoolVar(&flagASCII, "ascii", false, "Draw with ASCII characters instead of colors")
}

func runRun(cmd *cobra.Command, args []string) {
	sketchID := args[0]

	if !registry.Exists(sketchID) {
		fmt.Fprintf(os.Stderr, "Error: unknown sketch %q\n", sketchID)
		fmt.Fprintln(os.Stderr, "Run 'pixelloop list' to see available sketches.")
		os.Exit(1)
	}

	terminal := !flagHeadless && isatty.IsTerminal(os.Stdout.Fd())

	logger, closeLog, err := newLogger(terminal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	// The alternate screen would swallow the summary, so it is held until
	// the program exits.
	var out bytes.Buffer
	s, err := prepare(sketchID, store, logger, app.WithStdout(&out))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var h host.Host
	if terminal {
		profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
		if flagASCII {
			profile = termenv.Ascii
		}
		h = tui.New(tui.Options{Logger: logger, FPS: flagFPS, Profile: profile})
	} else {
		h = headless.New(headless.Options{Logger: logger, MaxFrames: flagMaxFrames})
	}

	if err := s.execute(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(out.String())
}
