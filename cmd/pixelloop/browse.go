package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelloop/internal/platform/tui"
	"github.com/vovakirdan/pixelloop/internal/storage"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse recorded runs interactively",
	Long: `Open the run catalog in an interactive browser.

Controls:
  Up/Down/j/k       - Select run
  Tab/Left/Right    - Switch sketch
  Enter             - Show the frames of a run
  Esc/B             - Back
  Q/Ctrl+C          - Quit`,
	Run: runBrowse,
}

func runBrowse(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run catalog: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	if _, err := tui.RunBrowser(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
