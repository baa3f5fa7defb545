// pixelloop runs pixel-buffer sketches in the terminal or headless, saving
// frames to disk and recording every run in a local catalog.
//
// Usage:
//
//	pixelloop list                - List available sketches
//	pixelloop run <sketch>        - Run a sketch in the terminal
//	pixelloop render <sketch>...  - Render sketches headless and save frames
//	pixelloop menu                - Pick sketches interactively
//	pixelloop frames [sketch]     - Show recorded runs and saved frames
//	pixelloop browse              - Browse the run catalog interactively
//	pixelloop preset <sketch>     - Print the effective preset
//
// Global flags:
//
//	--fps <rate>        - Terminal redraw rate (default: 60)
//	--seed <value>      - RNG seed for sketches that use randomness
//	--db <path>         - Catalog database path (default: ~/.pixelloop/catalog.db)
//	--out <dir>         - Directory for saved frames
//	--format <fmt>      - Frame format: png, bmp or tiff
//	--config <path>     - Custom preset file (YAML or TOML)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/storage"

	// Import sketches to register them
	_ "github.com/vovakirdan/pixelloop/internal/sketches"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagOutDir   string
	flagFormat   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelloop",
	Short: "pixelloop - run generative pixel sketches",
	Long: `pixelloop runs small pixel-buffer sketches. Each sketch draws RGBA
frames that are shown in the terminal (or rendered headless), and the first
frames of a run can be saved to disk as an image sequence.

Available commands:
  list     - Show all available sketches
  run      - Run a sketch in the terminal
  render   - Render sketches headless
  menu     - Interactive sketch picker
  frames   - Show recorded runs and frames
  browse   - Interactive run browser
  preset   - Print the effective preset of a sketch

Examples:
  pixelloop list
  pixelloop run rose
  pixelloop render waves --out ./frames
  pixelloop frames waves`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Terminal redraw rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = preset seed or time based)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to the run catalog")
	rootCmd.PersistentFlags().StringVar(&flagOutDir, "out", "", "Directory for saved frames (default: preset or ~/Downloads/frames)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Frame format: png, bmp, tiff (default: preset)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a custom preset (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: stderr, or ~/.pixelloop/pixelloop.log while drawing in the terminal)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(presetCmd)
}
