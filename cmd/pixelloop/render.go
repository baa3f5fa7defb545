package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/platform/headless"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

var (
	flagRenderFrames int
	flagParallel     int
	flagAll          bool
)

var renderCmd = &cobra.Command{
	Use:   "render [sketch...]",
	Short: "Render sketches headless",
	Long: `Render one or more sketches without a display. Each sketch runs until it
exits on its own or the frame budget is spent, saving frames according to its
save quota. Sketches render in parallel; summaries are printed in order.

Examples:
  pixelloop render waves
  pixelloop render waves gradient --frames 300 --out ./frames
  pixelloop render --all --parallel 2`,
	Run: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&flagRenderFrames, "frames", headless.DefaultMaxFrames, "Redraw budget per sketch")
	renderCmd.Flags().IntVar(&flagParallel, "parallel", runtime.NumCPU(), "Sketches rendered at once")
	renderCmd.Flags().BoolVar(&flagAll, "all", false, "Render every registered sketch")
}

func runRender(cmd *cobra.Command, args []string) {
	ids := args
	if flagAll {
		ids = ids[:0:0]
		for _, info := range registry.List() {
			ids = append(ids, info.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no sketches given (use --all to render every sketch)")
		os.Exit(1)
	}
	for _, id := range ids {
		if !registry.Exists(id) {
			fmt.Fprintf(os.Stderr, "Error: unknown sketch %q\n", id)
			os.Exit(1)
		}
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	outputs := make([]bytes.Buffer, len(ids))

	var g errgroup.Group
	g.SetLimit(max(flagParallel, 1))
	for i, id := range ids {
		g.Go(func() error {
			l := logger.WithPrefix("pixelloop/" + id)
			s, err := prepare(id, store, l, app.WithStdout(&outputs[i]))
			if err != nil {
				return err
			}
			h := headless.New(headless.Options{Logger: l, MaxFrames: flagRenderFrames})
			if err := s.execute(h); err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			return nil
		})
	}
	err = g.Wait()

	for i, id := range ids {
		if outputs[i].Len() > 0 {
			fmt.Printf("%-10s %s", id, outputs[i].String())
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
