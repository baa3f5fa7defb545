package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/registry"
	"github.com/vovakirdan/pixelloop/internal/storage"
)

var (
	flagLimit int
	flagRunID string
	flagClear bool
)

var framesCmd = &cobra.Command{
	Use:   "frames [sketch]",
	Short: "Show recorded runs and saved frames",
	Long: `Display the run catalog.

Without arguments, prints a per-sketch summary. With a sketch, lists its most
recent runs. With --run, lists the frames saved by one run.

Examples:
  pixelloop frames
  pixelloop frames waves --limit 5
  pixelloop frames --run 3f2a9c1e
  pixelloop frames waves --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runFrames,
}

func init() {
	framesCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	framesCmd.Flags().StringVar(&flagRunID, "run", "", "Show the frames of this run")
	framesCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs of the sketch")
}

func runFrames(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run catalog: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagRunID != "":
		err = printRunFrames(store, flagRunID)
	case len(args) == 0:
		err = printSummary(store)
	case flagClear:
		err = store.ClearRuns(args[0])
		if err == nil {
			fmt.Printf("Cleared runs of %s.\n", args[0])
		}
	default:
		err = printRuns(store, args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetSketchStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pixelloop run <sketch>' to record the first one!")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-10s  %5s  %8s  %6s  %9s  %8s  %s\n", "Sketch", "Runs", "Frames", "Saved", "Size", "Best FPS", "Last run")
	fmt.Printf("  %-10s  %5s  %8s  %6s  %9s  %8s  %s\n", "------", "----", "------", "-----", "----", "--------", "--------")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-10s  %5d  %8s  %6d  %9s  %8.1f  %s\n",
			id, s.Runs, humanize.Comma(s.Frames), s.SavedFrames,
			humanize.Bytes(uint64(s.SavedBytes)), s.BestFPS, humanize.Time(s.LastRun))
	}
	return nil
}

func printRuns(store *storage.Store, sketchID string) error {
	if !registry.Exists(sketchID) {
		fmt.Fprintln(os.Stderr, "Warning: sketch is not registered, showing recorded runs anyway.")
	}

	runs, err := store.RecentRuns(sketchID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Recent runs - %s\n", sketchID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'pixelloop run %s' to record the first one!\n", sketchID)
		return nil
	}

	fmt.Printf("  %-8s  %-9s  %7s  %7s  %s\n", "Run", "Size", "Frames", "FPS", "Started")
	fmt.Printf("  %-8s  %-9s  %7s  %7s  %s\n", "---", "----", "------", "---", "-------")
	for _, r := range runs {
		frames := "-"
		fps := "-"
		if r.Finished {
			frames = fmt.Sprintf("%d", r.Frames)
			fps = fmt.Sprintf("%.1f", r.FPS)
		}
		fmt.Printf("  %-8s  %-9s  %7s  %7s  %s\n",
			shortRunID(r.ID), fmt.Sprintf("%dx%d", r.Width, r.Height), frames, fps, humanize.Time(r.StartedAt))
	}
	return nil
}

func printRunFrames(store *storage.Store, runID string) error {
	run, err := store.FindRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run matches %q", runID)
	}
	frames, err := store.RunFrames(run.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s - %s (%dx%d)\n", shortRunID(run.ID), run.Sketch, run.Width, run.Height)
	fmt.Println()

	if len(frames) == 0 {
		fmt.Println("No frames saved by this run.")
		return nil
	}

	var total int64
	fmt.Printf("  %-6s  %-8s  %-30s  %s\n", "Frame", "Size", "File", "Dir")
	fmt.Printf("  %-6s  %-8s  %-30s  %s\n", "-----", "----", "----", "---")
	for _, f := range frames {
		total += f.Bytes
		fmt.Printf("  %-6d  %-8s  %-30s  %s\n",
			f.Frame, humanize.Bytes(uint64(f.Bytes)), filepath.Base(f.Path), filepath.Dir(f.Path))
	}
	fmt.Println()
	fmt.Printf("%d frames, %s total\n", len(frames), humanize.Bytes(uint64(total)))
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
