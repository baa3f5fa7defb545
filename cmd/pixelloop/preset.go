package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

var presetCmd = &cobra.Command{
	Use:   "preset <sketch>",
	Short: "Print the effective preset of a sketch",
	Long: `Print the preset a sketch would run with, as YAML, and where it was found.

Presets are searched in this order:
  --config <path>
  ~/.pixelloop/presets/<sketch>.{yaml,toml}
  ./presets/<sketch>.{yaml,toml}
  built-in defaults

Examples:
  pixelloop preset waves
  pixelloop preset waves > ~/.pixelloop/presets/waves.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPreset,
}

func runPreset(cmd *cobra.Command, args []string) {
	sketchID := args[0]

	sketch, err := registry.Create(sketchID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	preset, src, err := config.Load(sketchID, flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := config.Encode(preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("# %s (%s preset)\n", sketch.Title(), src)
	fmt.Printf("# effective config: %s\n", preset.Apply(sketch.Config()))
	fmt.Print(string(data))
}
