package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available sketches",
	Long:  `Shows every sketch registered in pixelloop and whether it ships a preset.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	sketches := registry.List()

	if len(sketches) == 0 {
		fmt.Println("No sketches available.")
		return
	}

	fmt.Println("Available sketches:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range sketches {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	presets := config.Names()

	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "ID", "Preset", "Description")
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "--", "------", "-----------")
	for _, s := range sketches {
		preset := ""
		if slices.Contains(presets, s.ID) {
			preset = "yes"
		}
		fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, s.ID, preset, s.Description)
	}

	fmt.Println()
	fmt.Println("Run 'pixelloop run <id>' to start a sketch.")
}
