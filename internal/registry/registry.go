// Package registry provides a global registry for sketch factories.
// Sketches register themselves in init() functions, allowing the CLI
// to discover and build them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
)

// Sketch is a runnable piece of generative content.
// Sketches contain pure drawing logic; hosts, presets and persistence are
// wired in by the caller.
type Sketch interface {
	// ID returns a unique identifier (e.g., "waves", "snake").
	// Used for CLI commands, presets and the run catalog.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Description is a one-line summary including the controls.
	Description() string

	// Config returns the sketch's own default config, before presets.
	Config() core.Config

	// Build creates the app. cfg already includes preset overrides;
	// preset carries the sketch-specific knobs (palette, params, pace).
	Build(cfg core.Config, preset config.Preset, opts ...app.Option) (app.Program, error)
}

// SketchInfo contains metadata about a registered sketch.
type SketchInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a sketch.
type Factory func() Sketch

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]SketchInfo)
	mu        sync.RWMutex
)

// Register adds a sketch factory to the registry.
// Typically called from a sketch's init() function.
// Panics if a sketch with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: sketch %q already registered", id))
	}

	factories[id] = f

	s := f()
	infos[id] = SketchInfo{ID: id, Title: s.Title(), Description: s.Description()}
}

// List returns information about all registered sketches, sorted by ID.
func List() []SketchInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SketchInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new sketch by its ID.
// Returns an error if the sketch ID is not registered.
func Create(id string) (Sketch, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown sketch %q", id)
	}

	return f(), nil
}

// Exists checks if a sketch with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
