// Package config loads per-sketch presets from YAML or TOML and applies them
// on top of a sketch's own defaults.
package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/persist"
)

// Preset holds the user-tunable settings of one sketch. Zero values mean
// "keep the sketch default".
type Preset struct {
	Window  WindowPreset       `yaml:"window" toml:"window"`
	Loop    LoopPreset         `yaml:"loop" toml:"loop"`
	Cursor  *bool              `yaml:"cursor_visible,omitempty" toml:"cursor_visible,omitempty"`
	Output  OutputPreset       `yaml:"output" toml:"output"`
	Palette []string           `yaml:"palette,omitempty" toml:"palette,omitempty"`
	Seed    int64              `yaml:"seed,omitempty" toml:"seed,omitempty"`
	Pace    PaceConfig         `yaml:"pace" toml:"pace"`
	Params  map[string]float64 `yaml:"params,omitempty" toml:"params,omitempty"`
}

// WindowPreset sets the buffer size and title.
type WindowPreset struct {
	Width  int    `yaml:"width,omitempty" toml:"width,omitempty"`
	Height int    `yaml:"height,omitempty" toml:"height,omitempty"`
	Title  string `yaml:"title,omitempty" toml:"title,omitempty"`
}

// LoopPreset sets the loop policy and save quota.
type LoopPreset struct {
	Once       *bool   `yaml:"once,omitempty" toml:"once,omitempty"`
	FrameLimit *uint32 `yaml:"frame_limit,omitempty" toml:"frame_limit,omitempty"`
	SaveQuota  *uint32 `yaml:"save_quota,omitempty" toml:"save_quota,omitempty"`
}

// OutputPreset sets where and how frames are saved.
type OutputPreset struct {
	Dir    string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// Apply overlays the preset on cfg.
func (p Preset) Apply(cfg core.Config) core.Config {
	if p.Window.Width > 0 && p.Window.Height > 0 {
		title := cfg.Title
		limit, hasLimit := cfg.FrameLimit()
		cfg = core.NewConfig(p.Window.Width, p.Window.Height).
			WithTitle(title).
			WithSaveQuota(cfg.SaveQuota).
			WithLoopOnce(cfg.LoopOnce).
			WithCursorVisible(cfg.CursorVisible)
		if hasLimit {
			cfg = cfg.WithFrameLimit(limit)
		}
	}
	if p.Window.Title != "" {
		cfg = cfg.WithTitle(p.Window.Title)
	}
	if p.Loop.Once != nil {
		cfg = cfg.WithLoopOnce(*p.Loop.Once)
	}
	if p.Loop.FrameLimit != nil {
		cfg = cfg.WithFrameLimit(*p.Loop.FrameLimit)
	}
	if p.Loop.SaveQuota != nil {
		cfg = cfg.WithSaveQuota(*p.Loop.SaveQuota)
	}
	if p.Cursor != nil {
		cfg = cfg.WithCursorVisible(*p.Cursor)
	}
	return cfg
}

// Format parses Output.Format.
func (p Preset) Format() (persist.Format, error) {
	return persist.ParseFormat(p.Output.Format)
}

// Colors parses the palette. It returns fallback when the palette is empty.
func (p Preset) Colors(fallback ...colorful.Color) ([]colorful.Color, error) {
	if len(p.Palette) == 0 {
		return fallback, nil
	}
	out := make([]colorful.Color, 0, len(p.Palette))
	for _, hex := range p.Palette {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("config: palette entry %q: %w", hex, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Param returns a numeric sketch parameter, or def when unset.
func (p Preset) Param(name string, def float64) float64 {
	if v, ok := p.Params[name]; ok {
		return v
	}
	return def
}

// Merge returns p with every field that other sets replaced by other's value.
func (p Preset) Merge(other Preset) Preset {
	if other.Window.Width > 0 && other.Window.Height > 0 {
		p.Window.Width, p.Window.Height = other.Window.Width, other.Window.Height
	}
	if other.Window.Title != "" {
		p.Window.Title = other.Window.Title
	}
	if other.Loop.Once != nil {
		p.Loop.Once = other.Loop.Once
	}
	if other.Loop.FrameLimit != nil {
		p.Loop.FrameLimit = other.Loop.FrameLimit
	}
	if other.Loop.SaveQuota != nil {
		p.Loop.SaveQuota = other.Loop.SaveQuota
	}
	if other.Cursor != nil {
		p.Cursor = other.Cursor
	}
	if other.Output.Dir != "" {
		p.Output.Dir = other.Output.Dir
	}
	if other.Output.Format != "" {
		p.Output.Format = other.Output.Format
	}
	if len(other.Palette) > 0 {
		p.Palette = other.Palette
	}
	if other.Seed != 0 {
		p.Seed = other.Seed
	}
	if other.Pace.Type != "" {
		p.Pace = other.Pace
	}
	if len(other.Params) > 0 {
		merged := make(map[string]float64, len(p.Params)+len(other.Params))
		for k, v := range p.Params {
			merged[k] = v
		}
		for k, v := range other.Params {
			merged[k] = v
		}
		p.Params = merged
	}
	return p
}
