package config

import "github.com/vovakirdan/pixelloop/internal/core"

// PaceConfig describes how a sketch speeds up as it runs.
type PaceConfig struct {
	Type         string  `yaml:"type" toml:"type"`                   // "score", "frames", or "none"
	InitialLevel float64 `yaml:"initial_level" toml:"initial_level"` // 0.0 = calm, 1.0 = frantic
	MaxAt        int     `yaml:"max_at" toml:"max_at"`               // Score/frames at which the max level is reached
	Multiplier   float64 `yaml:"multiplier" toml:"multiplier"`       // Added to the base speed at max level
}

// Pace turns a PaceConfig into levels and speeds.
type Pace struct {
	cfg PaceConfig
}

// NewPace creates a pace calculator.
func NewPace(cfg PaceConfig) *Pace {
	cfg.InitialLevel = core.ClampF(cfg.InitialLevel, 0, 1)
	return &Pace{cfg: cfg}
}

// Enabled reports whether the level changes over time.
func (p *Pace) Enabled() bool {
	return p.cfg.Type == "score" || p.cfg.Type == "frames"
}

// Level returns the current level (0.0 to 1.0).
func (p *Pace) Level(score int, frames uint32) float64 {
	maxAt := float64(p.cfg.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch p.cfg.Type {
	case "score":
		progress = float64(score) / maxAt
	case "frames":
		progress = float64(frames) / maxAt
	default:
		return p.cfg.InitialLevel
	}

	progress = core.ClampF(progress, 0, 1)
	return p.cfg.InitialLevel + progress*(1-p.cfg.InitialLevel)
}

// Speed scales base by the current level.
func (p *Pace) Speed(base float64, score int, frames uint32) float64 {
	return base * (1 + p.Level(score, frames)*p.cfg.Multiplier)
}

// Interval returns how many frames to wait between steps: base frames at
// level zero, shrinking with speed, never below one.
func (p *Pace) Interval(base int, score int, frames uint32) int {
	n := int(float64(base) / (1 + p.Level(score, frames)*p.cfg.Multiplier))
	return max(n, 1)
}
