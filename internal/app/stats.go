package app

import (
	"fmt"
	"time"
)

// Phase is a step of the app lifecycle. Phases only move forward.
type Phase int

const (
	Created Phase = iota
	WindowPending
	Active
	Terminating
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Created:
		return "created"
	case WindowPending:
		return "window-pending"
	case Active:
		return "active"
	case Terminating:
		return "terminating"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Stats summarizes a finished run.
type Stats struct {
	Frames  uint32
	Elapsed time.Duration
	// Dropped counts frames that could not be queued for saving.
	Dropped int
}

// FPS is the average frame rate over the run.
func (s Stats) FPS() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Frames) / secs
}

// String is the one-line summary printed on graceful shutdown.
func (s Stats) String() string {
	return fmt.Sprintf("frames=%d elapsed=%.3fs fps=%.2f", s.Frames, s.Elapsed.Seconds(), s.FPS())
}

// Stats returns the summary of the finished run, or a zero value while the
// app is still running.
func (a *App[M]) Stats() Stats {
	return a.stats
}
