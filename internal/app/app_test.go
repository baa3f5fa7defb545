package app

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/persist"
)

func blackSketch(t *testing.T, cfg core.Config, opts ...Option) (*App[Unit], *int) {
	t.Helper()
	draws := 0
	pix := solidBuffer(cfg, 0, 0, 0, 255)
	a, err := Sketch(cfg, func(*State[Unit]) []byte {
		draws++
		return pix
	}, append([]Option{quiet(), WithStdout(&bytes.Buffer{})}, opts...)...)
	require.NoError(t, err)
	return a, &draws
}

func TestFrameCounterMatchesCycles(t *testing.T) {
	for _, n := range []uint32{1, 2, 7, 60} {
		cfg := core.NewConfig(4, 3).WithFrameLimit(n)
		var seen []uint32
		a, err := Sketch(cfg, func(s *State[Unit]) []byte {
			seen = append(seen, s.Frame)
			return solidBuffer(cfg, 1, 2, 3, 255)
		}, quiet(), WithStdout(&bytes.Buffer{}))
		require.NoError(t, err)

		h := newFakeHost()
		require.NoError(t, a.Run(h))

		assert.Equal(t, n, a.State().Frame)
		assert.Equal(t, n, a.Stats().Frames)
		require.Len(t, seen, int(n))
		for i, f := range seen {
			assert.Equal(t, uint32(i), f, "frame indices have no gaps")
		}
		assert.Equal(t, int(n), h.loop.window.surface.presents)
	}
}

func TestLoopOnceRendersExactlyOnce(t *testing.T) {
	cfg := core.NewConfig(2, 2).WithLoopOnce(true).WithFrameLimit(10)
	a, draws := blackSketch(t, cfg)

	h := newFakeHost()
	require.NoError(t, a.Run(h))

	assert.Equal(t, 1, *draws)
	assert.Equal(t, 1, h.loop.window.requests)
	assert.Equal(t, Terminated, a.Phase())
}

func TestFrameLimitStopsScheduling(t *testing.T) {
	cfg := core.NewConfig(2, 2).WithFrameLimit(5)
	a, draws := blackSketch(t, cfg)

	h := newFakeHost()
	require.NoError(t, a.Run(h))

	assert.Equal(t, 5, *draws)
	// The initial request plus one after each of the first four frames.
	assert.Equal(t, 5, h.loop.window.requests)
	assert.False(t, h.loop.window.pending)
}

func TestFrameLimitZeroRendersNothing(t *testing.T) {
	cfg := core.NewConfig(2, 2).WithFrameLimit(0)
	a, draws := blackSketch(t, cfg)

	h := newFakeHost()
	require.NoError(t, a.Run(h))

	assert.Zero(t, *draws)
	assert.Zero(t, h.loop.window.requests)
}

func TestFreeRunningKeepsScheduling(t *testing.T) {
	cfg := core.NewConfig(2, 2)
	a, draws := blackSketch(t, cfg)

	h := newFakeHost()
	h.maxRedraws = 25
	require.NoError(t, a.Run(h))

	assert.Equal(t, 25, *draws)
	assert.True(t, h.loop.window.pending, "a free-running app always asks for the next frame")
}

func TestSaveQuota(t *testing.T) {
	tests := []struct {
		quota, limit uint32
		want         int
	}{
		{quota: 3, limit: 10, want: 3},
		{quota: 10, limit: 4, want: 4},
		{quota: 0, limit: 4, want: 0},
	}
	for _, tc := range tests {
		cfg := core.NewConfig(2, 2).WithSaveQuota(tc.quota).WithFrameLimit(tc.limit)
		sink := &fakeSink{}
		a, _ := blackSketch(t, cfg, WithFrameSink(sink), WithOutputDir("out"))

		require.NoError(t, a.Run(newFakeHost()))

		require.Len(t, sink.reqs, tc.want)
		for i, req := range sink.reqs {
			assert.Equal(t, uint32(i), req.Frame)
			assert.Equal(t, "out", filepath.Dir(req.Path))
		}
		if tc.quota > 0 {
			assert.GreaterOrEqual(t, sink.closed, 1)
		}
	}
}

func TestBlackFrameScenario(t *testing.T) {
	cfg := core.NewConfig(100, 100).WithSaveQuota(5).WithFrameLimit(10)
	sink := &fakeSink{}
	var out bytes.Buffer
	clk := newFakeClock()

	pix := solidBuffer(cfg, 0x00, 0x00, 0x00, 0xFF)
	a, err := Sketch(cfg, func(s *State[Unit]) []byte {
		clk.Advance(10 * time.Millisecond)
		return pix
	}, quiet(), WithStdout(&out), WithFrameSink(sink), WithClock(clk.Now))
	require.NoError(t, err)

	h := newFakeHost()
	require.NoError(t, a.Run(h))

	assert.Equal(t, 10, h.redraws)
	require.Len(t, sink.reqs, 5)
	for i, req := range sink.reqs {
		assert.Equal(t, uint32(i), req.Frame)
		assert.Len(t, req.Pixels, 40000)
		assert.Equal(t, pix, req.Pixels)
		assert.Equal(t, 100, req.Width)
		assert.Equal(t, 100, req.Height)
	}
	// Each request owns its own copy.
	sink.reqs[0].Pixels[0] = 0x7F
	assert.Equal(t, byte(0x00), sink.reqs[1].Pixels[0])

	assert.Contains(t, out.String(), "frames=10")
	assert.Equal(t, "frames=10 elapsed=0.100s fps=100.00\n", out.String())
}

func TestStatefulDrawSeesPreUpdateModel(t *testing.T) {
	type model struct{ n int }
	cfg := core.NewConfig(2, 2).WithFrameLimit(3)

	var seen []int
	a, err := Stateful(model{}, cfg,
		func(_ *State[model], m model) model {
			m.n++
			return m
		},
		func(_ *State[model], m *model) []byte {
			seen = append(seen, m.n)
			return solidBuffer(cfg, 0, 0, 0, 255)
		},
		quiet(), WithStdout(&bytes.Buffer{}),
	)
	require.NoError(t, err)

	require.NoError(t, a.Run(newFakeHost()))
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Equal(t, 3, a.State().Model.n)
}

func TestPressReleaseFlag(t *testing.T) {
	type model struct{ flag bool }
	cfg := core.NewConfig(2, 2).WithLoopOnce(true)
	a, err := Stateful(model{}, cfg,
		func(_ *State[model], m model) model { return m },
		func(_ *State[model], _ *model) []byte { return solidBuffer(cfg, 0, 0, 0, 255) },
		quiet(), WithStdout(&bytes.Buffer{}),
	)
	require.NoError(t, err)
	a.OnKeyPress("x", func(s *State[model]) { s.Model.flag = true })
	a.OnKeyRelease("x", func(s *State[model]) { s.Model.flag = false })

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})

	flags := []bool{a.State().Model.flag}
	a.HandleEvent(loop, host.KeyInput{Key: "x", Pressed: true})
	flags = append(flags, a.State().Model.flag)
	a.HandleEvent(loop, host.KeyInput{Key: "x", Pressed: false})
	flags = append(flags, a.State().Model.flag)

	assert.Equal(t, []bool{false, true, false}, flags)
}

func TestLastRegistrationWins(t *testing.T) {
	cfg := core.NewConfig(2, 2)
	a, _ := blackSketch(t, cfg)

	var calls []string
	a.OnKeyPress("k", func(*State[Unit]) { calls = append(calls, "first") })
	a.OnKeyPress("k", func(*State[Unit]) { calls = append(calls, "second") })

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.KeyInput{Key: "k", Pressed: true})
	a.HandleEvent(loop, host.KeyInput{Key: "k", Pressed: true, Repeat: true})
	a.HandleEvent(loop, host.KeyInput{Key: "k", Pressed: true})
	a.HandleEvent(loop, host.KeyInput{Key: "k", Pressed: false})
	a.HandleEvent(loop, host.KeyInput{Key: "k", Pressed: true})

	assert.Equal(t, []string{"second", "second"}, calls)
}

func TestHeldFiresOncePerFrame(t *testing.T) {
	cfg := core.NewConfig(2, 2)
	a, _ := blackSketch(t, cfg)

	var order []string
	a.OnKeyHeld(core.KeyLeft, func(*State[Unit]) { order = append(order, "left") })
	a.OnKeyHeld("a", func(*State[Unit]) { order = append(order, "a") })
	a.OnKeyHeld("z", func(*State[Unit]) { order = append(order, "z") })

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.KeyInput{Key: core.KeyLeft, Pressed: true})
	a.HandleEvent(loop, host.KeyInput{Key: "a", Pressed: true})
	// Repeats do not add extra calls.
	for range 5 {
		a.HandleEvent(loop, host.KeyInput{Key: "a", Pressed: true, Repeat: true})
	}
	assert.Empty(t, order, "held callbacks only run in the update phase")

	a.HandleEvent(loop, host.RedrawRequested{})
	a.HandleEvent(loop, host.RedrawRequested{})
	assert.Equal(t, []string{"a", "left", "a", "left"}, order)

	a.HandleEvent(loop, host.KeyInput{Key: "a", Pressed: false})
	a.HandleEvent(loop, host.RedrawRequested{})
	assert.Equal(t, []string{"a", "left", "a", "left", "left"}, order)
}

func TestHeldRunsBeforeUpdate(t *testing.T) {
	cfg := core.NewConfig(2, 2)
	var order []string
	a, err := Stateful(0, cfg,
		func(_ *State[int], m int) int {
			order = append(order, "update")
			return m
		},
		func(_ *State[int], _ *int) []byte {
			order = append(order, "draw")
			return solidBuffer(cfg, 0, 0, 0, 255)
		},
		quiet(),
	)
	require.NoError(t, err)
	a.OnKeyHeld(core.KeySpace, func(*State[int]) { order = append(order, "held") })

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.KeyInput{Key: core.KeySpace, Pressed: true})
	a.HandleEvent(loop, host.RedrawRequested{})

	assert.Equal(t, []string{"draw", "held", "update"}, order)
}

func TestCallbackRedrawBypassesLoopPolicy(t *testing.T) {
	cfg := core.NewConfig(2, 2).WithLoopOnce(true)
	a, draws := blackSketch(t, cfg)
	a.OnKeyPress(core.KeySpace, func(s *State[Unit]) { s.RequestRedraw() })
	a.OnMousePress(core.MouseLeft, func(*State[Unit]) {})

	loop := newFakeLoop()
	w := loop.window
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.RedrawRequested{})
	assert.Equal(t, 1, *draws)
	assert.Equal(t, 1, w.requests)

	a.HandleEvent(loop, host.MouseInput{Button: core.MouseLeft, Pressed: true})
	assert.Equal(t, 1, w.requests, "callbacks that do not ask for a redraw schedule nothing")

	a.HandleEvent(loop, host.KeyInput{Key: core.KeySpace, Pressed: true})
	assert.Equal(t, 2, w.requests)

	a.HandleEvent(loop, host.RedrawRequested{})
	assert.Equal(t, 2, *draws)
	assert.Equal(t, 2, w.requests, "loop once schedules nothing after the redraw")
}

func TestMouseAndModifiers(t *testing.T) {
	cfg := core.NewConfig(2, 2)
	a, _ := blackSketch(t, cfg)

	pressed := 0
	a.OnMousePress(core.MouseRight, func(*State[Unit]) { pressed++ })

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.CursorMoved{X: 12.5, Y: 40})
	a.HandleEvent(loop, host.MouseInput{Button: core.MouseRight, Pressed: true})
	a.HandleEvent(loop, host.MouseInput{Button: core.MouseRight, Pressed: false})
	a.HandleEvent(loop, host.MouseInput{Button: core.MouseLeft, Pressed: true})
	a.HandleEvent(loop, host.ModifiersChanged{Mods: core.ModShift | core.ModAlt})

	s := a.State()
	assert.Equal(t, 1, pressed)
	assert.Equal(t, float32(12.5), s.MouseX())
	assert.Equal(t, float32(40), s.MouseY())
	assert.True(t, s.Modifiers.Has(core.ModShift))
	assert.False(t, s.Modifiers.Has(core.ModCtrl))
}

func TestCursorPolicy(t *testing.T) {
	t.Run("visible", func(t *testing.T) {
		a, _ := blackSketch(t, core.NewConfig(2, 2))
		loop := newFakeLoop()
		a.HandleEvent(loop, host.Resumed{})
		a.HandleEvent(loop, host.CursorEntered{})
		a.HandleEvent(loop, host.CursorLeft{})

		assert.Equal(t, []core.CursorIcon{core.CursorCrosshair, core.CursorDefault}, loop.window.icons)
		assert.Equal(t, []bool{true}, loop.window.visible)
	})

	t.Run("hidden", func(t *testing.T) {
		a, _ := blackSketch(t, core.NewConfig(2, 2).WithCursorVisible(false))
		loop := newFakeLoop()
		a.HandleEvent(loop, host.Resumed{})
		a.HandleEvent(loop, host.CursorEntered{})
		a.HandleEvent(loop, host.CursorLeft{})

		assert.Equal(t, []bool{false, true}, loop.window.visible)
		assert.Equal(t, []core.CursorIcon{core.CursorDefault}, loop.window.icons)
	})
}

func TestResumedCreatesWindowOnce(t *testing.T) {
	cfg := core.NewConfig(3, 2).WithTitle("once")
	a, _ := blackSketch(t, cfg)

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.Resumed{})

	assert.Equal(t, 1, loop.created)
	assert.Equal(t, 1, loop.window.surfaces)
	assert.Equal(t, host.WindowOptions{Title: "once", Width: 3, Height: 2}, loop.opts)
	assert.Equal(t, Active, a.Phase())
}

func TestEventsBeforeResumedAreIgnored(t *testing.T) {
	a, draws := blackSketch(t, core.NewConfig(2, 2))
	called := false
	a.OnKeyPress("x", func(*State[Unit]) { called = true })

	loop := newFakeLoop()
	a.HandleEvent(loop, host.RedrawRequested{})
	a.HandleEvent(loop, host.KeyInput{Key: "x", Pressed: true})

	assert.Zero(t, *draws)
	assert.False(t, called)
	assert.Equal(t, WindowPending, a.Phase())
}

func TestWrongBufferLengthIsFatal(t *testing.T) {
	cfg := core.NewConfig(10, 10).WithFrameLimit(5)
	var out bytes.Buffer
	a, err := Sketch(cfg, func(s *State[Unit]) []byte {
		if s.Frame == 2 {
			return make([]byte, 17)
		}
		return solidBuffer(cfg, 0, 0, 0, 255)
	}, quiet(), WithStdout(&out))
	require.NoError(t, err)

	h := newFakeHost()
	err = a.Run(h)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPixelBufferLength)

	var ce *core.ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, uint32(2), ce.Frame)
	assert.Equal(t, 17, ce.Got)
	assert.Equal(t, 400, ce.Expected)

	assert.Equal(t, Terminated, a.Phase())
	assert.True(t, h.loop.exited)
	assert.Equal(t, 2, h.loop.window.surface.presents, "the bad frame is never presented")
	assert.Empty(t, out.String(), "no summary on the fatal path")
}

func TestPresentationErrors(t *testing.T) {
	cfg := core.NewConfig(2, 2)

	t.Run("present", func(t *testing.T) {
		a, _ := blackSketch(t, cfg)
		loop := newFakeLoop()
		a.HandleEvent(loop, host.Resumed{})
		loop.window.surface.presentErr = errBoom
		a.HandleEvent(loop, host.RedrawRequested{})

		assert.ErrorIs(t, a.Err(), core.ErrPresentation)
		assert.ErrorIs(t, a.Err(), errBoom)
		assert.Equal(t, Terminated, a.Phase())
		assert.Zero(t, a.State().Frame)
	})

	t.Run("window", func(t *testing.T) {
		a, _ := blackSketch(t, cfg)
		loop := newFakeLoop()
		loop.createErr = errBoom
		a.HandleEvent(loop, host.Resumed{})

		assert.ErrorIs(t, a.Err(), core.ErrPresentation)
		assert.True(t, loop.exited)
	})

	t.Run("surface", func(t *testing.T) {
		a, _ := blackSketch(t, cfg)
		loop := newFakeLoop()
		loop.window.surfErr = errBoom
		a.HandleEvent(loop, host.Resumed{})

		assert.ErrorIs(t, a.Err(), core.ErrPresentation)
	})

	t.Run("surface size", func(t *testing.T) {
		a, _ := blackSketch(t, cfg)
		loop := newFakeLoop()
		loop.window.badLength = true
		a.HandleEvent(loop, host.Resumed{})

		assert.ErrorIs(t, a.Err(), core.ErrPresentation)
	})
}

func TestEventsAfterTerminationAreIgnored(t *testing.T) {
	a, draws := blackSketch(t, core.NewConfig(2, 2))
	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.CloseRequested{})
	a.HandleEvent(loop, host.RedrawRequested{})
	a.HandleEvent(loop, host.CloseRequested{})

	assert.Zero(t, *draws)
	assert.Equal(t, Terminated, a.Phase())
}

func TestInvalidConfigRejected(t *testing.T) {
	draw := func(*State[Unit]) []byte { return nil }
	for _, cfg := range []core.Config{
		core.NewConfig(0, 10),
		core.NewConfig(10, 0),
		core.NewConfig(-1, 5),
		core.NewConfig(math.MaxInt/2, math.MaxInt/2),
	} {
		_, err := Sketch(cfg, draw)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
		assert.ErrorIs(t, err, core.ErrInvalidDimensions)

		_, err = Stateful(0, cfg, func(_ *State[int], m int) int { return m }, func(*State[int], *int) []byte { return nil })
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	}
}

func TestNilCallbackUnregisters(t *testing.T) {
	a, _ := blackSketch(t, core.NewConfig(2, 2))
	pressed := 0
	a.OnKeyPress("x", func(*State[Unit]) { pressed++ })
	a.OnKeyPress("x", nil)
	a.OnMousePress(core.MouseLeft, nil)

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	assert.NotPanics(t, func() {
		a.HandleEvent(loop, host.KeyInput{Key: "x", Pressed: true})
		a.HandleEvent(loop, host.MouseInput{Button: core.MouseLeft, Pressed: true})
	})
	assert.Zero(t, pressed)
}

func TestRunTwice(t *testing.T) {
	a, _ := blackSketch(t, core.NewConfig(2, 2).WithLoopOnce(true))
	require.NoError(t, a.Run(newFakeHost()))
	assert.ErrorIs(t, a.Run(newFakeHost()), ErrAlreadyStarted)
}

func TestFullQueueDropsFrames(t *testing.T) {
	cfg := core.NewConfig(2, 2).WithSaveQuota(4).WithFrameLimit(6)
	sink := &fakeSink{err: persist.ErrQueueFull}
	a, draws := blackSketch(t, cfg, WithFrameSink(sink))

	require.NoError(t, a.Run(newFakeHost()))

	assert.Equal(t, 6, *draws, "rendering continues while saves are dropped")
	assert.Equal(t, 4, a.Stats().Dropped)
}

func TestElapsedTimeSampledPerEvent(t *testing.T) {
	clk := newFakeClock()
	var times []float64
	cfg := core.NewConfig(2, 2)
	a, err := Sketch(cfg, func(s *State[Unit]) []byte {
		times = append(times, s.Time)
		return solidBuffer(cfg, 0, 0, 0, 255)
	}, quiet(), WithClock(clk.Now))
	require.NoError(t, err)

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	clk.Advance(500 * time.Millisecond)
	a.HandleEvent(loop, host.RedrawRequested{})
	clk.Advance(time.Second)
	a.HandleEvent(loop, host.RedrawRequested{})

	assert.Equal(t, []float64{0.5, 1.5}, times)
}

func TestOnExitReceivesStats(t *testing.T) {
	var got Stats
	a, _ := blackSketch(t, core.NewConfig(2, 2).WithFrameLimit(3), OnExit(func(s Stats) { got = s }))
	require.NoError(t, a.Run(newFakeHost()))
	assert.Equal(t, uint32(3), got.Frames)
}

func TestScreenshotShortcut(t *testing.T) {
	dir := t.TempDir()
	clk := newFakeClock()
	cfg := core.NewConfig(3, 3)
	a, _ := blackSketch(t, cfg, WithShotDir(dir), WithClock(clk.Now))

	pressed := 0
	a.OnKeyPress("s", func(*State[Unit]) { pressed++ })

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})

	// Plain "s" is just a key.
	a.HandleEvent(loop, host.KeyInput{Key: "s", Pressed: true})
	a.HandleEvent(loop, host.KeyInput{Key: "s", Pressed: false})
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	a.HandleEvent(loop, host.ModifiersChanged{Mods: core.ModCtrl})
	a.HandleEvent(loop, host.KeyInput{Key: "s", Pressed: true})

	assert.FileExists(t, persist.ShotPath(dir, a.RunTag(), clk.now.Unix(), 0, persist.PNG))
	assert.Equal(t, 2, pressed)
	assert.Zero(t, a.State().Frame, "a screenshot is not a frame")
}

func TestScreenshotsInOneSecondAllKept(t *testing.T) {
	dir := t.TempDir()
	clk := newFakeClock()
	cfg := core.NewConfig(2, 2)
	a, _ := blackSketch(t, cfg, WithShotDir(dir), WithClock(clk.Now), WithRunTag("shots"))

	loop := newFakeLoop()
	a.HandleEvent(loop, host.Resumed{})
	a.HandleEvent(loop, host.ModifiersChanged{Mods: core.ModCtrl})
	for range 3 {
		a.HandleEvent(loop, host.KeyInput{Key: "s", Pressed: true})
		a.HandleEvent(loop, host.KeyInput{Key: "s", Pressed: false})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for seq := range 3 {
		assert.FileExists(t, persist.ShotPath(dir, "shots", clk.now.Unix(), seq, persist.PNG))
	}
}

func TestWorkerWritesQuotaFrames(t *testing.T) {
	dir := t.TempDir()
	clk := newFakeClock()
	cfg := core.NewConfig(4, 4).WithSaveQuota(3).WithFrameLimit(5)
	a, _ := blackSketch(t, cfg, WithOutputDir(dir), WithClock(clk.Now), WithRunTag("run1"))

	require.NoError(t, a.Run(newFakeHost()))

	for i := range uint32(3) {
		path := persist.FramePath(dir, "run1", clk.now.Unix(), i, persist.PNG)
		require.Eventually(t, func() bool {
			_, err := os.Stat(path)
			return err == nil
		}, 5*time.Second, 10*time.Millisecond, path)
	}
	assert.NoFileExists(t, persist.FramePath(dir, "run1", clk.now.Unix(), 3, persist.PNG))
}

func TestParallelRunsShareOutputDir(t *testing.T) {
	dir := t.TempDir()
	clk := newFakeClock()
	cfg := core.NewConfig(4, 4).WithSaveQuota(3).WithFrameLimit(5)

	apps := make([]*App[Unit], 2)
	for i := range apps {
		apps[i], _ = blackSketch(t, cfg, WithOutputDir(dir), WithClock(clk.Now))
	}
	require.NotEqual(t, apps[0].RunTag(), apps[1].RunTag())

	errs := make(chan error, len(apps))
	for _, a := range apps {
		go func() { errs <- a.Run(newFakeHost()) }()
	}
	for range apps {
		require.NoError(t, <-errs)
	}

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		return err == nil && len(entries) == 6
	}, 5*time.Second, 10*time.Millisecond, "every frame of both runs is saved")
	for _, a := range apps {
		assert.Zero(t, a.Stats().Dropped)
	}
}
