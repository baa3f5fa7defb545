package headless

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func TestRunsUntilNothingPending(t *testing.T) {
	cfg := core.NewConfig(4, 2).WithTitle("hl").WithFrameLimit(7)
	var out bytes.Buffer
	a, err := app.Sketch(cfg, func(s *app.State[app.Unit]) []byte {
		pix := make([]byte, cfg.BufferLen())
		for i := range pix {
			pix[i] = byte(s.Frame)
		}
		return pix
	}, app.WithLogger(quiet()), app.WithStdout(&out))
	require.NoError(t, err)

	h := New(Options{Logger: quiet()})
	require.NoError(t, a.Run(h))

	assert.Equal(t, 7, h.Redraws())
	assert.Equal(t, 7, h.Presented())
	assert.Equal(t, "hl", h.Title())
	assert.Equal(t, byte(6), h.LastFrame()[0])
	assert.Contains(t, out.String(), "frames=7")

	img, err := h.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestMaxFramesCapsFreeRunning(t *testing.T) {
	cfg := core.NewConfig(2, 2)
	a, err := app.Sketch(cfg, func(*app.State[app.Unit]) []byte {
		return make([]byte, cfg.BufferLen())
	}, app.WithLogger(quiet()), app.WithStdout(io.Discard))
	require.NoError(t, err)

	h := New(Options{Logger: quiet(), MaxFrames: 12})
	require.NoError(t, a.Run(h))

	assert.Equal(t, 12, h.Redraws())
	assert.Equal(t, app.Terminated, a.Phase())
	assert.Equal(t, uint32(12), a.Stats().Frames)
}

func TestScriptedInputs(t *testing.T) {
	cfg := core.NewConfig(2, 2).WithLoopOnce(true)
	a, err := app.Stateful(0, cfg,
		func(_ *app.State[int], m int) int { return m },
		func(_ *app.State[int], _ *int) []byte { return make([]byte, cfg.BufferLen()) },
		app.WithLogger(quiet()), app.WithStdout(io.Discard),
	)
	require.NoError(t, err)

	// Each press bumps the model and asks for another frame.
	a.OnKeyPress(core.KeySpace, func(s *app.State[int]) {
		s.Model++
		s.RequestRedraw()
	})

	h := New(Options{
		Logger: quiet(),
		Inputs: []Input{
			{Frame: 1, Event: host.KeyInput{Key: core.KeySpace, Pressed: true}},
			{Frame: 1, Event: host.KeyInput{Key: core.KeySpace, Pressed: false}},
			{Frame: 2, Event: host.KeyInput{Key: core.KeySpace, Pressed: true}},
		},
	})
	require.NoError(t, a.Run(h))

	assert.Equal(t, 2, a.State().Model)
	assert.Equal(t, 3, h.Redraws(), "one frame from the loop policy plus one per press")
}

func TestSnapshotBeforePresent(t *testing.T) {
	h := New(Options{Logger: quiet()})
	_, err := h.Snapshot()
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFatalErrorStopsHost(t *testing.T) {
	cfg := core.NewConfig(2, 2)
	a, err := app.Sketch(cfg, func(*app.State[app.Unit]) []byte {
		return []byte{1, 2, 3}
	}, app.WithLogger(quiet()), app.WithStdout(io.Discard))
	require.NoError(t, err)

	h := New(Options{Logger: quiet()})
	err = a.Run(h)
	assert.ErrorIs(t, err, core.ErrPixelBufferLength)
	assert.Equal(t, 1, h.Redraws())
	assert.Zero(t, h.Presented())
}
