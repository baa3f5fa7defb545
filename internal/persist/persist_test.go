package persist

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func solid(w, h int, r, g, b, a byte) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return pix
}

func TestSavePNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "frame.png")

	pix := solid(3, 2, 10, 20, 30, 128)
	n, err := Save(Request{Pixels: pix, Path: path, Width: 3, Height: 2}, PNG)
	require.NoError(t, err)
	assert.Positive(t, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	r, g, b, a := img.At(1, 1).RGBA()
	// At reports premultiplied 16-bit channels.
	assert.Equal(t, uint32(128)*0x101, a)
	assert.InDelta(t, 10*128/255, r>>8, 1)
	assert.InDelta(t, 20*128/255, g>>8, 1)
	assert.InDelta(t, 30*128/255, b>>8, 1)
}

func TestSaveOtherFormats(t *testing.T) {
	dir := t.TempDir()
	pix := solid(4, 4, 255, 0, 0, 255)

	bmpPath := filepath.Join(dir, "f.bmp")
	_, err := Save(Request{Pixels: pix, Path: bmpPath, Width: 4, Height: 4}, BMP)
	require.NoError(t, err)
	f, err := os.Open(bmpPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	tifPath := filepath.Join(dir, "f.tif")
	_, err = Save(Request{Pixels: pix, Path: tifPath, Width: 4, Height: 4}, TIFF)
	require.NoError(t, err)
	g, err := os.Open(tifPath)
	require.NoError(t, err)
	defer g.Close()
	img, err = tiff.Decode(g)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestSaveNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	_, err := Save(Request{Pixels: solid(1, 1, 0, 0, 0, 255), Path: path, Width: 1, Height: 1}, PNG)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
	assert.ErrorIs(t, err, os.ErrExist)

	var se *SaveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "write", se.Op)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestSaveEncodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	_, err := Save(Request{Pixels: make([]byte, 7), Path: path, Width: 2, Height: 1}, PNG)
	assert.ErrorIs(t, err, ErrEncode)
	assert.NoFileExists(t, path)
}

func TestSaveDirectoryError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Save(Request{Pixels: solid(1, 1, 0, 0, 0, 255), Path: filepath.Join(blocker, "sub", "x.png"), Width: 1, Height: 1}, PNG)
	assert.ErrorIs(t, err, ErrDirectoryCreate)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ext  string
	}{
		{"", PNG, "png"},
		{"PNG", PNG, "png"},
		{"bmp", BMP, "bmp"},
		{"tiff", TIFF, "tif"},
		{"tif", TIFF, "tif"},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ext, got.Ext(), tc.in)
	}

	_, err := ParseFormat("jpeg")
	assert.Error(t, err)
}

func TestFramePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "frame_1700000000_0007.png"), FramePath("out", "", 1700000000, 7, PNG))
	assert.Equal(t, filepath.Join("out", "frame_1_ab12cd34_12345.bmp"), FramePath("out", "ab12cd34", 1, 12345, BMP))
	assert.Equal(t, filepath.Join("shots", "shot_42_run_0.png"), ShotPath("shots", "run", 42, 0, PNG))
	assert.Equal(t, filepath.Join("shots", "shot_42_1.png"), ShotPath("shots", "", 42, 1, PNG))

	// Runs sharing a directory and a clock second never share a name.
	assert.NotEqual(t, FramePath("out", "a", 5, 0, PNG), FramePath("out", "b", 5, 0, PNG))
}

type memRecorder struct {
	mu    sync.Mutex
	saved []Saved
}

func (m *memRecorder) RecordFrame(s Saved) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, s)
	return nil
}

func TestWorkerWritesAndRecords(t *testing.T) {
	dir := t.TempDir()
	rec := &memRecorder{}
	w := Start(Options{Logger: quietLogger(), Capacity: 8, Recorder: rec})

	for i := range uint32(3) {
		require.NoError(t, w.TrySend(Request{
			Pixels: solid(2, 2, 1, 2, 3, 255),
			Path:   FramePath(dir, "", 100, i, PNG),
			Width:  2,
			Height: 2,
			Frame:  i,
		}))
	}
	w.Close()
	<-w.Done()

	assert.EqualValues(t, 3, w.Saved())
	assert.EqualValues(t, 0, w.Failed())
	for i := range uint32(3) {
		assert.FileExists(t, FramePath(dir, "", 100, i, PNG))
	}
	require.Len(t, rec.saved, 3)
	assert.Equal(t, uint32(2), rec.saved[2].Frame)
	assert.Positive(t, rec.saved[0].Bytes)
}

func TestWorkerContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	taken := filepath.Join(dir, "taken.png")
	require.NoError(t, os.WriteFile(taken, nil, 0o644))

	w := Start(Options{Logger: quietLogger(), Capacity: 4})
	require.NoError(t, w.TrySend(Request{Pixels: solid(1, 1, 0, 0, 0, 255), Path: taken, Width: 1, Height: 1}))
	require.NoError(t, w.TrySend(Request{Pixels: solid(1, 1, 0, 0, 0, 255), Path: filepath.Join(dir, "ok.png"), Width: 1, Height: 1, Frame: 1}))
	w.Close()
	<-w.Done()

	assert.EqualValues(t, 1, w.Failed())
	assert.EqualValues(t, 1, w.Saved())
	assert.FileExists(t, filepath.Join(dir, "ok.png"))
}

type blockingRecorder struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRecorder) RecordFrame(Saved) error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func TestWorkerTrySendNeverBlocks(t *testing.T) {
	dir := t.TempDir()
	rec := &blockingRecorder{entered: make(chan struct{}, 4), release: make(chan struct{})}
	w := Start(Options{Logger: quietLogger(), Capacity: 1, Recorder: rec})

	req := func(i uint32) Request {
		return Request{Pixels: solid(1, 1, 0, 0, 0, 255), Path: FramePath(dir, "", 1, i, PNG), Width: 1, Height: 1, Frame: i}
	}

	require.NoError(t, w.TrySend(req(0)))
	select {
	case <-rec.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not pick up the first request")
	}

	// Worker is parked in the recorder; one slot left in the queue.
	require.NoError(t, w.TrySend(req(1)))

	start := time.Now()
	assert.ErrorIs(t, w.TrySend(req(2)), ErrQueueFull)
	assert.Less(t, time.Since(start), time.Second)

	close(rec.release)
	w.Close()
	<-w.Done()

	assert.EqualValues(t, 2, w.Saved())
	assert.ErrorIs(t, w.TrySend(req(3)), ErrClosed)
}

func TestWorkerCloseIdempotent(t *testing.T) {
	w := Start(Options{Logger: quietLogger()})
	w.Close()
	w.Close()
	<-w.Done()
	assert.ErrorIs(t, w.TrySend(Request{}), ErrClosed)
}
