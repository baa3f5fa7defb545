// Package storage provides a SQLite catalog of runs and the frames they saved.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/persist"
)

// DefaultPath is where the CLI keeps its catalog.
const DefaultPath = "~/.pixelloop/catalog.db"

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one execution of a sketch.
type RunEntry struct {
	ID         string
	Sketch     string
	Width      int
	Height     int
	SaveQuota  uint32
	Frames     uint32
	ElapsedMS  int64
	FPS        float64
	Finished   bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// FrameEntry is one saved frame file.
type FrameEntry struct {
	ID        int64
	RunID     string
	Frame     uint32
	Path      string
	Bytes     int64
	Format    string
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := homedir.Expand(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// The save worker and the render goroutine share the handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			sketch TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			save_quota INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			fps REAL NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_sketch ON runs(sketch);

		CREATE TABLE IF NOT EXISTS frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			frame INTEGER NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER NOT NULL DEFAULT 0,
			format TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id, frame);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun inserts an unfinished run and returns a recorder bound to it.
func (s *Store) StartRun(sketch string, cfg core.Config) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, sketch, width, height, save_quota) VALUES (?, ?, ?, ?, ?)",
		id, sketch, cfg.Width, cfg.Height, cfg.SaveQuota,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot start run: %w", err)
	}
	return &Run{ID: id, store: s}, nil
}

// FinishRun stores the final statistics of a run.
func (s *Store) FinishRun(id string, frames uint32, elapsed time.Duration) error {
	fps := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		fps = float64(frames) / secs
	}
	res, err := s.db.Exec(
		`UPDATE runs
		 SET frames = ?, elapsed_ms = ?, fps = ?, finished = 1, finished_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		frames, elapsed.Milliseconds(), fps, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: unknown run %q", id)
	}
	return nil
}

// SaveFrame records a written frame file for the given run.
// Returns the ID of the inserted record.
func (s *Store) SaveFrame(runID string, saved persist.Saved) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO frames (run_id, frame, path, bytes, format) VALUES (?, ?, ?, ?, ?)",
		runID, saved.Frame, saved.Path, saved.Bytes, saved.Format.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save frame: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RunByID retrieves a run. Returns nil, nil if it does not exist.
func (s *Store) RunByID(id string) (*RunEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, sketch, width, height, save_quota, frames, elapsed_ms, fps, finished, started_at, finished_at
		 FROM runs WHERE id = ?`,
		id,
	)
	e, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return e, nil
}

// FindRun resolves a full run ID or an unambiguous prefix of one.
// Returns nil, nil if nothing matches.
func (s *Store) FindRun(prefix string) (*RunEntry, error) {
	if prefix == "" {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, sketch, width, height, save_quota, frames, elapsed_ms, fps, finished, started_at, finished_at
		 FROM runs WHERE id LIKE ? ORDER BY started_at DESC LIMIT 2`,
		prefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	defer rows.Close()

	var found []*RunEntry
	for rows.Next() {
		e, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan run: %w", err)
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("storage: run prefix %q is ambiguous", prefix)
	}
}

// RecentRuns retrieves the most recent runs, optionally filtered by sketch.
func (s *Store) RecentRuns(sketch string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, sketch, width, height, save_quota, frames, elapsed_ms, fps, finished, started_at, finished_at
		 FROM runs
		 WHERE ? = '' OR sketch = ?
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`,
		sketch, sketch, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		e, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RunFrames retrieves the frames saved by a run in frame order.
func (s *Store) RunFrames(runID string) ([]FrameEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, frame, path, bytes, format, created_at
		 FROM frames
		 WHERE run_id = ?
		 ORDER BY frame ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	var entries []FrameEntry
	for rows.Next() {
		var e FrameEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.Frame, &e.Path, &e.Bytes, &e.Format, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearRuns deletes every run of the given sketch together with its frame
// records. Files on disk are left alone.
func (s *Store) ClearRuns(sketch string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec("DELETE FROM frames WHERE run_id IN (SELECT id FROM runs WHERE sketch = ?)", sketch); err != nil {
		return fmt.Errorf("storage: cannot clear frames: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE sketch = ?", sketch); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SketchStats contains aggregated statistics for a sketch.
type SketchStats struct {
	Sketch      string
	Runs        int
	Frames      int64
	SavedFrames int64
	SavedBytes  int64
	BestFPS     float64
	LastRun     time.Time
}

// GetSketchStats retrieves statistics for every sketch that has been run.
func (s *Store) GetSketchStats() (map[string]*SketchStats, error) {
	rows, err := s.db.Query(
		`SELECT r.sketch, COUNT(DISTINCT r.id), COALESCE(SUM(r.frames), 0), COALESCE(MAX(r.fps), 0), MAX(r.started_at),
		        (SELECT COUNT(*) FROM frames f JOIN runs r2 ON f.run_id = r2.id WHERE r2.sketch = r.sketch),
		        (SELECT COALESCE(SUM(f.bytes), 0) FROM frames f JOIN runs r2 ON f.run_id = r2.id WHERE r2.sketch = r.sketch)
		 FROM runs r
		 GROUP BY r.sketch`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get sketch stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SketchStats)
	for rows.Next() {
		var st SketchStats
		var lastRun any
		if err := rows.Scan(&st.Sketch, &st.Runs, &st.Frames, &st.BestFPS, &lastRun, &st.SavedFrames, &st.SavedBytes); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats[st.Sketch] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// Run records frames for one run. It implements persist.Recorder.
type Run struct {
	ID    string
	store *Store
}

// RecordFrame implements persist.Recorder.
func (r *Run) RecordFrame(saved persist.Saved) error {
	_, err := r.store.SaveFrame(r.ID, saved)
	return err
}

// Finish stores the final statistics of the run.
func (r *Run) Finish(frames uint32, elapsed time.Duration) error {
	return r.store.FinishRun(r.ID, frames, elapsed)
}

var _ persist.Recorder = (*Run)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunEntry, error) {
	var e RunEntry
	var startedAt, finishedAt any
	var finished int
	if err := row.Scan(
		&e.ID,
		&e.Sketch,
		&e.Width,
		&e.Height,
		&e.SaveQuota,
		&e.Frames,
		&e.ElapsedMS,
		&e.FPS,
		&finished,
		&startedAt,
		&finishedAt,
	); err != nil {
		return nil, err
	}
	e.Finished = finished != 0
	e.StartedAt = parseTime(startedAt)
	e.FinishedAt = parseTime(finishedAt)
	return &e, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
