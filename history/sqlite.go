package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/dooders/telemetry"
)

// SQLiteStore keeps runs in a SQLite database.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sqlx.DB
}

// runRow is the table layout of a Run.
type runRow struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	StartedAt int64  `db:"started_at"` // unix nanoseconds
	Ticks     int    `db:"ticks"`
	Config    string `db:"config_yaml"`
}

func (r runRow) run() Run {
	return Run{
		ID:        r.ID,
		Seed:      r.Seed,
		StartedAt: time.Unix(0, r.StartedAt).UTC(),
		Ticks:     r.Ticks,
		Config:    r.Config,
	}
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sqlx.Open("sqlite", s.path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate: %w", err)
	}

	s.db = db
	return nil
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		series TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, tick, series)
	);

	CREATE INDEX IF NOT EXISTS idx_samples_run ON samples(run_id, tick);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) getDB() (*sqlx.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	row := runRow{
		ID:        run.ID,
		Seed:      run.Seed,
		StartedAt: run.StartedAt.UnixNano(),
		Ticks:     run.Ticks,
		Config:    run.Config,
	}
	_, err = db.NamedExecContext(ctx, `
		INSERT INTO runs (id, seed, started_at, ticks, config_yaml)
		VALUES (:id, :seed, :started_at, :ticks, :config_yaml)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			started_at = excluded.started_at,
			ticks = excluded.ticks,
			config_yaml = excluded.config_yaml`, row)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}
	var row runRow
	err = db.GetContext(ctx, &row, "SELECT id, seed, started_at, ticks, config_yaml FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("get run: %w", err)
	}
	return row.run(), true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	var rows []runRow
	if err := db.SelectContext(ctx, &rows, "SELECT id, seed, started_at, ticks, config_yaml FROM runs ORDER BY started_at, id"); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out := make([]Run, len(rows))
	for i, r := range rows {
		out[i] = r.run()
	}
	return out, nil
}

func (s *SQLiteStore) AppendSamples(ctx context.Context, runID string, names []string, samples []telemetry.Sample) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	var exists int
	if err := db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM runs WHERE id = ?", runID); err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	if exists == 0 {
		return errUnknownRun(runID)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, "INSERT OR REPLACE INTO samples (run_id, tick, series, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}
	defer stmt.Close()

	for _, p := range Flatten(names, samples) {
		if _, err := stmt.ExecContext(ctx, runID, p.Tick, p.Series, p.Value); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSamples(ctx context.Context, runID string) ([]Point, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}
	var points []Point
	err = db.SelectContext(ctx, &points,
		"SELECT tick, series, value FROM samples WHERE run_id = ? ORDER BY tick, rowid",
		runID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("get samples: %w", err)
	}
	if len(points) == 0 {
		return nil, false, nil
	}
	return points, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
