// Package wellstore keeps the retrieved wells of the current workspace in a SQLite database.
package wellstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aryankumar/brogw/internal/geo"
	"github.com/aryankumar/brogw/internal/registry"
)

// FileName is the database file inside the workspace directory
const FileName = "wells.db"

const schema = `
CREATE TABLE IF NOT EXISTS wells (
	key           TEXT PRIMARY KEY,
	bro_id        TEXT NOT NULL,
	name          TEXT NOT NULL,
	tube_nr       INTEGER NOT NULL,
	x             REAL NOT NULL,
	y             REAL NOT NULL,
	ground_level  REAL,
	top_filter    REAL,
	bottom_filter REAL,
	tube_top      REAL
);
CREATE INDEX IF NOT EXISTS wells_top_filter ON wells(top_filter);
CREATE TABLE IF NOT EXISTS retrievals (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	xmin         REAL NOT NULL,
	ymin         REAL NOT NULL,
	xmax         REAL NOT NULL,
	ymax         REAL NOT NULL,
	well_count   INTEGER NOT NULL,
	retrieved_at TEXT NOT NULL
);`

const wellColumns = "key, bro_id, name, tube_nr, x, y, ground_level, top_filter, bottom_filter, tube_top"

// Store is the workspace well layer
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Retrieval records one well listing that replaced the workspace contents
type Retrieval struct {
	Extent      geo.Extent
	WellCount   int
	RetrievedAt time.Time
}

// Open opens (creating if needed) the store at path. Use ":memory:" for a private in-memory store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	logger.Debug("opening well store", "path", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening well store: %w", err)
	}
	// single writer; also keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising well store schema: %w", err)
	}

	return &Store{db: db, path: path, logger: logger}, nil
}

// Path returns the database location
func (s *Store) Path() string {
	return s.path
}

// Close releases the database
func (s *Store) Close() error {
	s.logger.Debug("closing well store", "path", s.path)
	return s.db.Close()
}

// ReplaceAll drops every stored well and inserts wells, recording the retrieval extent.
// Wells sharing a key keep the last occurrence.
func (s *Store) ReplaceAll(ctx context.Context, extent geo.Extent, wells []registry.Well) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM wells"); err != nil {
		return fmt.Errorf("clearing wells: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO wells ("+wellColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range wells {
		if _, err := stmt.ExecContext(ctx,
			w.Key(), w.BroID, w.Name, w.TubeNr, w.X, w.Y,
			nullable(w.GroundLevel), nullable(w.ScreenTop), nullable(w.ScreenBottom), nullable(w.TubeTop),
		); err != nil {
			return fmt.Errorf("inserting well %s: %w", w.Key(), err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO retrievals (xmin, ymin, xmax, ymax, well_count, retrieved_at) VALUES (?, ?, ?, ?, ?, ?)",
		extent.XMin, extent.YMin, extent.XMax, extent.YMax, len(wells), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording retrieval: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing wells: %w", err)
	}

	s.logger.Info("workspace wells replaced", "count", len(wells), "extent", extent.String())
	return nil
}

// All returns every stored well ordered by key
func (s *Store) All(ctx context.Context) ([]registry.Well, error) {
	return s.query(ctx, "SELECT "+wellColumns+" FROM wells ORDER BY key")
}

// Filter returns the wells whose filter top lies in the depth range
func (s *Store) Filter(ctx context.Context, f DepthFilter) ([]registry.Well, error) {
	where, args := f.clause()
	return s.query(ctx, "SELECT "+wellColumns+" FROM wells"+where+" ORDER BY key", args...)
}

// ByKeys returns the stored wells with the given keys, in key order.
// Unknown keys are reported as an error.
func (s *Store) ByKeys(ctx context.Context, keys []string) ([]registry.Well, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	wells, err := s.query(ctx, "SELECT "+wellColumns+" FROM wells WHERE key IN ("+placeholders+") ORDER BY key", args...)
	if err != nil {
		return nil, err
	}

	found := make(map[string]struct{}, len(wells))
	for _, w := range wells {
		found[w.Key()] = struct{}{}
	}
	var missing []string
	for _, k := range keys {
		if _, ok := found[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return wells, fmt.Errorf("%w: %s", ErrUnknownWell, strings.Join(missing, ", "))
	}
	return wells, nil
}

// Count returns the number of stored wells
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM wells").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting wells: %w", err)
	}
	return n, nil
}

// LastRetrieval returns the most recent retrieval, or ErrEmpty when there has been none
func (s *Store) LastRetrieval(ctx context.Context) (Retrieval, error) {
	var (
		r  Retrieval
		at string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT xmin, ymin, xmax, ymax, well_count, retrieved_at FROM retrievals ORDER BY id DESC LIMIT 1",
	).Scan(&r.Extent.XMin, &r.Extent.YMin, &r.Extent.XMax, &r.Extent.YMax, &r.WellCount, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Retrieval{}, ErrEmpty
	}
	if err != nil {
		return Retrieval{}, fmt.Errorf("reading last retrieval: %w", err)
	}
	r.RetrievedAt, _ = time.Parse(time.RFC3339, at)
	return r, nil
}

// FilterTops returns the filter tops of all wells that have one
func (s *Store) FilterTops(ctx context.Context) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT top_filter FROM wells WHERE top_filter IS NOT NULL ORDER BY top_filter")
	if err != nil {
		return nil, fmt.Errorf("querying filter tops: %w", err)
	}
	defer rows.Close()

	var tops []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning filter top: %w", err)
		}
		tops = append(tops, v)
	}
	return tops, rows.Err()
}

// Histogram bins the filter tops of all stored wells
func (s *Store) Histogram(ctx context.Context, bins int) ([]Bin, error) {
	tops, err := s.FilterTops(ctx)
	if err != nil {
		return nil, err
	}
	return BinValues(tops, bins), nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]registry.Well, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying wells: %w", err)
	}
	defer rows.Close()

	var wells []registry.Well
	for rows.Next() {
		var key string
		var w registry.Well
		var ground, top, bottom, tubeTop sql.NullFloat64
		if err := rows.Scan(&key, &w.BroID, &w.Name, &w.TubeNr, &w.X, &w.Y, &ground, &top, &bottom, &tubeTop); err != nil {
			return nil, fmt.Errorf("scanning well: %w", err)
		}
		w.GroundLevel = fromNull(ground)
		w.ScreenTop = fromNull(top)
		w.ScreenBottom = fromNull(bottom)
		w.TubeTop = fromNull(tubeTop)
		wells = append(wells, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wells: %w", err)
	}
	return wells, nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
