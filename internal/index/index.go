// Package index stores beatmap info records in a SQLite database.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/osumap/internal/logger"
	"github.com/Faultbox/osumap/pkg/formats"
)

const schema = `
CREATE TABLE IF NOT EXISTS beatmaps (
	path     TEXT    NOT NULL,
	filename TEXT    NOT NULL,
	title    TEXT    NOT NULL,
	artist   TEXT    NOT NULL,
	version  TEXT    NOT NULL,
	mode     INTEGER NOT NULL,
	ar       REAL    NOT NULL,
	cs       REAL    NOT NULL,
	od       REAL    NOT NULL,
	hp       REAL    NOT NULL,
	PRIMARY KEY (path, filename)
);
CREATE INDEX IF NOT EXISTS beatmaps_title ON beatmaps (title);
`

const upsertQuery = `
INSERT INTO beatmaps (path, filename, title, artist, version, mode, ar, cs, od, hp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (path, filename) DO UPDATE SET
	title = excluded.title,
	artist = excluded.artist,
	version = excluded.version,
	mode = excluded.mode,
	ar = excluded.ar,
	cs = excluded.cs,
	od = excluded.od,
	hp = excluded.hp`

const selectColumns = `SELECT path, filename, title, artist, version, mode, ar, cs, od, hp FROM beatmaps`

// Record is one indexed beatmap: the info record plus the file it was
// read from.
type Record struct {
	Path string
	Info formats.Info
}

// Index is an open beatmap index.
type Index struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the index database at path. Use ":memory:" for a
// throwaway index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	idx := &Index{db: db, log: logger.Named("index")}
	idx.log.Debug("opened index", zap.String("path", path))
	return idx, nil
}

// Close closes the database.
func (x *Index) Close() error {
	return x.db.Close()
}

// Put inserts or replaces records in a single transaction.
func (x *Index) Put(ctx context.Context, records ...Record) (err error) {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		i := r.Info
		if _, err = stmt.ExecContext(ctx, r.Path, i.Filename, i.Title, i.Artist, i.Version,
			int(i.Mode), i.AR, i.CS, i.OD, i.HP); err != nil {
			return fmt.Errorf("inserting %s: %w", i.Filename, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	x.log.Debug("indexed beatmaps", zap.Int("count", len(records)))
	return nil
}

// Search returns records whose title, artist or version contains query,
// ignoring case. An empty query returns everything.
func (x *Index) Search(ctx context.Context, query string) ([]Record, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := x.db.QueryContext(ctx, selectColumns+`
		WHERE lower(title) LIKE ?1 ESCAPE '\'
		   OR lower(artist) LIKE ?1 ESCAPE '\'
		   OR lower(version) LIKE ?1 ESCAPE '\'
		ORDER BY artist, title, version, path, filename`, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return scanRecords(rows)
}

// Count returns the number of indexed beatmaps.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, `SELECT count(*) FROM beatmaps`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting beatmaps: %w", err)
	}
	return n, nil
}

// Remove deletes every record read from path.
func (x *Index) Remove(ctx context.Context, path string) (int64, error) {
	res, err := x.db.ExecContext(ctx, `DELETE FROM beatmaps WHERE path = ?`, path)
	if err != nil {
		return 0, fmt.Errorf("removing %s: %w", path, err)
	}
	return res.RowsAffected()
}

func scanRecords(rows *sql.Rows) (records []Record, err error) {
	defer func() {
		err = multierr.Append(err, rows.Close())
	}()

	for rows.Next() {
		var (
			r    Record
			mode int
		)
		if err := rows.Scan(&r.Path, &r.Info.Filename, &r.Info.Title, &r.Info.Artist, &r.Info.Version,
			&mode, &r.Info.AR, &r.Info.CS, &r.Info.OD, &r.Info.HP); err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		r.Info.Mode = formats.Mode(mode)
		records = append(records, r)
	}
	return records, rows.Err()
}

// escapeLike escapes the LIKE wildcards of s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
