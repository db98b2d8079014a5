package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/nsmarchive/internal/model"
)

// DefaultFileName is the index file name inside the output directory.
const DefaultFileName = "catalog.db"

// Index is the SQLite catalog index.
type Index struct {
	db   *sql.DB
	path string
}

// Open creates or opens the index at path, creating parent directories as
// needed, and empties every table.
func Open(path string) (*Index, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, model.IOError(dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ix := &Index{db: db, path: path}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := ix.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := ix.reset(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reset index: %w", err)
	}

	return ix, nil
}

// Path returns the index file path.
func (ix *Index) Path() string {
	return ix.path
}

// Close closes the database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS series (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		series_id INTEGER NOT NULL REFERENCES series(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		system TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_games_series ON games(series_id);

	-- Sheet IDs are the site's identifiers; the first listing wins.
	CREATE TABLE IF NOT EXISTS sheets (
		id INTEGER PRIMARY KEY,
		game_id INTEGER NOT NULL REFERENCES games(id),
		name TEXT NOT NULL,
		arrangers TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sheets_game ON sheets(game_id);

	CREATE TABLE IF NOT EXISTS skipped_series (
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		error TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS downloads (
		sheet_id INTEGER NOT NULL,
		format TEXT NOT NULL,
		url TEXT NOT NULL,
		path TEXT,
		bytes INTEGER DEFAULT 0,
		digest TEXT,
		elapsed_ms INTEGER DEFAULT 0,
		error_kind TEXT,
		error TEXT,
		PRIMARY KEY (sheet_id, format)
	);
	`

	_, err := ix.db.ExecContext(ctx, schema)
	return err
}

func (ix *Index) reset(ctx context.Context) error {
	for _, table := range []string{"downloads", "sheets", "games", "skipped_series", "series"} {
		if _, err := ix.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// SaveCatalog stores the crawled tree and the skipped series in one
// transaction.
func (ix *Index) SaveCatalog(ctx context.Context, cat *model.Catalog) (err error) {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, s := range cat.Series {
		res, err := tx.ExecContext(ctx, "INSERT INTO series (name, url) VALUES (?, ?)", s.Name, s.URL)
		if err != nil {
			return fmt.Errorf("failed to insert series %q: %w", s.Name, err)
		}
		seriesID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read series id: %w", err)
		}

		for pos, g := range s.Games {
			res, err := tx.ExecContext(ctx,
				"INSERT INTO games (series_id, position, name, system) VALUES (?, ?, ?, ?)",
				seriesID, pos, g.Name, g.System,
			)
			if err != nil {
				return fmt.Errorf("failed to insert game %q: %w", g.Name, err)
			}
			gameID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read game id: %w", err)
			}

			for _, sh := range g.Sheets {
				arrangers, err := json.Marshal(sh.Arrangers)
				if err != nil {
					return fmt.Errorf("failed to serialize arrangers: %w", err)
				}
				if _, err := tx.ExecContext(ctx, `
				INSERT INTO sheets (id, game_id, name, arrangers) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO NOTHING
				`, sh.ID, gameID, sh.Name, string(arrangers)); err != nil {
					return fmt.Errorf("failed to insert sheet %d: %w", sh.ID, err)
				}
			}
		}
	}

	for _, sk := range cat.Skipped {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO skipped_series (name, url, error) VALUES (?, ?, ?)",
			sk.Name, sk.URL, sk.Error,
		); err != nil {
			return fmt.Errorf("failed to insert skipped series %q: %w", sk.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// SaveResults stores download outcomes. A later result for the same sheet
// and format replaces the earlier one.
func (ix *Index) SaveResults(ctx context.Context, results []model.DownloadResult) (err error) {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO downloads (sheet_id, format, url, path, bytes, digest, elapsed_ms, error_kind, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(sheet_id, format) DO UPDATE SET
		url = excluded.url,
		path = excluded.path,
		bytes = excluded.bytes,
		digest = excluded.digest,
		elapsed_ms = excluded.elapsed_ms,
		error_kind = excluded.error_kind,
		error = excluded.error
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		var errMsg string
		if r.Err != nil {
			errMsg = r.Err.Error()
		} else {
			errMsg = r.ErrorMessage
		}
		if _, err := stmt.ExecContext(ctx,
			r.SheetID,
			r.Format.String(),
			r.URL,
			r.Path,
			r.Bytes,
			r.Digest,
			r.Elapsed.Milliseconds(),
			model.ErrorKind(r.Err),
			errMsg,
		); err != nil {
			return fmt.Errorf("failed to insert download %d/%s: %w", r.SheetID, r.Format, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit downloads: %w", err)
	}
	return nil
}

// CountSheets returns the number of indexed sheets.
func (ix *Index) CountSheets(ctx context.Context) (int, error) {
	return ix.count(ctx, "SELECT COUNT(*) FROM sheets")
}

// CountFiles returns the number of successful format downloads.
func (ix *Index) CountFiles(ctx context.Context) (int, error) {
	return ix.count(ctx, "SELECT COUNT(*) FROM downloads WHERE error = ''")
}

// Download is one stored download row.
type Download struct {
	SheetID   int
	Format    string
	Path      string
	Bytes     int64
	Digest    string
	ErrorKind string
	Error     string
}

// Downloads returns the stored download rows ordered by sheet and format.
func (ix *Index) Downloads(ctx context.Context) ([]Download, error) {
	rows, err := ix.db.QueryContext(ctx, `
	SELECT sheet_id, format, path, bytes, digest, error_kind, error
	FROM downloads
	ORDER BY sheet_id, format
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var out []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(&d.SheetID, &d.Format, &d.Path, &d.Bytes, &d.Digest, &d.ErrorKind, &d.Error); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read downloads: %w", err)
	}
	return out, nil
}

func (ix *Index) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}
