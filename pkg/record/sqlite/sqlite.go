// Package sqlite keeps record stores as rows in a single SQLite database, as an
// alternative to one text file per store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS stores (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS records (
	seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	store TEXT NOT NULL,
	line  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_store ON records(store, seq);
`

// Backend is a record.Backend over one SQLite database file.
type Backend struct {
	db *sql.DB
}

var _ record.Backend = (*Backend)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string) (*Backend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, errs.E(errs.StorageIO, "sqlite: create dirs", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.E(errs.StorageIO, "sqlite: open", err)
	}
	// A single connection keeps :memory: databases alive and serializes writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errs.E(errs.StorageIO, "sqlite: create schema", err)
	}
	return &Backend{db: db}, nil
}

// Open returns the store called name.
func (b *Backend) Open(name string) record.Lines {
	return &lines{db: b.db, name: name}
}

func (b *Backend) Close() error {
	return b.db.Close()
}

type lines struct {
	db   *sql.DB
	name string
}

func (l *lines) Name() string {
	return l.name
}

func (l *lines) Exists(ctx context.Context) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stores WHERE name = ?`, l.name).Scan(&n)
	if err != nil {
		return false, errs.E(errs.StorageIO, "sqlite: exists "+l.name, err)
	}
	return n > 0, nil
}

func (l *lines) ReadAll(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT line FROM records WHERE store = ? ORDER BY seq`, l.name)
	if err != nil {
		return nil, errs.E(errs.StorageIO, "sqlite: select "+l.name, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]string, 0)
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, errs.E(errs.StorageIO, "sqlite: scan", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.StorageIO, "sqlite: rows", err)
	}
	return out, nil
}

func (l *lines) Append(ctx context.Context, line string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.E(errs.StorageIO, "sqlite: begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO stores (name) VALUES (?)`, l.name); err != nil {
		return errs.E(errs.StorageIO, "sqlite: insert store", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO records (store, line) VALUES (?, ?)`, l.name, strings.TrimSpace(line)); err != nil {
		return errs.E(errs.StorageIO, "sqlite: insert record", err)
	}
	if err := tx.Commit(); err != nil {
		return errs.E(errs.StorageIO, "sqlite: commit", err)
	}
	return nil
}

func (l *lines) Rewrite(ctx context.Context, keep func(line string) bool) (int, error) {
	ok, err := l.Exists(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errs.Errorf(errs.NotFound, "sqlite: rewrite", "%s does not exist", l.name)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.E(errs.StorageIO, "sqlite: begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT seq, line FROM records WHERE store = ? ORDER BY seq`, l.name)
	if err != nil {
		return 0, errs.E(errs.StorageIO, "sqlite: select "+l.name, err)
	}
	var drop []int64
	for rows.Next() {
		var (
			seq  int64
			line string
		)
		if err := rows.Scan(&seq, &line); err != nil {
			_ = rows.Close()
			return 0, errs.E(errs.StorageIO, "sqlite: scan", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !keep(line) {
			drop = append(drop, seq)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, errs.E(errs.StorageIO, "sqlite: rows", err)
	}
	_ = rows.Close()

	if len(drop) == 0 {
		return 0, nil
	}
	for _, seq := range drop {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE seq = ?`, seq); err != nil {
			return 0, errs.E(errs.StorageIO, fmt.Sprintf("sqlite: delete record %d", seq), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, errs.E(errs.StorageIO, "sqlite: commit", err)
	}
	return len(drop), nil
}
