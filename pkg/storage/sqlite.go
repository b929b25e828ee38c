package storage

import (
	"context"
	"database/sql"
	"os"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS objects (
	path    TEXT PRIMARY KEY,
	kind    TEXT NOT NULL,
	payload BLOB NOT NULL
)`

// SQLite stores objects as msgpack records in an SQLite database.
type SQLite struct{}

// Open opens an existing database.
func (SQLite) Open(ctx context.Context, path string) (Session, error) {
	// sql.Open would create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, types.StorageError.Wrap(err)
	}
	return &sqliteSession{path: path, db: db}, nil
}

// Write stores objects, replacing rows with the same path.
func (SQLite) Write(ctx context.Context, path string, objects map[string]binned.Object) error {
	records, err := toRecords(objects)
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return types.StorageError.Wrap(err)
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return types.StorageError.Wrap(err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.StorageError.Wrap(err)
	}
	defer tx.Rollback()
	for objectPath, r := range records {
		payload, err := encodeMsgpack(r)
		if err != nil {
			return types.StorageError.Wrap(err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO objects (path, kind, payload) VALUES (?, ?, ?)`,
			objectPath, r.Kind, payload)
		if err != nil {
			return types.StorageError.Wrap(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return types.StorageError.Wrap(err)
	}
	return nil
}

type sqliteSession struct {
	path string
	db   *sql.DB
}

func (s *sqliteSession) Get(ctx context.Context, objectPath string) (binned.Object, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM objects WHERE path = ?`, objectPath).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, notFound(s.path, objectPath)
	}
	if err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	var r binned.Record
	if err := decodeMsgpack(payload, &r); err != nil {
		return nil, types.StorageError.New("%q in %q: %v", objectPath, s.path, err)
	}
	return decodeRecord(s.path, objectPath, &r)
}

func (s *sqliteSession) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM objects`)
	if err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, types.StorageError.Wrap(err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *sqliteSession) Close() error {
	return s.db.Close()
}
