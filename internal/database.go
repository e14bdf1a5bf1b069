package internal

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens a SQLite database in read-only mode. The store may be
// held open by a running editor, so writes are never attempted.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return db, nil
}

// KeyValuePair is one row from the cursorDiskKV table.
type KeyValuePair struct {
	Key   string
	Value string
}

// QueryCursorDiskKV queries the cursorDiskKV table with a LIKE pattern.
func QueryCursorDiskKV(db *sql.DB, pattern string) ([]KeyValuePair, error) {
	rows, err := db.Query("SELECT key, value FROM cursorDiskKV WHERE key LIKE ? AND value IS NOT NULL", pattern)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()
	return scanKeyValueRows(rows)
}

// BatchQueryCursorDiskKV fetches the rows for an explicit key list in one
// round trip. Missing keys are simply absent from the result.
func BatchQueryCursorDiskKV(db *sql.DB, keys []string) ([]KeyValuePair, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	query := "SELECT key, value FROM cursorDiskKV WHERE key IN (" + placeholders + ") AND value IS NOT NULL"
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()
	return scanKeyValueRows(rows)
}

func scanKeyValueRows(rows *sql.Rows) ([]KeyValuePair, error) {
	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, &StorageError{Op: "scan", Err: err}
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "scan", Err: err}
	}
	return pairs, nil
}
