package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database with the
// cursorDiskKV schema.
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS cursorDiskKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create cursorDiskKV table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertRow inserts one key/value row into cursorDiskKV.
func InsertRow(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO cursorDiskKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert row %s: %v", key, err)
	}
}

// CreateTestDB creates an in-memory database holding two conversations with
// their fragments, including one tool call.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	rows := []struct {
		key   string
		value string
	}{
		{
			key:   "composerData:composer1",
			value: `{"composerId":"composer1","name":"Fix the login bug","createdAt":1000,"lastUpdatedAt":5000,"unifiedMode":2,"fullConversationHeadersOnly":[{"bubbleId":"bubble1","type":1},{"bubbleId":"bubble2","type":2}]}`,
		},
		{
			key:   "composerData:composer2",
			value: `{"composerId":"composer2","name":"Empty chat","createdAt":3000,"lastUpdatedAt":3000}`,
		},
		{
			key:   "bubbleId:composer1:bubble1",
			value: `{"bubbleId":"bubble1","text":"Please fix the login bug","timestamp":1000,"type":1}`,
		},
		{
			key:   "bubbleId:composer1:bubble2",
			value: `{"bubbleId":"bubble2","text":"Looking at the handler now.","timestamp":2000,"type":2,"toolFormerData":{"name":"read_file","params":"{\"path\":\"auth/login.go\",\"startLine\":1,\"endLine\":40}"}}`,
		},
	}
	for _, row := range rows {
		InsertRow(t, db, row.key, row.value)
	}

	return db
}
