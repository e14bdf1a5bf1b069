package testutil

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateSQLiteFixture creates a state.vscdb fixture on disk with one
// conversation in it.
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS cursorDiskKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	insertSQL := "INSERT INTO cursorDiskKV (key, value) VALUES (?, ?)"
	rows := map[string]string{
		"composerData:composer1":     `{"composerId":"composer1","name":"Fixture Conversation","createdAt":1000,"lastUpdatedAt":2000}`,
		"bubbleId:composer1:bubble1": `{"bubbleId":"bubble1","text":"Hello world","timestamp":1000,"type":1}`,
		"bubbleId:composer1:bubble2": `{"bubbleId":"bubble2","text":"Hi there","timestamp":2000,"type":2}`,
	}
	for key, value := range rows {
		if _, err := db.Exec(insertSQL, key, value); err != nil {
			t.Fatalf("Failed to insert %s: %v", key, err)
		}
	}
}

// CreateWorkspaceFixture creates a workspaceStorage entry with a
// workspace.json pointing at folder.
func CreateWorkspaceFixture(t *testing.T, basePath, workspaceHash, folder string) string {
	t.Helper()
	workspaceDir := filepath.Join(basePath, "workspaceStorage", workspaceHash)
	if err := os.MkdirAll(workspaceDir, 0755); err != nil {
		t.Fatalf("Failed to create workspace directory: %v", err)
	}

	jsonData, _ := json.Marshal(map[string]interface{}{"folder": folder})
	if err := os.WriteFile(filepath.Join(workspaceDir, "workspace.json"), jsonData, 0644); err != nil {
		t.Fatalf("Failed to write workspace.json: %v", err)
	}
	return workspaceDir
}

// CreateMockCursorDir creates a User directory layout with globalStorage and
// workspaceStorage populated.
func CreateMockCursorDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	CreateSQLiteFixture(t, filepath.Join(tmpDir, "globalStorage", "state.vscdb"))
	CreateWorkspaceFixture(t, tmpDir, "workspace-hash-123", "/path/to/workspace")

	return tmpDir
}
