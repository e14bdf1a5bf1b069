package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFakeDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	if err := os.WriteFile(dbPath, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

func TestCacheRoundTrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir())
	dbPath := writeFakeDB(t)

	conversations := []*Conversation{
		{ID: "c1", Name: "First", CreatedAt: 1000, UpdatedAt: 2000,
			Messages: []ConversationMessage{{Role: RoleUser, Text: "hello"}}},
		{ID: "c2", Name: "Second"},
	}
	if err := cm.SaveConversations(conversations, dbPath); err != nil {
		t.Fatalf("SaveConversations() error = %v", err)
	}

	loaded, err := cm.LoadConversations()
	if err != nil {
		t.Fatalf("LoadConversations() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d conversations, want 2", len(loaded))
	}
	if loaded[0].Name != "First" || len(loaded[0].Messages) != 1 {
		t.Errorf("loaded[0] = %+v", loaded[0])
	}

	index, err := cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex() error = %v", err)
	}
	if index.Metadata.CacheVersion != cacheVersion {
		t.Errorf("CacheVersion = %q", index.Metadata.CacheVersion)
	}
	if index.Conversations[0].MessageCount != 1 {
		t.Errorf("MessageCount = %d", index.Conversations[0].MessageCount)
	}
}

func TestIsCacheValid(t *testing.T) {
	cm := NewCacheManager(t.TempDir())
	dbPath := writeFakeDB(t)

	if cm.IsCacheValid(dbPath) {
		t.Error("empty cache must be invalid")
	}

	if err := cm.SaveConversations([]*Conversation{{ID: "c1"}}, dbPath); err != nil {
		t.Fatal(err)
	}
	if !cm.IsCacheValid(dbPath) {
		t.Error("fresh cache should be valid")
	}

	// Touching the database invalidates the cache.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(dbPath, future, future); err != nil {
		t.Fatal(err)
	}
	if cm.IsCacheValid(dbPath) {
		t.Error("cache must be invalid after database modification")
	}

	// A different database path never validates.
	otherPath := writeFakeDB(t)
	if cm.IsCacheValid(otherPath) {
		t.Error("cache for one database must not validate another")
	}
}

func TestClearCache(t *testing.T) {
	cm := NewCacheManager(t.TempDir())
	dbPath := writeFakeDB(t)
	if err := cm.SaveConversations([]*Conversation{{ID: "c1"}}, dbPath); err != nil {
		t.Fatal(err)
	}

	if err := cm.ClearCache(); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	if _, err := cm.LoadIndex(); err == nil {
		t.Error("index should be gone after clear")
	}
	if _, err := os.Stat(cm.conversationPath("c1")); !os.IsNotExist(err) {
		t.Error("cached conversation file should be removed")
	}

	// Clearing an already-empty cache is not an error.
	if err := cm.ClearCache(); err != nil {
		t.Errorf("second ClearCache() error = %v", err)
	}
}

func TestLoadConversationsSkipsMissingFiles(t *testing.T) {
	cm := NewCacheManager(t.TempDir())
	dbPath := writeFakeDB(t)
	if err := cm.SaveConversations([]*Conversation{{ID: "c1"}, {ID: "c2"}}, dbPath); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(cm.conversationPath("c1")); err != nil {
		t.Fatal(err)
	}

	loaded, err := cm.LoadConversations()
	if err != nil {
		t.Fatalf("LoadConversations() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "c2" {
		t.Errorf("loaded = %+v, want only c2", loaded)
	}
}
