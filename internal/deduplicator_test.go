package internal

import "testing"

func TestDeduplicate(t *testing.T) {
	msgs := []ConversationMessage{
		{Role: RoleUser, Text: "hello", Timestamp: "2024-01-01T00:00:00Z"},
		{Role: RoleAssistant, Text: "hi", Timestamp: "2024-01-01T00:00:01Z"},
	}
	first := &Conversation{ID: "editor-copy", Messages: msgs}
	duplicate := &Conversation{ID: "agent-copy", Messages: msgs}
	distinct := &Conversation{ID: "other", Messages: []ConversationMessage{
		{Role: RoleUser, Text: "different", Timestamp: "2024-01-02T00:00:00Z"},
	}}

	unique := NewDeduplicator().Deduplicate([]*Conversation{first, duplicate, distinct})
	if len(unique) != 2 {
		t.Fatalf("got %d conversations, want 2", len(unique))
	}
	if unique[0].ID != "editor-copy" {
		t.Errorf("first-seen copy should win, got %s", unique[0].ID)
	}
	if unique[1].ID != "other" {
		t.Errorf("distinct conversation dropped: %s", unique[1].ID)
	}
}

func TestDeduplicateKeepsAllEmpty(t *testing.T) {
	empties := []*Conversation{{ID: "e1"}, {ID: "e2"}}
	unique := NewDeduplicator().Deduplicate(empties)
	if len(unique) != 2 {
		t.Errorf("empty conversations must all survive, got %d", len(unique))
	}
}

func TestDeduplicateTimestampDistinguishes(t *testing.T) {
	a := &Conversation{ID: "a", Messages: []ConversationMessage{{Role: RoleUser, Text: "x", Timestamp: "t1"}}}
	b := &Conversation{ID: "b", Messages: []ConversationMessage{{Role: RoleUser, Text: "x", Timestamp: "t2"}}}
	unique := NewDeduplicator().Deduplicate([]*Conversation{a, b})
	if len(unique) != 2 {
		t.Errorf("same text at different times is not a duplicate, got %d", len(unique))
	}
}
