package internal

import (
	"strings"
	"testing"
)

func TestSummarizeCounts(t *testing.T) {
	conv := &Conversation{
		ID:        "c1",
		Name:      "Fix login",
		CreatedAt: 1000,
		UpdatedAt: 61000,
		Messages: []ConversationMessage{
			{Role: RoleUser, Text: "Fix the login bug.\nIt fails on empty passwords."},
			{Role: RoleAgent, Text: "Reading the handler.",
				ToolFormerData: map[string]interface{}{"name": "read_file", "params": `{"path":"a.go"}`}},
			{Role: RoleAgent,
				ToolFormerData: map[string]interface{}{"name": "read_file", "params": `{"path":"b.go"}`}},
			{Role: RoleAgent,
				ToolFormerData: map[string]interface{}{"name": "edit_file", "params": `{"path":"a.go"}`}},
		},
		TouchedFiles: []string{"a.go", "b.go"},
	}

	s := Summarize(conv)
	if s.MessageCount != 4 || s.UserTurns != 1 || s.AssistantTurns != 3 {
		t.Errorf("counts = %d/%d/%d", s.MessageCount, s.UserTurns, s.AssistantTurns)
	}
	if s.Topic != "Fix the login bug." {
		t.Errorf("Topic = %q", s.Topic)
	}
	if s.ToolUsage["read_file"] != 2 || s.ToolUsage["edit_file"] != 1 {
		t.Errorf("ToolUsage = %v", s.ToolUsage)
	}
	if s.Duration != "1m 0s" {
		t.Errorf("Duration = %q", s.Duration)
	}
}

func TestSummarizeTopicTruncation(t *testing.T) {
	long := strings.Repeat("word ", 40) // 200 chars, single line
	conv := &Conversation{ID: "c1", Messages: []ConversationMessage{{Role: RoleUser, Text: long}}}
	topic := Summarize(conv).Topic
	if !strings.HasSuffix(topic, "…") {
		t.Errorf("long topic should be truncated with ellipsis: %q", topic)
	}
	if len([]rune(topic)) > topicSentenceLimit+1 {
		t.Errorf("topic too long: %d runes", len([]rune(topic)))
	}
}

func TestSummarizeNoDurationWhenDegenerate(t *testing.T) {
	conv := &Conversation{ID: "c1", CreatedAt: 5000, UpdatedAt: 5000}
	if s := Summarize(conv); s.Duration != "" {
		t.Errorf("Duration = %q, want empty", s.Duration)
	}
}

func TestSummaryText(t *testing.T) {
	s := &Summary{
		ID:             "c1",
		Name:           "Fix login",
		Topic:          "Fix the login bug.",
		MessageCount:   4,
		UserTurns:      1,
		AssistantTurns: 3,
		ToolUsage:      map[string]int{"read_file": 2, "edit_file": 1},
		TouchedFiles:   []string{"a.go", "b.go"},
		Duration:       "1m 0s",
	}
	out := s.Text()

	for _, want := range []string{
		"Fix login\n\n",
		"Topic: Fix the login bug.\n",
		"Turns: 4 (1 user, 3 assistant)\n",
		"Duration: 1m 0s\n",
		"Tools: read_file ×2, edit_file ×1\n",
		"Files touched (2):\n  - a.go\n  - b.go\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryTextTitleFallback(t *testing.T) {
	s := &Summary{ID: "c9"}
	if !strings.HasPrefix(s.Text(), "Conversation c9\n") {
		t.Errorf("Text() = %q", s.Text())
	}
}

func TestSummaryToolOrderingTieBreak(t *testing.T) {
	s := &Summary{ID: "c1", ToolUsage: map[string]int{"grep": 1, "codebase_search": 1}}
	out := s.Text()
	if !strings.Contains(out, "Tools: codebase_search ×1, grep ×1") {
		t.Errorf("tie-break should be alphabetical: %q", out)
	}
}
