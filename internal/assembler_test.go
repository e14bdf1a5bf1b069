package internal

import (
	"strings"
	"testing"
)

func TestAssembleOrdering(t *testing.T) {
	composer := &RawComposer{ComposerID: "c1", Name: "Ordered", CreatedAt: 100, LastUpdatedAt: 400}
	bubbles := []*RawBubble{
		{BubbleID: "b3", ComposerID: "c1", Type: 2, Text: "third", Timestamp: 300},
		{BubbleID: "b1", ComposerID: "c1", Type: 1, Text: "first", Timestamp: 100},
		{BubbleID: "b2", ComposerID: "c1", Type: 2, Text: "second", Timestamp: 200},
	}

	conv := NewAssembler().Assemble(composer, bubbles)
	if len(conv.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(conv.Messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if conv.Messages[i].Text != want {
			t.Errorf("message %d = %q, want %q", i, conv.Messages[i].Text, want)
		}
	}
	if conv.Stats.MessageCount != 3 || conv.Stats.UserCount != 1 || conv.Stats.AssistantCount != 2 {
		t.Errorf("stats = %+v", conv.Stats)
	}
}

func TestAssembleRoleMapping(t *testing.T) {
	tests := []struct {
		name     string
		mode     interface{}
		bubbleTy int
		wantRole string
		wantDiag bool
	}{
		{"type 1 chat", nil, 1, RoleUser, false},
		{"type 2 chat", nil, 2, RoleAssistant, false},
		{"type 2 agent", float64(2), 2, RoleAgent, false},
		{"type 1 agent still user", float64(2), 1, RoleUser, false},
		{"unknown type chat", nil, 7, RoleAssistant, true},
		{"unknown type agent", float64(2), 7, RoleAgent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composer := &RawComposer{ComposerID: "c1", UnifiedMode: tt.mode}
			bubble := &RawBubble{BubbleID: "b1", ComposerID: "c1", Type: tt.bubbleTy, Text: "x"}
			conv := NewAssembler().Assemble(composer, []*RawBubble{bubble})
			if len(conv.Messages) != 1 {
				t.Fatalf("fragment was dropped")
			}
			if conv.Messages[0].Role != tt.wantRole {
				t.Errorf("role = %q, want %q", conv.Messages[0].Role, tt.wantRole)
			}
			hasDiag := false
			for _, d := range conv.Diagnostics {
				if strings.Contains(d, "unrecognized type code") {
					hasDiag = true
				}
			}
			if hasDiag != tt.wantDiag {
				t.Errorf("diagnostics = %v, wantDiag %v", conv.Diagnostics, tt.wantDiag)
			}
		})
	}
}

func TestAssembleMissingComposer(t *testing.T) {
	bubbles := []*RawBubble{{BubbleID: "b1", ComposerID: "orphan-group", Type: 1, Text: "x"}}
	conv := NewAssembler().Assemble(nil, bubbles)
	if conv.ID != "orphan-group" {
		t.Errorf("ID = %q, want the fragments' composer id", conv.ID)
	}
	if len(conv.Diagnostics) == 0 {
		t.Error("missing header should record a diagnostic")
	}
	if len(conv.Messages) != 1 {
		t.Error("fragments must survive a missing header")
	}
}

func TestAssembleMissingComposerNoFragmentID(t *testing.T) {
	conv := NewAssembler().Assemble(nil, []*RawBubble{{BubbleID: "b1", Type: 1, Text: "x"}})
	if conv.ID == "" {
		t.Error("a conversation id must always be synthesized")
	}
}

func TestAssembleThinkingDurationMerge(t *testing.T) {
	composer := &RawComposer{ComposerID: "c1"}
	bubbles := []*RawBubble{
		{BubbleID: "b1", Type: 2, ThinkingDurationMs: 2500},
		{BubbleID: "b2", Type: 2, Thinking: &ThinkingBlock{Text: "trace"}, ThinkingDurationMs: 900},
	}
	conv := NewAssembler().Assemble(composer, bubbles)
	if conv.Messages[0].Thinking == nil || conv.Messages[0].Thinking.DurationMs != 2500 {
		t.Errorf("bare duration not merged: %+v", conv.Messages[0].Thinking)
	}
	if conv.Messages[1].Thinking.DurationMs != 900 || conv.Messages[1].Thinking.Text != "trace" {
		t.Errorf("duration not merged into trace: %+v", conv.Messages[1].Thinking)
	}
	// The original fragment stays untouched.
	if bubbles[1].Thinking.DurationMs != 0 {
		t.Error("assembler mutated the source fragment")
	}
}

func TestAssembleTouchedFilesAndToolStats(t *testing.T) {
	composer := &RawComposer{ComposerID: "c1"}
	bubbles := []*RawBubble{
		{BubbleID: "b1", Type: 2, ToolFormerData: map[string]interface{}{
			"name":   "edit_file",
			"params": `{"relativeWorkspacePath":"b.go"}`,
		}},
		{BubbleID: "b2", Type: 2, ToolFormerData: map[string]interface{}{
			"name":    "read_file",
			"rawArgs": `{"path":"a.go"}`,
		}},
	}
	conv := NewAssembler().Assemble(composer, bubbles)
	if conv.Stats.ToolCallCount != 2 {
		t.Errorf("tool calls = %d", conv.Stats.ToolCallCount)
	}
	if len(conv.TouchedFiles) != 2 || conv.TouchedFiles[0] != "a.go" || conv.TouchedFiles[1] != "b.go" {
		t.Errorf("touched files = %v", conv.TouchedFiles)
	}
}

func TestAssembleAllIncludesEmptyAndOrphans(t *testing.T) {
	composers := []*RawComposer{
		{ComposerID: "c1", Name: "Has messages"},
		{ComposerID: "c2", Name: "Empty"},
	}
	grouped := map[string][]*RawBubble{
		"c1":     {{BubbleID: "b1", ComposerID: "c1", Type: 1, Text: "hi"}},
		"orphan": {{BubbleID: "b2", ComposerID: "orphan", Type: 1, Text: "lost"}},
	}

	conversations := NewAssembler().AssembleAll(composers, grouped)
	if len(conversations) != 3 {
		t.Fatalf("conversations = %d, want 3 (one empty, one orphan group)", len(conversations))
	}
	byID := make(map[string]*Conversation)
	for _, conv := range conversations {
		byID[conv.ID] = conv
	}
	if conv := byID["c2"]; conv == nil || len(conv.Messages) != 0 {
		t.Error("empty conversation must be included")
	}
	if conv := byID["orphan"]; conv == nil || len(conv.Messages) != 1 {
		t.Error("orphan fragment group must become a conversation")
	}
}

func TestAssembleModelAndCounters(t *testing.T) {
	composer := &RawComposer{
		ComposerID:        "c1",
		TotalLinesAdded:   10,
		TotalLinesRemoved: 2,
		FilesChanged:      3,
		ModelConfig:       &ModelConfig{ModelName: "gpt-test"},
	}
	conv := NewAssembler().Assemble(composer, nil)
	if conv.Model != "gpt-test" || conv.LinesAdded != 10 || conv.LinesRemoved != 2 || conv.FilesChanged != 3 {
		t.Errorf("conv = %+v", conv)
	}
}
