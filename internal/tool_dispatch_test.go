package internal

import (
	"strings"
	"testing"
)

func TestDispatchRouting(t *testing.T) {
	tests := []struct {
		name     string
		toolName string
		params   interface{}
		wantIn   string
	}{
		{"edit family", "edit_file", `{"path":"main.go"}`, "edit_file: main.go"},
		{"case insensitive", "Edit_File", `{"path":"main.go"}`, "Edit_File: main.go"},
		{"read family", "read_file", `{"path":"main.go"}`, "read_file: main.go"},
		{"terminal family", "run_terminal_cmd", `{"command":"ls"}`, "run_terminal_cmd: `ls`"},
		{"grep family", "ripgrep", `{"pattern":"TODO"}`, `ripgrep: "TODO"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &ToolInvocation{Name: tt.toolName, Params: tt.params}
			summary, _ := dispatchFormatter(inv)
			if !strings.Contains(summary, tt.wantIn) {
				t.Errorf("summary = %q, want containing %q", summary, tt.wantIn)
			}
		})
	}
}

func TestDispatchNoSubstringMatching(t *testing.T) {
	// A name that merely embeds a known alias must not route to that
	// alias's formatter.
	inv := &ToolInvocation{
		Name:   "my_read_file_helper",
		Params: map[string]interface{}{"path": "a.go"},
	}
	summary, body := dispatchFormatter(inv)
	if summary != "my_read_file_helper" {
		t.Errorf("summary = %q, want the raw name from the unknown formatter", summary)
	}
	if !strings.Contains(body, "**Parameters**") {
		t.Errorf("body should be an unknown-tool dump, got %q", body)
	}
}

func TestDispatchMCPPrefix(t *testing.T) {
	inv := &ToolInvocation{
		Name: "mcp_github_create_issue",
		Params: map[string]interface{}{
			"calls": []interface{}{
				map[string]interface{}{"name": "create_issue"},
				map[string]interface{}{},
			},
		},
	}
	summary, body := dispatchFormatter(inv)
	if !strings.Contains(summary, "mcp_github_create_issue") || !strings.Contains(summary, "2 call(s)") {
		t.Errorf("summary = %q", summary)
	}
	if !strings.Contains(body, "1. `create_issue`") || !strings.Contains(body, "2. `call 2`") {
		t.Errorf("body = %q", body)
	}
}

func TestDispatchUnknownSentinel(t *testing.T) {
	inv := &ToolInvocation{
		FragmentID: "frag-3",
		Name:       UnknownToolName,
		Result:     map[string]interface{}{"ok": true},
	}
	summary, body := dispatchFormatter(inv)
	if summary != "Unknown Tool (frag-3)" {
		t.Errorf("summary = %q", summary)
	}
	if !strings.Contains(body, "**Result**") || !strings.Contains(body, "```json") {
		t.Errorf("body = %q", body)
	}
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	toolFormatters["panicky"] = func(inv *ToolInvocation) (string, string) {
		panic("boom")
	}
	defer delete(toolFormatters, "panicky")

	inv := &ToolInvocation{Name: "panicky", Params: map[string]interface{}{"x": 1}}
	summary, _ := dispatchFormatter(inv)
	if summary != "panicky" {
		t.Errorf("panic should degrade to unknown rendering, summary = %q", summary)
	}
}

func TestRenderToolDetails(t *testing.T) {
	if got := RenderToolDetails(nil); got != "" {
		t.Errorf("nil invocation should render nothing, got %q", got)
	}

	inv := &ToolInvocation{Name: "delete_file", Params: `{"path":"old.go","reason":"unused"}`}
	out := RenderToolDetails(inv)
	if !strings.HasPrefix(out, "<details>\n<summary>") {
		t.Errorf("missing details wrapper: %q", out)
	}
	if !strings.Contains(out, "delete_file: old.go (unused)") {
		t.Errorf("summary missing: %q", out)
	}
	if !strings.HasSuffix(out, "</details>\n") {
		t.Errorf("missing closer: %q", out)
	}
}

func TestEscapeTableCell(t *testing.T) {
	if got := escapeTableCell("a|b\nc"); got != "a\\|b c" {
		t.Errorf("escapeTableCell = %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	s, truncated := truncateText("hello", 10)
	if s != "hello" || truncated {
		t.Errorf("short text: (%q, %v)", s, truncated)
	}
	s, truncated = truncateText("héllo wörld", 5)
	if s != "héllo" || !truncated {
		t.Errorf("rune-based cap: (%q, %v)", s, truncated)
	}
}
