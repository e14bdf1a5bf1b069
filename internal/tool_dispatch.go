package internal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// toolFormatter converts one invocation into a summary line and a detail
// body. Formatters may assume nothing about payload shape; whatever they
// cannot resolve they render as placeholders, and a panic is caught at the
// dispatch boundary.
type toolFormatter func(inv *ToolInvocation) (summary, body string)

// toolFormatters routes exact, case-insensitive tool names to family
// formatters. Matching is never substring-based: partial matching was tried
// historically and misclassified tools whose names embed another tool's
// name, so a name that is merely a substring of an alias falls to the
// unknown formatter.
var toolFormatters = map[string]toolFormatter{
	"edit_file":            formatFileEdit,
	"multiedit":            formatFileEdit,
	"write":                formatFileEdit,
	"search_replace":       formatFileEdit,
	"apply_patch":          formatApplyPatch,
	"delete_file":          formatDeleteFile,
	"edit_file_v2":         formatFileEditV2,
	"read_file":            formatReadFile,
	"read_file_v2":         formatReadFile,
	"list_dir":             formatListDir,
	"list_dir_v2":          formatListDir,
	"codebase_search":      formatCodebaseSearch,
	"semantic_search_full": formatCodebaseSearch,
	"grep":                 formatGrep,
	"ripgrep":              formatGrep,
	"ripgrep_raw_search":   formatGrep,
	"web_search":           formatWebSearch,
	"web_fetch":            formatWebFetch,
	"run_terminal_cmd":     formatTerminal,
	"run_terminal_command": formatTerminal,
	"terminal_cmd":         formatTerminal,
	"read_lints":           formatLints,
	"create_plan":          formatPlan,
	"todo_write":           formatTodoList,
	"manage_todo_list":     formatTodoList,
}

// RenderToolDetails turns an invocation into a collapsible Markdown block.
// Total: a formatter failure degrades to the unknown-tool rendering rather
// than surfacing an error in the document.
func RenderToolDetails(inv *ToolInvocation) string {
	if inv == nil {
		return ""
	}
	summary, body := dispatchFormatter(inv)
	return detailsBlock(summary, body)
}

func dispatchFormatter(inv *ToolInvocation) (summary, body string) {
	defer func() {
		if r := recover(); r != nil {
			LogWarn("tool formatter panicked for %q (fragment %s): %v", inv.Name, inv.FragmentID, r)
			summary, body = formatUnknown(inv)
		}
	}()

	name := strings.ToLower(strings.TrimSpace(inv.Name))
	if f, ok := toolFormatters[name]; ok {
		return f(inv)
	}
	if strings.HasPrefix(name, "mcp_") {
		return formatMCP(inv)
	}
	return formatUnknown(inv)
}

// detailsBlock wraps a summary and body into a <details> unit. The body is
// separated by blank lines so Markdown inside it still renders once the
// document is converted to HTML.
func detailsBlock(summary, body string) string {
	var b strings.Builder
	b.WriteString("<details>\n<summary>")
	b.WriteString(summary)
	b.WriteString("</summary>\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\n</details>\n")
	return b.String()
}

// formatUnknown is the fallback for unrecognized or nameless tools: a
// best-effort dump of every field present, never an omission.
func formatUnknown(inv *ToolInvocation) (string, string) {
	summary := inv.Name
	if inv.IsUnknown() && inv.FragmentID != "" {
		summary = fmt.Sprintf("%s (%s)", UnknownToolName, inv.FragmentID)
	}

	var sections []string
	appendDump := func(label string, v interface{}) {
		if v == nil {
			return
		}
		sections = append(sections, fmt.Sprintf("**%s**\n\n```json\n%s\n```", label, jsonDump(v)))
	}
	appendDump("Parameters", ParseMaybeJSON(inv.Params))
	appendDump("Raw arguments", ParseMaybeJSON(inv.RawArgs))
	appendDump("Result", ParseMaybeJSON(inv.Result))
	appendDump("Additional data", ParseMaybeJSON(inv.AdditionalData))

	return summary, strings.Join(sections, "\n\n")
}

// formatMCP renders tools reached over an MCP server: show the sub-calls if
// the payload has a recognizable list, otherwise dump the raw JSON.
func formatMCP(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	args := AsMap(inv.RawArgs)

	summary := inv.Name
	if calls := AsSlice(ResolveAny(params, "calls", "toolCalls", "requests")); len(calls) > 0 {
		var b strings.Builder
		for i, call := range calls {
			m, _ := call.(map[string]interface{})
			name := ResolveString(m, toolNameKeys...)
			if name == "" {
				name = fmt.Sprintf("call %d", i+1)
			}
			fmt.Fprintf(&b, "%d. `%s`\n", i+1, name)
		}
		return fmt.Sprintf("%s (%d call(s))", summary, len(calls)), b.String()
	}

	var sections []string
	for _, part := range []struct {
		label string
		v     interface{}
	}{{"Parameters", params}, {"Arguments", args}, {"Result", ParseMaybeJSON(inv.Result)}} {
		if part.v == nil {
			continue
		}
		sections = append(sections, fmt.Sprintf("```json\n%s\n```", jsonDump(part.v)))
	}
	return summary, strings.Join(sections, "\n\n")
}

// jsonDump renders any value as indented JSON, degrading to %v output when
// marshaling fails.
func jsonDump(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// escapeTableCell keeps table rows intact when cell content carries pipes
// or newlines.
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// truncateText caps a preview at limit runes and appends an explicit
// truncation notice.
func truncateText(s string, limit int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return string(runes[:limit]), true
}
