package internal

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// editV2PreviewLimit caps the full-content preview emitted for edit_file_v2.
const editV2PreviewLimit = 2000

// resolveTargetFile finds the file a tool operated on, checking parameters
// before raw arguments.
func resolveTargetFile(inv *ToolInvocation) string {
	if p := ResolveString(AsMap(inv.Params), filePathKeys...); p != "" {
		return p
	}
	return ResolveString(AsMap(inv.RawArgs), filePathKeys...)
}

// formatFileEdit renders the diff-based edit family (edit_file, multiedit,
// write, search_replace): file name plus added/removed line counts in the
// summary, per-chunk diffs in the body.
func formatFileEdit(inv *ToolInvocation) (string, string) {
	file := resolveTargetFile(inv)
	if file == "" {
		file = "(unknown file)"
	}

	result := AsMap(inv.Result)
	chunks := editChunks(result)

	added, removed := 0, 0
	var diffs []string
	for _, chunk := range chunks {
		m, _ := chunk.(map[string]interface{})
		if m == nil {
			continue
		}
		if n, ok := ResolveInt(m, "linesAdded", "lines_added", "added"); ok {
			added += n
		}
		if n, ok := ResolveInt(m, "linesRemoved", "lines_removed", "removed"); ok {
			removed += n
		}
		if diff := ResolveString(m, "diffString", "diff", "content"); diff != "" {
			diffs = append(diffs, fmt.Sprintf("```diff\n%s\n```", strings.TrimRight(diff, "\n")))
		}
	}

	var summary string
	switch {
	case added > 0 || removed > 0:
		summary = fmt.Sprintf("%s: %s (added: %d, removed: %d)", inv.Name, file, added, removed)
	case len(chunks) > 0:
		summary = fmt.Sprintf("%s: %s (%d chunk(s))", inv.Name, file, len(chunks))
	default:
		summary = fmt.Sprintf("%s: %s", inv.Name, file)
	}
	return summary, strings.Join(diffs, "\n\n")
}

// editChunks digs the chunk list out of the two known result layouts:
// result.diff.chunks and result.chunks.
func editChunks(result map[string]interface{}) []interface{} {
	if result == nil {
		return nil
	}
	if diff := AsMap(result["diff"]); diff != nil {
		if chunks := AsSlice(diff["chunks"]); chunks != nil {
			return chunks
		}
	}
	return AsSlice(result["chunks"])
}

var patchHeaderRe = regexp.MustCompile(`(?m)^\*\*\*\s+(?:Update|Add|Delete)\s+File:\s+(.+)$`)

// formatApplyPatch renders apply_patch: the target file comes from the
// parameters when present, otherwise it is parsed out of the patch header
// itself, which is why the patch body must be read in string form.
func formatApplyPatch(inv *ToolInvocation) (string, string) {
	file := resolveTargetFile(inv)

	patch := ResolveString(AsMap(inv.Params), "patch", "diff", "content")
	if patch == "" {
		if s, ok := inv.RawArgs.(string); ok {
			patch = s
		} else {
			patch = ResolveString(AsMap(inv.RawArgs), "patch", "diff", "content")
		}
	}
	if file == "" && patch != "" {
		if m := patchHeaderRe.FindStringSubmatch(patch); len(m) == 2 {
			file = strings.TrimSpace(m[1])
		}
	}
	if file == "" {
		file = "(unknown file)"
	}

	body := ""
	if patch != "" {
		body = fmt.Sprintf("```diff\n%s\n```", strings.TrimRight(patch, "\n"))
	}
	return fmt.Sprintf("%s: %s", inv.Name, file), body
}

// formatDeleteFile renders delete_file: path plus the recorded reason,
// no detail body.
func formatDeleteFile(inv *ToolInvocation) (string, string) {
	file := resolveTargetFile(inv)
	if file == "" {
		file = "(unknown file)"
	}
	reason := ResolveString(AsMap(inv.Params), "reason", "explanation")
	if reason == "" {
		reason = ResolveString(AsMap(inv.RawArgs), "reason", "explanation")
	}
	summary := fmt.Sprintf("%s: %s", inv.Name, file)
	if reason != "" {
		summary += fmt.Sprintf(" (%s)", reason)
	}
	return summary, ""
}

// formatFileEditV2 renders the full-content edit: file name, size, status
// icon and reviewer decision in the summary, a capped content preview in
// the body with an explicit truncation notice.
func formatFileEditV2(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	result := AsMap(inv.Result)

	file := resolveTargetFile(inv)
	if file == "" {
		file = "(unknown file)"
	}

	content := ResolveString(params, "content", "contents", "text")
	if content == "" {
		content = ResolveString(result, "content", "contents", "text")
	}

	parts := []string{fmt.Sprintf("%s %s: %s", statusIcon(statusOf(params, result)), inv.Name, file)}
	if content != "" {
		lines := strings.Count(content, "\n") + 1
		parts = append(parts, fmt.Sprintf("%d line(s), %d byte(s)", lines, len(content)))
	}
	if decision := ResolveString(result, "reviewerDecision", "decision"); decision != "" {
		parts = append(parts, fmt.Sprintf("review: %s", decision))
	} else if decision := ResolveString(params, "reviewerDecision", "decision"); decision != "" {
		parts = append(parts, fmt.Sprintf("review: %s", decision))
	}
	summary := strings.Join(parts, ", ")

	if content == "" {
		return summary, ""
	}
	preview, truncated := truncateText(content, editV2PreviewLimit)
	body := fmt.Sprintf("```%s\n%s\n```", languageHint(file), strings.TrimRight(preview, "\n"))
	if truncated {
		body += fmt.Sprintf("\n\n_Content truncated: showing first %d of %d characters._", editV2PreviewLimit, len([]rune(content)))
	}
	return summary, body
}

func statusOf(params, result map[string]interface{}) string {
	if s := ResolveString(result, "status", "state"); s != "" {
		return s
	}
	return ResolveString(params, "status", "state")
}

func statusIcon(status string) string {
	switch strings.ToLower(status) {
	case "completed", "success", "done", "accepted":
		return "✓"
	case "failed", "error", "rejected":
		return "✗"
	default:
		return "•"
	}
}

func languageHint(file string) string {
	return strings.TrimPrefix(filepath.Ext(file), ".")
}

// formatReadFile renders the read family: path and line range, plus an
// excerpt of the returned contents when the result carries one.
func formatReadFile(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	args := AsMap(inv.RawArgs)

	file := resolveTargetFile(inv)
	if file == "" {
		file = "(unknown file)"
	}
	summary := fmt.Sprintf("%s: %s", inv.Name, file)

	start, hasStart := ResolveInt(params, "startLine", "start_line", "offset")
	if !hasStart {
		start, hasStart = ResolveInt(args, "startLine", "start_line", "offset")
	}
	end, hasEnd := ResolveInt(params, "endLine", "end_line", "limit")
	if !hasEnd {
		end, hasEnd = ResolveInt(args, "endLine", "end_line", "limit")
	}
	if hasStart && hasEnd {
		summary += fmt.Sprintf(" (lines %d-%d)", start, end)
	} else if hasStart {
		summary += fmt.Sprintf(" (from line %d)", start)
	}

	content := ResolveString(AsMap(inv.Result), "contents", "content", "text")
	if content == "" {
		return summary, ""
	}
	preview, truncated := truncateText(content, editV2PreviewLimit)
	body := fmt.Sprintf("```%s\n%s\n```", languageHint(file), strings.TrimRight(preview, "\n"))
	if truncated {
		body += "\n\n_Excerpt truncated._"
	}
	return summary, body
}

// formatListDir renders directory listings: item counts in the summary, a
// name/type table in the body. list_dir_v2 results carry a path column too.
func formatListDir(inv *ToolInvocation) (string, string) {
	dir := resolveTargetFile(inv)
	if dir == "" {
		dir = ResolveString(AsMap(inv.Params), "directory", "dir", "relative_workspace_path")
	}
	if dir == "" {
		dir = "."
	}

	result := AsMap(inv.Result)
	entries := AsSlice(ResolveAny(result, "files", "entries", "children", "contents"))

	summary := fmt.Sprintf("%s: %s (%d item(s))", inv.Name, dir, len(entries))
	if len(entries) == 0 {
		return summary, ""
	}

	hasPath := false
	for _, e := range entries {
		if m, _ := e.(map[string]interface{}); ResolveString(m, "path", "uri") != "" {
			hasPath = true
			break
		}
	}

	var b strings.Builder
	if hasPath {
		b.WriteString("| Name | Type | Path |\n|---|---|---|\n")
	} else {
		b.WriteString("| Name | Type |\n|---|---|\n")
	}
	for _, e := range entries {
		m, _ := e.(map[string]interface{})
		name := ResolveString(m, "name", "fileName", "file")
		kind := ResolveString(m, "type", "kind")
		if kind == "" {
			if isDir, ok := m["isDirectory"].(bool); ok && isDir {
				kind = "directory"
			} else {
				kind = "file"
			}
		}
		if hasPath {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeTableCell(name), escapeTableCell(kind), escapeTableCell(ResolveString(m, "path", "uri")))
		} else {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeTableCell(name), escapeTableCell(kind))
		}
	}
	return summary, b.String()
}
