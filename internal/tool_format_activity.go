package internal

import (
	"fmt"
	"sort"
	"strings"
)

// formatCodebaseSearch renders semantic code search: query and hit count in
// the summary, a file/line-range table in the body, sorted by score when
// scores are present.
func formatCodebaseSearch(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	query := ResolveString(params, "query", "search_query", "searchQuery")
	if query == "" {
		query = ResolveString(AsMap(inv.RawArgs), "query", "search_query", "searchQuery")
	}

	result := AsMap(inv.Result)
	hits := AsSlice(ResolveAny(result, "results", "codeResults", "matches"))

	summary := fmt.Sprintf("%s: %q (%d result(s))", inv.Name, query, len(hits))
	if len(hits) == 0 {
		return summary, ""
	}

	type hit struct {
		file  string
		lines string
		score float64
		has   bool
	}
	rows := make([]hit, 0, len(hits))
	anyScore := false
	for _, h := range hits {
		m, _ := h.(map[string]interface{})
		if m == nil {
			continue
		}
		row := hit{file: ResolveString(m, filePathKeys...)}
		start, hasStart := ResolveInt(m, "startLine", "start_line", "lineStart")
		end, hasEnd := ResolveInt(m, "endLine", "end_line", "lineEnd")
		switch {
		case hasStart && hasEnd:
			row.lines = fmt.Sprintf("%d-%d", start, end)
		case hasStart:
			row.lines = fmt.Sprintf("%d", start)
		default:
			row.lines = ResolveString(m, "range", "lines")
		}
		if score, ok := m["score"].(float64); ok {
			row.score, row.has = score, true
			anyScore = true
		}
		rows = append(rows, row)
	}
	if anyScore {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })
	}

	var b strings.Builder
	if anyScore {
		b.WriteString("| File | Lines | Score |\n|---|---|---|\n")
	} else {
		b.WriteString("| File | Lines |\n|---|---|\n")
	}
	for _, row := range rows {
		if anyScore {
			score := ""
			if row.has {
				score = fmt.Sprintf("%.3f", row.score)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeTableCell(row.file), escapeTableCell(row.lines), score)
		} else {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeTableCell(row.file), escapeTableCell(row.lines))
		}
	}
	return summary, b.String()
}

// formatGrep renders text search across its three historical output modes:
// per-match content rows, a matched-file list, or per-file match counts.
func formatGrep(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	pattern := ResolveString(params, "pattern", "query", "regex", "search")
	if pattern == "" {
		pattern = ResolveString(AsMap(inv.RawArgs), "pattern", "query", "regex", "search")
	}

	result := AsMap(inv.Result)

	// Mode 1: content rows.
	if matches := AsSlice(ResolveAny(result, "matches", "contentResults")); len(matches) > 0 {
		var b strings.Builder
		b.WriteString("| File | Line | Content |\n|---|---|---|\n")
		for _, match := range matches {
			m, _ := match.(map[string]interface{})
			line := ""
			if n, ok := ResolveInt(m, "line", "lineNumber", "line_number"); ok {
				line = fmt.Sprintf("%d", n)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				escapeTableCell(ResolveString(m, filePathKeys...)),
				line,
				escapeTableCell(ResolveString(m, "content", "text", "lineContent")))
		}
		summary := fmt.Sprintf("%s: %q (%d match(es))", inv.Name, pattern, len(matches))
		return summary, b.String()
	}

	// Mode 2: matched-file list.
	if files := AsSlice(ResolveAny(result, "files", "filenames", "fileResults")); len(files) > 0 {
		var b strings.Builder
		for _, f := range files {
			switch v := f.(type) {
			case string:
				fmt.Fprintf(&b, "- `%s`\n", v)
			case map[string]interface{}:
				fmt.Fprintf(&b, "- `%s`\n", ResolveString(v, filePathKeys...))
			}
		}
		summary := fmt.Sprintf("%s: %q (%d file(s))", inv.Name, pattern, len(files))
		return summary, b.String()
	}

	// Mode 3: per-file counts.
	if counts := AsMap(ResolveAny(result, "counts", "fileCounts", "matchCounts")); len(counts) > 0 {
		files := make([]string, 0, len(counts))
		for f := range counts {
			files = append(files, f)
		}
		sort.Strings(files)

		total := 0
		var b strings.Builder
		b.WriteString("| File | Matches |\n|---|---|\n")
		for _, f := range files {
			n, _ := AsInt(counts[f])
			total += n
			fmt.Fprintf(&b, "| %s | %d |\n", escapeTableCell(f), n)
		}
		summary := fmt.Sprintf("%s: %q (%d match(es) in %d file(s))", inv.Name, pattern, total, len(files))
		return summary, b.String()
	}

	return fmt.Sprintf("%s: %q (no matches)", inv.Name, pattern), ""
}

// formatWebSearch renders web search as a numbered result list.
func formatWebSearch(inv *ToolInvocation) (string, string) {
	query := ResolveString(AsMap(inv.Params), "query", "search_term", "searchTerm")
	if query == "" {
		query = ResolveString(AsMap(inv.RawArgs), "query", "search_term", "searchTerm")
	}
	hits := AsSlice(ResolveAny(AsMap(inv.Result), "results", "references"))

	summary := fmt.Sprintf("%s: %q (%d result(s))", inv.Name, query, len(hits))
	if len(hits) == 0 {
		return summary, ""
	}
	var b strings.Builder
	for i, h := range hits {
		m, _ := h.(map[string]interface{})
		title := ResolveString(m, "title", "name")
		url := ResolveString(m, "url", "link", "uri")
		switch {
		case title != "" && url != "":
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, title, url)
		case url != "":
			fmt.Fprintf(&b, "%d. <%s>\n", i+1, url)
		default:
			fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		}
	}
	return summary, b.String()
}

// formatWebFetch renders web fetch with the full fetched content in the body.
func formatWebFetch(inv *ToolInvocation) (string, string) {
	url := ResolveString(AsMap(inv.Params), "url", "uri", "link")
	if url == "" {
		url = ResolveString(AsMap(inv.RawArgs), "url", "uri", "link")
	}
	summary := fmt.Sprintf("%s: %s", inv.Name, url)

	content := ResolveString(AsMap(inv.Result), "content", "text", "body")
	if content == "" {
		return summary, ""
	}
	return summary, fmt.Sprintf("```\n%s\n```", strings.TrimRight(content, "\n"))
}

// formatTerminal renders terminal runs: the command in the summary, command
// plus stdout and stderr in separate fenced blocks.
func formatTerminal(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	command := ResolveString(params, "command", "cmd", "commandLine")
	if command == "" {
		command = ResolveString(AsMap(inv.RawArgs), "command", "cmd", "commandLine")
	}
	if command == "" {
		command = "(unknown command)"
	}

	result := AsMap(inv.Result)
	stdout := ResolveString(result, "output", "stdout")
	stderr := ResolveString(result, "stderr", "errorOutput")

	var sections []string
	sections = append(sections, fmt.Sprintf("```shell\n%s\n```", command))
	if stdout != "" {
		sections = append(sections, fmt.Sprintf("**stdout**\n\n```\n%s\n```", strings.TrimRight(stdout, "\n")))
	}
	if stderr != "" {
		sections = append(sections, fmt.Sprintf("**stderr**\n\n```\n%s\n```", strings.TrimRight(stderr, "\n")))
	}
	if code, ok := ResolveInt(result, "exitCode", "exit_code", "code"); ok && code != 0 {
		sections = append(sections, fmt.Sprintf("_Exit code: %d_", code))
	}

	summary := fmt.Sprintf("%s: `%s`", inv.Name, firstLine(command))
	return summary, strings.Join(sections, "\n\n")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx] + " …"
	}
	return s
}

// lintEntry is one reported problem after shape normalization.
type lintEntry struct {
	file     string
	line     int
	column   int
	severity string
	message  string
}

// formatLints renders read_lints. The summary is driven by the count of
// actual errors, never by the mere presence of a result object: an empty
// result reads "no errors found".
func formatLints(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	paths := AsSlice(ResolveAny(params, "paths", "files"))
	pathCount := len(paths)
	if pathCount == 0 && ResolveString(params, filePathKeys...) != "" {
		pathCount = 1
	}

	entries := collectLintEntries(inv.Result)

	var summary string
	if len(entries) == 0 {
		summary = fmt.Sprintf("%s: %d path(s), no errors found", inv.Name, pathCount)
		return summary, ""
	}
	summary = fmt.Sprintf("%s: %d path(s), %d error(s)", inv.Name, pathCount, len(entries))

	var b strings.Builder
	b.WriteString("| File | Line | Column | Severity | Message |\n|---|---|---|---|---|\n")
	for _, e := range entries {
		line, col := "", ""
		if e.line > 0 {
			line = fmt.Sprintf("%d", e.line)
		}
		if e.column > 0 {
			col = fmt.Sprintf("%d", e.column)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escapeTableCell(e.file), line, col, escapeTableCell(e.severity), escapeTableCell(e.message))
	}
	return summary, b.String()
}

// collectLintEntries supports both historical result layouts: the nested
// per-file shape ({lints:[{file, errors:[...]}]}) and the flat per-entry
// shape ([{file, line, message, ...}]).
func collectLintEntries(result interface{}) []lintEntry {
	var entries []lintEntry

	appendFlat := func(file string, raw interface{}) {
		m, _ := raw.(map[string]interface{})
		if m == nil {
			return
		}
		e := lintEntry{
			file:     file,
			severity: ResolveString(m, "severity", "level"),
			message:  ResolveString(m, "message", "text", "description"),
		}
		if e.file == "" {
			e.file = ResolveString(m, filePathKeys...)
		}
		e.line, _ = ResolveInt(m, "line", "lineNumber", "startLine")
		e.column, _ = ResolveInt(m, "column", "col", "startColumn")
		if e.message == "" && e.file == "" {
			return
		}
		entries = append(entries, e)
	}

	parsed := ParseMaybeJSON(result)
	switch v := parsed.(type) {
	case []interface{}:
		for _, item := range v {
			appendFlat("", item)
		}
	case map[string]interface{}:
		groups := AsSlice(ResolveAny(v, "lints", "diagnostics", "errors", "results"))
		for _, group := range groups {
			gm, _ := group.(map[string]interface{})
			if gm == nil {
				continue
			}
			// Nested per-file shape.
			if errs := AsSlice(ResolveAny(gm, "errors", "diagnostics", "messages")); errs != nil {
				file := ResolveString(gm, filePathKeys...)
				for _, err := range errs {
					appendFlat(file, err)
				}
				continue
			}
			// Flat shape inside a wrapper object.
			appendFlat("", group)
		}
	}
	return entries
}

// formatPlan renders create_plan: name and accepted/rejected state in the
// summary; overview, todo checkboxes, and the generated plan artifact link
// in the body.
func formatPlan(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	result := AsMap(inv.Result)

	name := ResolveString(params, "name", "plan_name", "planName", "title")
	if name == "" {
		name = ResolveString(result, "name", "plan_name", "planName", "title")
	}
	if name == "" {
		name = "(unnamed plan)"
	}

	state := ""
	if accepted, ok := result["accepted"].(bool); ok {
		if accepted {
			state = "accepted"
		} else {
			state = "rejected"
		}
	} else if s := ResolveString(result, "status", "decision"); s != "" {
		state = strings.ToLower(s)
	}

	summary := fmt.Sprintf("%s: %s", inv.Name, name)
	if state != "" {
		summary += fmt.Sprintf(" (%s)", state)
	}

	var sections []string
	if overview := ResolveString(params, "overview", "description", "summary"); overview != "" {
		sections = append(sections, overview)
	} else if overview := ResolveString(result, "overview", "description", "summary"); overview != "" {
		sections = append(sections, overview)
	}
	if todos := AsSlice(ResolveAny(params, "todos", "items", "steps")); len(todos) > 0 {
		sections = append(sections, renderTodoItems(todos))
	} else if todos := AsSlice(ResolveAny(result, "todos", "items", "steps")); len(todos) > 0 {
		sections = append(sections, renderTodoItems(todos))
	}
	if link := ResolveString(result, "planUrl", "plan_url", "file", "path"); link != "" {
		sections = append(sections, fmt.Sprintf("Plan: [%s](%s)", link, link))
	}
	return summary, strings.Join(sections, "\n\n")
}

// formatTodoList renders the task-list family as a checkbox list.
func formatTodoList(inv *ToolInvocation) (string, string) {
	params := AsMap(inv.Params)
	todos := AsSlice(ResolveAny(params, "todos", "items", "todoList", "operations"))
	if len(todos) == 0 {
		todos = AsSlice(ResolveAny(AsMap(inv.RawArgs), "todos", "items", "todoList", "operations"))
	}

	summary := fmt.Sprintf("%s: %d item(s)", inv.Name, len(todos))
	if len(todos) == 0 {
		return summary, ""
	}
	return summary, renderTodoItems(todos)
}

// renderTodoItems maps todo statuses to markers: completed/done check the
// box, in_progress stays unchecked with a running indicator, cancelled is
// checked and struck through, everything else is an unchecked box.
func renderTodoItems(todos []interface{}) string {
	var b strings.Builder
	for _, todo := range todos {
		m, _ := ParseMaybeJSON(todo).(map[string]interface{})
		if m == nil {
			if s, ok := todo.(string); ok && strings.TrimSpace(s) != "" {
				fmt.Fprintf(&b, "- [ ] %s\n", strings.TrimSpace(s))
			}
			continue
		}
		label := ResolveString(m, "content", "title", "text", "description", "name")
		status := strings.ToLower(ResolveString(m, "status", "state"))
		switch status {
		case "completed", "done":
			fmt.Fprintf(&b, "- [x] %s\n", label)
		case "in_progress", "in-progress":
			fmt.Fprintf(&b, "- [ ] ▶ %s\n", label)
		case "cancelled", "canceled":
			fmt.Fprintf(&b, "- [x] ~~%s~~\n", label)
		default:
			fmt.Fprintf(&b, "- [ ] %s\n", label)
		}
	}
	return b.String()
}
