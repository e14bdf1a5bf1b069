package internal

import (
	"fmt"
	"strings"
	"time"
)

// RenderTranscript walks a normalized conversation and produces the full
// Markdown document: title, metrics table, then one block per turn. Total:
// malformed turns degrade locally, the caller always receives a document.
func RenderTranscript(conv *Conversation) string {
	var b strings.Builder

	title := conv.Name
	if title == "" {
		title = "Conversation " + conv.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if metrics := renderMetricsTable(conv); metrics != "" {
		b.WriteString(metrics)
		b.WriteString("\n")
	}

	if len(conv.Messages) == 0 {
		b.WriteString("_No messages in this conversation._\n")
		return b.String()
	}

	for i := range conv.Messages {
		if block := renderMessage(&conv.Messages[i]); block != "" {
			b.WriteString(block)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// renderMetricsTable emits only rows whose underlying field is actually
// present. Absent or degenerate derived values (a zero duration, a missing
// count) are omitted entirely rather than shown as zero.
func renderMetricsTable(conv *Conversation) string {
	type row struct{ label, value string }
	var rows []row
	add := func(label, value string) {
		rows = append(rows, row{label, value})
	}

	if conv.Stats.MessageCount > 0 {
		add("Messages", fmt.Sprintf("%d", conv.Stats.MessageCount))
	}
	if conv.Stats.UserCount > 0 {
		add("User turns", fmt.Sprintf("%d", conv.Stats.UserCount))
	}
	if conv.Stats.AssistantCount > 0 {
		add("Assistant turns", fmt.Sprintf("%d", conv.Stats.AssistantCount))
	}
	if conv.Stats.ToolCallCount > 0 {
		add("Tool calls", fmt.Sprintf("%d", conv.Stats.ToolCallCount))
	}
	if conv.Stats.CodeLineCount > 0 {
		add("Code lines", fmt.Sprintf("%d", conv.Stats.CodeLineCount))
	}
	if conv.LinesAdded > 0 || conv.LinesRemoved > 0 {
		add("Lines changed", fmt.Sprintf("+%d / -%d", conv.LinesAdded, conv.LinesRemoved))
	}
	if conv.FilesChanged > 0 {
		add("Files changed", fmt.Sprintf("%d", conv.FilesChanged))
	}
	if len(conv.TouchedFiles) > 0 {
		add("Files touched", fmt.Sprintf("%d", len(conv.TouchedFiles)))
	}
	if conv.Mode != "" {
		add("Mode", conv.Mode)
	}
	if conv.Model != "" {
		add("Model", conv.Model)
	}
	if conv.Workspace != "" {
		add("Workspace", conv.Workspace)
	}
	if conv.CreatedAt > 0 {
		add("Created", time.Unix(0, conv.CreatedAt*int64(time.Millisecond)).UTC().Format(time.RFC3339))
	}
	// Duration only renders when both ends exist and differ; identical
	// timestamps would show a meaningless zero.
	if conv.CreatedAt > 0 && conv.UpdatedAt > conv.CreatedAt {
		add("Duration", formatDuration(conv.UpdatedAt-conv.CreatedAt))
	}

	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| Metric | Value |\n|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.label, r.value)
	}
	return b.String()
}

// renderMessage emits one turn. User text is blockquote-wrapped for visual
// distinction; assistant prose is emitted as-is followed by at most one
// rendered tool block; a thinking-only turn becomes a one-line elapsed-time
// note; a fully empty turn renders nothing at all.
func renderMessage(msg *ConversationMessage) string {
	text := strings.TrimSpace(msg.Text)
	inv := msg.ToolData()

	if text == "" && inv == nil {
		if msg.Thinking == nil {
			return ""
		}
		if msg.Thinking.DurationMs > 0 {
			return fmt.Sprintf("*Thought for %.1fs*\n", float64(msg.Thinking.DurationMs)/1000)
		}
		return "*Thinking trace recorded*\n"
	}

	var b strings.Builder
	heading := roleHeading(msg.Role)
	if msg.Timestamp != "" {
		fmt.Fprintf(&b, "**%s** (%s)\n\n", heading, msg.Timestamp)
	} else {
		fmt.Fprintf(&b, "**%s**\n\n", heading)
	}

	if text != "" {
		if msg.Role == RoleUser {
			b.WriteString(blockquote(text))
		} else {
			b.WriteString(text)
		}
		b.WriteString("\n")
	}

	if inv != nil {
		if text != "" {
			b.WriteString("\n")
		}
		b.WriteString(RenderToolDetails(inv))
	}
	return b.String()
}

func roleHeading(role string) string {
	switch role {
	case RoleUser:
		return "User"
	case RoleAgent:
		return "Agent"
	case RoleSystem:
		return "System"
	default:
		return "Assistant"
	}
}

func blockquote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

// formatDuration renders a millisecond span as a compact human string.
func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", ms)
	}
}
