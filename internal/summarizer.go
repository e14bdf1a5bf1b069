package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Summary is the short digest derived from a normalized conversation.
type Summary struct {
	ID             string         `json:"id"`
	Name           string         `json:"name,omitempty"`
	Topic          string         `json:"topic,omitempty"`
	MessageCount   int            `json:"messageCount"`
	UserTurns      int            `json:"userTurns"`
	AssistantTurns int            `json:"assistantTurns"`
	ToolUsage      map[string]int `json:"toolUsage,omitempty"`
	TouchedFiles   []string       `json:"touchedFiles,omitempty"`
	Duration       string         `json:"duration,omitempty"`
}

const topicSentenceLimit = 120

// Summarize derives a digest from the same normalized record the renderer
// consumes, reusing the tool extractor for the usage histogram.
func Summarize(conv *Conversation) *Summary {
	s := &Summary{
		ID:           conv.ID,
		Name:         conv.Name,
		TouchedFiles: conv.TouchedFiles,
		ToolUsage:    make(map[string]int),
	}

	for i := range conv.Messages {
		msg := &conv.Messages[i]
		s.MessageCount++
		if msg.Role == RoleUser {
			s.UserTurns++
			if s.Topic == "" {
				s.Topic = topicSentence(msg.Text)
			}
		} else {
			s.AssistantTurns++
		}
		if inv := msg.ToolData(); inv != nil {
			s.ToolUsage[inv.Name]++
		}
	}

	if conv.CreatedAt > 0 && conv.UpdatedAt > conv.CreatedAt {
		s.Duration = formatDuration(conv.UpdatedAt - conv.CreatedAt)
	}
	return s
}

// topicSentence reduces the first user turn to a single short line.
func topicSentence(text string) string {
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	trimmed, truncated := truncateText(line, topicSentenceLimit)
	if truncated {
		trimmed = strings.TrimRight(trimmed, " ") + "…"
	}
	return trimmed
}

// Text renders the digest as a short natural-language document.
func (s *Summary) Text() string {
	var b strings.Builder

	title := s.Name
	if title == "" {
		title = "Conversation " + s.ID
	}
	fmt.Fprintf(&b, "%s\n\n", title)

	if s.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", s.Topic)
	}
	fmt.Fprintf(&b, "Turns: %d (%d user, %d assistant)\n", s.MessageCount, s.UserTurns, s.AssistantTurns)
	if s.Duration != "" {
		fmt.Fprintf(&b, "Duration: %s\n", s.Duration)
	}

	if len(s.ToolUsage) > 0 {
		names := make([]string, 0, len(s.ToolUsage))
		for name := range s.ToolUsage {
			names = append(names, name)
		}
		// Most used first, name as tie-break.
		sort.Slice(names, func(i, j int) bool {
			if s.ToolUsage[names[i]] != s.ToolUsage[names[j]] {
				return s.ToolUsage[names[i]] > s.ToolUsage[names[j]]
			}
			return names[i] < names[j]
		})
		var parts []string
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s ×%d", name, s.ToolUsage[name]))
		}
		fmt.Fprintf(&b, "Tools: %s\n", strings.Join(parts, ", "))
	}

	if len(s.TouchedFiles) > 0 {
		fmt.Fprintf(&b, "Files touched (%d):\n", len(s.TouchedFiles))
		for _, file := range s.TouchedFiles {
			fmt.Fprintf(&b, "  - %s\n", file)
		}
	}
	return b.String()
}
