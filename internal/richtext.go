package internal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractBubbleText recovers display text from a fragment using a tiered
// strategy: the plain text field first, then the Lexical richText JSON
// structure, then attached code blocks appended as markdown fences. An
// unparsable richText payload degrades to nothing rather than failing the
// fragment.
func ExtractBubbleText(bubble *RawBubble) string {
	var parts []string

	if bubble.Text != "" {
		parts = append(parts, bubble.Text)
	}

	if bubble.Text == "" && bubble.RichText != "" {
		if rich := extractRichText(bubble.RichText); rich != "" {
			parts = append(parts, rich)
		}
	}

	for _, block := range bubble.CodeBlocks {
		if block.Content == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("```%s\n%s\n```", block.Language, block.Content))
	}

	return strings.Join(parts, "\n\n")
}

// extractRichText walks the richText node tree and concatenates text nodes,
// fencing code nodes. Returns "" when the payload does not parse.
func extractRichText(richTextJSON string) string {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(richTextJSON), &data); err != nil {
		LogDebug("richText parse failed: %v", err)
		return ""
	}

	if root, ok := data["root"].(map[string]interface{}); ok {
		if children, ok := root["children"].([]interface{}); ok {
			return strings.TrimSpace(richTextChildren(children))
		}
	}
	if children, ok := data["children"].([]interface{}); ok {
		return strings.TrimSpace(richTextChildren(children))
	}
	return ""
}

func richTextChildren(children []interface{}) string {
	var b strings.Builder
	for _, child := range children {
		node, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		nodeType, _ := node["type"].(string)
		text, _ := node["text"].(string)

		switch nodeType {
		case "text":
			b.WriteString(text)
		case "linebreak", "paragraph":
			if inner, ok := node["children"].([]interface{}); ok {
				b.WriteString(richTextChildren(inner))
			}
			b.WriteString("\n")
		case "code":
			if inner, ok := node["children"].([]interface{}); ok {
				if code := richTextChildren(inner); code != "" {
					fmt.Fprintf(&b, "\n```\n%s\n```\n", strings.TrimRight(code, "\n"))
				}
			}
		default:
			if text != "" {
				b.WriteString(text)
			}
			if inner, ok := node["children"].([]interface{}); ok {
				b.WriteString(richTextChildren(inner))
			}
		}
	}
	return b.String()
}
