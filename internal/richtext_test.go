package internal

import (
	"strings"
	"testing"
)

func TestExtractBubbleTextPlainWins(t *testing.T) {
	bubble := &RawBubble{
		Text:     "plain body",
		RichText: `{"root":{"children":[{"type":"text","text":"rich body"}]}}`,
	}
	if got := ExtractBubbleText(bubble); got != "plain body" {
		t.Errorf("ExtractBubbleText() = %q", got)
	}
}

func TestExtractBubbleTextRichFallback(t *testing.T) {
	bubble := &RawBubble{
		RichText: `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"hello "},{"type":"text","text":"world"}]}]}}`,
	}
	if got := ExtractBubbleText(bubble); got != "hello world" {
		t.Errorf("ExtractBubbleText() = %q", got)
	}
}

func TestExtractBubbleTextRichCode(t *testing.T) {
	bubble := &RawBubble{
		RichText: `{"root":{"children":[{"type":"code","children":[{"type":"text","text":"x := 1"}]}]}}`,
	}
	got := ExtractBubbleText(bubble)
	if !strings.Contains(got, "```\nx := 1\n```") {
		t.Errorf("ExtractBubbleText() = %q", got)
	}
}

func TestExtractBubbleTextBadRichText(t *testing.T) {
	bubble := &RawBubble{RichText: "{not json"}
	if got := ExtractBubbleText(bubble); got != "" {
		t.Errorf("unparsable richText should yield nothing, got %q", got)
	}
}

func TestExtractBubbleTextCodeBlocks(t *testing.T) {
	bubble := &RawBubble{
		Text: "see below",
		CodeBlocks: []CodeBlock{
			{Language: "go", Content: "func main() {}"},
			{Content: ""},
		},
	}
	got := ExtractBubbleText(bubble)
	if got != "see below\n\n```go\nfunc main() {}\n```" {
		t.Errorf("ExtractBubbleText() = %q", got)
	}
}
