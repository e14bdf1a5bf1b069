package export

import (
	"fmt"
	"io"

	"github.com/maksy5310/cursor-transcript/internal"
)

// Exporter writes a conversation in one output format.
type Exporter interface {
	Export(conv *internal.Conversation, w io.Writer) error
	Extension() string
}

// NewExporter returns the exporter for the given format name.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	case "txt", "text":
		return &TextExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "summary":
		return &SummaryExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: md, html, txt, json, jsonl, yaml, summary)", format)
	}
}
