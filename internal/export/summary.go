package export

import (
	"io"

	"github.com/maksy5310/cursor-transcript/internal"
)

// SummaryExporter writes the short natural-language digest of a conversation.
type SummaryExporter struct{}

func (e *SummaryExporter) Export(conv *internal.Conversation, w io.Writer) error {
	_, err := io.WriteString(w, internal.Summarize(conv).Text())
	return err
}

func (e *SummaryExporter) Extension() string {
	return "txt"
}
