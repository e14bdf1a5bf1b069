package export

import (
	"io"

	"github.com/maksy5310/cursor-transcript/internal"
)

// MarkdownExporter renders a conversation as a Markdown transcript.
type MarkdownExporter struct{}

// Export writes the rendered transcript to w.
func (e *MarkdownExporter) Export(conv *internal.Conversation, w io.Writer) error {
	_, err := io.WriteString(w, internal.RenderTranscript(conv))
	return err
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
