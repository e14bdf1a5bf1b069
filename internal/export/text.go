package export

import (
	"fmt"
	"io"

	"github.com/maksy5310/cursor-transcript/internal"
)

// TextExporter writes a plain text transcript, one "role: content" block per
// message, with tool calls reduced to a single line.
type TextExporter struct{}

func (e *TextExporter) Export(conv *internal.Conversation, w io.Writer) error {
	name := conv.Name
	if name == "" {
		name = conv.ID
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", name); err != nil {
		return err
	}

	for _, msg := range conv.Messages {
		if msg.IsEmpty() {
			continue
		}
		if msg.Text != "" {
			if _, err := fmt.Fprintf(w, "%s: %s\n\n", msg.Role, msg.Text); err != nil {
				return err
			}
		}
		if inv := msg.ToolData(); inv != nil {
			if _, err := fmt.Fprintf(w, "%s: [tool: %s]\n\n", msg.Role, inv.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *TextExporter) Extension() string {
	return "txt"
}
