package export

import (
	"encoding/json"
	"io"

	"github.com/maksy5310/cursor-transcript/internal"
)

// JSONExporter writes the conversation as pretty-printed JSON.
type JSONExporter struct{}

func (e *JSONExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(conv)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
