package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/maksy5310/cursor-transcript/internal"
)

// JSONLExporter writes one JSON object per message, suitable for streaming
// consumers.
type JSONLExporter struct{}

func (e *JSONLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, msg := range conv.Messages {
		obj := map[string]interface{}{
			"conversation_id": conv.ID,
			"role":            msg.Role,
			"content":         msg.Text,
		}
		if msg.Timestamp != "" {
			obj["timestamp"] = msg.Timestamp
		}
		if inv := msg.ToolData(); inv != nil {
			obj["tool"] = inv.Name
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
