package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/maksy5310/cursor-transcript/internal"
)

// YAMLExporter writes the conversation as YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(conv)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
