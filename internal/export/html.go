package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/maksy5310/cursor-transcript/internal"
)

// HTMLExporter renders the Markdown transcript to a standalone HTML page.
// The transcript embeds raw HTML for tool sections, so the converted body is
// run through the markup balancer before it is framed in the page template.
type HTMLExporter struct{}

var transcriptMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkhtml.WithUnsafe(),
	),
)

// Export converts the transcript to HTML and writes the full page to w.
func (e *HTMLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	transcript := internal.RenderTranscript(conv)

	var body bytes.Buffer
	if err := transcriptMarkdown.Convert([]byte(transcript), &body); err != nil {
		return fmt.Errorf("failed to convert transcript: %w", err)
	}

	title := conv.Name
	if title == "" {
		title = "Conversation " + conv.ID
	}

	_, err := fmt.Fprintf(w, pageTemplate, html.EscapeString(title), internal.BalanceMarkup(body.String()))
	return err
}

// Extension returns the file extension for this format.
func (e *HTMLExporter) Extension() string {
	return "html"
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; font-family: sans-serif; line-height: 1.5; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem; color: #444; }
pre { background: #f6f8fa; padding: 0.75rem; overflow-x: auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 0.25rem 0.5rem; }
details { margin: 0.5rem 0; }
summary { cursor: pointer; }
</style>
</head>
<body>
%s
</body>
</html>
`
