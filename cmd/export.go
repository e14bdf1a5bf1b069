package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maksy5310/cursor-transcript/internal"
	"github.com/maksy5310/cursor-transcript/internal/export"
)

var (
	exportFormat    string
	exportOutputDir string
	exportWorkspace string
	exportID        string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations to files",
	Long: `Export conversations in one of the supported formats
(md, html, txt, json, jsonl, yaml, summary).

By default every conversation is exported. Use --id to export a single
conversation or --workspace to filter by workspace name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		conversations, cleanup, err := loadConversations()
		if err != nil {
			return err
		}
		defer runCleanup(cleanup)

		if exportID != "" {
			conv, err := findConversation(conversations, exportID)
			if err != nil {
				return err
			}
			conversations = []*internal.Conversation{conv}
		}
		if exportWorkspace != "" {
			filtered := conversations[:0]
			for _, conv := range conversations {
				if strings.EqualFold(conv.Workspace, exportWorkspace) {
					filtered = append(filtered, conv)
				}
			}
			conversations = filtered
		}

		if len(conversations) == 0 {
			internal.PrintInfo("No conversations matched")
			return nil
		}

		if err := os.MkdirAll(exportOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		err = internal.ShowProgress(context.Background(),
			fmt.Sprintf("Exporting %d conversation(s) as %s", len(conversations), exportFormat),
			func() error {
				for _, conv := range conversations {
					if err := exportConversation(exporter, conv); err != nil {
						internal.LogWarn("Failed to export %s: %v", conv.ID, err)
						continue
					}
					exported++
				}
				return nil
			})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Exported %d conversation(s) to %s", exported, exportOutputDir))
		return nil
	},
}

func exportConversation(exporter export.Exporter, conv *internal.Conversation) error {
	path := filepath.Join(exportOutputDir, exportFileName(conv, exporter.Extension()))
	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
	}
	if err := exporter.Export(conv, f); err != nil {
		_ = f.Close()
		return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
	}
	return nil
}

func exportFileName(conv *internal.Conversation, ext string) string {
	name := conv.Name
	if name == "" {
		name = conv.ID
	}
	name = sanitizeFileName(name)
	if name == "" {
		name = conv.ID
	}
	return fmt.Sprintf("%s_%s.%s", name, shortID(conv.ID), ext)
}

func sanitizeFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if len(mapped) > 60 {
		mapped = mapped[:60]
	}
	return strings.Trim(mapped, "._")
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Output format (md, html, txt, json, jsonl, yaml, summary)")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&exportWorkspace, "workspace", "", "Only export conversations from this workspace")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Only export the conversation with this ID or ID prefix")
}
