package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/maksy5310/cursor-transcript/internal"
)

var (
	listWorkspace  bool
	listClearCache bool
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	workspaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available conversations",
	Long:  `List every conversation found in Cursor's storage with its metadata.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listClearCache {
			if err := internal.NewCacheManager(cacheDir()).ClearCache(); err != nil {
				internal.LogWarn("Failed to clear cache: %v", err)
			}
		}

		conversations, cleanup, err := loadConversations()
		if err != nil {
			return err
		}
		defer runCleanup(cleanup)

		if len(conversations) == 0 {
			internal.PrintInfo("No conversations found")
			return nil
		}

		sort.Slice(conversations, func(i, j int) bool {
			return conversations[i].UpdatedAt > conversations[j].UpdatedAt
		})

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		header := "ID\tNAME\tMODE\tMESSAGES\tUPDATED"
		if listWorkspace {
			header += "\tWORKSPACE"
		}
		fmt.Fprintln(w, headerStyle.Render(header))

		for _, conv := range conversations {
			name := conv.Name
			if name == "" {
				name = "(untitled)"
			}
			row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
				idStyle.Render(shortID(conv.ID)),
				name,
				conv.Mode,
				countStyle.Render(fmt.Sprintf("%d", len(conv.Messages))),
				dateStyle.Render(formatUpdated(conv.UpdatedAt)),
			)
			if listWorkspace {
				row += "\t" + workspaceStyle.Render(conv.Workspace)
			}
			fmt.Fprintln(w, row)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d conversation(s)\n", len(conversations))
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatUpdated(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspace, "workspace", false, "Include the workspace column")
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Clear the conversation cache before listing")
}
