package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maksy5310/cursor-transcript/internal"
)

var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Render one conversation as Markdown",
	Long: `Render a single conversation as a Markdown transcript on stdout.

The argument may be a full conversation ID or a unique prefix of one.
Use 'cursor-transcript list' to see the available IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversations, cleanup, err := loadConversations()
		if err != nil {
			return err
		}
		defer runCleanup(cleanup)

		conv, err := findConversation(conversations, args[0])
		if err != nil {
			return err
		}

		fmt.Print(internal.RenderTranscript(conv))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
