package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/maksy5310/cursor-transcript/internal"
)

var summarizeAll bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize [conversation-id]",
	Short: "Print a short conversation digest",
	Long: `Print a one-paragraph digest of a conversation: its topic, turn
counts, duration, tool usage, and touched files.

With --all, digest every conversation in storage.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !summarizeAll && len(args) == 0 {
			return fmt.Errorf("a conversation ID is required unless --all is set")
		}

		conversations, cleanup, err := loadConversations()
		if err != nil {
			return err
		}
		defer runCleanup(cleanup)

		if !summarizeAll {
			conv, err := findConversation(conversations, args[0])
			if err != nil {
				return err
			}
			fmt.Print(internal.Summarize(conv).Text())
			return nil
		}

		sort.Slice(conversations, func(i, j int) bool {
			return conversations[i].UpdatedAt > conversations[j].UpdatedAt
		})
		for i, conv := range conversations {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s\n%s", shortID(conv.ID), internal.Summarize(conv).Text())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().BoolVar(&summarizeAll, "all", false, "Summarize every conversation")
}
