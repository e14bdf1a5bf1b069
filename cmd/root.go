package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maksy5310/cursor-transcript/internal"
)

var (
	verbose     bool
	storagePath string
	copyDB      bool
	noCache     bool
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cursor-transcript",
	Short: "Assemble and render Cursor conversation transcripts",
	Long: `A CLI tool that reads Cursor's conversation storage, assembles the
composer records with their message fragments, and renders readable
Markdown transcripts with tool call details.

Quick Start:
  cursor-transcript list                  # List all conversations
  cursor-transcript show <id>             # Render one conversation
  cursor-transcript export --format md    # Export everything as Markdown
  cursor-transcript summarize <id>        # One-paragraph digest`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to database file or storage directory)")
	rootCmd.PersistentFlags().BoolVar(&copyDB, "copy", false, "Copy database files to a temporary location to avoid locking issues")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the conversation cache")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConversations resolves the storage paths and loads every conversation,
// going through the cache when it is still valid for the underlying store.
// The returned cleanup is non-nil when --copy made temporary database copies.
func loadConversations() ([]*internal.Conversation, func() error, error) {
	paths, err := internal.GetStoragePaths(storagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get storage paths: %w", err)
	}

	var cleanup func() error
	if copyDB {
		paths, cleanup, err = internal.CopyStoragePaths(paths)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to copy database files: %w", err)
		}
	}

	backend := internal.NewBackend(paths)
	cacheManager := internal.NewCacheManager(cacheDir())
	cacheKey := backend.CacheKey()

	if !noCache && cacheKey != "" && cacheManager.IsCacheValid(cacheKey) {
		conversations, err := cacheManager.LoadConversations()
		if err == nil && len(conversations) > 0 {
			internal.LogInfo("Loaded %d conversation(s) from cache", len(conversations))
			return conversations, cleanup, nil
		}
		internal.LogWarn("Cache load failed, reading storage: %v", err)
	}

	conversations, err := backend.LoadConversations()
	if err != nil {
		if cleanup != nil {
			_ = cleanup()
		}
		return nil, nil, err
	}

	if !noCache && cacheKey != "" {
		if err := cacheManager.SaveConversations(conversations, cacheKey); err != nil {
			internal.LogWarn("Failed to write cache: %v", err)
		}
	}

	return conversations, cleanup, nil
}

func cacheDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".cursor-transcript-cache")
	}
	return filepath.Join(homeDir, ".cursor-transcript-cache")
}

func runCleanup(cleanup func() error) {
	if cleanup == nil {
		return
	}
	if err := cleanup(); err != nil {
		internal.LogWarn("Failed to clean up temporary files: %v", err)
	}
}

// findConversation matches an ID or unique ID prefix against the loaded set.
func findConversation(conversations []*internal.Conversation, id string) (*internal.Conversation, error) {
	var match *internal.Conversation
	for _, conv := range conversations {
		if conv.ID == id {
			return conv, nil
		}
		if len(id) >= 4 && len(conv.ID) > len(id) && conv.ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("identifier %q matches multiple conversations", id)
			}
			match = conv
		}
	}
	if match == nil {
		return nil, fmt.Errorf("conversation %q not found", id)
	}
	return match, nil
}
