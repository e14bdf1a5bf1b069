package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maksy5310/cursor-transcript/internal"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the storage databases",
	Long: `Report what the tool can see in Cursor's storage: which stores are
present, how many composer and fragment rows each holds, and any
assembly diagnostics. Useful when a conversation is missing or renders
incompletely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		var cleanup func() error
		if copyDB {
			paths, cleanup, err = internal.CopyStoragePaths(paths)
			if err != nil {
				return fmt.Errorf("failed to copy database files: %w", err)
			}
			defer runCleanup(cleanup)
		}

		fmt.Printf("Base path:         %s\n", paths.BasePath)
		fmt.Printf("Global storage:    %s (present: %v)\n", paths.GlobalStorage, paths.GlobalStorageExists())
		fmt.Printf("Workspace storage: %s\n", paths.WorkspaceStorage)
		if paths.AgentStoragePath != "" {
			fmt.Printf("Agent storage:     %s (present: %v)\n", paths.AgentStoragePath, paths.HasAgentStorage())
		}
		fmt.Println()

		if paths.GlobalStorageExists() {
			if err := inspectGlobalStorage(paths); err != nil {
				internal.PrintError(fmt.Sprintf("global storage: %v", err))
			}
		}

		if paths.HasAgentStorage() {
			storeDBs, err := paths.FindAgentStoreDBs()
			if err != nil {
				internal.PrintError(fmt.Sprintf("agent storage: %v", err))
			} else {
				fmt.Printf("Agent stores: %d store.db file(s)\n", len(storeDBs))
			}
		}

		workspaces, _ := internal.DetectWorkspaces(paths.BasePath)
		fmt.Printf("Workspaces:   %d known\n", len(workspaces))
		return nil
	},
}

func inspectGlobalStorage(paths internal.StoragePaths) error {
	db, err := internal.OpenDatabase(paths.GlobalStorageDBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	composers, err := internal.LoadComposers(db)
	if err != nil {
		return err
	}
	grouped, err := internal.LoadAllBubbles(db)
	if err != nil {
		return err
	}

	totalBubbles := 0
	for _, bubbles := range grouped {
		totalBubbles += len(bubbles)
	}
	fmt.Printf("Composer rows: %d\n", len(composers))
	fmt.Printf("Fragment rows: %d across %d conversation(s)\n", totalBubbles, len(grouped))

	orphaned := 0
	known := make(map[string]bool, len(composers))
	for _, composer := range composers {
		known[composer.ComposerID] = true
	}
	for composerID := range grouped {
		if !known[composerID] {
			orphaned++
		}
	}
	if orphaned > 0 {
		fmt.Printf("Orphaned fragment groups (no composer row): %d\n", orphaned)
	}

	conversations := internal.NewAssembler().AssembleAll(composers, grouped)
	diagnostics := 0
	for _, conv := range conversations {
		diagnostics += len(conv.Diagnostics)
		if verbose {
			for _, diag := range conv.Diagnostics {
				fmt.Printf("  %s: %s\n", shortID(conv.ID), diag)
			}
		}
	}
	fmt.Printf("Assembly diagnostics: %d\n", diagnostics)
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
