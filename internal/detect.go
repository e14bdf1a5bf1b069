package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// StoragePaths holds the detected locations of Cursor's on-disk stores.
type StoragePaths struct {
	WorkspaceStorage string // workspaceStorage directory
	GlobalStorage    string // globalStorage directory
	BasePath         string // base Cursor User directory
	AgentStoragePath string // cursor-agent CLI storage directory
}

// DetectStoragePaths locates the Cursor storage directories for the current
// operating system.
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var basePath string
	var agentStoragePath string
	switch runtime.GOOS {
	case "darwin":
		basePath = filepath.Join(home, "Library/Application Support/Cursor/User")
	case "linux":
		basePath = filepath.Join(home, ".config/Cursor/User")
		// The agent CLI has used two locations over time; prefer the newer one.
		configCursorChats := filepath.Join(home, ".config/cursor/chats")
		dotCursorChats := filepath.Join(home, ".cursor/chats")
		if info, err := os.Stat(configCursorChats); err == nil && info.IsDir() {
			agentStoragePath = configCursorChats
		} else {
			agentStoragePath = dotCursorChats
		}
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		basePath = filepath.Join(appData, "Cursor", "User")
	default:
		return StoragePaths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return StoragePaths{
		WorkspaceStorage: filepath.Join(basePath, "workspaceStorage"),
		GlobalStorage:    filepath.Join(basePath, "globalStorage"),
		BasePath:         basePath,
		AgentStoragePath: agentStoragePath,
	}, nil
}

// GlobalStorageDBPath returns the path of the globalStorage state.vscdb file.
func (sp StoragePaths) GlobalStorageDBPath() string {
	return filepath.Join(sp.GlobalStorage, "state.vscdb")
}

// GlobalStorageExists reports whether the globalStorage database is present.
func (sp StoragePaths) GlobalStorageExists() bool {
	_, err := os.Stat(sp.GlobalStorageDBPath())
	return err == nil
}

// HasAgentStorage reports whether the agent storage directory is present.
func (sp StoragePaths) HasAgentStorage() bool {
	if sp.AgentStoragePath == "" {
		return false
	}
	info, err := os.Stat(sp.AgentStoragePath)
	return err == nil && info.IsDir()
}

// FindAgentStoreDBs walks the agent storage directory collecting store.db
// paths, one per recorded agent session.
func (sp StoragePaths) FindAgentStoreDBs() ([]string, error) {
	if !sp.HasAgentStorage() {
		return nil, nil
	}

	var storeDBs []string
	err := filepath.Walk(sp.AgentStoragePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && info.Name() == "store.db" {
			storeDBs = append(storeDBs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan agent storage directory: %w", err)
	}
	return storeDBs, nil
}
