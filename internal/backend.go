package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// GetStoragePaths resolves the storage locations, honoring a custom path
// which may point at a state.vscdb file or at a Cursor User directory.
func GetStoragePaths(custom string) (StoragePaths, error) {
	if custom == "" {
		return DetectStoragePaths()
	}

	info, err := os.Stat(custom)
	if err != nil {
		return StoragePaths{}, fmt.Errorf("storage path %s: %w", custom, err)
	}
	if !info.IsDir() {
		// A database file: treat its directory as globalStorage.
		dir := filepath.Dir(custom)
		return StoragePaths{
			GlobalStorage:    dir,
			WorkspaceStorage: filepath.Join(filepath.Dir(dir), "workspaceStorage"),
			BasePath:         filepath.Dir(dir),
		}, nil
	}
	if strings.EqualFold(filepath.Base(custom), "globalStorage") {
		base := filepath.Dir(custom)
		return StoragePaths{
			GlobalStorage:    custom,
			WorkspaceStorage: filepath.Join(base, "workspaceStorage"),
			BasePath:         base,
		}, nil
	}
	return StoragePaths{
		GlobalStorage:    filepath.Join(custom, "globalStorage"),
		WorkspaceStorage: filepath.Join(custom, "workspaceStorage"),
		BasePath:         custom,
	}, nil
}

// CopyStoragePaths copies the database files to a temporary directory so a
// running editor holding write locks cannot interfere. The returned cleanup
// removes the copies.
func CopyStoragePaths(paths StoragePaths) (StoragePaths, func() error, error) {
	tempDir, err := os.MkdirTemp("", "cursor-transcript-")
	if err != nil {
		return paths, nil, err
	}
	cleanup := func() error { return os.RemoveAll(tempDir) }

	copied := paths
	if paths.GlobalStorageExists() {
		dst := filepath.Join(tempDir, "globalStorage")
		if err := os.MkdirAll(dst, 0755); err != nil {
			_ = cleanup()
			return paths, nil, err
		}
		if err := copyFile(paths.GlobalStorageDBPath(), filepath.Join(dst, "state.vscdb")); err != nil {
			_ = cleanup()
			return paths, nil, err
		}
		copied.GlobalStorage = dst
	}
	return copied, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Backend loads conversations from whichever stores are present: the editor's
// globalStorage database, the agent CLI stores, or both.
type Backend struct {
	paths StoragePaths
}

func NewBackend(paths StoragePaths) *Backend {
	return &Backend{paths: paths}
}

// CacheKey identifies the primary store for cache validation.
func (b *Backend) CacheKey() string {
	if b.paths.GlobalStorageExists() {
		return b.paths.GlobalStorageDBPath()
	}
	if b.paths.HasAgentStorage() {
		return b.paths.AgentStoragePath
	}
	return ""
}

// LoadConversations assembles conversations from every available store,
// associates workspaces, and removes duplicates.
func (b *Backend) LoadConversations() ([]*Conversation, error) {
	var conversations []*Conversation

	if b.paths.GlobalStorageExists() {
		db, err := OpenDatabase(b.paths.GlobalStorageDBPath())
		if err != nil {
			return nil, err
		}
		loaded, err := LoadConversations(db)
		_ = db.Close()
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, loaded...)
	}

	if b.paths.HasAgentStorage() {
		storeDBs, err := b.paths.FindAgentStoreDBs()
		if err != nil {
			LogWarn("agent storage scan failed: %v", err)
		} else if len(storeDBs) > 0 {
			composers, grouped := NewAgentStoreReader(storeDBs).LoadAll()
			conversations = append(conversations, NewAssembler().AssembleAll(composers, grouped)...)
		}
	}

	if len(conversations) == 0 && b.CacheKey() == "" {
		return nil, fmt.Errorf("no Cursor storage found; use --storage to point at a state.vscdb file")
	}

	if workspaces, err := DetectWorkspaces(b.paths.BasePath); err == nil && len(workspaces) > 0 {
		AssignWorkspaces(conversations, workspaces)
	}

	return NewDeduplicator().Deduplicate(conversations), nil
}

// LoadConversation finds one conversation by ID or unique ID prefix across
// every available store.
func (b *Backend) LoadConversation(id string) (*Conversation, error) {
	conversations, err := b.LoadConversations()
	if err != nil {
		return nil, err
	}
	var match *Conversation
	for _, conv := range conversations {
		if conv.ID == id {
			return conv, nil
		}
		if strings.HasPrefix(conv.ID, id) {
			if match != nil {
				return nil, &AssembleError{ComposerID: id, Err: errAmbiguousID}
			}
			match = conv
		}
	}
	if match == nil {
		return nil, &AssembleError{ComposerID: id, Err: errNotFound}
	}
	return match, nil
}
