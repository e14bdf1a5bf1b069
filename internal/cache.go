package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheManager persists assembled conversations so repeat invocations avoid
// re-reading the SQLite stores. The cache holds one JSON file per
// conversation plus a YAML index.
type CacheManager struct {
	cacheDir string
}

type CacheMetadata struct {
	DatabasePath    string    `json:"database_path" yaml:"database_path"`
	DatabaseModTime time.Time `json:"database_mod_time" yaml:"database_mod_time"`
	CacheVersion    string    `json:"cache_version" yaml:"cache_version"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

type ConversationIndexEntry struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name,omitempty"`
	CreatedAt    int64  `yaml:"created_at,omitempty"`
	UpdatedAt    int64  `yaml:"updated_at,omitempty"`
	MessageCount int    `yaml:"message_count"`
	Workspace    string `yaml:"workspace,omitempty"`
}

type ConversationIndex struct {
	Conversations []ConversationIndexEntry `yaml:"conversations"`
	Metadata      CacheMetadata            `yaml:"metadata"`
}

const cacheVersion = "1.0"

func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{cacheDir: cacheDir}
}

func (cm *CacheManager) CacheDir() string {
	return cm.cacheDir
}

func (cm *CacheManager) indexPath() string {
	return filepath.Join(cm.cacheDir, "conversations.yaml")
}

func (cm *CacheManager) conversationPath(id string) string {
	return filepath.Join(cm.cacheDir, fmt.Sprintf("conversation_%s.json", id))
}

// IsCacheValid reports whether the cache was built from the given database in
// its current state.
func (cm *CacheManager) IsCacheValid(dbPath string) bool {
	index, err := cm.LoadIndex()
	if err != nil {
		return false
	}
	if index.Metadata.DatabasePath != dbPath {
		return false
	}
	dbInfo, err := os.Stat(dbPath)
	if err != nil {
		return false
	}
	return index.Metadata.DatabaseModTime.Equal(dbInfo.ModTime())
}

func (cm *CacheManager) LoadIndex() (*ConversationIndex, error) {
	data, err := os.ReadFile(cm.indexPath())
	if err != nil {
		return nil, err
	}
	var index ConversationIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache index: %w", err)
	}
	return &index, nil
}

func (cm *CacheManager) SaveConversation(conv *Conversation) error {
	if err := os.MkdirAll(cm.cacheDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return os.WriteFile(cm.conversationPath(conv.ID), data, 0644)
}

func (cm *CacheManager) LoadConversation(id string) (*Conversation, error) {
	data, err := os.ReadFile(cm.conversationPath(id))
	if err != nil {
		return nil, err
	}
	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conv, nil
}

// SaveConversations writes every conversation and rebuilds the index.
func (cm *CacheManager) SaveConversations(conversations []*Conversation, dbPath string) error {
	if err := os.MkdirAll(cm.cacheDir, 0755); err != nil {
		return err
	}
	dbInfo, err := os.Stat(dbPath)
	if err != nil {
		return err
	}

	now := time.Now()
	index := ConversationIndex{
		Conversations: make([]ConversationIndexEntry, 0, len(conversations)),
		Metadata: CacheMetadata{
			DatabasePath:    dbPath,
			DatabaseModTime: dbInfo.ModTime(),
			CacheVersion:    cacheVersion,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}

	for _, conv := range conversations {
		if err := cm.SaveConversation(conv); err != nil {
			LogWarn("failed to cache conversation %s: %v", conv.ID, err)
			continue
		}
		index.Conversations = append(index.Conversations, ConversationIndexEntry{
			ID:           conv.ID,
			Name:         conv.Name,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
			Workspace:    conv.Workspace,
		})
	}

	data, err := yaml.Marshal(&index)
	if err != nil {
		return fmt.Errorf("failed to marshal cache index: %w", err)
	}
	return os.WriteFile(cm.indexPath(), data, 0644)
}

// LoadConversations reads every cached conversation listed in the index.
func (cm *CacheManager) LoadConversations() ([]*Conversation, error) {
	index, err := cm.LoadIndex()
	if err != nil {
		return nil, err
	}
	conversations := make([]*Conversation, 0, len(index.Conversations))
	for _, entry := range index.Conversations {
		conv, err := cm.LoadConversation(entry.ID)
		if err != nil {
			LogDebug("skipping cached conversation %s: %v", entry.ID, err)
			continue
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

// ClearCache removes the index and every cached conversation it lists.
func (cm *CacheManager) ClearCache() error {
	if index, err := cm.LoadIndex(); err == nil {
		for _, entry := range index.Conversations {
			_ = os.Remove(cm.conversationPath(entry.ID))
		}
	}
	if err := os.Remove(cm.indexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
