package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// WorkspaceInfo describes one entry under workspaceStorage.
type WorkspaceInfo struct {
	Hash string
	Path string
	Name string
}

// DetectWorkspaces reads the workspaceStorage directory and returns the known
// workspaces keyed by hash. A missing directory yields an empty map.
func DetectWorkspaces(basePath string) (map[string]*WorkspaceInfo, error) {
	workspaceStorage := filepath.Join(basePath, "workspaceStorage")
	workspaces := make(map[string]*WorkspaceInfo)

	entries, err := os.ReadDir(workspaceStorage)
	if err != nil {
		return workspaces, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		hash := entry.Name()
		info := &WorkspaceInfo{Hash: hash}

		workspaceJSONPath := filepath.Join(workspaceStorage, hash, "workspace.json")
		if data, err := os.ReadFile(workspaceJSONPath); err == nil {
			var workspaceData struct {
				Folder string `json:"folder"`
			}
			if err := json.Unmarshal(data, &workspaceData); err == nil {
				info.Path = strings.TrimPrefix(workspaceData.Folder, "file://")
				if info.Path != "" {
					info.Name = filepath.Base(info.Path)
				}
			}
		}

		workspaces[hash] = info
	}

	return workspaces, nil
}

// AssignWorkspaces fills in the Workspace field of each conversation by
// matching its touched file paths against known workspace folders. Only
// absolute paths can be matched; relative paths leave the field empty.
func AssignWorkspaces(conversations []*Conversation, workspaces map[string]*WorkspaceInfo) {
	for _, conv := range conversations {
		if conv.Workspace != "" {
			continue
		}
		for _, file := range conv.TouchedFiles {
			if !filepath.IsAbs(file) {
				continue
			}
			for _, workspace := range workspaces {
				if workspace.Path == "" || workspace.Name == "" {
					continue
				}
				if strings.HasPrefix(file, workspace.Path+string(filepath.Separator)) {
					conv.Workspace = workspace.Name
					break
				}
			}
			if conv.Workspace != "" {
				break
			}
		}
	}
}
