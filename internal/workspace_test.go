package internal

import (
	"path/filepath"
	"testing"

	"github.com/maksy5310/cursor-transcript/testutil"
)

func TestDetectWorkspaces(t *testing.T) {
	basePath := t.TempDir()
	testutil.CreateWorkspaceFixture(t, basePath, "hash-1", "file:///home/dev/project-a")
	testutil.CreateWorkspaceFixture(t, basePath, "hash-2", "/home/dev/project-b")

	workspaces, err := DetectWorkspaces(basePath)
	if err != nil {
		t.Fatalf("DetectWorkspaces() error = %v", err)
	}
	if len(workspaces) != 2 {
		t.Fatalf("got %d workspaces, want 2", len(workspaces))
	}

	if ws := workspaces["hash-1"]; ws == nil || ws.Path != "/home/dev/project-a" || ws.Name != "project-a" {
		t.Errorf("hash-1 = %+v", ws)
	}
	if ws := workspaces["hash-2"]; ws == nil || ws.Name != "project-b" {
		t.Errorf("hash-2 = %+v", ws)
	}
}

func TestDetectWorkspacesMissingDir(t *testing.T) {
	workspaces, err := DetectWorkspaces(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("DetectWorkspaces() error = %v", err)
	}
	if len(workspaces) != 0 {
		t.Errorf("got %d workspaces, want 0", len(workspaces))
	}
}

func TestAssignWorkspaces(t *testing.T) {
	workspaces := map[string]*WorkspaceInfo{
		"h1": {Hash: "h1", Path: "/home/dev/project-a", Name: "project-a"},
		"h2": {Hash: "h2", Path: "/home/dev/project-b", Name: "project-b"},
	}

	matched := &Conversation{ID: "c1", TouchedFiles: []string{"/home/dev/project-b/main.go"}}
	relativeOnly := &Conversation{ID: "c2", TouchedFiles: []string{"main.go"}}
	preassigned := &Conversation{ID: "c3", Workspace: "already", TouchedFiles: []string{"/home/dev/project-a/x.go"}}
	unmatched := &Conversation{ID: "c4", TouchedFiles: []string{"/tmp/elsewhere/x.go"}}

	AssignWorkspaces([]*Conversation{matched, relativeOnly, preassigned, unmatched}, workspaces)

	if matched.Workspace != "project-b" {
		t.Errorf("matched.Workspace = %q", matched.Workspace)
	}
	if relativeOnly.Workspace != "" {
		t.Errorf("relative paths must not match: %q", relativeOnly.Workspace)
	}
	if preassigned.Workspace != "already" {
		t.Errorf("existing assignment overwritten: %q", preassigned.Workspace)
	}
	if unmatched.Workspace != "" {
		t.Errorf("unmatched.Workspace = %q", unmatched.Workspace)
	}
}

func TestAssignWorkspacesNoPrefixConfusion(t *testing.T) {
	// /home/dev/project-a2 must not match workspace /home/dev/project-a.
	workspaces := map[string]*WorkspaceInfo{
		"h1": {Hash: "h1", Path: "/home/dev/project-a", Name: "project-a"},
	}
	conv := &Conversation{ID: "c1", TouchedFiles: []string{"/home/dev/project-a2/main.go"}}
	AssignWorkspaces([]*Conversation{conv}, workspaces)
	if conv.Workspace != "" {
		t.Errorf("sibling directory matched: %q", conv.Workspace)
	}
}
