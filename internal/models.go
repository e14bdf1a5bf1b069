package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RawBubble is one conversation fragment exactly as Cursor stores it under
// the key bubbleId:<composerId>:<bubbleId>. Everything the renderer might
// need is carried through; loosely-typed tool payloads stay loosely typed
// and are interpreted downstream, never here.
type RawBubble struct {
	BubbleID           string                 `json:"bubbleId"`
	ComposerID         string                 `json:"composerId,omitempty"`
	Type               int                    `json:"type"` // 1=user, 2=assistant
	Text               string                 `json:"text,omitempty"`
	RichText           string                 `json:"richText,omitempty"`
	CodeBlocks         []CodeBlock            `json:"codeBlocks,omitempty"`
	Thinking           *ThinkingBlock         `json:"thinking,omitempty"`
	ThinkingDurationMs int64                  `json:"thinkingDurationMs,omitempty"`
	ToolFormerData     map[string]interface{} `json:"toolFormerData,omitempty"`
	ToolCallResults    []interface{}          `json:"toolCallResults,omitempty"`
	Capabilities       []interface{}          `json:"capabilities,omitempty"`
	AttachedCodeChunks []interface{}          `json:"attachedCodeChunks,omitempty"`
	FileLinks          []interface{}          `json:"fileLinks,omitempty"`
	Timestamp          int64                  `json:"timestamp,omitempty"` // unix ms
}

// CodeBlock is a fenced code snippet attached to a fragment.
type CodeBlock struct {
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
	URI      string `json:"uri,omitempty"`
}

// ThinkingBlock is the assistant's reasoning trace for one turn.
type ThinkingBlock struct {
	Text       string `json:"text,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

// ModelConfig is the model snapshot embedded in a composer header.
type ModelConfig struct {
	ModelName string `json:"modelName,omitempty"`
	MaxMode   bool   `json:"maxMode,omitempty"`
}

// RawComposer is one conversation header, stored under
// composerData:<composerId>. It owns its bubbles only by shared id; the
// fragments are fetched separately and re-joined by the assembler.
type RawComposer struct {
	ComposerID                  string               `json:"composerId"`
	Name                        string               `json:"name,omitempty"`
	FullConversationHeadersOnly []ConversationHeader `json:"fullConversationHeadersOnly,omitempty"`
	CreatedAt                   int64                `json:"createdAt,omitempty"`
	LastUpdatedAt               int64                `json:"lastUpdatedAt,omitempty"`
	ForceMode                   string               `json:"forceMode,omitempty"`
	UnifiedMode                 interface{}          `json:"unifiedMode,omitempty"`
	TotalLinesAdded             int                  `json:"totalLinesAdded,omitempty"`
	TotalLinesRemoved           int                  `json:"totalLinesRemoved,omitempty"`
	FilesChanged                int                  `json:"filesChanged,omitempty"`
	ModelConfig                 *ModelConfig         `json:"modelConfig,omitempty"`
}

// ConversationHeader associates one bubble id with the composer.
type ConversationHeader struct {
	BubbleID string `json:"bubbleId"`
	Type     int    `json:"type"`
}

// Composer operating modes.
const (
	ModeChat  = "chat"
	ModeAgent = "agent"
)

// Mode normalizes the header's operating mode to "chat" or "agent".
// forceMode wins when set; unifiedMode 2 historically meant agent.
func (rc *RawComposer) Mode() string {
	switch strings.ToLower(strings.TrimSpace(rc.ForceMode)) {
	case ModeAgent:
		return ModeAgent
	case ModeChat:
		return ModeChat
	}
	if n, ok := AsInt(rc.UnifiedMode); ok && n == 2 {
		return ModeAgent
	}
	if s, ok := rc.UnifiedMode.(string); ok && strings.EqualFold(strings.TrimSpace(s), ModeAgent) {
		return ModeAgent
	}
	return ModeChat
}

// GetCreatedAt converts the createdAt millisecond timestamp to time.Time.
func (rc *RawComposer) GetCreatedAt() time.Time {
	if rc.CreatedAt == 0 {
		return time.Time{}
	}
	return time.Unix(0, rc.CreatedAt*int64(time.Millisecond))
}

// GetLastUpdatedAt converts lastUpdatedAt, falling back to createdAt.
func (rc *RawComposer) GetLastUpdatedAt() time.Time {
	if rc.LastUpdatedAt == 0 {
		return rc.GetCreatedAt()
	}
	return time.Unix(0, rc.LastUpdatedAt*int64(time.Millisecond))
}

// GetTimestamp converts the bubble's millisecond timestamp to time.Time.
func (rb *RawBubble) GetTimestamp() time.Time {
	if rb.Timestamp == 0 {
		return time.Time{}
	}
	return time.Unix(0, rb.Timestamp*int64(time.Millisecond))
}

// ParseRawBubble parses a cursorDiskKV row into a RawBubble.
// Key format: bubbleId:<composerId>:<bubbleId>.
func ParseRawBubble(key, value string) (*RawBubble, error) {
	rest, ok := strings.CutPrefix(key, "bubbleId:")
	if !ok {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: fmt.Errorf("not a bubbleId key")}
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: fmt.Errorf("malformed bubbleId key")}
	}

	var bubble RawBubble
	if err := json.Unmarshal([]byte(value), &bubble); err != nil {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: err}
	}
	bubble.ComposerID = parts[0]
	bubble.BubbleID = parts[1]
	return &bubble, nil
}

// ParseRawComposer parses a cursorDiskKV row into a RawComposer.
// Key format: composerData:<composerId>.
func ParseRawComposer(key, value string) (*RawComposer, error) {
	id, ok := strings.CutPrefix(key, "composerData:")
	if !ok || id == "" {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: fmt.Errorf("not a composerData key")}
	}

	var composer RawComposer
	if err := json.Unmarshal([]byte(value), &composer); err != nil {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: err}
	}
	composer.ComposerID = id

	// Older stores carried a conversation[] array instead of headers.
	if len(composer.FullConversationHeadersOnly) == 0 {
		composer.FullConversationHeadersOnly = legacyHeaders(value)
	}
	return &composer, nil
}

// legacyHeaders extracts bubble references from the pre-headers
// conversation[] layout.
func legacyHeaders(value string) []ConversationHeader {
	var legacy struct {
		Conversation []struct {
			BubbleID string `json:"bubbleId"`
			Type     int    `json:"type"`
		} `json:"conversation"`
	}
	if err := json.Unmarshal([]byte(value), &legacy); err != nil {
		return nil
	}
	var headers []ConversationHeader
	for _, entry := range legacy.Conversation {
		if entry.BubbleID != "" {
			headers = append(headers, ConversationHeader{BubbleID: entry.BubbleID, Type: entry.Type})
		}
	}
	return headers
}

// Conversation is the normalized record produced by the assembler.
// Constructed once per request and never mutated afterwards.
type Conversation struct {
	ID           string                `json:"id"`
	Name         string                `json:"name,omitempty"`
	Mode         string                `json:"mode,omitempty"`
	Workspace    string                `json:"workspace,omitempty"`
	Model        string                `json:"model,omitempty"`
	CreatedAt    int64                 `json:"createdAt,omitempty"`
	UpdatedAt    int64                 `json:"updatedAt,omitempty"`
	LinesAdded   int                   `json:"linesAdded,omitempty"`
	LinesRemoved int                   `json:"linesRemoved,omitempty"`
	FilesChanged int                   `json:"filesChanged,omitempty"`
	Messages     []ConversationMessage `json:"messages"`
	TouchedFiles []string              `json:"touchedFiles,omitempty"`
	Stats        ConversationStats     `json:"stats"`
	Diagnostics  []string              `json:"-"`
}

// ConversationStats holds derived message and code counters.
type ConversationStats struct {
	MessageCount   int `json:"messageCount"`
	UserCount      int `json:"userCount"`
	AssistantCount int `json:"assistantCount"`
	ToolCallCount  int `json:"toolCallCount"`
	CodeLineCount  int `json:"codeLineCount"`
}

// Message roles. Role is never left ambiguous: type code 1 is always user;
// type code 2 is agent when the composer runs in agent mode, assistant
// otherwise; anything else is classified like code 2 with a diagnostic.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleAgent     = "agent"
	RoleSystem    = "system"
)

// ConversationMessage is one normalized turn. The raw tool payload is
// carried through untouched; the renderer, not the assembler, interprets it.
type ConversationMessage struct {
	BubbleID        string                 `json:"bubbleId,omitempty"`
	Role            string                 `json:"role"`
	Text            string                 `json:"text,omitempty"`
	Timestamp       string                 `json:"timestamp,omitempty"` // RFC3339
	TimestampMs     int64                  `json:"-"`
	Thinking        *ThinkingBlock         `json:"thinking,omitempty"`
	CodeBlocks      []CodeBlock            `json:"codeBlocks,omitempty"`
	ToolFormerData  map[string]interface{} `json:"toolFormerData,omitempty"`
	ToolCallResults []interface{}          `json:"toolCallResults,omitempty"`
	Capabilities    []interface{}          `json:"capabilities,omitempty"`
}

// IsEmpty reports whether the turn has nothing to render at all.
func (m *ConversationMessage) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == "" &&
		m.Thinking == nil &&
		len(m.CodeBlocks) == 0 &&
		m.ToolData() == nil
}
