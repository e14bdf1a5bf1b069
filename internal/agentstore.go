package internal

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// AgentStoreReader reads conversation records from cursor-agent CLI store.db
// files. Each store holds one session in a blobs table whose values may be
// plain JSON, base64 or hex encoded JSON, or JSON framed inside binary.
type AgentStoreReader struct {
	storeDBPaths []string
}

func NewAgentStoreReader(storeDBPaths []string) *AgentStoreReader {
	return &AgentStoreReader{storeDBPaths: storeDBPaths}
}

// LoadAll reads every store and returns the recovered composers with their
// fragments grouped by composer ID. Unreadable stores are logged and skipped.
func (r *AgentStoreReader) LoadAll() ([]*RawComposer, map[string][]*RawBubble) {
	var composers []*RawComposer
	grouped := make(map[string][]*RawBubble)
	for _, dbPath := range r.storeDBPaths {
		sessionComposer, bubbles, err := loadAgentSession(dbPath)
		if err != nil {
			LogWarn("skipping agent store %s: %v", dbPath, err)
			continue
		}
		if sessionComposer != nil {
			composers = append(composers, sessionComposer)
			grouped[sessionComposer.ComposerID] = bubbles
		}
	}
	return composers, grouped
}

func loadAgentSession(dbPath string) (*RawComposer, []*RawBubble, error) {
	db, err := OpenDatabase(dbPath)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	rows, err := queryBlobRows(db)
	if err != nil {
		return nil, nil, err
	}

	// The session ID is the store's parent directory name.
	sessionID := filepath.Base(filepath.Dir(dbPath))

	var composer *RawComposer
	var bubbles []*RawBubble
	for _, row := range rows {
		data, ok := decodeBlobValue(row.Value)
		if !ok {
			LogDebug("agent blob %s: undecodable value", row.Key)
			continue
		}
		if _, hasComposer := data["composerId"]; hasComposer {
			raw, _ := json.Marshal(data)
			parsed, err := ParseRawComposer("composerData:"+ResolveString(data, "composerId"), string(raw))
			if err != nil {
				LogDebug("agent blob %s: %v", row.Key, err)
				continue
			}
			composer = parsed
			continue
		}
		if bubble := agentBubbleFromData(data, sessionID, row.Key); bubble != nil {
			bubbles = append(bubbles, bubble)
		}
	}

	if composer == nil {
		if len(bubbles) == 0 {
			return nil, nil, nil
		}
		composer = &RawComposer{ComposerID: sessionID, ForceMode: ModeAgent}
	}
	for _, bubble := range bubbles {
		if bubble.ComposerID == "" {
			bubble.ComposerID = composer.ComposerID
		}
	}
	return composer, bubbles, nil
}

func queryBlobRows(db *sql.DB) ([]KeyValuePair, error) {
	var tableExists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT name FROM sqlite_master WHERE type='table' AND name='blobs'
	)`).Scan(&tableExists)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	if !tableExists {
		return nil, nil
	}
	rows, err := db.Query("SELECT id, data FROM blobs WHERE data IS NOT NULL")
	if err != nil {
		// Older stores use key/value column names.
		rows, err = db.Query("SELECT key, value FROM blobs WHERE value IS NOT NULL")
		if err != nil {
			return nil, &StorageError{Op: "query", Err: err}
		}
	}
	defer rows.Close()
	return scanKeyValueRows(rows)
}

// decodeBlobValue recovers a JSON object from a blob value, trying plain
// JSON, base64, hex, and finally JSON framed inside binary data.
func decodeBlobValue(value string) (map[string]interface{}, bool) {
	candidates := [][]byte{[]byte(value)}
	if decoded, err := tryBase64Decode(value); err == nil {
		candidates = append(candidates, decoded)
	}
	if decoded, err := tryHexDecode(value); err == nil {
		candidates = append(candidates, decoded)
	}
	for _, candidate := range candidates {
		var data map[string]interface{}
		if err := json.Unmarshal(candidate, &data); err == nil {
			return data, true
		}
		if framed, found := extractJSONFromBinary(candidate); found {
			if err := json.Unmarshal(framed, &data); err == nil {
				return data, true
			}
		}
	}
	return nil, false
}

func agentBubbleFromData(data map[string]interface{}, sessionID, key string) *RawBubble {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	if id := ResolveString(data, "bubbleId"); id != "" {
		composerID := ResolveString(data, "composerId", "chatId")
		if composerID == "" {
			composerID = sessionID
		}
		bubble, err := ParseRawBubble("bubbleId:"+composerID+":"+id, string(raw))
		if err != nil {
			return nil
		}
		return bubble
	}

	// cursor-agent message format: id, role, content[].
	role := ResolveString(data, "role")
	if role == "" {
		return nil
	}
	id := ResolveString(data, "id")
	if id == "" {
		id = key
	}
	bubble := &RawBubble{
		BubbleID:   id,
		ComposerID: sessionID,
		Type:       2,
	}
	if role == "user" {
		bubble.Type = 1
	}
	if content := AsSlice(data["content"]); content != nil {
		var parts []string
		for _, item := range content {
			itemMap := AsMap(item)
			if itemMap == nil {
				continue
			}
			if itemMap["type"] == "redacted-reasoning" {
				continue
			}
			if text := ResolveString(itemMap, "text", "data"); text != "" {
				parts = append(parts, text)
			}
		}
		bubble.Text = strings.Join(parts, "\n\n")
	} else {
		bubble.Text = ResolveString(data, "text", "content")
	}
	if ts, ok := ResolveInt(data, "timestamp", "createdAt"); ok {
		bubble.Timestamp = int64(ts)
	}
	return bubble
}

func tryBase64Decode(s string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.URLEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	if len(s)%4 != 0 {
		padded := s + strings.Repeat("=", 4-len(s)%4)
		if decoded, err := base64.StdEncoding.DecodeString(padded); err == nil {
			return decoded, nil
		}
	}
	return nil, fmt.Errorf("not base64 encoded")
}

func tryHexDecode(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	decoded, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("not hex encoded: %w", err)
	}
	return decoded, nil
}

// extractJSONFromBinary finds the first balanced JSON object inside binary
// data, respecting string literals and escapes.
func extractJSONFromBinary(data []byte) ([]byte, bool) {
	startIdx := bytes.IndexByte(data, '{')
	if startIdx == -1 {
		return nil, false
	}

	depth := 0
	inString := false
	escapeNext := false
	for i := startIdx; i < len(data); i++ {
		if escapeNext {
			escapeNext = false
			continue
		}
		switch data[i] {
		case '\\':
			escapeNext = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return data[startIdx : i+1], true
				}
			}
		}
	}
	return nil, false
}
