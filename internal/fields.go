package internal

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Candidate key lists shared by the extractor, the assembler, and the
// formatters. Order matters: earlier keys win.
var (
	toolNameKeys = []string{"name", "toolName", "tool_name", "functionName", "function_name", "method", "action", "type"}
	filePathKeys = []string{"relativeWorkspacePath", "targetFile", "target_file", "path", "file_path", "filePath", "fileName", "file", "uri"}
)

// ResolveString returns the value of the first candidate key whose value is a
// non-empty string after trimming. Returns "" when obj is nil or no key
// matches. Key comparison is case-sensitive; name normalization is the
// caller's job.
func ResolveString(obj map[string]interface{}, keys ...string) string {
	if obj == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

// ResolveAny returns the first candidate key whose value is non-nil.
func ResolveAny(obj map[string]interface{}, keys ...string) interface{} {
	if obj == nil {
		return nil
	}
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// ParseMaybeJSON normalizes a field that is sometimes a JSON-encoded string
// and sometimes already structured. Non-strings pass through unchanged.
// Strings that parse as JSON are replaced by the parsed value; strings that
// do not are returned as-is. Never fails.
func ParseMaybeJSON(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return v
	}
	// A quoted-string payload may itself wrap a JSON document; unquote once.
	if trimmed[0] == '"' {
		var unquoted string
		if err := json.Unmarshal([]byte(trimmed), &unquoted); err == nil {
			inner := strings.TrimSpace(unquoted)
			if inner != "" && (inner[0] == '{' || inner[0] == '[') {
				trimmed = inner
			}
		}
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return v
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return v
	}
	return parsed
}

// AsMap runs ParseMaybeJSON and asserts the result to an object. Returns nil
// for anything that is not an object.
func AsMap(v interface{}) map[string]interface{} {
	m, _ := ParseMaybeJSON(v).(map[string]interface{})
	return m
}

// AsSlice runs ParseMaybeJSON and asserts the result to an array.
func AsSlice(v interface{}) []interface{} {
	s, _ := ParseMaybeJSON(v).([]interface{})
	return s
}

// AsInt coerces JSON numbers (float64 from generic decoding), integers, and
// numeric strings to an int. The second return reports whether v was numeric.
func AsInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// ResolveInt resolves the first candidate key with a numeric value.
func ResolveInt(obj map[string]interface{}, keys ...string) (int, bool) {
	if obj == nil {
		return 0, false
	}
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if n, ok := AsInt(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}
