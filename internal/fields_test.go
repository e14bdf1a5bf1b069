package internal

import (
	"reflect"
	"testing"
)

func TestResolveString(t *testing.T) {
	tests := []struct {
		name string
		obj  map[string]interface{}
		keys []string
		want string
	}{
		{
			name: "first key wins",
			obj:  map[string]interface{}{"name": "edit_file", "toolName": "other"},
			keys: []string{"name", "toolName"},
			want: "edit_file",
		},
		{
			name: "falls through empty string",
			obj:  map[string]interface{}{"name": "   ", "toolName": "grep"},
			keys: []string{"name", "toolName"},
			want: "grep",
		},
		{
			name: "falls through non-string",
			obj:  map[string]interface{}{"name": 42, "toolName": "grep"},
			keys: []string{"name", "toolName"},
			want: "grep",
		},
		{
			name: "trims whitespace",
			obj:  map[string]interface{}{"name": "  read_file  "},
			keys: []string{"name"},
			want: "read_file",
		},
		{
			name: "nil object",
			obj:  nil,
			keys: []string{"name"},
			want: "",
		},
		{
			name: "no match",
			obj:  map[string]interface{}{"other": "x"},
			keys: []string{"name"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveString(tt.obj, tt.keys...); got != tt.want {
				t.Errorf("ResolveString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMaybeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{
			name: "structured value passes through",
			in:   map[string]interface{}{"a": "b"},
			want: map[string]interface{}{"a": "b"},
		},
		{
			name: "object string is parsed",
			in:   `{"path":"main.go"}`,
			want: map[string]interface{}{"path": "main.go"},
		},
		{
			name: "array string is parsed",
			in:   `[1,2]`,
			want: []interface{}{float64(1), float64(2)},
		},
		{
			name: "quoted wrapper is unquoted once",
			in:   `"{\"path\":\"main.go\"}"`,
			want: map[string]interface{}{"path": "main.go"},
		},
		{
			name: "plain prose returned as-is",
			in:   "just some text",
			want: "just some text",
		},
		{
			name: "invalid JSON returned as-is",
			in:   `{"path": unterminated`,
			want: `{"path": unterminated`,
		},
		{
			name: "empty string returned as-is",
			in:   "",
			want: "",
		},
		{
			name: "nil passes through",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMaybeJSON(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMaybeJSON() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestAsMap(t *testing.T) {
	if m := AsMap(`{"a":1}`); m == nil || m["a"] != float64(1) {
		t.Errorf("AsMap(json string) = %v", m)
	}
	if m := AsMap("not json"); m != nil {
		t.Errorf("AsMap(prose) = %v, want nil", m)
	}
	if m := AsMap([]interface{}{1}); m != nil {
		t.Errorf("AsMap(array) = %v, want nil", m)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   int
		wantOK bool
	}{
		{"float64", float64(7), 7, true},
		{"int", 3, 3, true},
		{"int64", int64(9), 9, true},
		{"numeric string", "42", 42, true},
		{"padded numeric string", " 5 ", 5, true},
		{"prose string", "seven", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsInt(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AsInt(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveInt(t *testing.T) {
	obj := map[string]interface{}{"startLine": float64(3), "endLine": "12"}
	if n, ok := ResolveInt(obj, "startLine"); !ok || n != 3 {
		t.Errorf("ResolveInt(startLine) = (%d, %v)", n, ok)
	}
	if n, ok := ResolveInt(obj, "missing", "endLine"); !ok || n != 12 {
		t.Errorf("ResolveInt(endLine) = (%d, %v)", n, ok)
	}
	if _, ok := ResolveInt(nil, "x"); ok {
		t.Error("ResolveInt(nil) reported ok")
	}
}
