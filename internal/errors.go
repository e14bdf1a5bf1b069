package internal

import (
	"errors"
	"fmt"
)

var (
	errNotFound    = errors.New("conversation not found")
	errAmbiguousID = errors.New("identifier matches multiple conversations")
)

// Errors in this package are reserved for I/O and format boundaries. The
// assemble and render paths recover from malformed content locally and
// record diagnostics instead of returning errors.

// StorageError represents a failure accessing a storage database.
type StorageError struct {
	Path string
	Op   string // "open", "query", "scan"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents a failure decoding a stored record.
type ParseError struct {
	Source string // "globalStorage", "agentStorage"
	Key    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AssembleError represents a failure joining a composer with its fragments.
type AssembleError struct {
	ComposerID string
	Err        error
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("assemble error [%s]: %v", e.ComposerID, e.Err)
}

func (e *AssembleError) Unwrap() error {
	return e.Err
}

// ExportError represents a failure writing an exported document.
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
