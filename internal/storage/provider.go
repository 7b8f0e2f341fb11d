// Package storage defines the workspace file-system abstraction.
package storage

import "time"

// FileInfo describes one Markdown file inside the workspace.
type FileInfo struct {
	// Path is relative to the workspace root.
	Path      string
	UpdatedAt time.Time
}

// Provider is the interface for workspace file operations. All paths are
// relative to the workspace root; implementations must reject paths that
// escape it.
type Provider interface {
	// List returns every .md file directly inside dir, in directory-listing
	// order. It does not recurse.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
	// Write atomically replaces the file at path with content, creating
	// parent directories as needed.
	Write(path string, content []byte) error
}
