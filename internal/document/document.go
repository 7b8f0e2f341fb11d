// Package document loads Markdown documents and splits their YAML front
// matter from the body.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is one Markdown file of a document type. A malformed front matter
// block is recorded in Err; the document still participates in a validation
// run (as a parse failure) without aborting it.
type Document struct {
	// File is the base filename, e.g. "0001-first-decision.md".
	File string
	// Path is the workspace-relative path.
	Path string
	// Meta holds the parsed front matter. Nil when the file has no front
	// matter block or when parsing failed.
	Meta map[string]any
	// Body is everything after the front matter, opaque to validation.
	Body string
	// Err is the parse failure for this one file, if any.
	Err error

	Checksum  string
	UpdatedAt time.Time
}

const delim = "---"

// Parse splits raw Markdown into front matter metadata and body.
//
// A file without a leading "---" fence has no metadata and parses cleanly.
// An opened but unterminated fence, invalid YAML, or a non-mapping header is
// a parse failure: the header was clearly intended and cannot be trusted.
func Parse(data []byte) (map[string]any, string, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim+"\n")) && !bytes.HasPrefix(trimmed, []byte(delim+"\r\n")) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", fmt.Errorf("front matter fence is not closed")
	}

	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(after), "\n\r")

	var meta map[string]any
	if err := yaml.Unmarshal(block, &meta); err != nil {
		var probe any
		if yaml.Unmarshal(block, &probe) == nil {
			return nil, "", fmt.Errorf("front matter is not a key-value mapping")
		}
		return nil, "", fmt.Errorf("invalid front matter: %w", err)
	}
	return meta, body, nil
}

// Compose renders a document back to bytes from an ordered front matter
// block and a body.
func Compose(frontmatter, body string) []byte {
	var b strings.Builder
	b.WriteString(delim)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(frontmatter, "\n"))
	b.WriteString("\n")
	b.WriteString(delim)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimLeft(body, "\n"))
	return []byte(b.String())
}
