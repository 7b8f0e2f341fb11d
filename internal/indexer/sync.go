package indexer

import (
	"fmt"
	"path"

	"github.com/folio-md/folio/internal/document"
	"github.com/folio-md/folio/internal/storage"
)

// WriteError reports a failed index file write. It is fatal for that one
// type's indexing step only; callers keep processing other types.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("index write failed for %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Sync regenerates the index region for one document type and merges it into
// the index file at indexPath, creating the file when absent. docs must
// already exclude the index file itself.
func Sync(store storage.Provider, dir, indexPath string, docs []document.Document, opts Options) error {
	region := Render(docs, opts)

	exists, err := store.Exists(indexPath)
	if err != nil {
		return &WriteError{Path: indexPath, Err: err}
	}

	var out []byte
	if exists {
		existing, err := store.Read(indexPath)
		if err != nil {
			return &WriteError{Path: indexPath, Err: err}
		}
		out = MergeRegion(existing, region)
	} else {
		title := FileTitle(path.Base(dir))
		out = []byte("# " + title + "\n\n" + region + "\n")
	}

	if err := store.Write(indexPath, out); err != nil {
		return &WriteError{Path: indexPath, Err: err}
	}
	return nil
}
