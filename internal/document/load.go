package document

import (
	"context"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/folio-md/folio/internal/checksum"
	"github.com/folio-md/folio/internal/storage"
)

// readConcurrency bounds parallel file reads during a load. Reads are
// independent and read-only, so they may overlap freely; the bound just
// keeps descriptor usage sane on large directories.
const readConcurrency = 8

// Load reads every Markdown document directly inside dir, excluding the
// named index file. Result order matches directory-listing order regardless
// of read interleaving. Per-file parse failures land in Document.Err; only
// I/O failures return an error.
func Load(ctx context.Context, store storage.Provider, dir, excludeFile string) ([]Document, error) {
	infos, err := store.List(dir)
	if err != nil {
		return nil, err
	}

	var files []storage.FileInfo
	for _, fi := range infos {
		if excludeFile != "" && path.Base(fi.Path) == excludeFile {
			continue
		}
		files = append(files, fi)
	}
	if len(files) == 0 {
		return nil, nil
	}

	docs := make([]Document, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, fi := range files {
		g.Go(func() error {
			data, err := store.Read(fi.Path)
			if err != nil {
				return err
			}
			meta, body, parseErr := Parse(data)
			docs[i] = Document{
				File:      path.Base(fi.Path),
				Path:      fi.Path,
				Meta:      meta,
				Body:      body,
				Err:       parseErr,
				Checksum:  checksum.Sum(data),
				UpdatedAt: fi.UpdatedAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
