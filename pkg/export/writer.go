package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"github.com/gnana997/uitokens/pkg/resolve"
	"github.com/gnana997/uitokens/pkg/util"
)

// FileSuffix ends every exported file name.
const FileSuffix = ".tokens.json"

// zipModTime is stamped on every archive entry so archives are reproducible.
var zipModTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// File is one encoded document.
type File struct {
	// Path is slash separated and relative: "<Collection>/<mode>.tokens.json".
	Path string
	Data []byte
}

// FileName returns the export path for one mode of a collection. Slashes in
// mode names become dashes.
func FileName(collection, mode string) string {
	return path.Join(collection, strings.ReplaceAll(mode, "/", "-")+FileSuffix)
}

// Files encodes every mode of the named collections, in order. A collection
// left with no tokens in any mode produces no files. Otherwise every mode
// gets a file, even one whose tokens all failed, so the export keeps the
// collection's declared modes.
func Files(res *resolve.Result, collections []string, filter *Filter) ([]File, error) {
	var files []File
	for _, name := range collections {
		col, ok := res.Library.Collection(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
		}

		docs := make([]*Document, len(col.Modes))
		empty := true
		for i, mode := range col.Modes {
			doc, err := Build(res, name, mode, filter)
			if err != nil {
				return nil, err
			}
			docs[i] = doc
			empty = empty && len(doc.Root.members) == 0
		}
		if empty {
			continue
		}

		for i, mode := range col.Modes {
			data, err := json.MarshalIndent(docs[i], "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encode %s/%s: %w", name, mode, err)
			}
			files = append(files, File{Path: FileName(name, mode), Data: append(data, '\n')})
		}
	}
	return files, nil
}

// WriteDir writes files under dir concurrently. concurrency <= 0 uses
// util.WriteConcurrency.
func WriteDir(ctx context.Context, dir string, files []File, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(util.WriteConcurrencyWithOverride(concurrency))

	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := filepath.Join(dir, filepath.FromSlash(f.Path))
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return fmt.Errorf("create directory for %s: %w", f.Path, err)
			}
			if err := os.WriteFile(dst, f.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", f.Path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// WriteZip writes files into a deflate-compressed ZIP archive.
func WriteZip(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: zipModTime,
		})
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", f.Path, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip: close: %w", err)
	}
	return nil
}

// WriteZipFile writes the archive to path.
func WriteZipFile(path string, files []File) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("zip: create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("zip: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("zip: close %s: %w", path, cerr)
		}
	}()
	return WriteZip(f, files)
}
