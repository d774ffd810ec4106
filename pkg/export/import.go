package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/uitokens/pkg/token"
	"github.com/gnana997/uitokens/pkg/util"
)

// ErrInvalidImport is returned when exported files do not form valid
// collections.
var ErrInvalidImport = errors.New("invalid import")

// importPattern matches exported files under an import root.
const importPattern = "**/*" + FileSuffix

// Import reads every exported file under dir back into collections, one per
// collection name, in file order. Literal leaves become literal bindings and
// leaves with alias data become aliases, so the collections can serve as
// alias targets in a later run. Files are read through cache.
func Import(cache *util.FileCache, dir string) ([]*token.Collection, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), importPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	var (
		order []string
		docs  = make(map[string][]*Document)
	)
	for _, rel := range matches {
		var doc Document
		err := cache.View(filepath.Join(dir, filepath.FromSlash(rel)), func(data []byte) error {
			return json.Unmarshal(data, &doc)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}
		if doc.Extensions.CollectionName == "" {
			doc.Extensions.CollectionName = path.Dir(rel)
		}
		name := doc.Extensions.CollectionName
		if _, seen := docs[name]; !seen {
			order = append(order, name)
		}
		docs[name] = append(docs[name], &doc)
	}

	cols := make([]*token.Collection, 0, len(order))
	var errs []error
	for _, name := range order {
		col, err := collectionFromDocs(name, docs[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if verrs := col.Validate(); len(verrs) > 0 {
			errs = append(errs, fmt.Errorf("collection %q: %w", name, errors.Join(verrs...)))
			continue
		}
		cols = append(cols, col)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, errors.Join(errs...))
	}
	return cols, nil
}

// collectionFromDocs merges one document per mode. Modes follow the order
// recorded in the documents. A recorded mode without a document is an error.
func collectionFromDocs(name string, docs []*Document) (*token.Collection, error) {
	byMode := make(map[string]*Document, len(docs))
	var present []string
	for _, d := range docs {
		mode := d.Extensions.ModeName
		if _, dup := byMode[mode]; dup {
			return nil, fmt.Errorf("collection %q: mode %q exported twice", name, mode)
		}
		byMode[mode] = d
		present = append(present, mode)
	}

	var modes []string
	for _, m := range docs[0].Extensions.Modes {
		if _, ok := byMode[m]; !ok {
			return nil, fmt.Errorf("collection %q: mode %q has no exported file", name, m)
		}
		modes = append(modes, m)
	}
	for _, m := range present {
		if !slices.Contains(modes, m) {
			modes = append(modes, m)
		}
	}

	col := token.NewCollection(name, modes...)
	for _, mode := range modes {
		err := byMode[mode].Walk(func(p string, leaf *Leaf) error {
			t, ok := col.Lookup(p)
			if !ok {
				t = col.Add(token.NewToken(p, leaf.Type, leaf.Extensions.Scopes...))
				t.Description = leaf.Description
				t.Hidden = leaf.Extensions.Hidden
			}
			if t.Kind != leaf.Type {
				return fmt.Errorf("token %q: %s in mode %q, %s elsewhere", p, leaf.Type, mode, t.Kind)
			}

			if ad := leaf.Extensions.AliasData; ad != nil {
				t.Set(mode, token.AliasIn(ad.TargetVariableSetName, ad.TargetVariableName, ad.TargetModeName))
				return nil
			}
			v, err := decodeValue(leaf.Type, leaf.Value)
			if err != nil {
				return fmt.Errorf("token %q mode %q: %w", p, mode, err)
			}
			t.SetValue(mode, v)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", name, err)
		}
	}
	return col, nil
}
