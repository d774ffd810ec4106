package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uitokens/pkg/color"
	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/resolve"
	"github.com/gnana997/uitokens/pkg/token"
	"github.com/gnana997/uitokens/pkg/util"
)

// smallResult builds a two-collection library: a Palette with one literal
// and one alias, and a Theme aliasing into it.
func smallResult(t *testing.T) *resolve.Result {
	t.Helper()

	palette := token.NewBuilder("Palette", "value")
	palette.Color("primary/shade/500", "value", color.MustParseHex("#3b82f6"), token.ScopeAllFills)
	palette.Alias("primary/base", token.KindColor, "value", token.AliasTo("Palette", "primary/shade/500"), token.ScopeAllFills)
	palette.Number("radius", "value", 4, token.ScopeCornerRadius).Hide()
	p, err := palette.Build()
	require.NoError(t, err)

	theme := token.NewBuilder("Theme", "light", "dark")
	for _, mode := range []string{"light", "dark"} {
		theme.Alias("primary/default", token.KindColor, mode, token.AliasTo("Palette", "primary/base"))
		theme.String("name", mode, mode)
		theme.Bool("inverted", mode, mode == "dark")
	}
	th, err := theme.Build()
	require.NoError(t, err)
	th.Tokens[1].Describe("Mode label")

	res := resolve.Resolve(token.NewLibrary(p, th), resolve.WithLogger(util.NopLogger()))
	require.NoError(t, res.Err())
	return res
}

func fullRun(t *testing.T) *resolve.Result {
	t.Helper()
	out, err := generator.New(generator.DefaultSettings(), generator.WithLogger(util.NopLogger())).Run()
	require.NoError(t, err)
	require.NoError(t, out.Err())
	return out.Result
}

func TestBuild_Nesting(t *testing.T) {
	doc, err := Build(smallResult(t), "Palette", "value", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"primary", "radius"}, doc.Root.Keys())
	primary, ok := doc.Root.Group("primary")
	require.True(t, ok)
	assert.Equal(t, []string{"shade", "base"}, primary.Keys())

	leaf, ok := doc.Root.Leaf("primary/shade/500")
	require.True(t, ok)
	assert.Equal(t, token.KindColor, leaf.Type)
	assert.Nil(t, leaf.Extensions.AliasData)

	var cv ColorValue
	require.NoError(t, json.Unmarshal(leaf.Value, &cv))
	assert.Equal(t, "srgb", cv.ColorSpace)
	assert.Equal(t, "#3b82f6", cv.Hex)
	assert.Equal(t, 1.0, cv.Alpha)

	radius, ok := doc.Root.Leaf("radius")
	require.True(t, ok)
	assert.True(t, radius.Extensions.Hidden)
	assert.Equal(t, []token.Scope{token.ScopeCornerRadius}, radius.Extensions.Scopes)
	assert.JSONEq(t, "4", string(radius.Value))
}

func TestBuild_AliasData(t *testing.T) {
	doc, err := Build(smallResult(t), "Theme", "dark", nil)
	require.NoError(t, err)

	leaf, ok := doc.Root.Leaf("primary/default")
	require.True(t, ok)
	require.NotNil(t, leaf.Extensions.AliasData)
	assert.Equal(t, AliasData{TargetVariableName: "primary/base", TargetVariableSetName: "Palette"}, *leaf.Extensions.AliasData)

	// The value is the fully resolved color.
	var cv ColorValue
	require.NoError(t, json.Unmarshal(leaf.Value, &cv))
	assert.Equal(t, "#3b82f6", cv.Hex)
}

func TestDocument_JSONLayout(t *testing.T) {
	doc, err := Build(smallResult(t), "Theme", "light", nil)
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	s := string(data)

	assert.True(t, strings.HasPrefix(s, `{"primary":{"default":{"$type":"color","$value":{"colorSpace":"srgb"`), s)
	assert.Contains(t, s, `"name":{"$type":"string","$value":"light","$description":"Mode label","$extensions":{"com.figma.scopes":[],"com.figma.hiddenFromPublishing":false}}`)
	assert.Contains(t, s, `"inverted":{"$type":"boolean","$value":false`)
	assert.True(t, strings.HasSuffix(s,
		`"$extensions":{"com.figma.modeName":"light","com.figma.collectionName":"Theme","com.uitokens.modes":["light","dark"]}}`), s)

	// Key order survives a decode/encode cycle.
	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	again, err := json.Marshal(&back)
	require.NoError(t, err)
	assert.Equal(t, s, string(again))
}

func TestBuild_Errors(t *testing.T) {
	res := smallResult(t)

	_, err := Build(res, "Nope", "value", nil)
	assert.ErrorIs(t, err, ErrUnknownCollection)

	_, err = Build(res, "Theme", "sepia", nil)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestBuild_PathConflict(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
	}{
		{"leaf then group", []string{"space", "space/sm"}},
		{"group then leaf", []string{"space/sm", "space"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := token.NewCollection("Spacing", "value")
			for _, p := range tc.paths {
				c.Add(token.NewToken(p, token.KindNumber)).SetValue("value", token.NumberValue(4))
			}
			res := resolve.Resolve(token.NewLibrary(c), resolve.WithLogger(util.NopLogger()))

			_, err := Build(res, "Spacing", "value", nil)
			assert.ErrorIs(t, err, ErrPathConflict)
		})
	}
}

func TestBuild_SkipsHardFailures(t *testing.T) {
	c := token.NewCollection("Loop", "value")
	c.Add(token.NewToken("a", token.KindNumber)).Set("value", token.AliasTo("Loop", "b"))
	c.Add(token.NewToken("b", token.KindNumber)).Set("value", token.AliasTo("Loop", "a"))
	c.Add(token.NewToken("ok", token.KindNumber)).SetValue("value", token.NumberValue(1))
	res := resolve.Resolve(token.NewLibrary(c), resolve.WithLogger(util.NopLogger()))
	require.Error(t, res.Err())

	doc, err := Build(res, "Loop", "value", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, doc.Root.Keys())
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name       string
		include    []string
		exclude    []string
		collection string
		path       string
		want       bool
	}{
		{"empty matches all", nil, nil, "Theme", "primary/default", true},
		{"collection glob", []string{"Theme/**"}, nil, "Theme", "primary/default", true},
		{"other collection", []string{"Theme/**"}, nil, "Palette", "primary/base", false},
		{"single star stays in segment", []string{"Palette/*/base"}, nil, "Palette", "primary/shade/500", false},
		{"single star segment", []string{"Palette/*/base"}, nil, "Palette", "primary/base", true},
		{"exclude wins", []string{"Palette/**"}, []string{"**/opacity/**"}, "Palette", "primary/opacity/500", false},
		{"exclude only", nil, []string{"Neutral/**"}, "Theme", "background", true},
		{"alternation", []string{"{Theme,Feedback}/**"}, nil, "Feedback", "error/base", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFilter(tc.include, tc.exclude)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Match(tc.collection, tc.path))
		})
	}

	var nilFilter *Filter
	assert.True(t, nilFilter.Match("Theme", "x"))

	_, err := NewFilter([]string{"Theme/["}, nil)
	assert.ErrorContains(t, err, "invalid include pattern")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Theme/light.tokens.json", FileName("Theme", "light"))
	assert.Equal(t, "Devices/mobile-portrait-xs.tokens.json", FileName("Devices", "mobile/portrait/xs"))
}

func TestFiles_Deterministic(t *testing.T) {
	names := []string{generator.Breakpoints, generator.Devices, generator.Theme}

	a, err := Files(fullRun(t), names, nil)
	require.NoError(t, err)
	b, err := Files(fullRun(t), names, nil)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Path, b[i].Path)
		assert.True(t, bytes.Equal(a[i].Data, b[i].Data), a[i].Path)
	}
	assert.Equal(t, "Breakpoints/xs.tokens.json", a[0].Path)
}

func TestFiles_FilterDropsEmptyCollections(t *testing.T) {
	f, err := NewFilter([]string{"Theme/**"}, nil)
	require.NoError(t, err)

	files, err := Files(smallResult(t), []string{"Palette", "Theme"}, f)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Theme/light.tokens.json", files[0].Path)
	assert.Equal(t, "Theme/dark.tokens.json", files[1].Path)

	_, err = Files(smallResult(t), []string{"Nope"}, nil)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestFiles_KeepsModeWithOnlyFailures(t *testing.T) {
	c := token.NewCollection("C", "light", "dark")
	c.Add(token.NewToken("x", token.KindNumber)).
		SetValue("light", token.NumberValue(1)).
		Set("dark", token.AliasTo("C", "y"))
	c.Add(token.NewToken("y", token.KindNumber)).
		SetValue("light", token.NumberValue(2)).
		Set("dark", token.AliasTo("C", "x"))
	res := resolve.Resolve(token.NewLibrary(c), resolve.WithLogger(util.NopLogger()))
	require.ErrorIs(t, res.Err(), resolve.ErrCycle)

	files, err := Files(res, []string{"C"}, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "C/dark.tokens.json", files[1].Path)

	var dark Document
	require.NoError(t, json.Unmarshal(files[1].Data, &dark))
	assert.Empty(t, dark.Root.Keys())
	assert.Equal(t, []string{"light", "dark"}, dark.Extensions.Modes)

	// Importing the export reports the unbound mode instead of dropping it.
	dir := t.TempDir()
	require.NoError(t, WriteDir(context.Background(), dir, files, 0))
	cache := util.NewFileCache(util.FileCacheConfig{Logger: util.NopLogger()})
	defer cache.Close()
	_, err = Import(cache, dir)
	require.ErrorIs(t, err, ErrInvalidImport)
	assert.ErrorContains(t, err, `no value for mode "dark"`)
}

func TestWriteDirAndImport_RoundTrip(t *testing.T) {
	res := fullRun(t)
	files, err := Files(res, res.Library.Names(), nil)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteDir(context.Background(), dir, files, 0))

	_, err = os.Stat(filepath.Join(dir, "Devices", "mobile-portrait-xs.tokens.json"))
	require.NoError(t, err)

	cache := util.NewFileCache(util.FileCacheConfig{Logger: util.NopLogger()})
	defer cache.Close()

	imported, err := Import(cache, dir)
	require.NoError(t, err)
	require.Len(t, imported, len(res.Library.Collections()))

	for _, got := range imported {
		want, ok := res.Library.Collection(got.Name)
		require.True(t, ok, got.Name)
		assert.Equal(t, want.Modes, got.Modes, got.Name)
		require.Len(t, got.Tokens, len(want.Tokens), got.Name)

		// Nesting groups tokens by prefix, so compare by name.
		for _, wt := range want.Tokens {
			gt, ok := got.Lookup(wt.Name)
			require.True(t, ok, "%s/%s", got.Name, wt.Name)
			assert.Equal(t, wt.Kind, gt.Kind)
			assert.Equal(t, wt.Hidden, gt.Hidden)
			for _, mode := range want.Modes {
				wb, _ := wt.Binding(mode)
				gb, _ := gt.Binding(mode)
				assert.Equal(t, wb.String(), gb.String(), "%s/%s@%s", got.Name, wt.Name, mode)
			}
		}
	}

	// Imported collections resolve on their own to the same values.
	again := resolve.Resolve(token.NewLibrary(imported...), resolve.WithLogger(util.NopLogger()))
	require.NoError(t, again.Err())
	v, ok := again.Value(generator.Theme, "primary/default", generator.LightMode)
	require.True(t, ok)
	assert.Equal(t, "#3b82f6", v.String())
	w, ok := again.Value(generator.Devices, "viewport/width/min", "tablet/landscape/lg")
	require.True(t, ok)
	orig, _ := res.Value(generator.Devices, "viewport/width/min", "tablet/landscape/lg")
	assert.Equal(t, orig, w)
}

func TestImport_Errors(t *testing.T) {
	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "X"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "X", "a.tokens.json"), []byte("{"), 0o644))

		cache := util.NewFileCache(util.FileCacheConfig{Logger: util.NopLogger()})
		defer cache.Close()
		_, err := Import(cache, dir)
		assert.ErrorContains(t, err, "failed to read")
	})

	t.Run("mode missing a token", func(t *testing.T) {
		dir := t.TempDir()
		write := func(name, body string) {
			require.NoError(t, os.MkdirAll(filepath.Join(dir, "C"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "C", name), []byte(body), 0o644))
		}
		leaf := `{"$type":"number","$value":1,"$extensions":{"com.figma.scopes":[],"com.figma.hiddenFromPublishing":false}}`
		write("a.tokens.json", `{"x":`+leaf+`,"y":`+leaf+`,"$extensions":{"com.figma.modeName":"a","com.figma.collectionName":"C"}}`)
		write("b.tokens.json", `{"x":`+leaf+`,"$extensions":{"com.figma.modeName":"b","com.figma.collectionName":"C"}}`)

		cache := util.NewFileCache(util.FileCacheConfig{Logger: util.NopLogger()})
		defer cache.Close()
		_, err := Import(cache, dir)
		assert.ErrorIs(t, err, ErrInvalidImport)
		assert.ErrorContains(t, err, `no value for mode "b"`)
	})

	t.Run("recorded mode without file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "C"), 0o755))
		leaf := `{"$type":"number","$value":1,"$extensions":{"com.figma.scopes":[],"com.figma.hiddenFromPublishing":false}}`
		body := `{"x":` + leaf + `,"$extensions":{"com.figma.modeName":"a","com.figma.collectionName":"C","com.uitokens.modes":["a","b"]}}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "C", "a.tokens.json"), []byte(body), 0o644))

		cache := util.NewFileCache(util.FileCacheConfig{Logger: util.NopLogger()})
		defer cache.Close()
		_, err := Import(cache, dir)
		assert.ErrorIs(t, err, ErrInvalidImport)
		assert.ErrorContains(t, err, `mode "b" has no exported file`)
	})

	t.Run("empty dir", func(t *testing.T) {
		cache := util.NewFileCache(util.FileCacheConfig{Logger: util.NopLogger()})
		defer cache.Close()
		cols, err := Import(cache, t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, cols)
	})

	t.Run("missing dir", func(t *testing.T) {
		cache := util.NewFileCache(util.FileCacheConfig{Logger: util.NopLogger()})
		defer cache.Close()
		_, err := Import(cache, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWriteZip(t *testing.T) {
	files, err := Files(smallResult(t), []string{"Palette", "Theme"}, nil)
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, WriteZip(&a, files))
	require.NoError(t, WriteZip(&b, files))
	assert.Equal(t, a.Bytes(), b.Bytes(), "archives are reproducible")

	zr, err := zip.NewReader(bytes.NewReader(a.Bytes()), int64(a.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, len(files))
	for i, zf := range zr.File {
		assert.Equal(t, files[i].Path, zf.Name)
		rc, err := zf.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, files[i].Data, data)
	}
}

func TestWriteZipFile(t *testing.T) {
	files, err := Files(smallResult(t), []string{"Palette"}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "tokens.zip")
	require.NoError(t, WriteZipFile(path, files))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteDir_Canceled(t *testing.T) {
	files, err := Files(smallResult(t), []string{"Palette"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = WriteDir(ctx, t.TempDir(), files, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
