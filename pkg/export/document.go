// Package export projects a resolved run into DTCG-style JSON token files,
// one per (collection, mode), and reads such files back.
//
// **Layout:**
//   - Token paths are split on "/" into nested groups
//   - Leaves carry $type, $value and $extensions
//   - A trailing top-level $extensions names the mode and collection
//
// Keys keep insertion order, so exporting the same run twice produces
// identical bytes.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/uitokens/pkg/color"
	"github.com/gnana997/uitokens/pkg/resolve"
	"github.com/gnana997/uitokens/pkg/token"
)

// Extension keys.
const (
	ExtScopes         = "com.figma.scopes"
	ExtHidden         = "com.figma.hiddenFromPublishing"
	ExtAliasData      = "com.figma.aliasData"
	ExtModeName       = "com.figma.modeName"
	ExtCollectionName = "com.figma.collectionName"
	ExtModes          = "com.uitokens.modes"
)

const extensionsKey = "$extensions"

var (
	// ErrPathConflict is returned when one token path is a prefix of another,
	// so a name would have to be both a leaf and a group.
	ErrPathConflict = errors.New("token path conflict")

	// ErrUnknownCollection is returned for collections absent from the run.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnknownMode is returned for modes the collection does not declare.
	ErrUnknownMode = errors.New("unknown mode")
)

// ColorValue is the $value of a color leaf.
type ColorValue struct {
	ColorSpace string     `json:"colorSpace"`
	Components [3]float64 `json:"components"`
	Alpha      float64    `json:"alpha"`
	Hex        string     `json:"hex"`
}

// AliasData points a leaf at the variable it references. TargetModeName is
// set only for aliases pinned to a specific mode.
type AliasData struct {
	TargetVariableName    string `json:"targetVariableName"`
	TargetVariableSetName string `json:"targetVariableSetName"`
	TargetModeName        string `json:"targetModeName,omitempty"`
}

// LeafExtensions is the $extensions block of a leaf.
type LeafExtensions struct {
	Scopes    []token.Scope `json:"com.figma.scopes"`
	Hidden    bool          `json:"com.figma.hiddenFromPublishing"`
	AliasData *AliasData    `json:"com.figma.aliasData,omitempty"`
}

// Leaf is one exported token.
type Leaf struct {
	Type        token.Kind      `json:"$type"`
	Value       json.RawMessage `json:"$value"`
	Description string          `json:"$description,omitempty"`
	Extensions  LeafExtensions  `json:"$extensions"`
}

// DocumentExtensions is the trailing top-level $extensions block.
type DocumentExtensions struct {
	ModeName       string   `json:"com.figma.modeName"`
	CollectionName string   `json:"com.figma.collectionName"`
	Modes          []string `json:"com.uitokens.modes,omitempty"`
}

// member is one key of a Group: either a nested group or a leaf.
type member struct {
	key   string
	group *Group
	leaf  *Leaf
}

// Group is an ordered JSON object of groups and leaves.
type Group struct {
	members []member
	index   map[string]int
}

func newGroup() *Group {
	return &Group{index: make(map[string]int)}
}

// Keys returns the member names in order.
func (g *Group) Keys() []string {
	keys := make([]string, len(g.members))
	for i, m := range g.members {
		keys[i] = m.key
	}
	return keys
}

// Group returns the nested group named key.
func (g *Group) Group(key string) (*Group, bool) {
	i, ok := g.index[key]
	if !ok || g.members[i].group == nil {
		return nil, false
	}
	return g.members[i].group, true
}

// Leaf returns the leaf at the "/"-separated path.
func (g *Group) Leaf(path string) (*Leaf, bool) {
	segs := token.Segments(path)
	cur := g
	for _, s := range segs[:len(segs)-1] {
		next, ok := cur.Group(s)
		if !ok {
			return nil, false
		}
		cur = next
	}
	i, ok := cur.index[segs[len(segs)-1]]
	if !ok || cur.members[i].leaf == nil {
		return nil, false
	}
	return cur.members[i].leaf, true
}

// insert places leaf at path, creating intermediate groups.
func (g *Group) insert(path string, leaf *Leaf) error {
	segs := token.Segments(path)
	cur := g
	for depth, s := range segs[:len(segs)-1] {
		i, ok := cur.index[s]
		if !ok {
			cur.index[s] = len(cur.members)
			cur.members = append(cur.members, member{key: s, group: newGroup()})
			i = len(cur.members) - 1
		}
		if cur.members[i].leaf != nil {
			return fmt.Errorf("%w: %q is a token and a group", ErrPathConflict, token.Join(segs[:depth+1]...))
		}
		cur = cur.members[i].group
	}

	last := segs[len(segs)-1]
	if _, ok := cur.index[last]; ok {
		return fmt.Errorf("%w: %q is defined twice or is also a group", ErrPathConflict, path)
	}
	cur.index[last] = len(cur.members)
	cur.members = append(cur.members, member{key: last, leaf: leaf})
	return nil
}

// walk visits every leaf in document order.
func (g *Group) walk(prefix []string, fn func(path string, leaf *Leaf) error) error {
	for _, m := range g.members {
		p := append(prefix[:len(prefix):len(prefix)], m.key)
		if m.leaf != nil {
			if err := fn(token.Join(p...), m.leaf); err != nil {
				return err
			}
			continue
		}
		if err := m.group.walk(p, fn); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON writes members in insertion order.
func (g *Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range g.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		var v []byte
		if m.leaf != nil {
			v, err = json.Marshal(m.leaf)
		} else {
			v, err = m.group.MarshalJSON()
		}
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", m.key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads members in document order. Objects with a $type key
// are leaves; $-prefixed keys on groups are ignored.
func (g *Group) UnmarshalJSON(data []byte) error {
	*g = *newGroup()

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		if strings.HasPrefix(key, "$") {
			continue
		}

		m := member{key: key}
		if isLeaf(raw) {
			m.leaf = &Leaf{}
			if err := json.Unmarshal(raw, m.leaf); err != nil {
				return fmt.Errorf("decode token %q: %w", key, err)
			}
		} else {
			m.group = newGroup()
			if err := m.group.UnmarshalJSON(raw); err != nil {
				return fmt.Errorf("%s/%w", key, err)
			}
		}
		g.index[key] = len(g.members)
		g.members = append(g.members, m)
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func isLeaf(raw json.RawMessage) bool {
	var probe struct {
		Type *string `json:"$type"`
	}
	return json.Unmarshal(raw, &probe) == nil && probe.Type != nil
}

// Document is one exported (collection, mode) file.
type Document struct {
	Root       *Group
	Extensions DocumentExtensions
}

// MarshalJSON writes the token tree followed by the top-level $extensions.
func (d *Document) MarshalJSON() ([]byte, error) {
	body, err := d.Root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	ext, err := json.Marshal(d.Extensions)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(body[:len(body)-1])
	if len(d.Root.members) > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"` + extensionsKey + `":`)
	buf.Write(ext)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a document written by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var top struct {
		Extensions DocumentExtensions `json:"$extensions"`
	}
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	root := newGroup()
	if err := root.UnmarshalJSON(data); err != nil {
		return err
	}
	d.Root, d.Extensions = root, top.Extensions
	return nil
}

// Walk visits every leaf in document order.
func (d *Document) Walk(fn func(path string, leaf *Leaf) error) error {
	return d.Root.walk(nil, fn)
}

// Build projects one mode of a collection. Tokens rejected by filter and
// tokens whose resolution failed hard are left out.
func Build(res *resolve.Result, collection, mode string, filter *Filter) (*Document, error) {
	col, ok := res.Library.Collection(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	if !col.HasMode(mode) {
		return nil, fmt.Errorf("%w: %q in collection %q", ErrUnknownMode, mode, collection)
	}

	doc := &Document{
		Root: newGroup(),
		Extensions: DocumentExtensions{
			ModeName:       mode,
			CollectionName: collection,
			Modes:          col.Modes,
		},
	}

	for _, t := range col.Tokens {
		if !filter.Match(collection, t.Name) {
			continue
		}
		r, ok := res.Lookup(collection, t.Name, mode)
		if !ok || !r.OK {
			continue
		}
		leaf, err := newLeaf(t, mode, r)
		if err != nil {
			return nil, err
		}
		if err := doc.Root.insert(t.Name, leaf); err != nil {
			return nil, fmt.Errorf("collection %q: %w", collection, err)
		}
	}
	return doc, nil
}

func newLeaf(t *token.Token, mode string, r resolve.Resolution) (*Leaf, error) {
	value, err := encodeValue(r.Value)
	if err != nil {
		return nil, fmt.Errorf("token %q: %w", t.Name, err)
	}

	scopes := t.Scopes
	if scopes == nil {
		scopes = []token.Scope{}
	}
	leaf := &Leaf{
		Type:        t.Kind,
		Value:       value,
		Description: t.Description,
		Extensions:  LeafExtensions{Scopes: scopes, Hidden: t.Hidden},
	}

	if b, ok := t.Binding(mode); ok {
		if a, ok := b.Alias(); ok {
			leaf.Extensions.AliasData = &AliasData{
				TargetVariableName:    a.Path,
				TargetVariableSetName: a.Collection,
				TargetModeName:        a.Mode,
			}
		}
	}
	return leaf, nil
}

func encodeValue(v token.Value) (json.RawMessage, error) {
	switch v.Kind {
	case token.KindColor:
		return json.Marshal(ColorValue{
			ColorSpace: "srgb",
			Components: [3]float64{v.Color.R, v.Color.G, v.Color.B},
			Alpha:      v.Color.A,
			Hex:        v.Color.Hex(),
		})
	case token.KindNumber:
		return json.Marshal(v.Number)
	case token.KindBoolean:
		return json.Marshal(v.Bool)
	case token.KindString:
		return json.Marshal(v.Text)
	default:
		return nil, fmt.Errorf("unsupported kind %q", v.Kind)
	}
}

// decodeValue parses a leaf $value back into a token value.
func decodeValue(kind token.Kind, raw json.RawMessage) (token.Value, error) {
	switch kind {
	case token.KindColor:
		var cv ColorValue
		if err := json.Unmarshal(raw, &cv); err != nil {
			return token.Value{}, err
		}
		return token.ColorValue(color.RGBA{
			R: cv.Components[0], G: cv.Components[1], B: cv.Components[2], A: cv.Alpha,
		}), nil
	case token.KindNumber:
		var n float64
		err := json.Unmarshal(raw, &n)
		return token.NumberValue(n), err
	case token.KindBoolean:
		var b bool
		err := json.Unmarshal(raw, &b)
		return token.BoolValue(b), err
	case token.KindString:
		var s string
		err := json.Unmarshal(raw, &s)
		return token.StringValue(s), err
	default:
		return token.Value{}, fmt.Errorf("unsupported kind %q", kind)
	}
}
