package token

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReference is returned by ParseReference for malformed input.
var ErrInvalidReference = errors.New("invalid reference")

// PathSeparator joins the segments of a token name.
const PathSeparator = "/"

// ParseReference parses "{Collection.seg.seg}" into an Alias targeting
// path "seg/seg" in Collection.
func ParseReference(ref string) (Alias, error) {
	s := strings.TrimSpace(ref)
	if !IsReference(s) {
		return Alias{}, fmt.Errorf("%w: %q is not wrapped in braces", ErrInvalidReference, ref)
	}

	parts := strings.Split(s[1:len(s)-1], ".")
	if len(parts) < 2 {
		return Alias{}, fmt.Errorf("%w: %q needs a collection and a path", ErrInvalidReference, ref)
	}
	for _, p := range parts {
		if p == "" {
			return Alias{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidReference, ref)
		}
	}

	return Alias{Collection: parts[0], Path: strings.Join(parts[1:], PathSeparator)}, nil
}

// FormatReference renders collection and path in "{Collection.seg.seg}" form.
func FormatReference(collection, path string) string {
	return "{" + collection + "." + strings.ReplaceAll(path, PathSeparator, ".") + "}"
}

// IsReference reports whether s looks like a brace-wrapped reference.
func IsReference(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

// Join builds a token path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}

// Segments splits a token path.
func Segments(path string) []string {
	return strings.Split(path, PathSeparator)
}
