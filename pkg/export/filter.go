package export

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/uitokens/pkg/token"
)

// Filter selects tokens by doublestar globs over "Collection/token/path",
// e.g. "Theme/**" or "Palette/*/shade/500". A nil Filter matches everything.
type Filter struct {
	Include []string
	Exclude []string
}

// NewFilter validates the patterns.
func NewFilter(include, exclude []string) (*Filter, error) {
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	return &Filter{Include: include, Exclude: exclude}, nil
}

// Match reports whether the token at path in collection passes the filter.
// Exclusions win over inclusions; no include patterns means include all.
func (f *Filter) Match(collection, path string) bool {
	if f == nil {
		return true
	}
	name := token.Join(collection, path)

	for _, pattern := range f.Exclude {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
