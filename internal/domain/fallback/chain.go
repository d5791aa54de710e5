// Package fallback models first-non-empty-wins priority chains as inspectable values.
package fallback

import "strings"

// Source is one named candidate in a chain.
type Source[T any] struct {
	Name string
	Get  func(T) string
}

// Chain is an ordered list of candidate sources. The first non-blank value wins.
type Chain[T any] []Source[T]

// Resolve returns the first non-blank candidate value and the name of its source.
// Returns ("", "") when every source is blank.
func (c Chain[T]) Resolve(v T) (value, source string) {
	for _, s := range c {
		if got := s.Get(v); strings.TrimSpace(got) != "" {
			return got, s.Name
		}
	}
	return "", ""
}

// Value returns the first non-blank candidate value, or def if all are blank.
func (c Chain[T]) Value(v T, def string) string {
	if got, _ := c.Resolve(v); got != "" {
		return got
	}
	return def
}

// Names returns the source names in priority order.
func (c Chain[T]) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}

// FirstNonEmpty returns the first non-blank string among values.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
