package cache

import (
	"strings"
	"unicode"
)

// Delimiter joins namespace and key segments.
const Delimiter = ":"

// KeyBuilder produces deterministic, namespaced cache keys. Identical
// logical inputs always map to the same key.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a key builder with the given namespace prefix.
// The prefix itself is slug-normalized once.
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{prefix: slugSegment(prefix)}
}

// Key joins the prefix and the slug-normalized segments with the delimiter.
// Empty segments are dropped.
func (b *KeyBuilder) Key(segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	if b.prefix != "" {
		parts = append(parts, b.prefix)
	}
	for _, s := range segments {
		if slug := slugSegment(s); slug != "" {
			parts = append(parts, slug)
		}
	}
	return strings.Join(parts, Delimiter)
}

// Prefix returns the namespaced prefix for the given segments, suitable
// for prefix-based invalidation of everything underneath it.
func (b *KeyBuilder) Prefix(segments ...string) string {
	return b.Key(segments...) + Delimiter
}

// slugSegment lowercases a segment and collapses runs of non-alphanumeric
// characters into single dashes so segments cannot smuggle the delimiter.
func slugSegment(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
