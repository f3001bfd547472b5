// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/convertkit/pkg/types"
)

const tagSeparator = "."

// Normalize canonicalizes a user-supplied format identifier: it trims
// surrounding whitespace, lowercases, and ensures exactly one leading dot.
// "CSV", ".csv" and " .csv " all yield ".csv". It does not check whether
// any transform supports the tag.
func Normalize(raw string) (types.FormatTag, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", Errorf(KindInvalidFormat, "empty format identifier")
	}
	if !strings.HasPrefix(s, tagSeparator) {
		s = tagSeparator + s
	}
	if s == tagSeparator {
		return "", Errorf(KindInvalidFormat, "format identifier %q names no format", raw)
	}
	return types.FormatTag(s), nil
}

// NormalizeKey normalizes both sides of a conversion request.
func NormalizeKey(from, to string) (types.ConversionKey, error) {
	f, err := Normalize(from)
	if err != nil {
		return types.ConversionKey{}, err
	}
	t, err := Normalize(to)
	if err != nil {
		return types.ConversionKey{}, err
	}
	return types.ConversionKey{From: f, To: t}, nil
}

// TagOf returns the tag of path's extension, matched case-insensitively.
// Files without an extension yield "".
func TagOf(path string) types.FormatTag {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return types.FormatTag(strings.ToLower(ext))
}

// DestPath replaces the extension of src with tag.
func DestPath(src string, tag types.FormatTag) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + tag.Ext()
}
