// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package normalize folds free-form channel names into the lowercase ASCII
// forms used as lookup keys.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	slugDrop  = regexp.MustCompile(`[^\w\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// Token normalizes a string token for matching:
// - trims Unicode whitespace + invisible edge characters
// - lowercases for case-insensitive comparisons
func Token(s string) string {
	return strings.ToLower(strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) ||
			r == '\u200B' || // Zero Width Space
			r == '\u200C' || // Zero Width Non-Joiner
			r == '\u200D' || // Zero Width Joiner
			r == '\uFEFF' // Zero Width Non-Breaking Space (BOM)
	}))
}

// ASCII transliterates s to ASCII. Combining marks are removed first so
// "é" becomes "e"; letters without a decomposition (ß, ø, ł) are
// transliterated.
func ASCII(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	for _, r := range folded {
		if r > unicode.MaxASCII {
			return unidecode.Unidecode(folded)
		}
	}
	return folded
}

// Text lowercases s, folds it to ASCII and replaces every run of
// non-alphanumeric characters with a single space. The result is trimmed
// and Text(Text(s)) == Text(s).
func Text(s string) string {
	s = strings.ToLower(ASCII(s))
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Compact removes all spaces, producing the concatenated slug form of an
// already normalized key ("sky sports" -> "skysports").
func Compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// Slug converts a channel name into the hyphenated file-name slug used by
// logo repositories.
// Example: "Sky Sports Main Event" -> "sky-sports-main-event"
func Slug(s string) string {
	s = strings.ToLower(ASCII(s))
	s = strings.ReplaceAll(s, "&amp;", "-and-")
	s = strings.ReplaceAll(s, "+", "-plus-")
	s = slugDrop.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
