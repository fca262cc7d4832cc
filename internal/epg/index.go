// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package epg indexes a program-guide identifier vocabulary
// ("TNT.Sports.4.HD.uk") under the alias keys a channel name may produce.
package epg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ManuGH/tvgmatch/internal/country"
	"github.com/ManuGH/tvgmatch/internal/normalize"
)

// Key is a normalized lookup string: lowercase words joined by spaces or
// concatenated, optionally followed by ".<country>".
type Key string

// Stats summarises an index build.
type Stats struct {
	Entries int // vocabulary lines indexed
	Skipped int // non-blank, non-comment lines that produced no brand or exceeded MaxLineBytes
	Keys    int // distinct keys
}

// Index maps alias keys to the identifiers registered under them, in
// vocabulary order. It is populated once by BuildIndex and is read-only
// afterwards, so it may be shared by any number of goroutines.
type Index struct {
	entries map[Key][]string
	keys    []Key
	stats   Stats
}

// BuildIndex indexes vocabulary lines. Blank lines and lines starting with
// '#' are ignored.
func BuildIndex(lines []string) *Index {
	b := newBuilder()
	for _, line := range lines {
		b.addLine(line)
	}
	return b.finish()
}

// MaxLineBytes bounds a single vocabulary line. Longer lines are discarded
// and counted as skipped.
const MaxLineBytes = 1 << 20

// ReadIndex indexes a newline-delimited vocabulary stream. Only read errors
// are returned; malformed lines never abort the build.
func ReadIndex(r io.Reader) (*Index, error) {
	b := newBuilder()
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	oversized := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !oversized {
			if len(line)+len(chunk) > MaxLineBytes {
				oversized = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read vocabulary: %w", err)
		}

		switch {
		case oversized:
			b.ix.stats.Skipped++
		case len(line) > 0:
			b.addLine(string(line))
		}
		line = line[:0]
		oversized = false

		if err != nil {
			return b.finish(), nil
		}
	}
}

type builder struct {
	ix   *Index
	seen map[Key]struct{} // keys already registered by the current line
}

func newBuilder() *builder {
	return &builder{
		ix:   &Index{entries: make(map[Key][]string)},
		seen: make(map[Key]struct{}),
	}
}

func (b *builder) finish() *Index {
	b.ix.stats.Keys = len(b.ix.keys)
	ix := b.ix
	b.ix = nil
	return ix
}

func (b *builder) add(k Key, raw string) {
	if k == "" {
		return
	}
	// one line may produce the same key twice (spaced == slug form)
	if _, dup := b.seen[k]; dup {
		return
	}
	b.seen[k] = struct{}{}
	list, exists := b.ix.entries[k]
	if !exists {
		b.ix.keys = append(b.ix.keys, k)
	}
	b.ix.entries[k] = append(list, raw)
}

func (b *builder) addLine(line string) {
	raw := strings.TrimSpace(line)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return
	}

	clear(b.seen)

	parts := strings.Split(raw, ".")
	brandParts := parts
	cc := country.Unknown
	if len(parts) > 1 {
		if c := country.Suffix(raw); c.Known() {
			cc = c
			brandParts = parts[:len(parts)-1]
		}
	}

	words := strings.Fields(normalize.Text(strings.Join(brandParts, " ")))
	if len(words) == 0 {
		b.ix.stats.Skipped++
		return
	}
	b.ix.stats.Entries++

	// progressively shortened prefixes: "tnt sports 4 hd", "tnt sports 4", ...
	for i := len(words); i > 0; i-- {
		spaced := strings.Join(words[:i], " ")
		for _, k := range []string{spaced, normalize.Compact(spaced)} {
			b.add(Key(k), raw)
			if cc.Known() {
				b.add(Key(k+"."+string(cc)), raw)
			}
		}
	}

	b.add(Key(strings.ToLower(raw)), raw)

	for i := 1; i < len(parts); i++ {
		b.add(Key(strings.ToLower(strings.Join(parts[:i], "."))), raw)
	}
}

// Lookup returns the identifiers registered under k in vocabulary order.
// The returned slice is a copy.
func (ix *Index) Lookup(k Key) ([]string, bool) {
	list, ok := ix.entries[k]
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.keys) }

// Stats returns the build statistics.
func (ix *Index) Stats() Stats { return ix.stats }

// Range calls fn for every key in first-registration order until fn
// returns false.
func (ix *Index) Range(fn func(Key) bool) {
	for _, k := range ix.keys {
		if !fn(k) {
			return
		}
	}
}
