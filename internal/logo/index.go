// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package logo indexes a logo repository directory listing by file slug.
package logo

import (
	"net/url"
	"strings"
)

// DefaultRawBase is the raw-content prefix of the tv-logo repository.
const DefaultRawBase = "https://raw.githubusercontent.com/tv-logo/tv-logos/main/countries/"

// Sentinel returns the placeholder URL served when no logo matches.
func Sentinel(rawBase string) string {
	if rawBase != "" && !strings.HasSuffix(rawBase, "/") {
		rawBase += "/"
	}
	return rawBase + "misc/no-logo.png"
}

// Directory is one country directory of a logo repository.
type Directory struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

// Listing is a repository snapshot in listing order. Order is significant:
// on key collisions the later file wins.
type Listing []Directory

// Options controls which files are indexed and which aliases are derived.
type Options struct {
	Extension       string   // e.g. ".png"
	CountrySuffixes []string // e.g. "-uk"; stripped to form country-agnostic aliases
}

// DefaultOptions matches the tv-logo repository layout.
func DefaultOptions() Options {
	return Options{
		Extension:       ".png",
		CountrySuffixes: []string{"-us", "-uk", "-ca", "-au", "-de", "-fr", "-es", "-it", "-sk", "-pl"},
	}
}

// Stats summarises an index build.
type Stats struct {
	Directories int
	Files       int
	Skipped     int
	Keys        int
}

// Index maps file names, base names and country-agnostic base names to
// retrieval URLs. It is read-only once built.
type Index struct {
	urls  map[string]string
	stats Stats
}

// Build indexes listing. rawBase is the URL prefix under which
// "<directory>/<file>" is retrievable.
func Build(listing Listing, rawBase string, opts Options) *Index {
	if opts.Extension == "" {
		opts.Extension = DefaultOptions().Extension
	}
	if rawBase != "" && !strings.HasSuffix(rawBase, "/") {
		rawBase += "/"
	}

	ix := &Index{urls: make(map[string]string)}
	for _, dir := range listing {
		if strings.TrimSpace(dir.Name) == "" {
			ix.stats.Skipped += len(dir.Files)
			continue
		}
		ix.stats.Directories++
		for _, file := range dir.Files {
			if !strings.HasSuffix(file, opts.Extension) || len(file) == len(opts.Extension) || strings.Contains(file, "/") {
				ix.stats.Skipped++
				continue
			}
			ix.stats.Files++

			u := rawBase + url.PathEscape(dir.Name) + "/" + url.PathEscape(file)
			base := strings.TrimSuffix(file, opts.Extension)
			ix.urls[file] = u
			ix.urls[base] = u
			for _, suf := range opts.CountrySuffixes {
				if suf != "" && strings.HasSuffix(base, suf) && len(base) > len(suf) {
					ix.urls[strings.TrimSuffix(base, suf)] = u
				}
			}
		}
	}
	ix.stats.Keys = len(ix.urls)
	return ix
}

// Lookup returns the URL registered under key.
func (ix *Index) Lookup(key string) (string, bool) {
	if ix == nil {
		return "", false
	}
	u, ok := ix.urls[key]
	return u, ok
}

// Len returns the number of keys.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.urls)
}

// Stats returns the build statistics.
func (ix *Index) Stats() Stats { return ix.stats }
