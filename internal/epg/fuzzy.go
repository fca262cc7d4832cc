// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package epg

import (
	"sort"
	"strings"

	"github.com/ManuGH/tvgmatch/internal/country"
	"github.com/pmezard/go-difflib/difflib"
)

// FuzzyOptions bounds a similarity search.
type FuzzyOptions struct {
	Limit     int     // maximum number of keys returned
	Cutoff    float64 // minimum similarity ratio in [0,1]
	MinKeyLen int     // keys shorter than this are never candidates
}

// DefaultFuzzyOptions mirrors difflib.get_close_matches(n=3, cutoff=0.65).
var DefaultFuzzyOptions = FuzzyOptions{Limit: 3, Cutoff: 0.65, MinKeyLen: 3}

// Similar returns up to opts.Limit index keys whose similarity ratio to word
// is at least opts.Cutoff, best first. Keys carrying the preferred country
// suffix form the front of the candidate pool, so they win ties.
func (ix *Index) Similar(word string, preferred country.Code, opts FuzzyOptions) []Key {
	pool := make([]string, 0, len(ix.keys))
	var rest []string
	suffix := "." + string(preferred)
	for _, k := range ix.keys {
		if len(k) < opts.MinKeyLen {
			continue
		}
		if preferred.Known() && strings.HasSuffix(string(k), suffix) {
			pool = append(pool, string(k))
		} else {
			rest = append(rest, string(k))
		}
	}
	pool = append(pool, rest...)

	matches := CloseMatches(word, pool, opts.Limit, opts.Cutoff)
	out := make([]Key, len(matches))
	for i, m := range matches {
		out[i] = Key(m)
	}
	return out
}

// CloseMatches returns the best "good enough" matches for word among
// possibilities, following difflib.get_close_matches: a candidate must pass
// the real-quick, quick and full ratio checks against cutoff. Results are
// ordered by descending ratio; equal ratios keep possibilities order.
func CloseMatches(word string, possibilities []string, n int, cutoff float64) []string {
	if n <= 0 || word == "" {
		return nil
	}

	type scored struct {
		value string
		ratio float64
	}

	m := difflib.NewMatcher(nil, chars(word))
	var hits []scored
	for _, p := range possibilities {
		m.SetSeq1(chars(p))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			hits = append(hits, scored{value: p, ratio: r})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ratio > hits[j].ratio })
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
