// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package alias generates the alternate spellings under which a channel
// brand may appear in an identifier vocabulary or a logo repository.
package alias

import (
	"strings"

	"github.com/ManuGH/tvgmatch/internal/normalize"
)

// Pair is a directed rewrite from one spelling to another.
type Pair struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Rules configures an Expander.
type Rules struct {
	// GenericWords are dropped to form the bare brand ("sky sports news" -> "sky").
	GenericWords []string `yaml:"genericWords"`
	// Numerals replace whole number words ("one" -> "1").
	Numerals []Pair `yaml:"numerals"`
	// Networks compress a whole network phrase ("sky sports" -> "skysports").
	Networks []Pair `yaml:"networks"`
	// Abbreviations map a short form to its long form; they are applied in
	// both directions to the slug, substring-wise.
	Abbreviations []Pair `yaml:"abbreviations"`
}

// DefaultRules returns the built-in expansion rules.
func DefaultRules() Rules {
	return Rules{
		GenericWords: []string{"tv", "hd", "sd", "channel", "network", "sport", "sports", "news"},
		Numerals: []Pair{
			{"one", "1"}, {"two", "2"}, {"three", "3"}, {"four", "4"}, {"five", "5"},
		},
		Networks: []Pair{
			{"fox sports", "foxsports"},
			{"sky sports", "skysports"},
			{"tnt sports", "tntsports"},
			{"bein sports", "beinsports"},
			{"bt sport", "btsport"},
		},
		Abbreviations: []Pair{
			{"sp", "sports"},
			{"sp1", "sports1"},
			{"sp2", "sports2"},
			{"sn", "sportsnetwork"},
			{"soc", "soccer"},
			{"mn", "mainevent"},
			{"nw", "network"},
		},
	}
}

// Expander generates alias keys. It holds no mutable state: the same brand
// always yields the same keys in the same order.
type Expander struct {
	generic  map[string]struct{}
	numerals []phrase
	networks []phrase
	abbrevs  []Pair
}

type phrase struct {
	from []string
	to   []string
}

// New compiles rules into an Expander. Rule spellings are normalized.
func New(rules Rules) *Expander {
	e := &Expander{generic: make(map[string]struct{}, len(rules.GenericWords))}
	for _, w := range rules.GenericWords {
		if w = normalize.Text(w); w != "" {
			e.generic[w] = struct{}{}
		}
	}
	e.numerals = compilePhrases(rules.Numerals)
	e.networks = compilePhrases(rules.Networks)
	for _, p := range rules.Abbreviations {
		short := normalize.Compact(normalize.Text(p.From))
		long := normalize.Compact(normalize.Text(p.To))
		if short == "" || long == "" || short == long {
			continue
		}
		e.abbrevs = append(e.abbrevs, Pair{From: short, To: long})
	}
	return e
}

func compilePhrases(pairs []Pair) []phrase {
	out := make([]phrase, 0, len(pairs))
	for _, p := range pairs {
		from := strings.Fields(normalize.Text(p.From))
		to := strings.Fields(normalize.Text(p.To))
		if len(from) == 0 || strings.Join(from, " ") == strings.Join(to, " ") {
			continue
		}
		out = append(out, phrase{from: from, to: to})
	}
	return out
}

var defaultExpander = New(DefaultRules())

// Default returns the Expander built from DefaultRules.
func Default() *Expander { return defaultExpander }

// Expand returns the aliases of brand using the default rules.
func Expand(brand string) []string { return defaultExpander.Expand(brand) }

// Expand returns the normalized aliases of brand, deduplicated, in
// generation order. Blank aliases are discarded; a blank brand yields nil.
func (e *Expander) Expand(brand string) []string {
	b := normalize.Text(brand)
	if b == "" {
		return nil
	}
	words := strings.Fields(b)
	out := newSet()

	out.add(b)
	out.add(normalize.Compact(b))

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, generic := e.generic[w]; !generic {
			kept = append(kept, w)
		}
	}
	out.add(strings.Join(kept, " "))

	for _, p := range e.numerals {
		if r, ok := p.apply(words); ok {
			out.add(r)
		}
	}

	if r, ok := (phrase{from: []string{"sports"}, to: []string{"sport"}}).apply(words); ok {
		out.add(r)
	} else if r, ok := (phrase{from: []string{"sport"}, to: []string{"sports"}}).apply(words); ok {
		out.add(r)
	}

	for _, p := range e.networks {
		if r, ok := p.apply(words); ok {
			out.add(r)
		}
	}

	slug := normalize.Compact(b)
	for _, p := range e.abbrevs {
		if strings.Contains(slug, p.To) {
			out.add(strings.ReplaceAll(slug, p.To, p.From))
		}
	}
	for _, p := range e.abbrevs {
		if strings.Contains(slug, p.From) {
			out.add(strings.ReplaceAll(slug, p.From, p.To))
		}
	}

	return out.items
}

// apply rewrites every whole-word occurrence of p.from in words. It reports
// false when the phrase does not occur.
func (p phrase) apply(words []string) (string, bool) {
	n := len(p.from)
	out := make([]string, 0, len(words))
	hit := false
	for i := 0; i < len(words); {
		if i+n <= len(words) && equal(words[i:i+n], p.from) {
			out = append(out, p.to...)
			i += n
			hit = true
			continue
		}
		out = append(out, words[i])
		i++
	}
	return strings.Join(out, " "), hit
}

func equal(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// set is an insertion-ordered string set.
type set struct {
	seen  map[string]struct{}
	items []string
}

func newSet() *set { return &set{seen: make(map[string]struct{})} }

func (s *set) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
