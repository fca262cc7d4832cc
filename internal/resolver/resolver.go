// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package resolver maps free-form channel names to guide identifiers and
// logo URLs using immutable, pre-built indexes.
package resolver

import (
	"strings"

	"github.com/ManuGH/tvgmatch/internal/alias"
	"github.com/ManuGH/tvgmatch/internal/channel"
	"github.com/ManuGH/tvgmatch/internal/country"
	"github.com/ManuGH/tvgmatch/internal/epg"
	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/ManuGH/tvgmatch/internal/metrics"
	"github.com/ManuGH/tvgmatch/internal/normalize"
	"github.com/rs/zerolog"
)

// Resolver answers identifier and logo queries. It holds no mutable state
// and is safe for concurrent use.
type Resolver struct {
	ids      *epg.Index
	logos    *logo.Index
	parser   *channel.Parser
	expander *alias.Expander
	policy   country.Policy
	fuzzy    epg.FuzzyOptions
	sentinel string
	logoExt  string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithParser replaces the channel identity parser.
func WithParser(p *channel.Parser) Option {
	return func(r *Resolver) {
		if p != nil {
			r.parser = p
		}
	}
}

// WithExpander replaces the alias expander.
func WithExpander(e *alias.Expander) Option {
	return func(r *Resolver) {
		if e != nil {
			r.expander = e
		}
	}
}

// WithPolicy replaces the country disambiguation policy.
func WithPolicy(p country.Policy) Option {
	return func(r *Resolver) { r.policy = p }
}

// WithFuzzy replaces the similarity search bounds.
func WithFuzzy(o epg.FuzzyOptions) Option {
	return func(r *Resolver) { r.fuzzy = o }
}

// WithSentinel sets the URL returned when no logo matches.
func WithSentinel(url string) Option {
	return func(r *Resolver) {
		if url != "" {
			r.sentinel = url
		}
	}
}

// WithLogoExtension sets the image extension tried on logo keys.
func WithLogoExtension(ext string) Option {
	return func(r *Resolver) {
		if ext != "" {
			r.logoExt = ext
		}
	}
}

// New returns a Resolver over ids and logos. Nil indexes behave as empty.
func New(ids *epg.Index, logos *logo.Index, opts ...Option) *Resolver {
	if ids == nil {
		ids = epg.BuildIndex(nil)
	}
	if logos == nil {
		logos = logo.Build(nil, "", logo.DefaultOptions())
	}
	r := &Resolver{
		ids:      ids,
		logos:    logos,
		parser:   channel.Default(),
		expander: alias.Default(),
		policy:   country.NewPolicy(nil),
		fuzzy:    epg.DefaultFuzzyOptions,
		sentinel: logo.Sentinel(logo.DefaultRawBase),
		logoExt:  logo.DefaultOptions().Extension,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs both resolutions for name.
func (r *Resolver) Resolve(name string) Result {
	id := r.parser.Parse(name)
	m := r.identifier(name, id)
	l := r.logo(name, id)
	metrics.RecordIdentifier(m.Confidence.String())
	metrics.RecordLogo(l.Matched)
	return Result{Name: name, Identity: id, Match: m, Logo: l}
}

// ResolveIdentifier maps name to a guide identifier. An unresolved name
// yields NoMatch, never a guess below the similarity cutoff.
func (r *Resolver) ResolveIdentifier(name string) Match {
	return r.identifier(name, r.parser.Parse(name))
}

// ResolveLogo maps name to a logo URL, or the sentinel.
func (r *Resolver) ResolveLogo(name string) Logo {
	return r.logo(name, r.parser.Parse(name))
}

func (r *Resolver) identifier(name string, id channel.Identity) Match {
	brand := normalize.Text(id.Brand)
	if brand == "" {
		return Match{}
	}
	slug := normalize.Compact(brand)
	c := string(id.Country)

	keys := newKeys()
	if id.Country.Known() {
		keys.add(brand+"."+c, slug+"."+c, brand+"."+c+".hd", slug+"."+c+".hd")
	}
	keys.add(brand, slug)
	for _, v := range r.expander.Expand(id.Brand) {
		keys.add(v)
		if id.Country.Known() {
			keys.add(v + "." + c)
		}
	}

	for _, k := range keys.list {
		if list, ok := r.ids.Lookup(epg.Key(k)); ok {
			m := Match{Identifier: r.policy.Pick(list, id.Country), Confidence: Exact, Key: k}
			r.trace(name, id, m)
			return m
		}
	}

	var merged []string
	var first epg.Key
	for _, k := range r.ids.Similar(slug, id.Country, r.fuzzy) {
		list, _ := r.ids.Lookup(k)
		if first == "" {
			first = k
		}
		merged = append(merged, list...)
	}
	if len(merged) > 0 {
		m := Match{Identifier: r.policy.Pick(merged, id.Country), Confidence: Fuzzy, Key: string(first)}
		r.trace(name, id, m)
		return m
	}

	r.trace(name, id, Match{})
	return Match{}
}

func (r *Resolver) logo(name string, id channel.Identity) Logo {
	if r.logos.Len() == 0 {
		return Logo{URL: r.sentinel}
	}
	slug := normalize.Slug(id.Brand)
	c := string(id.Country)

	patterns := newKeys()
	if id.Country.Known() {
		patterns.add(slug+"-"+c, slug+"."+c)
	}
	patterns.add(slug, strings.ReplaceAll(slug, "-", ""))
	for _, v := range r.expander.Expand(id.Brand) {
		vs := normalize.Slug(v)
		patterns.add(vs)
		if id.Country.Known() && vs != "" {
			patterns.add(vs + "-" + c)
		}
	}
	patterns.add(normalize.Slug(name))

	for _, p := range patterns.list {
		if u, ok := r.lookupLogo(p); ok {
			return Logo{URL: u, Matched: true}
		}
	}
	return Logo{URL: r.sentinel}
}

// lookupLogo tries p as-is, with the image extension, then with whole
// "hd" and "sd" segments removed.
func (r *Resolver) lookupLogo(p string) (string, bool) {
	if u, ok := r.logos.Lookup(p); ok {
		return u, true
	}
	if u, ok := r.logos.Lookup(p + r.logoExt); ok {
		return u, true
	}
	for _, q := range []string{"hd", "sd"} {
		if clean, changed := dropSegment(p, q); changed && clean != "" {
			if u, ok := r.logos.Lookup(clean); ok {
				return u, true
			}
		}
	}
	return "", false
}

func dropSegment(slug, seg string) (string, bool) {
	parts := strings.Split(slug, "-")
	kept := parts[:0:0]
	for _, p := range parts {
		if p != seg {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(parts) {
		return slug, false
	}
	return strings.Join(kept, "-"), true
}

func (r *Resolver) trace(name string, id channel.Identity, m Match) {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	logger := xglog.WithComponent("resolver")
	ev := logger.Debug().
		Str(xglog.FieldChannel, name).
		Str(xglog.FieldBrand, id.Brand).
		Stringer(xglog.FieldCountry, id.Country).
		Stringer(xglog.FieldConfidence, m.Confidence)
	if !m.Found() {
		ev.Str(xglog.FieldEvent, "resolve.none").Msg("no identifier")
		return
	}
	ev.Str(xglog.FieldEvent, "resolve."+m.Confidence.String()).
		Str(xglog.FieldKey, m.Key).
		Str(xglog.FieldIdentifier, m.Identifier).
		Msg("identifier resolved")
}

// keys is an insertion-ordered set of non-empty strings.
type keys struct {
	list []string
	seen map[string]struct{}
}

func newKeys() *keys { return &keys{seen: make(map[string]struct{})} }

func (k *keys) add(vs ...string) {
	for _, v := range vs {
		if v == "" {
			continue
		}
		if _, dup := k.seen[v]; dup {
			continue
		}
		k.seen[v] = struct{}{}
		k.list = append(k.list, v)
	}
}
