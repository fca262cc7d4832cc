// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"github.com/ManuGH/tvgmatch/internal/alias"
	"github.com/ManuGH/tvgmatch/internal/channel"
	"github.com/ManuGH/tvgmatch/internal/country"
	"github.com/ManuGH/tvgmatch/internal/epg"
	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/ManuGH/tvgmatch/internal/schedule"
)

// Parser builds the channel identity parser. Empty lists use the built-in
// country table and trailing patterns.
func (m MatchConfig) Parser() (*channel.Parser, error) {
	table := country.Table(m.Countries)
	if len(table) == 0 {
		table = country.DefaultTable()
	}
	patterns := m.Patterns
	if len(patterns) == 0 {
		patterns = channel.DefaultPatterns
	}
	return channel.NewParser(table, patterns)
}

// Expander builds the alias expander. Each empty rule list falls back to
// its built-in default independently.
func (m MatchConfig) Expander() *alias.Expander {
	rules := alias.DefaultRules()
	if len(m.Aliases.GenericWords) > 0 {
		rules.GenericWords = m.Aliases.GenericWords
	}
	if len(m.Aliases.Numerals) > 0 {
		rules.Numerals = m.Aliases.Numerals
	}
	if len(m.Aliases.Networks) > 0 {
		rules.Networks = m.Aliases.Networks
	}
	if len(m.Aliases.Abbreviations) > 0 {
		rules.Abbreviations = m.Aliases.Abbreviations
	}
	return alias.New(rules)
}

// Policy builds the country disambiguation policy.
func (m MatchConfig) Policy() country.Policy {
	codes := make([]country.Code, len(m.Priority))
	for i, c := range m.Priority {
		codes[i] = country.Code(c)
	}
	return country.NewPolicy(codes)
}

// Fuzzy returns the similarity search bounds.
func (m MatchConfig) Fuzzy() epg.FuzzyOptions {
	return epg.FuzzyOptions{Limit: m.FuzzyLimit, Cutoff: m.FuzzyCutoff, MinKeyLen: m.FuzzyMinKeyLen}
}

// LogoOptions returns the logo index options.
func (m MatchConfig) LogoOptions() logo.Options {
	opts := logo.DefaultOptions()
	if m.LogoExtension != "" {
		opts.Extension = m.LogoExtension
	}
	if len(m.LogoSuffixes) > 0 {
		opts.CountrySuffixes = m.LogoSuffixes
	}
	return opts
}

// Filter returns the schedule event filter.
func (e EventsConfig) Filter() schedule.Filter {
	return schedule.Filter{Categories: e.Categories, Prefixes: e.Prefixes, Exclude: e.Exclude}
}
