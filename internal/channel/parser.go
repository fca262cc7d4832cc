// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package channel splits free-form live-TV channel names into a brand and
// a country.
package channel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ManuGH/tvgmatch/internal/country"
	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/normalize"
	"github.com/rs/zerolog"
)

// Identity is the parsed form of a channel name.
type Identity struct {
	Brand   string
	Country country.Code
}

// Rule names the parsing rule that produced an Identity.
type Rule string

const (
	RuleParenthetical Rule = "parenthetical"
	RuleSuffix       Rule = "suffix_pattern"
	RuleTrailing     Rule = "trailing_tokens"
	RuleEmbedded     Rule = "embedded"
	RuleNone         Rule = "none"
)

// DefaultPatterns are the trailing country forms tried by rule 2. Each
// pattern is anchored at the end of the name and captures the country
// spelling in group 1.
var DefaultPatterns = []string{
	`\b(slovakia|slovak)\s+hd$`,
	`\b(uk|united kingdom|britain)\b$`,
	`\b(poland|polish)\b$`,
	`\b(ireland|irish)\b$`,
	`\b(france|french)\b$`,
	`\b(germany|german)\b$`,
	`\b(spain|spanish)\b$`,
	`\b(italy|italian)\b$`,
}

var (
	parenthetical = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)$`)
	spaces        = regexp.MustCompile(`\s+`)
)

type embedded struct {
	name string
	code country.Code
	re   *regexp.Regexp
}

// Parser applies the identity rules in fixed order; the first rule that
// matches wins. A Parser is immutable and safe for concurrent use.
type Parser struct {
	codes    map[string]country.Code
	patterns []*regexp.Regexp
	embedded []embedded
}

// NewParser builds a Parser from a country table and trailing patterns.
// Patterns are matched case-insensitively and must contain one capture group.
func NewParser(table country.Table, patterns []string) (*Parser, error) {
	table = table.Normalized()
	p := &Parser{
		codes: make(map[string]country.Code, len(table)),
	}
	for _, e := range table {
		if _, dup := p.codes[e.Name]; dup {
			continue
		}
		p.codes[e.Name] = e.Code
		words := strings.Fields(e.Name)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		// '_' is a word character to RE2 but a separator to normalize.Text
		re, err := regexp.Compile(`(?i)(?:_+|\b)` + strings.Join(words, `[^a-z0-9]+`) + `(?:_+|\b)`)
		if err != nil {
			return nil, fmt.Errorf("country %q: %w", e.Name, err)
		}
		p.embedded = append(p.embedded, embedded{name: e.Name, code: e.Code, re: re})
	}
	for _, expr := range patterns {
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, fmt.Errorf("country pattern %q: %w", expr, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("country pattern %q: missing capture group", expr)
		}
		p.patterns = append(p.patterns, re)
	}
	return p, nil
}

var defaultParser = mustDefault()

func mustDefault() *Parser {
	p, err := NewParser(country.DefaultTable(), DefaultPatterns)
	if err != nil {
		panic(err)
	}
	return p
}

// Default returns the Parser built from the built-in country table.
func Default() *Parser { return defaultParser }

// Parse splits name using the default Parser.
func Parse(name string) Identity { return defaultParser.Parse(name) }

// Parse splits name into (brand, country).
func (p *Parser) Parse(name string) Identity {
	id, rule := p.ParseRule(name)
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return id
	}
	logger := xglog.WithComponent("channel")
	logger.Debug().
		Str(xglog.FieldEvent, "channel.parsed").
		Str(xglog.FieldChannel, name).
		Str(xglog.FieldBrand, id.Brand).
		Stringer(xglog.FieldCountry, id.Country).
		Str("rule", string(rule)).
		Msg("parsed channel identity")
	return id
}

// ParseRule is Parse and additionally reports which rule fired.
func (p *Parser) ParseRule(name string) (Identity, Rule) {
	name = strings.TrimSpace(name)

	// 1. "<brand> (<country>)"
	if m := parenthetical.FindStringSubmatch(name); m != nil {
		if brand := strings.TrimSpace(m[1]); brand != "" {
			code, _ := p.lookup(m[2])
			return Identity{Brand: brand, Country: code}, RuleParenthetical
		}
	}

	// 2. anchored trailing patterns
	for _, re := range p.patterns {
		loc := re.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		brand := cleanBrand(name[:loc[0]] + name[loc[1]:])
		if brand == "" {
			continue
		}
		code, _ := p.lookup(name[loc[2]:loc[3]])
		return Identity{Brand: brand, Country: code}, RuleSuffix
	}

	// 3. longest trailing run of whitespace tokens naming a country
	tokens := strings.Fields(name)
	for i := 1; i < len(tokens); i++ {
		if code, ok := p.lookup(strings.Join(tokens[i:], " ")); ok {
			return Identity{Brand: strings.Join(tokens[:i], " "), Country: code}, RuleTrailing
		}
	}

	// 4. country name anywhere, on word boundaries
	folded := normalize.ASCII(name)
	padded := " " + normalize.Text(name) + " "
	for _, e := range p.embedded {
		if !strings.Contains(padded, " "+e.name+" ") {
			continue
		}
		brand := cleanBrand(e.re.ReplaceAllString(folded, " "))
		if brand == "" {
			continue
		}
		return Identity{Brand: brand, Country: e.code}, RuleEmbedded
	}

	return Identity{Brand: name, Country: country.Unknown}, RuleNone
}

func (p *Parser) lookup(name string) (country.Code, bool) {
	code, ok := p.codes[normalize.Text(name)]
	return code, ok
}

func cleanBrand(s string) string {
	s = spaces.ReplaceAllString(s, " ")
	return strings.Trim(s, " -:|,")
}
