// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package country holds the country vocabulary shared by the channel parser
// and the candidate disambiguator.
package country

import (
	"strings"

	"github.com/ManuGH/tvgmatch/internal/normalize"
)

// Code is a lowercase two-letter country code as used by the identifier
// vocabulary ("uk", "us", "de"). The zero value is Unknown.
type Code string

// Unknown marks a channel whose country could not be determined. It never
// compares equal to a concrete code.
const Unknown Code = ""

// Known reports whether c is a concrete country code.
func (c Code) Known() bool { return c != Unknown }

func (c Code) String() string {
	if c == Unknown {
		return "unknown"
	}
	return string(c)
}

// Entry maps one spelling of a country name to its code.
type Entry struct {
	Name string `yaml:"name"`
	Code Code   `yaml:"code"`
}

// Table is an ordered list of country spellings. Order matters where the
// parser searches for embedded names: earlier entries win.
type Table []Entry

// DefaultTable returns the built-in country spellings.
func DefaultTable() Table {
	return Table{
		{"usa", "us"}, {"united states", "us"}, {"america", "us"},
		{"uk", "uk"}, {"united kingdom", "uk"}, {"britain", "uk"}, {"england", "uk"},
		{"canada", "ca"}, {"can", "ca"},
		{"australia", "au"}, {"aus", "au"},
		{"new zealand", "nz"}, {"newzealand", "nz"},
		{"germany", "de"}, {"deutschland", "de"}, {"german", "de"},
		{"france", "fr"}, {"french", "fr"},
		{"spain", "es"}, {"españa", "es"}, {"spanish", "es"},
		{"italy", "it"}, {"italia", "it"}, {"italian", "it"},
		{"croatia", "hr"}, {"serbia", "rs"}, {"netherlands", "nl"}, {"holland", "nl"},
		{"portugal", "pt"}, {"poland", "pl"}, {"polish", "pl"},
		{"greece", "gr"}, {"bulgaria", "bg"}, {"israel", "il"}, {"malaysia", "my"},
		{"ireland", "ie"}, {"irish", "ie"}, {"slovakia", "sk"}, {"slovak", "sk"},
	}
}

// Lookup returns the code for a country name. The name is normalized before
// comparison, so "United Kingdom", "united-kingdom" and "UNITED KINGDOM" all
// resolve to "uk".
func (t Table) Lookup(name string) (Code, bool) {
	key := normalize.Text(name)
	if key == "" {
		return Unknown, false
	}
	for _, e := range t {
		if normalize.Text(e.Name) == key {
			return e.Code, true
		}
	}
	return Unknown, false
}

// Names returns the normalized country spellings in table order.
func (t Table) Names() []string {
	out := make([]string, 0, len(t))
	for _, e := range t {
		if n := normalize.Text(e.Name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Normalized returns a copy of t with every name normalized and every code
// lowercased. Entries that normalize to nothing are dropped.
func (t Table) Normalized() Table {
	out := make(Table, 0, len(t))
	for _, e := range t {
		name := normalize.Text(e.Name)
		code := Code(strings.ToLower(strings.TrimSpace(string(e.Code))))
		if name == "" || code == Unknown {
			continue
		}
		out = append(out, Entry{Name: name, Code: code})
	}
	return out
}

// Suffix returns the trailing ".xx" country code of a dotted identifier
// ("TNT.Sports.4.HD.uk" -> "uk"), or Unknown.
func Suffix(identifier string) Code {
	i := strings.LastIndexByte(identifier, '.')
	if i < 0 || len(identifier)-i-1 != 2 {
		return Unknown
	}
	tail := strings.ToLower(identifier[i+1:])
	if !isLetter(tail[0]) || !isLetter(tail[1]) {
		return Unknown
	}
	return Code(tail)
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
