// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package country

import "strings"

// DefaultPriority is the tie-break order applied when several countries
// carry the same channel.
var DefaultPriority = []Code{"uk", "gb", "us", "ca", "au", "nz", "ie", "de", "fr", "es", "it", "nl", "pt", "pl", "sk"}

// Policy picks one identifier out of several candidates.
type Policy struct {
	Priority []Code
}

// NewPolicy returns a Policy using priority, or DefaultPriority when empty.
func NewPolicy(priority []Code) Policy {
	if len(priority) == 0 {
		priority = DefaultPriority
	}
	p := make([]Code, 0, len(priority))
	for _, c := range priority {
		c = Code(strings.ToLower(strings.TrimSpace(string(c))))
		if c != Unknown {
			p = append(p, c)
		}
	}
	return Policy{Priority: p}
}

// Pick selects the best candidate:
//  1. zero or one candidate is returned as-is ("" for none);
//  2. the first candidate carrying the preferred country suffix;
//  3. for each priority code in order, the first candidate carrying it;
//  4. otherwise the first candidate.
func (p Policy) Pick(candidates []string, preferred Code) string {
	switch len(candidates) {
	case 0:
		return ""
	case 1:
		return candidates[0]
	}

	if preferred.Known() {
		if c, ok := firstWithSuffix(candidates, preferred); ok {
			return c
		}
	}

	for _, code := range p.Priority {
		if c, ok := firstWithSuffix(candidates, code); ok {
			return c
		}
	}
	return candidates[0]
}

func firstWithSuffix(candidates []string, code Code) (string, bool) {
	suffix := "." + string(code)
	for _, c := range candidates {
		if strings.HasSuffix(strings.ToLower(c), suffix) {
			return c, true
		}
	}
	return "", false
}
