// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resolver

import (
	"fmt"

	"github.com/ManuGH/tvgmatch/internal/channel"
)

// Confidence tags how an identifier was found.
type Confidence int

const (
	// NoMatch means no identifier could be found. Callers omit guide metadata.
	NoMatch Confidence = iota
	// Exact means a generated candidate key hit the index.
	Exact
	// Fuzzy means a similarity search above the cutoff produced the result.
	Fuzzy
)

func (c Confidence) String() string {
	switch c {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Confidence) UnmarshalText(b []byte) error {
	switch string(b) {
	case "exact":
		*c = Exact
	case "fuzzy":
		*c = Fuzzy
	case "none", "":
		*c = NoMatch
	default:
		return fmt.Errorf("unknown confidence %q", b)
	}
	return nil
}

// Match is the outcome of identifier resolution. Identifier is empty iff
// Confidence is NoMatch.
type Match struct {
	Identifier string     `json:"identifier,omitempty"`
	Confidence Confidence `json:"confidence"`
	Key        string     `json:"key,omitempty"` // index key that produced the hit
}

// Found reports whether an identifier was resolved.
func (m Match) Found() bool { return m.Confidence != NoMatch }

// Logo is the outcome of logo resolution. URL is never empty; it holds the
// sentinel when Matched is false.
type Logo struct {
	URL     string `json:"url"`
	Matched bool   `json:"matched"`
}

// Result bundles both resolutions for one channel name.
type Result struct {
	Name     string           `json:"name"`
	Identity channel.Identity `json:"-"`
	Match    Match            `json:"match"`
	Logo     Logo             `json:"logo"`
}
