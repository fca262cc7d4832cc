// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package alias

import (
	"testing"

	"github.com/ManuGH/tvgmatch/internal/normalize"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestExpandExact(t *testing.T) {
	tests := []struct {
		brand string
		want  []string
	}{
		{brand: "BBC One", want: []string{"bbc one", "bbcone", "bbc 1"}},
		{brand: "Sport TV", want: []string{"sport tv", "sporttv", "sports tv", "sportsorttv"}},
		{brand: "TV", want: []string{"tv"}},
		{brand: "", want: nil},
		{brand: " !! ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Expand(tt.brand)); diff != "" {
				t.Errorf("Expand(%q) mismatch (-want +got):\n%s", tt.brand, diff)
			}
		})
	}
}

func TestExpandSkySportsNews(t *testing.T) {
	got := Expand("Sky Sports News")

	assert.Equal(t, []string{"sky sports news", "skysportsnews", "sky", "sky sport news", "skysports news"}, got[:5])
	assert.Contains(t, got, "skyspnews", "long form compressed to abbreviation")
}

func TestExpandNetworkRequiresWholePhrase(t *testing.T) {
	got := Expand("Sky Sportsman")
	for _, v := range got {
		assert.NotEqual(t, "skysports man", v)
	}

	got = Expand("BT Sport 2")
	assert.Contains(t, got, "btsport 2")
	assert.Contains(t, got, "bt sports 2")
}

func TestExpandAbbreviationsBothWays(t *testing.T) {
	assert.Contains(t, Expand("Fox Soc Plus"), "foxsoccerplus")
	assert.Contains(t, Expand("Fox Soccer Plus"), "foxsocplus")
	assert.Contains(t, Expand("NBC Sports Network"), "nbcsn")
}

func TestExpandProperties(t *testing.T) {
	brands := []string{
		"Sky Sports Racing", "JOJ Sport", "TNT Sports 4 HD", "ESPN 2", "beIN Sports MENA",
		"Eurosport 1", "Fox Sports One", "Canal+ Sport", "Télé Sports Network", "Five",
	}
	for _, b := range brands {
		got := Expand(b)
		slug := normalize.Compact(normalize.Text(b))

		assert.Contains(t, got, slug, b)
		seen := map[string]bool{}
		for _, v := range got {
			assert.NotEmpty(t, v, b)
			assert.False(t, seen[v], "duplicate %q for %q", v, b)
			seen[v] = true
		}
		assert.Equal(t, got, Expand(b), "expansion must be stable for %q", b)
	}
}

func TestCustomRules(t *testing.T) {
	e := New(Rules{
		GenericWords:  []string{"Kanal"},
		Abbreviations: []Pair{{From: "SF", To: "Sport Fernsehen"}},
	})
	got := e.Expand("Kanal Sport Fernsehen")
	assert.Contains(t, got, "sport fernsehen")
	assert.Contains(t, got, "kanalsf")
}
