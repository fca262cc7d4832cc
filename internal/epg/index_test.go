// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package epg

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexKeys(t *testing.T) {
	ix := BuildIndex([]string{"TNT.Sports.4.HD.uk", "TNT.Sports.4.HD.us"})

	both := []string{"TNT.Sports.4.HD.uk", "TNT.Sports.4.HD.us"}
	tests := []struct {
		key  Key
		want []string
	}{
		{"tnt sports 4 hd", both},
		{"tntsports4hd", both},
		{"tnt sports 4", both},
		{"tnt", both},
		{"tnt sports 4 hd.uk", both[:1]},
		{"tntsports4hd.us", both[1:]},
		{"tntsports.uk", both[:1]},
		{"tnt.sports.4.hd.uk", both[:1]},
		{"tnt.sports.4.hd", both},
		{"tnt.sports", both},
	}
	for _, tt := range tests {
		got, ok := ix.Lookup(tt.key)
		require.True(t, ok, "missing key %q", tt.key)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Lookup(%q) mismatch (-want +got):\n%s", tt.key, diff)
		}
	}

	_, ok := ix.Lookup("tnt sports 4 hd.de")
	assert.False(t, ok)
}

func TestBuildIndexNoCountry(t *testing.T) {
	ix := BuildIndex([]string{"ESPN", "Sky.Sports.Main.Event.HD2"})

	got, ok := ix.Lookup("espn")
	require.True(t, ok)
	assert.Equal(t, []string{"ESPN"}, got, "single-word line must register once")

	got, ok = ix.Lookup("sky sports main event hd2")
	require.True(t, ok)
	assert.Equal(t, []string{"Sky.Sports.Main.Event.HD2"}, got)

	_, ok = ix.Lookup("sky sports main event.hd2")
	assert.False(t, ok, "a non two-letter tail is not a country")
}

func TestBuildIndexSkipsAndStats(t *testing.T) {
	ix := BuildIndex([]string{
		"# epg ids",
		"",
		"   ",
		"TNT.Sports.4.HD.uk",
		"...",
		"ESPN",
	})
	st := ix.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, ix.Len(), st.Keys)
}

func TestBuildIndexPreservesVocabularyOrder(t *testing.T) {
	ix := BuildIndex([]string{"Eurosport.1.de", "Eurosport.1.uk", "Eurosport.1.fr"})
	got, _ := ix.Lookup("eurosport 1")
	assert.Equal(t, []string{"Eurosport.1.de", "Eurosport.1.uk", "Eurosport.1.fr"}, got)

	var keys []Key
	ix.Range(func(k Key) bool {
		keys = append(keys, k)
		return len(keys) < 3
	})
	assert.Equal(t, []Key{"eurosport 1", "eurosport 1.de", "eurosport1"}, keys)
}

func TestLookupReturnsCopy(t *testing.T) {
	ix := BuildIndex([]string{"ESPN.us"})
	got, _ := ix.Lookup("espn")
	got[0] = "mutated"
	again, _ := ix.Lookup("espn")
	assert.Equal(t, []string{"ESPN.us"}, again)
}

func TestReadIndex(t *testing.T) {
	ix, err := ReadIndex(strings.NewReader("# header\nBBC.One.HD.uk\r\nBBC.Two.uk\n"))
	require.NoError(t, err)

	got, ok := ix.Lookup("bbc two.uk")
	require.True(t, ok)
	assert.Equal(t, []string{"BBC.Two.uk"}, got)

	_, err = ReadIndex(iotest.ErrReader(errors.New("boom")))
	assert.ErrorContains(t, err, "boom")
}

func TestReadIndexSkipsOversizedLine(t *testing.T) {
	vocab := "ESPN.us\n" + strings.Repeat("x", 2<<20) + "\nTNT.Sports.4.HD.uk\n"
	ix, err := ReadIndex(strings.NewReader(vocab))
	require.NoError(t, err)

	got, ok := ix.Lookup("espn.us")
	require.True(t, ok)
	assert.Equal(t, []string{"ESPN.us"}, got)

	got, ok = ix.Lookup("tnt sports 4 hd.uk")
	require.True(t, ok)
	assert.Equal(t, []string{"TNT.Sports.4.HD.uk"}, got)

	st := ix.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, 1, st.Skipped)
}

func TestReadIndexLastLineWithoutNewline(t *testing.T) {
	ix, err := ReadIndex(iotest.OneByteReader(strings.NewReader("BBC.One.uk\nBBC.Two.uk")))
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Stats().Entries)

	_, ok := ix.Lookup("bbc two")
	assert.True(t, ok)
}

func TestBuildIndexKeepsRepeatedLines(t *testing.T) {
	ix := BuildIndex([]string{"ESPN.us", "ESPN.us"})
	got, ok := ix.Lookup("espn")
	require.True(t, ok)
	assert.Equal(t, []string{"ESPN.us", "ESPN.us"}, got)

	got, _ = ix.Lookup("espn.us")
	assert.Equal(t, []string{"ESPN.us", "ESPN.us"}, got)
}

func TestDeterministicBuild(t *testing.T) {
	lines := []string{"A.uk", "B.Channel.us", "A.Channel.de", "C.fr"}
	first := BuildIndex(lines)
	second := BuildIndex(lines)

	var k1, k2 []Key
	first.Range(func(k Key) bool { k1 = append(k1, k); return true })
	second.Range(func(k Key) bool { k2 = append(k2, k); return true })
	assert.Equal(t, k1, k2)
}
