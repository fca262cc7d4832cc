// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playlist

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteM3UTable(t *testing.T) {
	tests := []struct {
		name   string
		items  []Item
		tvgURL string
		expect []string
		absent []string
	}{
		{
			name: "resolved channel with logo and options",
			items: []Item{{
				Name: "Sky Sports Main Event UK", TvgID: "SkySp.Mainevent.HD.uk", Group: "[14:30] Arsenal vs Spurs",
				TvgLogo: "https://logos/sky.png", URL: "https://cdn/premium35/mono.m3u8",
				VLCOpts: []string{"http-referrer=https://ref/", "http-user-agent=UA"},
			}},
			tvgURL: "https://guide/all.xml.gz",
			expect: []string{
				`#EXTM3U url-tvg="https://guide/all.xml.gz"`,
				`tvg-id="SkySp.Mainevent.HD.uk"`,
				`tvg-name="Sky Sports Main Event UK"`,
				`tvg-logo="https://logos/sky.png"`,
				`group-title="[14:30] Arsenal vs Spurs"`,
				",Sky Sports Main Event UK\n",
				"#EXTVLCOPT:http-referrer=https://ref/\n#EXTVLCOPT:http-user-agent=UA\nhttps://cdn/premium35/mono.m3u8\n",
			},
		},
		{
			name:   "unresolved channel omits guide id",
			items:  []Item{{Name: "Mystery 7", TvgLogo: "https://logos/misc/no-logo.png", URL: "http://s/7"}},
			expect: []string{"#EXTM3U\n", `tvg-logo="https://logos/misc/no-logo.png"`, ",Mystery 7\nhttp://s/7\n"},
			absent: []string{"tvg-id", "url-tvg", "group-title"},
		},
		{
			name:   "quotes and newlines are neutralised",
			items:  []Item{{Name: "A \"B\"\nC", Group: "x\"y", URL: "http://s/1"}},
			expect: []string{`tvg-name="A 'B' C"`, `group-title="x'y"`, `,A "B" C` + "\n"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			require.NoError(t, WriteM3U(&b, tc.items, tc.tvgURL))
			out := b.String()
			for _, want := range tc.expect {
				assert.Contains(t, out, want)
			}
			for _, no := range tc.absent {
				assert.NotContains(t, out, no)
			}
			assert.Equal(t, len(tc.items), strings.Count(out, "#EXTINF:"))
		})
	}
}

func TestWriteM3UEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteM3U(&b, nil, ""))
	assert.Equal(t, "#EXTM3U\n", b.String())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteM3UPropagatesWriteErrors(t *testing.T) {
	err := WriteM3U(failWriter{}, []Item{{Name: "x", URL: "y"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
