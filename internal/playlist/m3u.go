// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package playlist writes extended M3U playlists.
package playlist

import (
	"bufio"
	"io"
	"strings"
)

// Item is one playlist entry.
type Item struct {
	Name    string
	TvgID   string // omitted when empty
	TvgLogo string
	Group   string
	URL     string
	VLCOpts []string // "key=value" pairs written as #EXTVLCOPT lines
}

var (
	attrEscaper = strings.NewReplacer(`"`, "'", "\r", " ", "\n", " ")
	lineEscaper = strings.NewReplacer("\r", " ", "\n", " ")
)

// WriteM3U writes items to w. tvgURL, when set, is announced as the guide
// source in the header.
func WriteM3U(w io.Writer, items []Item, tvgURL string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#EXTM3U")
	if tvgURL != "" {
		bw.WriteString(` url-tvg="` + attrEscaper.Replace(tvgURL) + `"`)
	}
	bw.WriteByte('\n')

	for _, it := range items {
		bw.WriteString("#EXTINF:-1")
		if it.TvgID != "" {
			attr(bw, "tvg-id", it.TvgID)
		}
		attr(bw, "tvg-name", it.Name)
		if it.TvgLogo != "" {
			attr(bw, "tvg-logo", it.TvgLogo)
		}
		if it.Group != "" {
			attr(bw, "group-title", it.Group)
		}
		bw.WriteString("," + lineEscaper.Replace(it.Name) + "\n")
		for _, opt := range it.VLCOpts {
			bw.WriteString("#EXTVLCOPT:" + lineEscaper.Replace(opt) + "\n")
		}
		bw.WriteString(lineEscaper.Replace(it.URL) + "\n")
	}
	return bw.Flush()
}

func attr(bw *bufio.Writer, key, value string) {
	bw.WriteString(" " + key + `="` + attrEscaper.Replace(value) + `"`)
}
