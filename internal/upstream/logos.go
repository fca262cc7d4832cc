// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/ManuGH/tvgmatch/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// contentsEntry is one item of the GitHub contents API.
type contentsEntry struct {
	Name string `json:"name"`
	Type string `json:"type"` // "file" | "dir" | "symlink" | "submodule"
}

// LogoListing walks the repository contents API: the root listing names the
// country directories, one request per directory lists its files. Failing
// directories are logged and left out; a failing root listing is fatal.
func (c *Client) LogoListing(ctx context.Context) (logo.Listing, error) {
	logger := xglog.WithComponentFromContext(ctx, "upstream")
	base := strings.TrimRight(c.opts.LogoAPIURL, "/")

	root, err := c.contents(ctx, base)
	metrics.RecordFetch("logos", err)
	if err != nil {
		return nil, fmt.Errorf("fetch logo listing: %w", err)
	}

	var dirs []string
	for _, e := range root {
		if e.Type == "dir" && e.Name != "" {
			dirs = append(dirs, e.Name)
		}
	}
	logger.Info().Int(xglog.FieldCount, len(dirs)).Msg("logo directories listed")

	listing := make(logo.Listing, len(dirs))
	ok := make([]bool, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.ListWorkers)
	for i, dir := range dirs {
		g.Go(func() error {
			entries, err := c.contents(gctx, base+"/"+url.PathEscape(dir))
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn().Err(err).Str("directory", dir).Msg("skipping logo directory")
				return nil
			}
			d := logo.Directory{Name: dir}
			for _, e := range entries {
				if e.Type == "file" {
					d.Files = append(d.Files, e.Name)
				}
			}
			listing[i], ok[i] = d, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch logo listing: %w", err)
	}

	out := listing[:0]
	for i, d := range listing {
		if ok[i] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *Client) contents(ctx context.Context, u string) ([]contentsEntry, error) {
	b, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var entries []contentsEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadResponse, u, err)
	}
	return entries, nil
}
