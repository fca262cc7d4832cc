// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resolver

import (
	"context"
	"runtime"

	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves every distinct name on a pool of at most workers
// goroutines and returns one Result per input name, in input order.
// workers <= 0 uses GOMAXPROCS. The only error is ctx cancellation.
func (r *Resolver) ResolveAll(ctx context.Context, names []string, workers int) ([]Result, error) {
	slot := make(map[string]int, len(names))
	var distinct []string
	for _, n := range names {
		if _, ok := slot[n]; !ok {
			slot[n] = len(distinct)
			distinct = append(distinct, n)
		}
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(len(distinct), 1))

	resolved := make([]Result, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, n := range distinct {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved[i] = r.Resolve(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Result, len(names))
	for i, n := range names {
		out[i] = resolved[slot[n]]
	}

	logger := xglog.WithComponentFromContext(ctx, "resolver")
	st := Summarize(out)
	logger.Info().
		Str(xglog.FieldEvent, "resolve.done").
		Int("distinct", len(distinct)).
		Int("workers", workers).
		Int("exact", st.Exact).
		Int("fuzzy", st.Fuzzy).
		Int("none", st.None).
		Int("logos", st.Logos).
		Msg("channels resolved")
	return out, nil
}

// Stats summarises a batch of results.
type Stats struct {
	Total int `json:"total"`
	Exact int `json:"exact"`
	Fuzzy int `json:"fuzzy"`
	None  int `json:"none"`
	Logos int `json:"logos"` // results with a matched logo
}

// Summarize counts outcomes in results.
func Summarize(results []Result) Stats {
	st := Stats{Total: len(results)}
	for _, res := range results {
		switch res.Match.Confidence {
		case Exact:
			st.Exact++
		case Fuzzy:
			st.Fuzzy++
		default:
			st.None++
		}
		if res.Logo.Matched {
			st.Logos++
		}
	}
	return st
}

// LogoRate returns the share of results with a matched logo.
func (s Stats) LogoRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Logos) / float64(s.Total)
}
