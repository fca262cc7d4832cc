// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ManuGH/tvgmatch/internal/config"
	"github.com/ManuGH/tvgmatch/internal/epg"
	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/ManuGH/tvgmatch/internal/metrics"
	"github.com/ManuGH/tvgmatch/internal/resolver"
	"golang.org/x/sync/errgroup"
)

// NewResolver fetches the vocabulary and the logo listing from src, builds
// both indexes and returns a Resolver over them. Either fetch failing is
// fatal.
func NewResolver(ctx context.Context, cfg config.AppConfig, src Source) (*resolver.Resolver, error) {
	logger := xglog.WithComponentFromContext(ctx, "jobs")

	parser, err := cfg.Match.Parser()
	if err != nil {
		return nil, fmt.Errorf("build channel parser: %w", err)
	}

	var (
		vocab   []byte
		listing logo.Listing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vocab, err = src.Vocabulary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		listing, err = src.LogoListing(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids, err := epg.ReadIndex(bytes.NewReader(vocab))
	if err != nil {
		return nil, err
	}
	st := ids.Stats()
	metrics.RecordIndex("identifier", st.Keys, st.Skipped)
	logger.Info().
		Str(xglog.FieldEvent, "index.built").
		Str("index", "identifier").
		Int("entries", st.Entries).
		Int("skipped", st.Skipped).
		Int("keys", st.Keys).
		Msg("identifier index built")

	logos := logo.Build(listing, cfg.Sources.LogoRawBase, cfg.Match.LogoOptions())
	ls := logos.Stats()
	metrics.RecordIndex("logo", ls.Keys, ls.Skipped)
	logger.Info().
		Str(xglog.FieldEvent, "index.built").
		Str("index", "logo").
		Int("directories", ls.Directories).
		Int("files", ls.Files).
		Int("skipped", ls.Skipped).
		Int("keys", ls.Keys).
		Msg("logo index built")

	return resolver.New(ids, logos,
		resolver.WithParser(parser),
		resolver.WithExpander(cfg.Match.Expander()),
		resolver.WithPolicy(cfg.Match.Policy()),
		resolver.WithFuzzy(cfg.Match.Fuzzy()),
		resolver.WithSentinel(logo.Sentinel(cfg.Sources.LogoRawBase)),
		resolver.WithLogoExtension(cfg.Match.LogoOptions().Extension),
	), nil
}
