// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package jobs runs the batch pipeline: fetch upstream snapshots, build the
// indexes, resolve every scheduled channel and write the playlist.
package jobs

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/tvgmatch/internal/config"
	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/metrics"
	"github.com/ManuGH/tvgmatch/internal/playlist"
	"github.com/ManuGH/tvgmatch/internal/probe"
	"github.com/ManuGH/tvgmatch/internal/resolver"
	"github.com/ManuGH/tvgmatch/internal/schedule"
	"github.com/google/uuid"
)

// Status summarises a batch run.
type Status struct {
	JobID    string         `json:"job_id"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
	Events   int            `json:"events"`   // events passing the filter
	Channels int            `json:"channels"` // distinct channel names resolved
	Live     int            `json:"live"`     // channel ids with a working stream
	Entries  int            `json:"entries"`  // playlist entries written
	Resolve  resolver.Stats `json:"resolve"`
	Output   string         `json:"output"`
}

// StreamFinder resolves a channel id to a playable stream URL.
type StreamFinder interface {
	FindAll(ctx context.Context, ids []string) (map[string]string, error)
}

// Run executes one batch run against the sources described by cfg.
func Run(ctx context.Context, cfg config.AppConfig) (*Status, error) {
	prober := probe.New(probe.Options{
		Templates: cfg.Probe.Templates,
		Workers:   cfg.Probe.Workers,
		RPS:       cfg.Probe.RPS,
		Burst:     cfg.Probe.Burst,
		Timeout:   cfg.Probe.Timeout,
		Headers:   cfg.Probe.Headers,
	})
	return RunWith(ctx, cfg, NewSource(cfg), prober)
}

// RunWith is Run with explicit dependencies.
func RunWith(ctx context.Context, cfg config.AppConfig, src Source, streams StreamFinder) (*Status, error) {
	st := &Status{JobID: uuid.NewString(), Started: time.Now(), Output: cfg.Output}
	ctx = xglog.ContextWithJobID(ctx, st.JobID)
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	logger.Info().
		Str(xglog.FieldEvent, "run.start").
		Bool("offline", cfg.Offline).
		Msg("starting run")

	r, err := NewResolver(ctx, cfg, src)
	if err != nil {
		return nil, fmt.Errorf("build indexes: %w", err)
	}

	raw, err := src.Schedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	sched, err := schedule.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	events := sched.Events(cfg.Events.Filter())
	st.Events = len(events)
	logger.Info().
		Str(xglog.FieldEvent, "schedule.filtered").
		Int("total", sched.Count()).
		Int("selected", len(events)).
		Int("skipped", sched.Skipped).
		Msg("schedule decoded")

	var names, ids []string
	for _, e := range events {
		for _, ch := range e.Channels {
			names = append(names, ch.Name)
			ids = append(ids, ch.ID)
		}
	}

	streamURLs, err := streams.FindAll(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("probe streams: %w", err)
	}
	st.Live = len(streamURLs)

	results, err := r.ResolveAll(ctx, names, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("resolve channels: %w", err)
	}
	byName := make(map[string]resolver.Result, len(results))
	var distinct []resolver.Result
	for _, res := range results {
		if _, ok := byName[res.Name]; !ok {
			byName[res.Name] = res
			distinct = append(distinct, res)
		}
	}
	st.Channels = len(distinct)
	st.Resolve = resolver.Summarize(distinct)

	items := buildItems(events, byName, streamURLs, cfg)
	st.Entries = len(items)

	if err := writeM3U(ctx, cfg.Output, items, cfg.Sources.GuideURL); err != nil {
		return nil, err
	}
	logger.Info().
		Str(xglog.FieldEvent, "playlist.write").
		Str(xglog.FieldPath, cfg.Output).
		Int(xglog.FieldCount, len(items)).
		Msg("playlist written")

	st.Finished = time.Now()
	metrics.RecordRun(st.Entries, st.Finished.Sub(st.Started), st.Finished)
	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "metrics.textfile_failed").Msg("could not write metrics textfile")
		}
	}

	logger.Info().
		Str(xglog.FieldEvent, "run.done").
		Int("events", st.Events).
		Int("channels", st.Channels).
		Int("live", st.Live).
		Int("entries", st.Entries).
		Int("exact", st.Resolve.Exact).
		Int("fuzzy", st.Resolve.Fuzzy).
		Int("unmatched", st.Resolve.None).
		Float64("logo_rate", st.Resolve.LogoRate()).
		Dur("took", st.Finished.Sub(st.Started)).
		Msg("run finished")
	return st, nil
}

// buildItems emits one entry per (event, channel) pair with a live stream,
// in schedule order. A channel listed twice under the same event is
// written once.
func buildItems(events []schedule.Event, results map[string]resolver.Result, streams map[string]string, cfg config.AppConfig) []playlist.Item {
	var items []playlist.Item
	for _, e := range events {
		group := e.Title
		if e.Time != "" {
			group = "[" + schedule.Shift(e.Time, cfg.Events.TimeOffset) + "] " + e.Title
		}
		seen := make(map[string]struct{}, len(e.Channels))
		for _, ch := range e.Channels {
			u, ok := streams[ch.ID]
			if !ok {
				continue
			}
			if _, dup := seen[ch.ID]; dup {
				continue
			}
			seen[ch.ID] = struct{}{}

			res := results[ch.Name]
			it := playlist.Item{
				Name:    ch.Name,
				TvgLogo: res.Logo.URL,
				Group:   group,
				URL:     proxied(cfg.Playlist.ProxyPrefix, u),
				VLCOpts: cfg.Playlist.VLCOptions,
			}
			if res.Match.Found() {
				it.TvgID = res.Match.Identifier
			}
			items = append(items, it)
		}
	}
	return items
}

// proxied routes u through prefix. The proxy re-adds the https scheme.
func proxied(prefix, u string) string {
	if prefix == "" {
		return u
	}
	return prefix + strings.TrimPrefix(u, "https://")
}
