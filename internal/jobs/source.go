// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"path/filepath"

	"github.com/ManuGH/tvgmatch/internal/config"
	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/ManuGH/tvgmatch/internal/upstream"
)

// Source provides the upstream snapshots a run is built from.
type Source interface {
	Vocabulary(ctx context.Context) ([]byte, error)
	LogoListing(ctx context.Context) (logo.Listing, error)
	Schedule(ctx context.Context) ([]byte, error)
}

// SnapshotDir is the directory under the data dir holding fetched snapshots.
func SnapshotDir(cfg config.AppConfig) string {
	return filepath.Join(cfg.DataDir, "snapshots")
}

// NewSource returns the source described by cfg: the stored snapshots when
// cfg.Offline is set, otherwise the upstream client with every fetch
// recorded as a snapshot.
func NewSource(cfg config.AppConfig) Source {
	snaps := upstream.Snapshots{Dir: SnapshotDir(cfg)}
	if cfg.Offline {
		return offlineSource{snaps: snaps}
	}
	cl := upstream.New(upstream.Options{
		VocabularyURL: cfg.Sources.VocabularyURL,
		LogoAPIURL:    cfg.Sources.LogoAPIURL,
		ScheduleURL:   cfg.Sources.ScheduleURL,
		Headers:       cfg.Sources.Headers,
		Timeout:       cfg.Sources.Timeout,
		Attempts:      uint(max(cfg.Sources.Attempts, 1)),
	})
	return recordingSource{src: cl, snaps: snaps}
}

// offlineSource serves the snapshots of a previous online run.
type offlineSource struct {
	snaps upstream.Snapshots
}

func (s offlineSource) Vocabulary(context.Context) ([]byte, error) {
	return s.snaps.Load(upstream.VocabularyFile)
}

func (s offlineSource) LogoListing(context.Context) (logo.Listing, error) {
	return s.snaps.LoadListing()
}

func (s offlineSource) Schedule(context.Context) ([]byte, error) {
	return s.snaps.Load(upstream.ScheduleFile)
}

// recordingSource stores every successful fetch. A failed store is logged
// and does not fail the run.
type recordingSource struct {
	src   Source
	snaps upstream.Snapshots
}

func (s recordingSource) Vocabulary(ctx context.Context) ([]byte, error) {
	b, err := s.src.Vocabulary(ctx)
	if err == nil {
		s.store(ctx, upstream.VocabularyFile, s.snaps.Save(upstream.VocabularyFile, b))
	}
	return b, err
}

func (s recordingSource) LogoListing(ctx context.Context) (logo.Listing, error) {
	l, err := s.src.LogoListing(ctx)
	if err == nil {
		s.store(ctx, upstream.LogosFile, s.snaps.SaveListing(l))
	}
	return l, err
}

func (s recordingSource) Schedule(ctx context.Context) ([]byte, error) {
	b, err := s.src.Schedule(ctx)
	if err == nil {
		s.store(ctx, upstream.ScheduleFile, s.snaps.Save(upstream.ScheduleFile, b))
	}
	return b, err
}

func (s recordingSource) store(ctx context.Context, name string, err error) {
	if err == nil {
		return
	}
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	logger.Warn().
		Err(err).
		Str(xglog.FieldEvent, "snapshot.save_failed").
		Str(xglog.FieldPath, name).
		Msg("could not store snapshot")
}
