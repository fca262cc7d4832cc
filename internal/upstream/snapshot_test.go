// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package upstream

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotsRoundTrip(t *testing.T) {
	s := Snapshots{Dir: filepath.Join(t.TempDir(), "snapshots")}

	require.NoError(t, s.Save(VocabularyFile, []byte("BBC.One.HD.uk\n")))
	b, err := s.Load(VocabularyFile)
	require.NoError(t, err)
	assert.Equal(t, "BBC.One.HD.uk\n", string(b))

	listing := logo.Listing{{Name: "united-kingdom", Files: []string{"bbc-one-uk.png"}}}
	require.NoError(t, s.SaveListing(listing))
	got, err := s.LoadListing()
	require.NoError(t, err)
	assert.Equal(t, listing, got)
}

func TestSnapshotsMissing(t *testing.T) {
	s := Snapshots{Dir: t.TempDir()}
	_, err := s.Load(ScheduleFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSnapshot))
}

func TestSnapshotsConfinedToDir(t *testing.T) {
	dir := t.TempDir()
	s := Snapshots{Dir: dir}
	require.NoError(t, s.Save("../escape.txt", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)
}

func TestLoadListingMalformed(t *testing.T) {
	s := Snapshots{Dir: t.TempDir()}
	require.NoError(t, s.Save(LogosFile, []byte("{not json")))
	_, err := s.LoadListing()
	assert.True(t, errors.Is(err, ErrBadResponse))
}
