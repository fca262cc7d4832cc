// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/google/renameio/v2"
)

// Snapshot file names.
const (
	VocabularyFile = "vocabulary.txt"
	LogosFile      = "logos.json"
	ScheduleFile   = "schedule.json"
)

// Snapshots persists fetched upstream data so a run can be rebuilt offline.
type Snapshots struct {
	Dir string
}

// Save atomically writes data to name.
func (s Snapshots) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := renameio.WriteFile(s.path(name), data, 0o640); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	return nil
}

// Load reads name. A missing file yields ErrNoSnapshot.
func (s Snapshots) Load(name string) ([]byte, error) {
	b, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, s.path(name))
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return b, nil
}

// SaveListing stores a logo listing as JSON.
func (s Snapshots) SaveListing(l logo.Listing) error {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode logo listing: %w", err)
	}
	return s.Save(LogosFile, b)
}

// LoadListing reads a listing stored by SaveListing.
func (s Snapshots) LoadListing() (logo.Listing, error) {
	b, err := s.Load(LogosFile)
	if err != nil {
		return nil, err
	}
	var l logo.Listing
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadResponse, LogosFile, err)
	}
	return l, nil
}

func (s Snapshots) path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}
