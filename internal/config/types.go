// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/tvgmatch/internal/alias"
	"github.com/ManuGH/tvgmatch/internal/country"
)

// AppConfig is the complete runtime configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	DataDir string `yaml:"dataDir"`
	Output  string `yaml:"output"`  // playlist path; relative paths live under DataDir
	Offline bool   `yaml:"offline"` // build from snapshots instead of fetching
	Workers int    `yaml:"workers"` // resolver pool size; 0 = GOMAXPROCS

	Log      LogConfig      `yaml:"log"`
	Sources  SourcesConfig  `yaml:"sources"`
	Match    MatchConfig    `yaml:"match"`
	Probe    ProbeConfig    `yaml:"probe"`
	Events   EventsConfig   `yaml:"events"`
	Playlist PlaylistConfig `yaml:"playlist"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LogConfig configures internal/log.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
}

// SourcesConfig names the upstream feeds.
type SourcesConfig struct {
	VocabularyURL string            `yaml:"vocabularyURL"`
	GuideURL      string            `yaml:"guideURL"` // announced as url-tvg
	LogoAPIURL    string            `yaml:"logoAPIURL"`
	LogoRawBase   string            `yaml:"logoRawBase"`
	ScheduleURL   string            `yaml:"scheduleURL"`
	Timeout       time.Duration     `yaml:"timeout"`
	Attempts      int               `yaml:"attempts"`
	Headers       map[string]string `yaml:"headers"`
}

// MatchConfig holds the editorial matching data. Empty lists mean built-in
// defaults.
type MatchConfig struct {
	Countries      []country.Entry `yaml:"countries"`
	Patterns       []string        `yaml:"patterns"`
	Priority       []string        `yaml:"priority"`
	Aliases        alias.Rules     `yaml:"aliases"`
	FuzzyCutoff    float64         `yaml:"fuzzyCutoff"`
	FuzzyLimit     int             `yaml:"fuzzyLimit"`
	FuzzyMinKeyLen int             `yaml:"fuzzyMinKeyLen"`
	LogoSuffixes   []string        `yaml:"logoSuffixes"`
	LogoExtension  string          `yaml:"logoExtension"`
}

// ProbeConfig configures stream template probing.
type ProbeConfig struct {
	Templates []string          `yaml:"templates"`
	Workers   int               `yaml:"workers"`
	RPS       float64           `yaml:"rps"`
	Burst     int               `yaml:"burst"`
	Timeout   time.Duration     `yaml:"timeout"`
	Headers   map[string]string `yaml:"headers"`
}

// EventsConfig selects schedule events.
type EventsConfig struct {
	Categories []string      `yaml:"categories"`
	Prefixes   []string      `yaml:"prefixes"`
	Exclude    []string      `yaml:"exclude"`
	TimeOffset time.Duration `yaml:"timeOffset"`
}

// PlaylistConfig shapes playlist entries.
type PlaylistConfig struct {
	VLCOptions  []string `yaml:"vlcOptions"`
	ProxyPrefix string   `yaml:"proxyPrefix"`
}

// ServerConfig configures `tvgmatch serve`.
type ServerConfig struct {
	ListenAddr string        `yaml:"listenAddr"`
	RateLimit  int           `yaml:"rateLimit"` // requests per RateWindow per client IP
	RateWindow time.Duration `yaml:"rateWindow"`
	MaxNames   int           `yaml:"maxNames"` // per POST /api/resolve
}

// MetricsConfig configures metric export for batch runs.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}
