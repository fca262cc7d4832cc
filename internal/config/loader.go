// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // every env key consulted by the last Load
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Load is NewLoader(configPath, version).Load().
func Load(configPath, version string) (AppConfig, error) {
	return NewLoader(configPath, version).Load()
}

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	cfg.Version = l.version

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)

	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.Output != "" && !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(cfg.DataDir, cfg.Output)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile decodes a strict YAML file over cfg. ${VAR} references are
// expanded before parsing.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

// Wrapper methods for mechanical connection tracking

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envList(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseList(key, defaultVal)
}

// mergeEnv applies TVGMATCH_* overrides.
func (l *Loader) mergeEnv(cfg *AppConfig) {
	p := EnvPrefix
	cfg.DataDir = l.envString(p+"DATA_DIR", cfg.DataDir)
	cfg.Output = l.envString(p+"OUTPUT", cfg.Output)
	cfg.Offline = l.envBool(p+"OFFLINE", cfg.Offline)
	cfg.Workers = l.envInt(p+"WORKERS", cfg.Workers)

	cfg.Log.Level = l.envString(p+"LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = l.envString(p+"LOG_FILE", cfg.Log.File)

	cfg.Sources.VocabularyURL = l.envString(p+"VOCABULARY_URL", cfg.Sources.VocabularyURL)
	cfg.Sources.GuideURL = l.envString(p+"GUIDE_URL", cfg.Sources.GuideURL)
	cfg.Sources.LogoAPIURL = l.envString(p+"LOGO_API_URL", cfg.Sources.LogoAPIURL)
	cfg.Sources.LogoRawBase = l.envString(p+"LOGO_RAW_BASE", cfg.Sources.LogoRawBase)
	cfg.Sources.ScheduleURL = l.envString(p+"SCHEDULE_URL", cfg.Sources.ScheduleURL)
	cfg.Sources.Timeout = l.envDuration(p+"FETCH_TIMEOUT", cfg.Sources.Timeout)
	cfg.Sources.Attempts = l.envInt(p+"FETCH_ATTEMPTS", cfg.Sources.Attempts)

	cfg.Match.Priority = l.envList(p+"PRIORITY", cfg.Match.Priority)
	cfg.Match.FuzzyCutoff = l.envFloat(p+"FUZZY_CUTOFF", cfg.Match.FuzzyCutoff)
	cfg.Match.FuzzyLimit = l.envInt(p+"FUZZY_LIMIT", cfg.Match.FuzzyLimit)

	cfg.Probe.Templates = l.envList(p+"PROBE_TEMPLATES", cfg.Probe.Templates)
	cfg.Probe.Workers = l.envInt(p+"PROBE_WORKERS", cfg.Probe.Workers)
	cfg.Probe.RPS = l.envFloat(p+"PROBE_RPS", cfg.Probe.RPS)
	cfg.Probe.Timeout = l.envDuration(p+"PROBE_TIMEOUT", cfg.Probe.Timeout)

	cfg.Events.Categories = l.envList(p+"EVENT_CATEGORIES", cfg.Events.Categories)
	cfg.Events.Prefixes = l.envList(p+"EVENT_PREFIXES", cfg.Events.Prefixes)
	cfg.Events.TimeOffset = l.envDuration(p+"TIME_OFFSET", cfg.Events.TimeOffset)

	cfg.Playlist.ProxyPrefix = l.envString(p+"PROXY_PREFIX", cfg.Playlist.ProxyPrefix)

	cfg.Server.ListenAddr = l.envString(p+"LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Metrics.Textfile = l.envString(p+"METRICS_TEXTFILE", cfg.Metrics.Textfile)
}
