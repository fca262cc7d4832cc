// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/tvgmatch/internal/epg"
	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/ManuGH/tvgmatch/internal/upstream"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		DataDir: "data",
		Output:  "playlist.m3u8",
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Sources: SourcesConfig{
			VocabularyURL: upstream.DefaultVocabularyURL,
			GuideURL:      upstream.DefaultGuideURL,
			LogoAPIURL:    upstream.DefaultLogoAPIURL,
			LogoRawBase:   logo.DefaultRawBase,
			Timeout:       30 * time.Second,
			Attempts:      3,
			Headers:       map[string]string{"User-Agent": defaultUserAgent},
		},
		Match: MatchConfig{
			FuzzyCutoff:    epg.DefaultFuzzyOptions.Cutoff,
			FuzzyLimit:     epg.DefaultFuzzyOptions.Limit,
			FuzzyMinKeyLen: epg.DefaultFuzzyOptions.MinKeyLen,
			LogoExtension:  logo.DefaultOptions().Extension,
		},
		Probe: ProbeConfig{
			Workers: 8,
			RPS:     10,
			Burst:   5,
			Timeout: 5 * time.Second,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
			RateLimit:  120,
			RateWindow: time.Minute,
			MaxNames:   500,
		},
	}
}
