// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/tvgmatch/internal/probe"
	"github.com/ManuGH/tvgmatch/internal/validate"
)

var httpSchemes = []string{"http", "https"}

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.Directory("dataDir", cfg.DataDir, false)
	v.NonNegative("workers", cfg.Workers)
	v.OneOf("log.level", strings.ToLower(cfg.Log.Level), []string{"trace", "debug", "info", "warn", "error"})

	v.URL("sources.vocabularyURL", cfg.Sources.VocabularyURL, httpSchemes)
	v.URL("sources.logoAPIURL", cfg.Sources.LogoAPIURL, httpSchemes)
	v.URL("sources.logoRawBase", cfg.Sources.LogoRawBase, httpSchemes)
	v.OptionalURL("sources.guideURL", cfg.Sources.GuideURL, httpSchemes)
	v.OptionalURL("sources.scheduleURL", cfg.Sources.ScheduleURL, httpSchemes)
	v.MinDuration("sources.timeout", cfg.Sources.Timeout, 100*time.Millisecond)
	v.Range("sources.attempts", cfg.Sources.Attempts, 1, 10)

	v.FloatRange("match.fuzzyCutoff", cfg.Match.FuzzyCutoff, 0, 1)
	v.Range("match.fuzzyLimit", cfg.Match.FuzzyLimit, 1, 50)
	v.NonNegative("match.fuzzyMinKeyLen", cfg.Match.FuzzyMinKeyLen)
	for i, c := range cfg.Match.Priority {
		if len(strings.TrimSpace(c)) != 2 {
			v.AddError(fmt.Sprintf("match.priority[%d]", i), "country code must have two letters", c)
		}
	}
	for i, e := range cfg.Match.Countries {
		if strings.TrimSpace(e.Name) == "" || len(e.Code) != 2 {
			v.AddError(fmt.Sprintf("match.countries[%d]", i), "entry needs a name and a two-letter code", e)
		}
	}
	v.Custom("match.patterns", cfg.Match, func(any) error {
		_, err := cfg.Match.Parser()
		return err
	})

	for i, tpl := range cfg.Probe.Templates {
		v.Template(fmt.Sprintf("probe.templates[%d]", i), tpl, probe.Placeholder)
	}
	v.Range("probe.workers", cfg.Probe.Workers, 1, 256)
	v.FloatRange("probe.rps", cfg.Probe.RPS, 0, 10000)
	v.MinDuration("probe.timeout", cfg.Probe.Timeout, 100*time.Millisecond)

	v.OptionalURL("playlist.proxyPrefix", cfg.Playlist.ProxyPrefix, httpSchemes)

	v.NonNegative("server.rateLimit", cfg.Server.RateLimit)
	v.Positive("server.maxNames", cfg.Server.MaxNames)

	return v.Err()
}
