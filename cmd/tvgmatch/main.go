// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// tvgmatch maps live-event channel names to program-guide identifiers and
// logo URLs and writes the resulting playlist.
//
// Usage:
//
//	tvgmatch [flags]                 run the batch job
//	tvgmatch [flags] resolve NAME... resolve names and print JSON lines
//	tvgmatch [flags] serve           serve the resolve API
//	tvgmatch [flags] validate        check the configuration and exit
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/tvgmatch/internal/api"
	"github.com/ManuGH/tvgmatch/internal/config"
	"github.com/ManuGH/tvgmatch/internal/jobs"
	xglog "github.com/ManuGH/tvgmatch/internal/log"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

var errUsage = errors.New("usage error")

type options struct {
	configPath string
	verbose    bool
	debug      bool
	quiet      bool
	workers    int
	offline    bool
	version    bool
	command    string
	args       []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tvgmatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to config file (YAML)")
	fs.BoolVar(&o.verbose, "v", false, "log at info level")
	fs.BoolVar(&o.debug, "vv", false, "log at debug level")
	fs.BoolVar(&o.quiet, "quiet", false, "log errors only")
	fs.IntVar(&o.workers, "workers", 0, "resolver workers (0 keeps the configured value)")
	fs.BoolVar(&o.offline, "offline", false, "build from stored snapshots instead of fetching")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, errUsage
	}

	rest := fs.Args()
	o.command = "run"
	if len(rest) > 0 {
		o.command, o.args = rest[0], rest[1:]
	}
	switch o.command {
	case "run", "serve", "validate":
		if len(o.args) > 0 {
			fmt.Fprintf(stderr, "%s takes no arguments\n", o.command)
			return o, errUsage
		}
	case "resolve":
		if len(o.args) == 0 {
			fmt.Fprintln(stderr, "resolve needs at least one channel name")
			return o, errUsage
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", o.command)
		return o, errUsage
	}
	return o, nil
}

// logLevel applies the verbosity flags over the configured level.
func (o options) logLevel(configured string) string {
	switch {
	case o.quiet:
		return "error"
	case o.debug:
		return "debug"
	case o.verbose:
		return "info"
	}
	return configured
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return exitUsage
	}
	if o.version {
		fmt.Fprintf(stdout, "%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return exitOK
	}

	// safe defaults until the config is loaded
	xglog.Configure(xglog.Config{Level: o.logLevel("info"), Output: stderr, Version: version})

	cfg, err := config.Load(o.configPath, version)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitFailed
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.offline {
		cfg.Offline = true
	}

	xglog.Configure(xglog.Config{
		Level:      o.logLevel(cfg.Log.Level),
		Output:     stderr,
		Version:    version,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer func() { _ = xglog.Close() }()

	logger := xglog.WithComponent("main")
	logger.Info().
		Str("command", o.command).
		Str("vocabulary", maskURL(cfg.Sources.VocabularyURL)).
		Str("schedule", maskURL(cfg.Sources.ScheduleURL)).
		Bool("offline", cfg.Offline).
		Msg("starting tvgmatch")

	switch o.command {
	case "validate":
		fmt.Fprintln(stdout, "configuration is valid")
		return exitOK
	case "resolve":
		err = resolveNames(ctx, cfg, o.args, stdout)
	case "serve":
		err = serve(ctx, cfg)
	default:
		err = batch(ctx, cfg, stdout)
	}
	if err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, o.command+".failed").Msg("command failed")
		return exitFailed
	}
	return exitOK
}

func batch(ctx context.Context, cfg config.AppConfig, stdout io.Writer) error {
	if cfg.Sources.ScheduleURL == "" && !cfg.Offline {
		return errors.New("sources.scheduleURL (TVGMATCH_SCHEDULE_URL) is required for a batch run")
	}
	st, err := jobs.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d entries to %s (%d exact, %d fuzzy, %d unmatched; logo rate %.0f%%)\n",
		st.Entries, st.Output, st.Resolve.Exact, st.Resolve.Fuzzy, st.Resolve.None, 100*st.Resolve.LogoRate())
	return nil
}

func resolveNames(ctx context.Context, cfg config.AppConfig, names []string, stdout io.Writer) error {
	r, err := jobs.NewResolver(ctx, cfg, jobs.NewSource(cfg))
	if err != nil {
		return err
	}
	results, err := r.ResolveAll(ctx, names, cfg.Workers)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	for _, res := range results {
		if err := enc.Encode(api.NewResolution(res)); err != nil {
			return err
		}
	}
	return nil
}

func serve(ctx context.Context, cfg config.AppConfig) error {
	r, err := jobs.NewResolver(ctx, cfg, jobs.NewSource(cfg))
	if err != nil {
		return err
	}
	return api.New(r, cfg).ListenAndServe(ctx)
}

// maskURL removes user info from a URL string for safe logging.
func maskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	return parsedURL.String()
}
