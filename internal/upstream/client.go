// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package upstream fetches the external snapshots a run is built from: the
// identifier vocabulary, the logo repository listing and the event schedule.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/metrics"
	"github.com/ManuGH/tvgmatch/internal/platform/httpx"
	"github.com/avast/retry-go/v4"
)

// Default upstream endpoints.
const (
	DefaultVocabularyURL = "https://epgshare01.online/epgshare01/epg_ripper_ALL_SOURCES1.txt"
	DefaultGuideURL      = "https://epgshare01.online/epgshare01/epg_ripper_ALL_SOURCES1.xml.gz"
	DefaultLogoAPIURL    = "https://api.github.com/repos/tv-logo/tv-logos/contents/countries"
)

const defaultMaxBodyBytes = 256 << 20

// Options configures a Client.
type Options struct {
	VocabularyURL string
	LogoAPIURL    string
	ScheduleURL   string
	Headers       map[string]string
	Timeout       time.Duration
	Attempts      uint
	RetryDelay    time.Duration
	ListWorkers   int   // concurrent logo directory requests
	MaxBodyBytes  int64 // larger bodies fail with ErrBadResponse
	HTTPClient    *http.Client
}

// Client fetches upstream snapshots with retries.
type Client struct {
	opts Options
	http *http.Client
}

// New returns a Client. Zero options fall back to defaults.
func New(opts Options) *Client {
	if opts.VocabularyURL == "" {
		opts.VocabularyURL = DefaultVocabularyURL
	}
	if opts.LogoAPIURL == "" {
		opts.LogoAPIURL = DefaultLogoAPIURL
	}
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.ListWorkers <= 0 {
		opts.ListWorkers = 4
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(opts.Timeout, opts.Headers)
	}
	return &Client{opts: opts, http: hc}
}

// Vocabulary downloads the newline-delimited identifier list.
func (c *Client) Vocabulary(ctx context.Context) ([]byte, error) {
	b, err := c.get(ctx, c.opts.VocabularyURL)
	metrics.RecordFetch("vocabulary", err)
	if err != nil {
		return nil, fmt.Errorf("fetch vocabulary: %w", err)
	}
	return b, nil
}

// Schedule downloads the raw schedule document.
func (c *Client) Schedule(ctx context.Context) ([]byte, error) {
	if c.opts.ScheduleURL == "" {
		return nil, errors.New("fetch schedule: no schedule URL configured")
	}
	b, err := c.get(ctx, c.opts.ScheduleURL)
	metrics.RecordFetch("schedule", err)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	return b, nil
}

// get performs a GET with retries on transport errors, 429 and 5xx.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	logger := xglog.WithComponentFromContext(ctx, "upstream")
	var body []byte

	err := retry.Do(
		func() error {
			b, err := c.once(ctx, url)
			if err != nil {
				var se *StatusError
				if (errors.As(err, &se) && !se.retryable()) || errors.Is(err, ErrBadResponse) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.opts.Attempts),
		retry.Delay(c.opts.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).
				Str(xglog.FieldURL, url).
				Uint("attempt", n+1).
				Msg("upstream request failed, retrying")
		}),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str(xglog.FieldURL, url).Int("bytes", len(body)).Msg("fetched")
	return body, nil
}

func (c *Client) once(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return nil, &StatusError{URL: url, Code: res.StatusCode}
	}
	limit := c.opts.MaxBodyBytes
	b, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: %s: body exceeds %d bytes", ErrBadResponse, url, limit)
	}
	return b, nil
}
