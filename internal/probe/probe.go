// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package probe finds a live stream URL for a channel id by HEAD-probing
// URL templates in order.
package probe

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/metrics"
	"github.com/ManuGH/tvgmatch/internal/platform/httpx"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Placeholder is replaced by the channel id in every template.
const Placeholder = "{num}"

// Options configures a Prober.
type Options struct {
	Templates  []string
	Workers    int
	RPS        float64 // <= 0 disables rate limiting
	Burst      int
	Timeout    time.Duration
	Headers    map[string]string
	HTTPClient *http.Client
}

// Prober probes templates with bounded concurrency and a shared rate
// limit. Results are cached per channel id for the Prober's lifetime.
type Prober struct {
	templates []string
	workers   int
	http      *http.Client
	limiter   *rate.Limiter

	flight singleflight.Group
	mu     sync.Mutex
	cache  map[string]string
}

// New returns a Prober.
func New(opts Options) *Prober {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(opts.Timeout, opts.Headers)
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(opts.RPS), max(opts.Burst, 1))
	}
	return &Prober{
		templates: opts.Templates,
		workers:   opts.Workers,
		http:      hc,
		limiter:   lim,
		cache:     make(map[string]string),
	}
}

// Expand substitutes id into template.
func Expand(template, id string) string {
	return strings.ReplaceAll(template, Placeholder, id)
}

// Find returns the first template URL for id answering HEAD with 200.
func (p *Prober) Find(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}
	p.mu.Lock()
	u, ok := p.cache[id]
	p.mu.Unlock()
	if ok {
		return u, u != ""
	}

	v, _, _ := p.flight.Do(id, func() (any, error) {
		u := p.probe(ctx, id)
		if ctx.Err() == nil {
			p.mu.Lock()
			p.cache[id] = u
			p.mu.Unlock()
		}
		return u, nil
	})
	u = v.(string)
	return u, u != ""
}

// FindAll probes every distinct id and returns the ids that resolved.
func (p *Prober) FindAll(ctx context.Context, ids []string) (map[string]string, error) {
	seen := make(map[string]struct{}, len(ids))
	var distinct []string
	for _, id := range ids {
		if _, dup := seen[id]; !dup && id != "" {
			seen[id] = struct{}{}
			distinct = append(distinct, id)
		}
	}

	urls := make([]string, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, id := range distinct {
		g.Go(func() error {
			urls[i], _ = p.Find(gctx, id)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(distinct))
	for i, id := range distinct {
		if urls[i] != "" {
			out[id] = urls[i]
		}
	}
	logger := xglog.WithComponentFromContext(ctx, "probe")
	logger.Info().
		Int("channels", len(distinct)).
		Int("live", len(out)).
		Msg("stream probing finished")
	return out, nil
}

func (p *Prober) probe(ctx context.Context, id string) string {
	logger := xglog.WithComponentFromContext(ctx, "probe")
	for _, tpl := range p.templates {
		u := Expand(tpl, id)
		err := p.head(ctx, u)
		switch {
		case err == nil:
			metrics.RecordProbe("found")
			logger.Debug().Str(xglog.FieldURL, u).Msg("stream found")
			return u
		case errors.Is(err, errNotOK):
			metrics.RecordProbe("missing")
		default:
			if ctx.Err() != nil {
				return ""
			}
			metrics.RecordProbe("error")
			logger.Debug().Err(err).Str(xglog.FieldURL, u).Msg("probe failed")
		}
	}
	return ""
}

var errNotOK = errors.New("probe: status not 200")

func (p *Prober) head(ctx context.Context, u string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return err
	}
	res, err := p.http.Do(req)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return errNotOK
	}
	return nil
}
