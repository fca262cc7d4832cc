// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liveServer answers 200 on /a/<id> only for ids in aLive and on /b/<id>
// for every id except "dead".
func liveServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	aLive := map[string]bool{"2": true}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodHead, r.Method)
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := parts[1]
		switch {
		case parts[0] == "a" && aLive[id]:
			w.WriteHeader(http.StatusOK)
		case parts[0] == "b" && id != "dead":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newProber(srv *httptest.Server) *Prober {
	return New(Options{
		Templates: []string{srv.URL + "/a/{num}/mono.m3u8", srv.URL + "/b/{num}/mono.m3u8"},
		Workers:   4,
		Timeout:   2 * time.Second,
	})
}

func TestExpand(t *testing.T) {
	assert.Equal(t, "https://h/premium7/mono.m3u8", Expand("https://h/premium{num}/mono.m3u8", "7"))
	assert.Equal(t, "https://h/static", Expand("https://h/static", "7"))
}

func TestFindFirstHealthyTemplateWins(t *testing.T) {
	var hits atomic.Int32
	srv := liveServer(t, &hits)
	p := newProber(srv)
	ctx := context.Background()

	u, ok := p.Find(ctx, "2")
	require.True(t, ok)
	assert.Equal(t, srv.URL+"/a/2/mono.m3u8", u)

	u, ok = p.Find(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, srv.URL+"/b/1/mono.m3u8", u)

	_, ok = p.Find(ctx, "dead")
	assert.False(t, ok)

	_, ok = p.Find(ctx, "")
	assert.False(t, ok)
}

func TestFindCachesResults(t *testing.T) {
	var hits atomic.Int32
	srv := liveServer(t, &hits)
	p := newProber(srv)
	ctx := context.Background()

	_, _ = p.Find(ctx, "dead")
	first := hits.Load()
	assert.Equal(t, int32(2), first, "both templates tried")

	_, ok := p.Find(ctx, "dead")
	assert.False(t, ok)
	assert.Equal(t, first, hits.Load(), "misses are cached too")
}

func TestFindAll(t *testing.T) {
	var hits atomic.Int32
	srv := liveServer(t, &hits)
	p := newProber(srv)

	got, err := p.FindAll(context.Background(), []string{"1", "2", "dead", "1", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"1": srv.URL + "/b/1/mono.m3u8",
		"2": srv.URL + "/a/2/mono.m3u8",
	}, got)
}

func TestFindAllCancelled(t *testing.T) {
	var hits atomic.Int32
	srv := liveServer(t, &hits)
	p := newProber(srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.FindAll(ctx, []string{"1", "2"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiterConfigured(t *testing.T) {
	p := New(Options{RPS: 5, Burst: 2})
	assert.InDelta(t, 5.0, float64(p.limiter.Limit()), 1e-9)
	assert.Equal(t, 2, p.limiter.Burst())
}
