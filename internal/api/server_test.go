// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/tvgmatch/internal/config"
	"github.com/ManuGH/tvgmatch/internal/epg"
	"github.com/ManuGH/tvgmatch/internal/logo"
	"github.com/ManuGH/tvgmatch/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const raw = "https://raw.example.org/countries/"

func newTestServer(t *testing.T, mutate func(*config.AppConfig)) http.Handler {
	t.Helper()
	ids := epg.BuildIndex([]string{"TNT.Sports.4.HD.uk", "TNT.Sports.4.HD.us"})
	logos := logo.Build(logo.Listing{
		{Name: "united-kingdom", Files: []string{"sky-sports-main-event-uk.png"}},
	}, raw, logo.DefaultOptions())
	r := resolver.New(ids, logos, resolver.WithSentinel(logo.Sentinel(raw)))

	cfg := config.Defaults()
	cfg.Version = "test"
	if mutate != nil {
		mutate(&cfg)
	}
	return New(r, cfg).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func resolveURL(name string) string {
	return "/api/resolve?" + url.Values{"name": {name}}.Encode()
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestResolveOne(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodGet, resolveURL("TNT Sports 4 HD (UK)"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got Resolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, Resolution{
		Name:       "TNT Sports 4 HD (UK)",
		Brand:      "TNT Sports 4 HD",
		Country:    "uk",
		Identifier: "TNT.Sports.4.HD.uk",
		Confidence: resolver.Exact,
		Key:        "tnt sports 4 hd.uk",
		Logo:       logo.Sentinel(raw),
	}, got)
}

func TestResolveOneUnknownName(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodGet, resolveURL("Qqzx Vvmw"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"name": "Qqzx Vvmw",
		"brand": "Qqzx Vvmw",
		"confidence": "none",
		"logo": "`+raw+`misc/no-logo.png",
		"logoMatched": false
	}`, w.Body.String())
}

func TestResolveOneMissingName(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodGet, "/api/resolve", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name")
}

func TestResolveMany(t *testing.T) {
	body := `{"names":["Sky Sports Main Event UK","TNT Sports 4 HD","TNT Sports 4 HD (USA)","Sky Sports Main Event UK"]}`
	w := do(t, newTestServer(t, nil), http.MethodPost, "/api/resolve", body)
	require.Equal(t, http.StatusOK, w.Code)

	var got ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Results, 4)

	names := make([]string, len(got.Results))
	for i, r := range got.Results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Sky Sports Main Event UK", "TNT Sports 4 HD", "TNT Sports 4 HD (USA)", "Sky Sports Main Event UK"}, names)

	assert.True(t, got.Results[0].LogoMatched)
	assert.Equal(t, raw+"united-kingdom/sky-sports-main-event-uk.png", got.Results[0].Logo)
	assert.Equal(t, "TNT.Sports.4.HD.uk", got.Results[1].Identifier)
	assert.Equal(t, "TNT.Sports.4.HD.us", got.Results[2].Identifier)
	assert.Equal(t, got.Results[0], got.Results[3])
	assert.Equal(t, 4, got.Stats.Total)
	assert.Equal(t, 2, got.Stats.Logos)
}

func TestResolveManyRejectsBadRequests(t *testing.T) {
	h := newTestServer(t, func(c *config.AppConfig) { c.Server.MaxNames = 2 })

	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty list", `{"names":[]}`, http.StatusBadRequest},
		{"not json", `names=a`, http.StatusBadRequest},
		{"unknown field", `{"names":["a"],"limit":3}`, http.StatusBadRequest},
		{"too many names", `{"names":["a","b","c"]}`, http.StatusRequestEntityTooLarge},
		{"body too large", `{"names":["` + strings.Repeat("a", maxBodyBytes) + `"]}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/resolve", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRateLimited(t *testing.T) {
	h := newTestServer(t, func(c *config.AppConfig) { c.Server.RateLimit = 2 })
	for range 2 {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/healthz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, nil)
	do(t, h, http.MethodGet, resolveURL("TNT Sports 4 HD"), "")

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tvgmatch_http_request_duration_seconds")
	assert.Contains(t, w.Body.String(), `path="/api/resolve"`)
	assert.Contains(t, w.Body.String(), "tvgmatch_resolutions_total")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ids := epg.BuildIndex(nil)
	cfg := config.Defaults()
	cfg.Server.ListenAddr = "127.0.0.1:0"
	s := New(resolver.New(ids, nil), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
