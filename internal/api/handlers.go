// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/tvgmatch/internal/resolver"
)

// Resolution is the wire form of one resolved channel name.
type Resolution struct {
	Name        string              `json:"name"`
	Brand       string              `json:"brand"`
	Country     string              `json:"country,omitempty"`
	Identifier  string              `json:"identifier,omitempty"`
	Confidence  resolver.Confidence `json:"confidence"`
	Key         string              `json:"key,omitempty"`
	Logo        string              `json:"logo"`
	LogoMatched bool                `json:"logoMatched"`
}

// NewResolution converts a resolver result to its wire form.
func NewResolution(r resolver.Result) Resolution {
	return Resolution{
		Name:        r.Name,
		Brand:       r.Identity.Brand,
		Country:     string(r.Identity.Country),
		Identifier:  r.Match.Identifier,
		Confidence:  r.Match.Confidence,
		Key:         r.Match.Key,
		Logo:        r.Logo.URL,
		LogoMatched: r.Logo.Matched,
	}
}

// ResolveRequest is the body of POST /api/resolve.
type ResolveRequest struct {
	Names []string `json:"names"`
}

// ResolveResponse is the body answered by POST /api/resolve.
type ResolveResponse struct {
	Results []Resolution   `json:"results"`
	Stats   resolver.Stats `json:"stats"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleResolveOne(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter: name")
		return
	}
	writeJSON(w, http.StatusOK, NewResolution(s.resolver.Resolve(name)))
}

func (s *Server) handleResolveMany(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Names) == 0 {
		writeError(w, http.StatusBadRequest, "names must not be empty")
		return
	}
	if s.cfg.MaxNames > 0 && len(req.Names) > s.cfg.MaxNames {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d names per request", s.cfg.MaxNames))
		return
	}

	results, err := s.resolver.ResolveAll(r.Context(), req.Names, s.workers)
	if err != nil {
		// client went away
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	resp := ResolveResponse{Results: make([]Resolution, len(results)), Stats: resolver.Summarize(results)}
	for i, res := range results {
		resp.Results[i] = NewResolution(res)
	}
	writeJSON(w, http.StatusOK, resp)
}
