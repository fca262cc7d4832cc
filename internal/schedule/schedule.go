// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package schedule decodes live-event schedules of the form
// {day: {category: [{time, event, channels, channels2}]}} preserving
// document order.
package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	xglog "github.com/ManuGH/tvgmatch/internal/log"
)

// Channel is one broadcaster of an event.
type Channel struct {
	Name string `json:"channel_name"`
	ID   string `json:"channel_id"`
}

// Event is one scheduled broadcast.
type Event struct {
	Day      string
	Category string
	Time     string // "15:04" in the schedule's time zone
	Title    string
	Channels []Channel
}

// Category groups events under a heading such as "All Soccer Events".
type Category struct {
	Name   string
	Events []Event
}

// Day is one top-level schedule key.
type Day struct {
	Name       string
	Categories []Category
}

// Schedule is a decoded schedule document in document order.
type Schedule struct {
	Days    []Day
	Skipped int // malformed categories and events
}

// ErrNotObject is returned when the document or a day is not a JSON object.
var ErrNotObject = errors.New("schedule: expected JSON object")

type rawEvent struct {
	Time      string          `json:"time"`
	Event     string          `json:"event"`
	Channels  json.RawMessage `json:"channels"`
	Channels2 json.RawMessage `json:"channels2"`
}

// Decode reads a schedule document. Malformed categories and events are
// logged and skipped; a document that is not an object of objects fails.
func Decode(r io.Reader) (*Schedule, error) {
	logger := xglog.WithComponent("schedule")
	dec := json.NewDecoder(r)
	s := &Schedule{}

	err := eachKey(dec, func(day string) error {
		d := Day{Name: day}
		err := eachKey(dec, func(cat string) error {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				s.Skipped++
				logger.Warn().Str("day", day).Str("category", cat).Msg("skipping malformed category")
				return nil
			}
			c := Category{Name: cat}
			for _, item := range items {
				ev, ok := decodeEvent(item)
				if !ok {
					s.Skipped++
					logger.Debug().Str("day", day).Str("category", cat).Msg("skipping malformed event")
					continue
				}
				ev.Day, ev.Category = day, cat
				c.Events = append(c.Events, ev)
			}
			d.Categories = append(d.Categories, c)
			return nil
		})
		if err != nil {
			return fmt.Errorf("day %q: %w", day, err)
		}
		s.Days = append(s.Days, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return s, nil
}

func decodeEvent(b json.RawMessage) (Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(b, &raw); err != nil {
		return Event{}, false
	}
	ev := Event{Time: strings.TrimSpace(raw.Time), Title: strings.TrimSpace(raw.Event)}
	for _, list := range []json.RawMessage{raw.Channels, raw.Channels2} {
		chans, err := decodeChannels(list)
		if err != nil {
			return Event{}, false
		}
		ev.Channels = append(ev.Channels, chans...)
	}
	return ev, true
}

// decodeChannels accepts an array or an object whose elements are either
// {channel_name, channel_id} objects or bare ids.
func decodeChannels(b json.RawMessage) ([]Channel, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}

	var elems []json.RawMessage
	switch b[0] {
	case '[':
		if err := json.Unmarshal(b, &elems); err != nil {
			return nil, err
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(b))
		err := eachKey(dec, func(string) error {
			var v json.RawMessage
			if err := dec.Decode(&v); err != nil {
				return err
			}
			elems = append(elems, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unexpected channels value %.20s", b)
	}

	out := make([]Channel, 0, len(elems))
	for _, e := range elems {
		c, err := decodeChannel(e)
		if err != nil {
			return nil, err
		}
		if c.ID != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func decodeChannel(b json.RawMessage) (Channel, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Name string          `json:"channel_name"`
			ID   json.RawMessage `json:"channel_id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return Channel{}, err
		}
		id, err := scalar(obj.ID)
		if err != nil {
			return Channel{}, err
		}
		return Channel{Name: strings.TrimSpace(obj.Name), ID: id}, nil
	}
	id, err := scalar(b)
	return Channel{ID: id}, err
}

// scalar renders a JSON string or number as text.
func scalar(b json.RawMessage) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// eachKey consumes one JSON object from dec, calling fn for every key in
// document order. fn must consume the key's value.
func eachKey(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if err := fn(key); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing '}'
	return err
}

// Count returns the number of events in s.
func (s *Schedule) Count() int {
	n := 0
	for _, d := range s.Days {
		for _, c := range d.Categories {
			n += len(c.Events)
		}
	}
	return n
}

// Events returns the events matching f in document order.
func (s *Schedule) Events(f Filter) []Event {
	var out []Event
	for _, d := range s.Days {
		for _, c := range d.Categories {
			for _, e := range c.Events {
				if f.Match(e) {
					out = append(out, e)
				}
			}
		}
	}
	return out
}

// Filter selects events. Empty fields match everything.
type Filter struct {
	Categories []string // exact category names
	Prefixes   []string // event title prefixes, e.g. "England - Premier League : "
	Exclude    []string // substrings that reject a title even when a prefix matches
}

// Match reports whether e passes f.
func (f Filter) Match(e Event) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.Category) {
		return false
	}
	if len(f.Prefixes) > 0 {
		hit := false
		for _, p := range f.Prefixes {
			if strings.HasPrefix(e.Title, p) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, x := range f.Exclude {
		if x != "" && strings.Contains(e.Title, x) {
			return false
		}
	}
	return true
}

// Shift adds offset to an "HH:MM" clock time, wrapping at midnight.
// Unparseable input is returned unchanged.
func Shift(clock string, offset time.Duration) string {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return clock
	}
	return t.Add(offset).Format("15:04")
}
