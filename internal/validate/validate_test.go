// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"with port and path", "http://example.com:8080/x", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("testURL", tt.value, tt.allowedSchemes)
			assert.Equal(t, tt.wantErr, !v.IsValid(), "err: %v", v.Err())
		})
	}
}

func TestValidator_OptionalURL(t *testing.T) {
	v := New()
	v.OptionalURL("a", "", nil)
	assert.True(t, v.IsValid())
	v.OptionalURL("b", "nope", nil)
	assert.False(t, v.IsValid())
}

func TestValidator_Template(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"https://cdn.example/premium{num}/mono.m3u8", false},
		{"https://cdn.example/premium/mono.m3u8", true},
		{"ftp://cdn.example/{num}", true},
		{"{num}", true},
	}
	for _, tt := range tests {
		v := New()
		v.Template("t", tt.value, "{num}")
		assert.Equal(t, tt.wantErr, !v.IsValid(), tt.value)
	}
}

func TestValidator_Ranges(t *testing.T) {
	v := New()
	v.Range("a", 5, 1, 10)
	v.FloatRange("b", 0.65, 0, 1)
	v.Positive("c", 1)
	v.NonNegative("d", 0)
	v.MinDuration("e", time.Second, 100*time.Millisecond)
	require.True(t, v.IsValid())

	v.Range("a", 11, 1, 10)
	v.FloatRange("b", 1.5, 0, 1)
	v.Positive("c", 0)
	v.NonNegative("d", -1)
	v.MinDuration("e", time.Millisecond, 100*time.Millisecond)
	assert.Len(t, v.Errors(), 5)
}

func TestValidator_OneOfAndNotEmpty(t *testing.T) {
	v := New()
	v.OneOf("level", "info", []string{"debug", "info"})
	v.NotEmpty("name", "x")
	require.True(t, v.IsValid())

	v.OneOf("level", "loud", []string{"debug", "info"})
	v.NotEmpty("name", "   ")
	require.Len(t, v.Errors(), 2)
	assert.Equal(t, "level", v.Errors()[0].Field)
}

func TestValidator_Directory(t *testing.T) {
	tmp := t.TempDir()

	v := New()
	v.Directory("existing", tmp, true)
	assert.True(t, v.IsValid())

	created := filepath.Join(tmp, "a", "b")
	v.Directory("created", created, false)
	assert.True(t, v.IsValid())
	info, err := os.Stat(created)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(tmp, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	v.Directory("file", file, true)
	v.Directory("missing", filepath.Join(tmp, "nope"), true)
	v.Directory("empty", "", false)
	assert.Len(t, v.Errors(), 3)
}

func TestValidator_Custom(t *testing.T) {
	v := New()
	v.Custom("x", 3, func(any) error { return nil })
	v.Custom("y", 4, func(any) error { return errors.New("must be odd") })
	require.Len(t, v.Errors(), 1)
	assert.Equal(t, "validation failed for y: must be odd", v.Errors()[0].Error())
}

func TestValidationError_JoinsMessages(t *testing.T) {
	v := New()
	assert.NoError(t, v.Err())

	v.AddError("a", "bad", nil)
	v.AddError("b", "worse", nil)
	err := v.Err()
	require.Error(t, err)

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors(), 2)
	assert.Equal(t, "validation failed for a: bad; validation failed for b: worse", err.Error())
}
