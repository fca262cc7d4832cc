// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestContextWithRequestID(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		requestID string
		want      string
	}{
		{
			name:      "nil context",
			ctx:       nil,
			requestID: "test-id-123",
			want:      "test-id-123",
		},
		{
			name:      "background context",
			ctx:       context.Background(),
			requestID: "req-456",
			want:      "req-456",
		},
		{
			name:      "empty request ID",
			ctx:       context.Background(),
			requestID: "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRequestID(tt.ctx, tt.requestID)
			got := RequestIDFromContext(ctx)
			if got != tt.want {
				t.Errorf("RequestIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextWithJobID(t *testing.T) {
	ctx := ContextWithJobID(nil, "job-123") //nolint:staticcheck // nil context is handled
	if got := JobIDFromContext(ctx); got != "job-123" {
		t.Errorf("JobIDFromContext() = %v, want job-123", got)
	}
	if got := JobIDFromContext(context.Background()); got != "" {
		t.Errorf("JobIDFromContext(background) = %v, want empty", got)
	}
}

func TestWithComponentFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test"})
	t.Cleanup(func() { Configure(Config{}) })

	ctx := ContextWithJobID(context.Background(), "run-1")
	logger := WithComponentFromContext(ctx, "jobs")
	logger.Info().Str(FieldEvent, "test.event").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}
	if entry[FieldComponent] != "jobs" {
		t.Errorf("component = %v, want jobs", entry[FieldComponent])
	}
	if entry[FieldJobID] != "run-1" {
		t.Errorf("job_id = %v, want run-1", entry[FieldJobID])
	}
	if entry[FieldService] != "test" {
		t.Errorf("service = %v, want test", entry[FieldService])
	}
}
