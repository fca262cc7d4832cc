// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrStatus reports a non-2xx upstream response.
	ErrStatus = errors.New("upstream: unexpected status")
	// ErrBadResponse reports an undecodable upstream body.
	ErrBadResponse = errors.New("upstream: malformed response")
	// ErrNoSnapshot reports a missing offline snapshot.
	ErrNoSnapshot = errors.New("upstream: snapshot not found")
)

// StatusError carries the failing URL and status code. It unwraps to ErrStatus.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: GET %s: HTTP %d", ErrStatus, e.URL, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// retryable reports whether a status is worth retrying.
func (e *StatusError) retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
