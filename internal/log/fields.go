// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldJobID     = "job_id"
	FieldRequestID = "request_id"
	FieldEvent     = "event"

	// Resolution fields
	FieldChannel    = "channel"
	FieldBrand      = "brand"
	FieldCountry    = "country"
	FieldKey        = "key"
	FieldIdentifier = "identifier"
	FieldConfidence = "confidence"
	FieldLogo       = "logo"

	// Source fields
	FieldURL   = "url"
	FieldPath  = "path"
	FieldCount = "count"
)
