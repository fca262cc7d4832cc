// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config provides configuration management for tvgmatch.
//
// Precedence is ENV > File > Defaults. The file is strict YAML: unknown
// keys are rejected with ErrUnknownConfigField.
package config
