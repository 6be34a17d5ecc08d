// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator and translates field errors
// into messages keyed by the dotted koanf path of the offending field
// (for example "split.folds must be greater than or equal to 2"), so configuration
// errors point at the YAML key or environment mapping the operator has to fix.
//
// # Usage
//
//	type SplitConfig struct {
//	    Folds int `koanf:"folds" validate:"gte=2"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    return fmt.Errorf("invalid configuration: %w", err)
//	}
package validation
