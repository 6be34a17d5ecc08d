// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package validation

import (
	"errors"
	"strings"
	"testing"
)

type innerConfig struct {
	Folds int `koanf:"folds" validate:"gte=2"`
}

type outerConfig struct {
	Path   string      `koanf:"path" validate:"required"`
	Format string      `koanf:"format" validate:"oneof=json console"`
	Split  innerConfig `koanf:"split"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      outerConfig
		wantErr    bool
		wantFields []string
	}{
		{
			name:    "valid struct",
			input:   outerConfig{Path: "a.csv", Format: "json", Split: innerConfig{Folds: 10}},
			wantErr: false,
		},
		{
			name:       "missing required and nested bound",
			input:      outerConfig{Format: "json", Split: innerConfig{Folds: 1}},
			wantErr:    true,
			wantFields: []string{"path", "split.folds"},
		},
		{
			name:       "oneof violation",
			input:      outerConfig{Path: "a.csv", Format: "xml", Split: innerConfig{Folds: 5}},
			wantErr:    true,
			wantFields: []string{"format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation.Errors, got %T", err)
			}
			if len(verrs) != len(tt.wantFields) {
				t.Fatalf("got %d field errors, want %d: %v", len(verrs), len(tt.wantFields), verrs)
			}
			for i, field := range tt.wantFields {
				if verrs[i].Field != field {
					t.Errorf("field[%d] = %q, want %q", i, verrs[i].Field, field)
				}
			}
		})
	}
}

func TestErrors_Message(t *testing.T) {
	err := ValidateStruct(&outerConfig{Format: "json", Split: innerConfig{Folds: 0}})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "path is required") {
		t.Errorf("message %q missing required text", msg)
	}
	if !strings.Contains(msg, "split.folds must be greater than or equal to 2") {
		t.Errorf("message %q missing gte text", msg)
	}
}
