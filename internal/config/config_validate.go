// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package config

import (
	"fmt"

	"github.com/tomtom215/boxoffice/internal/validation"
)

// Validate checks struct tags and the cross-field constraints tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateGrids(); err != nil {
		return err
	}

	return c.validatePersistence()
}

// validateGrids checks that every tuning range is ordered.
func (c *Config) validateGrids() error {
	knn := c.Tuning.KNN
	if err := validateRange("tuning.knn.neighbors", knn.NeighborsMin, knn.NeighborsMax); err != nil {
		return err
	}

	rf := c.Tuning.Forest
	if err := validateRange("tuning.forest.mtry", rf.MtryMin, rf.MtryMax); err != nil {
		return err
	}
	if err := validateRange("tuning.forest.trees", rf.TreesMin, rf.TreesMax); err != nil {
		return err
	}
	return validateRange("tuning.forest.min_n", rf.MinNMin, rf.MinNMax)
}

func validateRange(name string, lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("%s_min (%d) must not exceed %s_max (%d)", name, lo, name, hi)
	}
	return nil
}

// validatePersistence requires a path for every enabled store.
func (c *Config) validatePersistence() error {
	if c.Checkpoint.Enabled && c.Checkpoint.Path == "" {
		return fmt.Errorf("checkpoint.path is required when checkpoint.enabled=true")
	}
	if c.Models.Enabled && c.Models.Path == "" {
		return fmt.Errorf("models.path is required when models.enabled=true")
	}
	if c.Warehouse.Enabled && c.Warehouse.Path == "" {
		return fmt.Errorf("warehouse.path is required when warehouse.enabled=true")
	}
	return nil
}
