// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package recommend

import (
	"fmt"

	"github.com/tomtom215/dishpick/internal/catalog"
)

// Config contains the tunables of the selection engine.
type Config struct {
	// HistorySize is how many recent picks a session remembers.
	HistorySize int `json:"history_size"`

	// HistoryWeight applies to candidates that appear in the history.
	HistoryWeight float64 `json:"history_weight"`

	// ConditionWeight applies to candidates tagged with a medical condition.
	ConditionWeight float64 `json:"condition_weight"`

	// DefaultWeight applies to every other candidate, and to all
	// candidates on the first call of a session.
	DefaultWeight float64 `json:"default_weight"`

	// StrictExcludedLevel is the nutrition level a strict restriction excludes.
	StrictExcludedLevel catalog.NutritionLevel `json:"strict_excluded_level"`

	// Seed for the random source. Zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		HistorySize:         10,
		HistoryWeight:       0.3,
		ConditionWeight:     0.8,
		DefaultWeight:       1.0,
		StrictExcludedLevel: catalog.LevelRed,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.HistorySize < 1 {
		return fmt.Errorf("history_size must be positive, got %d", c.HistorySize)
	}
	weights := []struct {
		name  string
		value float64
	}{
		{"history_weight", c.HistoryWeight},
		{"condition_weight", c.ConditionWeight},
		{"default_weight", c.DefaultWeight},
	}
	for _, w := range weights {
		if w.value <= 0 || w.value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %f", w.name, w.value)
		}
	}
	if !c.StrictExcludedLevel.Valid() {
		return fmt.Errorf("strict_excluded_level %q is not a nutrition level", c.StrictExcludedLevel)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
