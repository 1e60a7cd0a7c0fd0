// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package recommend

import (
	"slices"
	"strings"

	"github.com/tomtom215/dishpick/internal/catalog"
)

// The predicates below are pure and report whether a dish is excluded.

// HasExcludedAllergen reports whether any tag value of d equals one of allergens.
//
//nolint:gocritic // Dish passed by value like the rest of the catalog API
func HasExcludedAllergen(d catalog.Dish, allergens []string) bool {
	if len(allergens) == 0 {
		return false
	}
	for _, t := range d.Tags {
		if slices.Contains(allergens, t.Value) {
			return true
		}
	}
	return false
}

// ContainsAvoidedFood reports whether a tag value or the description of d
// contains one of tokens, ignoring case. Empty tokens never match.
//
//nolint:gocritic // see HasExcludedAllergen
func ContainsAvoidedFood(d catalog.Dish, tokens []string) bool {
	desc := strings.ToLower(d.Desc)
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if strings.Contains(desc, tok) {
			return true
		}
		for _, t := range d.Tags {
			if strings.Contains(strings.ToLower(t.Value), tok) {
				return true
			}
		}
	}
	return false
}

// ViolatesRestriction reports whether d breaks r. Only a strict restriction
// excludes anything, and only dishes whose nutrition level is excluded.
// Dishes without nutrition data never violate.
//
//nolint:gocritic // see HasExcludedAllergen
func ViolatesRestriction(d catalog.Dish, r Restriction, excluded catalog.NutritionLevel) bool {
	if r.Level != SeverityStrict || d.Nutrition == nil {
		return false
	}
	return d.Nutrition.Level == excluded
}

// InHistory reports whether id was shown recently.
func InHistory(id string, history []string) bool {
	return slices.Contains(history, id)
}
