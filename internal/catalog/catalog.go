// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package catalog holds the static dish catalog and the reference data shown
// around it: filter options, burn-off and water guides, and phase knowledge.
//
// The catalog is loaded once at startup and is read-only afterwards. Every
// accessor returns copies, so callers may keep or modify results freely.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDishNotFound is returned when a dish ID is not in the catalog.
	ErrDishNotFound = errors.New("dish not found")

	// ErrInvalidCatalog is returned by New when the records violate catalog invariants.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is an ordered, immutable collection of dishes.
type Catalog struct {
	dishes []Dish
	byID   map[string]int
}

// New validates dishes and builds a catalog from a private copy of them.
// IDs must be non-empty and unique, nutrition levels known, and water
// indexes within 0..5.
func New(dishes []Dish) (*Catalog, error) {
	c := &Catalog{
		dishes: make([]Dish, 0, len(dishes)),
		byID:   make(map[string]int, len(dishes)),
	}
	for i := range dishes {
		d := dishes[i]
		if d.ID == "" {
			return nil, fmt.Errorf("%w: dish at index %d has empty id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate dish id %q", ErrInvalidCatalog, d.ID)
		}
		if d.Nutrition != nil && !d.Nutrition.Level.Valid() {
			return nil, fmt.Errorf("%w: dish %q has unknown nutrition level %q", ErrInvalidCatalog, d.ID, d.Nutrition.Level)
		}
		if d.Safety != nil && (d.Safety.WaterIndex < 0 || d.Safety.WaterIndex > MaxWaterIndex) {
			return nil, fmt.Errorf("%w: dish %q water index %d out of range", ErrInvalidCatalog, d.ID, d.Safety.WaterIndex)
		}
		c.byID[d.ID] = len(c.dishes)
		c.dishes = append(c.dishes, d.clone())
	}
	return c, nil
}

// Default returns the catalog bundled with the service.
func Default() *Catalog {
	c, err := New(bundledDishes())
	if err != nil {
		// bundled data is covered by tests
		panic(fmt.Sprintf("catalog: bundled dishes are invalid: %v", err))
	}
	return c
}

// Len returns the number of dishes.
func (c *Catalog) Len() int {
	return len(c.dishes)
}

// All returns every dish in catalog order.
func (c *Catalog) All() []Dish {
	out := make([]Dish, len(c.dishes))
	for i := range c.dishes {
		out[i] = c.dishes[i].clone()
	}
	return out
}

// Get returns the dish with id, or ErrDishNotFound.
func (c *Catalog) Get(id string) (Dish, error) {
	i, ok := c.byID[id]
	if !ok {
		return Dish{}, fmt.Errorf("%w: %s", ErrDishNotFound, id)
	}
	return c.dishes[i].clone(), nil
}

// Search returns dishes whose name or description contains query,
// ignoring case. A blank query matches nothing.
func (c *Catalog) Search(query string) []Dish {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Dish
	for i := range c.dishes {
		d := &c.dishes[i]
		if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Desc), q) {
			out = append(out, d.clone())
		}
	}
	return out
}
