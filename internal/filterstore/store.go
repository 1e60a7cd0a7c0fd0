// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package filterstore persists the last submitted filter selection of each
// page so it can be restored the next time the page opens.
//
// State is scoped by an opaque client id and stored under
// "filters:<client>:<storage key>", where the storage key is the page's
// historical name (takeoutFilters or cookingFilters).
package filterstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/dishpick/internal/recommend"
)

var (
	// ErrNotFound is returned when nothing is stored for a client and page.
	ErrNotFound = errors.New("filter state not found")

	// ErrUnknownPage is returned for a page other than takeout or cooking.
	ErrUnknownPage = errors.New("unknown filter page")
)

const keyPrefix = "filters:"

// DefaultClient is used when the caller does not identify itself.
const DefaultClient = "anonymous"

// Page identifies a filter page.
type Page string

const (
	PageTakeout Page = "takeout"
	PageCooking Page = "cooking"
)

// ParsePage validates s as a page name.
func ParsePage(s string) (Page, error) {
	switch p := Page(s); p {
	case PageTakeout, PageCooking:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// StorageKey returns the per-page key name.
func (p Page) StorageKey() string {
	switch p {
	case PageTakeout:
		return "takeoutFilters"
	case PageCooking:
		return "cookingFilters"
	}
	return string(p) + "Filters"
}

// Key returns the full store key for client and page.
func Key(client string, page Page) string {
	if client == "" {
		client = DefaultClient
	}
	return keyPrefix + client + ":" + page.StorageKey()
}

// CookingOptions is the extra selection of the cooking page.
type CookingOptions struct {
	Time       string `json:"time"`
	Tool       string `json:"tool"`
	SkillLevel int    `json:"skill_level"`
	SearchMode bool   `json:"search_mode"`
	Query      string `json:"query,omitempty"`
}

// State is one saved filter selection.
type State struct {
	Criteria  recommend.Criteria `json:"criteria"`
	Cooking   *CookingOptions    `json:"cooking,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store reads and writes filter state.
type Store interface {
	// Get returns the saved state, or ErrNotFound.
	Get(ctx context.Context, client string, page Page) (*State, error)

	// Save replaces the saved state and stamps UpdatedAt.
	Save(ctx context.Context, client string, page Page, state *State) error

	// Delete removes the saved state. Deleting nothing is not an error.
	Delete(ctx context.Context, client string, page Page) error
}
