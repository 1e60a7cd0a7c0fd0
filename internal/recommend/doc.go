// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package recommend picks one dish at a time from the catalog.
//
// # Selection
//
// Each call filters the catalog through an ordered fallback chain and draws
// one dish at random from the first non-empty pool, weighted so that recently
// shown dishes and condition-specific dishes come up less often:
//
//	full          allergens, avoided foods, restriction, history
//	relaxed       allergens and avoided foods only; history is cleared
//	full-catalog  every dish; history is cleared
//
// A non-empty catalog therefore always yields a dish. Once the full pool is
// empty the session history starts over with the dish just picked. The first call of a
// session skips the restriction and history filters and weighs every
// candidate equally.
//
// # State
//
// The engine keeps no per-user state. The caller passes a Session holding
// the recent history and first-call flag, and receives an updated copy in
// the Result. Storage of sessions between calls lives in package session.
//
// # Known Limitations
//
// Avoided-food tokens match by case-insensitive substring against tag values
// and the description, so a short token such as "油" can exclude more dishes
// than intended.
package recommend
