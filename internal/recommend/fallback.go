// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package recommend

import "github.com/tomtom215/dishpick/internal/catalog"

// stageInput is what every stage filter sees.
type stageInput struct {
	criteria Criteria
	history  []string
	isFirst  bool
	excluded catalog.NutritionLevel
}

// fallbackStage is one named step of the candidate chain.
type fallbackStage struct {
	name Stage

	// resetHistory clears the session history once the chain reaches this
	// stage, whether or not its pool turns out empty. Later stages inherit it.
	resetHistory bool

	// keep reports whether d belongs to the stage's pool.
	keep func(d *catalog.Dish, in *stageInput) bool
}

// fallbackChain is evaluated in order; the first non-empty pool wins.
// An empty full pool means the session has run out of fresh dishes, so
// history starts over from the relaxed stage on.
var fallbackChain = []fallbackStage{
	{name: StageFull, keep: keepFull},
	{name: StageRelaxed, resetHistory: true, keep: keepRelaxed},
	{name: StageFullCatalog, keep: keepAll},
}

func keepFull(d *catalog.Dish, in *stageInput) bool {
	if !keepRelaxed(d, in) {
		return false
	}
	if in.isFirst {
		return true
	}
	if ViolatesRestriction(*d, in.criteria.Restriction, in.excluded) {
		return false
	}
	return !InHistory(d.ID, in.history)
}

func keepRelaxed(d *catalog.Dish, in *stageInput) bool {
	return !HasExcludedAllergen(*d, in.criteria.Allergens) &&
		!ContainsAvoidedFood(*d, in.criteria.AvoidFoods)
}

func keepAll(*catalog.Dish, *stageInput) bool {
	return true
}

// poolFor returns the dishes a single stage admits, in catalog order.
func poolFor(st *fallbackStage, dishes []catalog.Dish, in *stageInput) []*catalog.Dish {
	var pool []*catalog.Dish
	for i := range dishes {
		if st.keep(&dishes[i], in) {
			pool = append(pool, &dishes[i])
		}
	}
	return pool
}

// selectPool walks the chain and returns the first non-empty pool, the stage
// that produced it and whether a history reset was passed on the way.
// A non-empty dishes slice always yields a non-empty pool.
func selectPool(dishes []catalog.Dish, in *stageInput) (pool []*catalog.Dish, stage Stage, reset bool) {
	for i := range fallbackChain {
		st := &fallbackChain[i]
		if st.resetHistory {
			reset = true
		}
		if pool = poolFor(st, dishes, in); len(pool) > 0 {
			return pool, st.name, reset
		}
	}
	return nil, "", reset
}
