// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package catalog

import "math"

const (
	// MaxWaterIndex is the upper bound of Safety.WaterIndex.
	MaxWaterIndex = 5

	mlPerWaterIndex = 200
	mlPerBottle     = 500
)

// Exercise is one burn-off suggestion shown next to the nutrition panel.
type Exercise struct {
	Activity string `json:"activity"`
	Minutes  int    `json:"minutes"`
}

// Water is the suggested water intake derived from a dish's water index.
type Water struct {
	Index   int     `json:"index"`
	ML      int     `json:"ml"`
	Bottles float64 `json:"bottles"`
}

// ExerciseEquivalents returns the fixed burn-off guide. It does not depend on the dish.
func ExerciseEquivalents() []Exercise {
	return []Exercise{
		{Activity: "步行", Minutes: 60},
		{Activity: "跑步", Minutes: 25},
		{Activity: "游泳", Minutes: 30},
	}
}

// WaterIntake converts a water index to millilitres and 500 ml bottles,
// rounded to one decimal. The index is clamped to 0..MaxWaterIndex.
func WaterIntake(index int) Water {
	index = max(0, min(index, MaxWaterIndex))
	ml := index * mlPerWaterIndex
	return Water{
		Index:   index,
		ML:      ml,
		Bottles: math.Round(float64(ml)/mlPerBottle*10) / 10,
	}
}
