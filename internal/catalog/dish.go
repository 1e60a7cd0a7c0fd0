// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package catalog

// NutritionLevel is the coarse traffic-light rating of a dish.
type NutritionLevel string

const (
	LevelGreen  NutritionLevel = "green"
	LevelYellow NutritionLevel = "yellow"
	LevelRed    NutritionLevel = "red"
)

// Valid reports whether l is one of the known levels.
func (l NutritionLevel) Valid() bool {
	switch l {
	case LevelGreen, LevelYellow, LevelRed:
		return true
	}
	return false
}

// TagCategory classifies a dish tag.
type TagCategory string

const (
	TagCuisine          TagCategory = "cuisine"
	TagFlavor           TagCategory = "flavor"
	TagMethod           TagCategory = "method"
	TagDifficulty       TagCategory = "difficulty"
	TagIngredient       TagCategory = "ingredient"
	TagMedicalCondition TagCategory = "medical-condition"
	TagDietType         TagCategory = "diet-type"
	TagRating           TagCategory = "rating"
	TagPopularity       TagCategory = "popularity"
	TagRestaurant       TagCategory = "restaurant"
)

// Tag is a labelled attribute shown on a dish card. Tags within a dish may repeat.
type Tag struct {
	Type  TagCategory `json:"type"`
	Value string      `json:"value"`
	Color string      `json:"color"`
}

// RecipeStep is one instruction, with an optional tip.
type RecipeStep struct {
	Step string `json:"step"`
	Tip  string `json:"tip,omitempty"`
}

// Recipe holds ordered preparation steps.
type Recipe struct {
	URL   string       `json:"url,omitempty"`
	Steps []RecipeStep `json:"steps"`
}

// Nutrition is per-serving nutrition data.
type Nutrition struct {
	Calories float64        `json:"calories"`
	Protein  float64        `json:"protein"`
	Fat      float64        `json:"fat"`
	Carbs    float64        `json:"carbs"`
	Level    NutritionLevel `json:"level"`
}

// Safety carries an optional warning and a water-content index from 0 to 5.
type Safety struct {
	Warning    *string `json:"warning"`
	WaterIndex int     `json:"water_index"`
}

// Dish is an immutable catalog record.
type Dish struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Image      string     `json:"image"`
	Desc       string     `json:"desc"`
	Recipe     *Recipe    `json:"recipe,omitempty"`
	Nutrition  *Nutrition `json:"nutrition,omitempty"`
	Safety     *Safety    `json:"safety,omitempty"`
	Tags       []Tag      `json:"tags"`
	Source     string     `json:"source,omitempty"`
	Restaurant string     `json:"restaurant,omitempty"`
	Price      float64    `json:"price,omitempty"`
}

// HasTagCategory reports whether any tag of d belongs to category.
//
//nolint:gocritic // Dish is passed by value throughout; records are small
func (d Dish) HasTagCategory(category TagCategory) bool {
	for _, t := range d.Tags {
		if t.Type == category {
			return true
		}
	}
	return false
}

// TagValues returns the values of all tags in category, in order.
//
//nolint:gocritic // see HasTagCategory
func (d Dish) TagValues(category TagCategory) []string {
	var out []string
	for _, t := range d.Tags {
		if t.Type == category {
			out = append(out, t.Value)
		}
	}
	return out
}

// NutritionLevel returns the dish's level, or "" when it has no nutrition record.
//
//nolint:gocritic // see HasTagCategory
func (d Dish) NutritionLevel() NutritionLevel {
	if d.Nutrition == nil {
		return ""
	}
	return d.Nutrition.Level
}

// clone returns a deep copy so callers cannot mutate catalog state.
//
//nolint:gocritic // see HasTagCategory
func (d Dish) clone() Dish {
	out := d
	if d.Recipe != nil {
		r := *d.Recipe
		r.Steps = append([]RecipeStep(nil), d.Recipe.Steps...)
		out.Recipe = &r
	}
	if d.Nutrition != nil {
		n := *d.Nutrition
		out.Nutrition = &n
	}
	if d.Safety != nil {
		s := *d.Safety
		if d.Safety.Warning != nil {
			w := *d.Safety.Warning
			s.Warning = &w
		}
		out.Safety = &s
	}
	out.Tags = append([]Tag(nil), d.Tags...)
	return out
}
