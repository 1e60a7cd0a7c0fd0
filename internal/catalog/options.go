// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package catalog

// Options lists every choice the filter pages offer.
type Options struct {
	Allergens    []string `json:"allergens"`
	AvoidFoods   []string `json:"avoid_foods"`
	Conditions   []string `json:"conditions"`
	Severities   []string `json:"severities"`
	Phases       []string `json:"phases"`
	CookingTimes []string `json:"cooking_times"`
	CookingTools []string `json:"cooking_tools"`
	MinSkill     int      `json:"min_skill"`
	MaxSkill     int      `json:"max_skill"`
}

// Cooking skill bounds.
const (
	MinSkillLevel = 1
	MaxSkillLevel = 4
)

// FilterOptions returns a fresh copy of the filter choices.
func FilterOptions() Options {
	return Options{
		Allergens:    []string{"乳制品", "坚果", "海鲜", "麸质", "鸡蛋", "大豆", "贝类", "芝麻"},
		AvoidFoods:   []string{"辛辣", "油炸", "生冷", "腌制", "高脂", "高糖", "碳酸饮料", "酒精"},
		Conditions:   []string{"胃溃疡", "胃炎", "胃食管反流", ConditionFunctionalDyspepsia, "胃息肉", "胃癌"},
		Severities:   []string{"none", "strict", "moderate", "recommended"},
		Phases:       []string{"none", "acute", "recovery", "chronic", "remission", "prevention"},
		CookingTimes: []string{"15分钟", "30分钟", "60分钟以上"},
		CookingTools: []string{"无厨具", "基础厨具", "专业厨具"},
		MinSkill:     MinSkillLevel,
		MaxSkill:     MaxSkillLevel,
	}
}
