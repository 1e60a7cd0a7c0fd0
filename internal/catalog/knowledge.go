// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package catalog

import (
	"errors"
	"fmt"
)

// ErrKnowledgeNotFound is returned when no guidance exists for a condition and phase.
var ErrKnowledgeNotFound = errors.New("knowledge not found")

// ConditionFunctionalDyspepsia is the only condition with phase guidance.
const ConditionFunctionalDyspepsia = "功能性消化不良"

// DietType is the texture class a phase allows.
type DietType string

const (
	DietLiquid DietType = "liquid"
	DietSoft   DietType = "soft"
	DietNormal DietType = "normal"
)

// Guidance is the structured dietary advice attached to some phases.
type Guidance struct {
	Year             int        `json:"year"`
	Description      string     `json:"description"`
	AllowedDietTypes []DietType `json:"allowed_diet_types"`
	Foods            []string   `json:"foods"`
	Prohibited       []string   `json:"prohibited"`
	StrictWarning    string     `json:"strict_warning,omitempty"`
}

// Knowledge is the explanatory card shown for a condition in a given phase.
type Knowledge struct {
	Condition string    `json:"condition"`
	Phase     string    `json:"phase"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Guidance  *Guidance `json:"guidance,omitempty"`
}

var phaseKnowledge = map[string]map[string]Knowledge{
	ConditionFunctionalDyspepsia: {
		"acute": {
			Title:   "急性期管理",
			Content: "急性期需严格流质饮食2-3天，避免任何固体食物刺激胃部。",
			Color:   colorRed,
			Guidance: &Guidance{
				Year:             2025,
				Description:      "2025年最新指南：急性期需严格流质饮食2-3天",
				AllowedDietTypes: []DietType{DietLiquid},
				Foods:            []string{"米汤", "藕粉", "蔬菜汁", "过滤果汁", "牛奶", "豆浆", "稀粥", "蛋花汤"},
				Prohibited:       []string{"固体食物", "油炸食品", "辛辣刺激", "高纤维食物", "粗粮", "坚果", "豆类", "碳酸饮料"},
				StrictWarning:    "⚠️ 急性期严格限制: 仅能食用流质饮食(如米汤、蔬菜汁等)，避免任何固体食物",
			},
		},
		"recovery": {
			Title:   "恢复期指导",
			Content: "恢复期可逐渐过渡到软食，但仍需避免刺激性食物。",
			Color:   colorYellow,
			Guidance: &Guidance{
				Year:             2025,
				Description:      "恢复期可逐渐过渡到软食",
				AllowedDietTypes: []DietType{DietLiquid, DietSoft},
				Foods:            []string{"粥类", "烂面条", "蒸蛋", "豆腐脑", "肉泥", "煮熟的蔬菜", "土豆泥"},
				Prohibited:       []string{"油炸食品", "辛辣刺激", "高纤维食物", "生冷食物", "酒精"},
			},
		},
		"chronic": {
			Title:   "慢性期建议",
			Content: "慢性期可正常饮食但需避免辛辣、油腻等刺激性食物。",
			Color:   colorBlue,
			Guidance: &Guidance{
				Year:             2025,
				Description:      "慢性期可正常饮食但需避免刺激性食物",
				AllowedDietTypes: []DietType{DietSoft, DietNormal},
				Foods:            []string{"常规饮食", "低脂食物", "易消化蛋白质", "蒸煮食物", "炖菜"},
				Prohibited:       []string{"油炸食品", "辛辣刺激", "酒精", "咖啡", "碳酸饮料"},
			},
		},
		"prevention": {
			Title:   "预防期措施",
			Content: "预防期应保持规律饮食，避免暴饮暴食和刺激性食物。",
			Color:   colorGreen,
		},
	},
}

// PhaseKnowledge returns the guidance card for condition in phase.
func PhaseKnowledge(condition, phase string) (Knowledge, error) {
	k, ok := phaseKnowledge[condition][phase]
	if !ok {
		return Knowledge{}, fmt.Errorf("%w: %s/%s", ErrKnowledgeNotFound, condition, phase)
	}
	k.Condition = condition
	k.Phase = phase
	if k.Guidance != nil {
		g := *k.Guidance
		g.AllowedDietTypes = append([]DietType(nil), g.AllowedDietTypes...)
		g.Foods = append([]string(nil), g.Foods...)
		g.Prohibited = append([]string(nil), g.Prohibited...)
		k.Guidance = &g
	}
	return k, nil
}
