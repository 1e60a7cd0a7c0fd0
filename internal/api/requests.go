// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"github.com/tomtom215/dishpick/internal/filterstore"
	"github.com/tomtom215/dishpick/internal/recommend"
)

// RestrictionRequest is the dietary restriction of a request.
type RestrictionRequest struct {
	Level      string   `json:"level" validate:"severity"`
	Phase      string   `json:"phase" validate:"phase"`
	Conditions []string `json:"conditions" validate:"max=16,dive,min=1,max=64"`
}

// CriteriaRequest is a filter selection.
type CriteriaRequest struct {
	Allergens   []string           `json:"allergens" validate:"max=32,dive,max=64"`
	AvoidFoods  []string           `json:"avoid_foods" validate:"max=32,dive,max=64"`
	Restriction RestrictionRequest `json:"restriction"`
}

func (c *CriteriaRequest) toCriteria() recommend.Criteria {
	return recommend.Criteria{
		Allergens:  c.Allergens,
		AvoidFoods: c.AvoidFoods,
		Restriction: recommend.Restriction{
			Level:      recommend.Severity(c.Restriction.Level),
			Phase:      recommend.Phase(c.Restriction.Phase),
			Conditions: c.Restriction.Conditions,
		},
	}.Normalize()
}

// CookingRequest is the cooking page's extra selection.
type CookingRequest struct {
	Time       string `json:"time" validate:"max=32"`
	Tool       string `json:"tool" validate:"max=32"`
	SkillLevel int    `json:"skill_level" validate:"omitempty,gte=1,lte=4"`
	SearchMode bool   `json:"search_mode"`
	Query      string `json:"query" validate:"max=100"`
}

// FilterStateRequest is the body of PUT /filters/{page}.
type FilterStateRequest struct {
	Criteria CriteriaRequest `json:"criteria"`
	Cooking  *CookingRequest `json:"cooking"`
}

func (f *FilterStateRequest) toState() *filterstore.State {
	state := &filterstore.State{Criteria: f.Criteria.toCriteria()}
	if f.Cooking != nil {
		state.Cooking = &filterstore.CookingOptions{
			Time:       f.Cooking.Time,
			Tool:       f.Cooking.Tool,
			SkillLevel: f.Cooking.SkillLevel,
			SearchMode: f.Cooking.SearchMode,
			Query:      f.Cooking.Query,
		}
	}
	return state
}

// RecommendRequest is the optional body of POST /sessions/{id}/recommendations.
// With Criteria set it is used as is. Otherwise the filters saved for Page
// apply, and with neither the dish is drawn unfiltered.
type RecommendRequest struct {
	Page     string           `json:"page" validate:"omitempty,oneof=takeout cooking"`
	Criteria *CriteriaRequest `json:"criteria"`
}
