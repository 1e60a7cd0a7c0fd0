// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package recommend

import (
	"time"

	"github.com/tomtom215/dishpick/internal/catalog"
)

// Severity is how strictly a dietary restriction applies.
type Severity string

const (
	SeverityNone        Severity = "none"
	SeverityStrict      Severity = "strict"
	SeverityModerate    Severity = "moderate"
	SeverityRecommended Severity = "recommended"
)

// Valid reports whether s is a known severity. The empty value is treated as none.
func (s Severity) Valid() bool {
	switch s {
	case "", SeverityNone, SeverityStrict, SeverityModerate, SeverityRecommended:
		return true
	}
	return false
}

// Phase is the illness phase the user reported.
type Phase string

const (
	PhaseNone       Phase = "none"
	PhaseAcute      Phase = "acute"
	PhaseRecovery   Phase = "recovery"
	PhaseChronic    Phase = "chronic"
	PhaseRemission  Phase = "remission"
	PhasePrevention Phase = "prevention"
)

// Valid reports whether p is a known phase. The empty value is treated as none.
func (p Phase) Valid() bool {
	switch p {
	case "", PhaseNone, PhaseAcute, PhaseRecovery, PhaseChronic, PhaseRemission, PhasePrevention:
		return true
	}
	return false
}

// Restriction describes a disease-related dietary restriction.
type Restriction struct {
	Level      Severity `json:"level"`
	Phase      Phase    `json:"phase"`
	Conditions []string `json:"conditions"`
}

// IsUnrestricted reports whether r imposes nothing.
func (r Restriction) IsUnrestricted() bool {
	return (r.Level == "" || r.Level == SeverityNone) &&
		(r.Phase == "" || r.Phase == PhaseNone) &&
		len(r.Conditions) == 0
}

// Criteria is the user's filter selection.
type Criteria struct {
	Allergens   []string    `json:"allergens"`
	AvoidFoods  []string    `json:"avoid_foods"`
	Restriction Restriction `json:"restriction"`
}

// Normalize returns a copy with nil slices replaced by empty ones.
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Allergens:   append([]string{}, c.Allergens...),
		AvoidFoods:  append([]string{}, c.AvoidFoods...),
		Restriction: c.Restriction,
	}
	out.Restriction.Conditions = append([]string{}, c.Restriction.Conditions...)
	if out.Restriction.Level == "" {
		out.Restriction.Level = SeverityNone
	}
	if out.Restriction.Phase == "" {
		out.Restriction.Phase = PhaseNone
	}
	return out
}

// Session is the per-user state carried between recommendations.
type Session struct {
	ID        string    `json:"id"`
	History   []string  `json:"history"`
	IsFirst   bool      `json:"is_first"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a fresh session that has not recommended anything yet.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		History:   []string{},
		IsFirst:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	cp := *s
	cp.History = append([]string{}, s.History...)
	return &cp
}

// Stage names a step of the fallback chain.
type Stage string

const (
	StageFull Stage = "full"

	// StageRelaxed keeps only the allergen and avoided-food filters and
	// resets the session history.
	StageRelaxed     Stage = "relaxed"
	StageFullCatalog Stage = "full-catalog"
)

// Result is the outcome of one recommendation.
type Result struct {
	Dish         catalog.Dish `json:"dish"`
	Session      Session      `json:"session"`
	Stage        Stage        `json:"stage"`
	PoolSize     int          `json:"pool_size"`
	Weight       float64      `json:"weight"`
	HistoryReset bool         `json:"history_reset"`
}
