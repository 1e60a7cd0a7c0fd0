// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package enrich looks up third-party details for a dish: platform ratings,
// popularity and the restaurant that sells it.
//
// Lookups are best effort. Service wraps each Source with a rate limiter, a
// per-call timeout, a circuit breaker and a cache, and reports every failure
// as ErrUnavailable so callers can show base dish data regardless.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/dishpick/internal/catalog"
)

// Source names.
const (
	SourceTakeout = "takeout"
	SourceRecipe  = "recipe"
)

// DefaultDelay is the simulated remote latency.
const DefaultDelay = 500 * time.Millisecond

const (
	colorRating     = "bg-yellow-100 text-yellow-800"
	colorPopularity = "bg-pink-100 text-pink-800"
	colorRestaurant = "bg-blue-100 text-blue-800"
)

// Record is the remote view of a dish.
type Record struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Desc   string        `json:"desc"`
	Tags   []catalog.Tag `json:"tags"`
	Source string        `json:"source"`
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Tags = append([]catalog.Tag(nil), r.Tags...)
	return &cp
}

// Source is a remote dish directory.
type Source interface {
	// Name is the short source identifier used in URLs and metrics.
	Name() string

	// Lookup returns the record for dishID, or (nil, nil) when the source
	// has nothing for it.
	Lookup(ctx context.Context, dishID string) (*Record, error)
}

// SimulatedSource answers from a fixed table after a fixed delay.
type SimulatedSource struct {
	name    string
	delay   time.Duration
	records map[string]*Record
}

// NewSimulatedSource builds a source from records keyed by dish id.
func NewSimulatedSource(name string, delay time.Duration, records []*Record) *SimulatedSource {
	m := make(map[string]*Record, len(records))
	for _, r := range records {
		m[r.ID] = r.clone()
	}
	return &SimulatedSource{name: name, delay: delay, records: m}
}

// Name implements Source.
func (s *SimulatedSource) Name() string { return s.name }

// Lookup waits for the configured delay, honoring ctx, then answers from the table.
func (s *SimulatedSource) Lookup(ctx context.Context, dishID string) (*Record, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return s.records[dishID].clone(), nil
}

// NewTakeoutSource returns the simulated takeout platform.
func NewTakeoutSource(delay time.Duration) *SimulatedSource {
	const label = "外卖平台"
	rec := func(id, name, rating, sales, restaurant string) *Record {
		return &Record{
			ID:   id,
			Name: name,
			Desc: fmt.Sprintf("外卖平台评分%s，%s", rating, sales),
			Tags: []catalog.Tag{
				{Type: catalog.TagRating, Value: rating, Color: colorRating},
				{Type: catalog.TagPopularity, Value: sales, Color: colorPopularity},
				{Type: catalog.TagRestaurant, Value: restaurant, Color: colorRestaurant},
			},
			Source: label,
		}
	}
	return NewSimulatedSource(SourceTakeout, delay, []*Record{
		rec("1", "香煎三文鱼套餐", "4.5分", "月销1200+", "渔人码头"),
		rec("2", "意式番茄牛肉面", "4.7分", "月销800+", "意面工坊"),
	})
}

// NewRecipeSource returns the simulated recipe community.
func NewRecipeSource(delay time.Duration) *SimulatedSource {
	const label = "下厨房"
	rec := func(id, name, rating, saves string) *Record {
		return &Record{
			ID:   id,
			Name: name,
			Desc: fmt.Sprintf("下厨房评分%s，收藏量%s", rating, saves),
			Tags: []catalog.Tag{
				{Type: catalog.TagRating, Value: rating, Color: colorRating},
				{Type: catalog.TagPopularity, Value: "收藏" + saves, Color: colorPopularity},
			},
			Source: label,
		}
	}
	return NewSimulatedSource(SourceRecipe, delay, []*Record{
		rec("1", "香煎三文鱼配时蔬", "4.8分", "12.3万"),
		rec("2", "意式番茄牛肉面", "4.7分", "10.5万"),
		rec("3", "红烧肉", "4.9分", "18.2万"),
		rec("4", "宫保鸡丁", "4.9分", "15.6万"),
		rec("5", "番茄炒蛋", "4.6分", "8.9万"),
	})
}
