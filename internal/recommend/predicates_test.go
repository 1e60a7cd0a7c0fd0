// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package recommend

import (
	"testing"

	"github.com/tomtom215/dishpick/internal/catalog"
)

func dish(id string, level catalog.NutritionLevel, desc string, tags ...string) catalog.Dish {
	d := catalog.Dish{ID: id, Name: id, Desc: desc}
	if level != "" {
		d.Nutrition = &catalog.Nutrition{Level: level}
	}
	for _, v := range tags {
		d.Tags = append(d.Tags, catalog.Tag{Type: catalog.TagIngredient, Value: v})
	}
	return d
}

func TestHasExcludedAllergen(t *testing.T) {
	t.Parallel()

	shrimp := dish("s", catalog.LevelRed, "椒盐", "海鲜", "贝类")
	tests := []struct {
		name      string
		allergens []string
		want      bool
	}{
		{"no allergens", nil, false},
		{"exact match", []string{"贝类"}, true},
		{"no substring match", []string{"海"}, false},
		{"unrelated", []string{"坚果", "芝麻"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HasExcludedAllergen(shrimp, tt.allergens); got != tt.want {
				t.Errorf("HasExcludedAllergen(%v) = %v, want %v", tt.allergens, got, tt.want)
			}
		})
	}
}

func TestContainsAvoidedFood(t *testing.T) {
	t.Parallel()

	d := dish("d", catalog.LevelYellow, "外壳酥脆，Spicy 香辣", "油炸")
	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{"none", nil, false},
		{"tag substring", []string{"炸"}, true},
		{"description substring", []string{"香辣"}, true},
		{"case insensitive", []string{"SPICY"}, true},
		{"empty token ignored", []string{"", "  "}, false},
		{"no match", []string{"生冷"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ContainsAvoidedFood(d, tt.tokens); got != tt.want {
				t.Errorf("ContainsAvoidedFood(%q) = %v, want %v", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestViolatesRestriction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dish  catalog.Dish
		level Severity
		want  bool
	}{
		{"strict red", dish("a", catalog.LevelRed, ""), SeverityStrict, true},
		{"strict yellow", dish("a", catalog.LevelYellow, ""), SeverityStrict, false},
		{"moderate red", dish("a", catalog.LevelRed, ""), SeverityModerate, false},
		{"none red", dish("a", catalog.LevelRed, ""), SeverityNone, false},
		{"strict without nutrition", dish("a", "", ""), SeverityStrict, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ViolatesRestriction(tt.dish, Restriction{Level: tt.level}, catalog.LevelRed)
			if got != tt.want {
				t.Errorf("ViolatesRestriction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInHistory(t *testing.T) {
	t.Parallel()

	if !InHistory("gd-1", []string{"gd-2", "gd-1"}) {
		t.Error("InHistory(gd-1) = false, want true")
	}
	if InHistory("gd-1", nil) {
		t.Error("InHistory on empty history = true, want false")
	}
}

func TestSelectPool_Stages(t *testing.T) {
	t.Parallel()

	a := dish("a", catalog.LevelRed, "", "海鲜")
	b := dish("b", catalog.LevelGreen, "清淡")
	dishes := []catalog.Dish{a, b}

	tests := []struct {
		name      string
		in        stageInput
		wantStage Stage
		wantPool  int
		wantReset bool
	}{
		{
			name:      "full",
			in:        stageInput{criteria: Criteria{Restriction: Restriction{Level: SeverityStrict}}, excluded: catalog.LevelRed},
			wantStage: StageFull,
			wantPool:  1,
		},
		{
			name:      "relaxed resets history when it covers the pool",
			in:        stageInput{history: []string{"a", "b"}, excluded: catalog.LevelRed},
			wantStage: StageRelaxed,
			wantPool:  2,
			wantReset: true,
		},
		{
			name: "relaxed resets history when strict plus history leave nothing",
			in: stageInput{
				criteria: Criteria{Restriction: Restriction{Level: SeverityStrict}},
				history:  []string{"b"},
				excluded: catalog.LevelRed,
			},
			wantStage: StageRelaxed,
			wantPool:  2,
			wantReset: true,
		},
		{
			name: "history reset then full catalog when filters exclude all",
			in: stageInput{
				criteria: Criteria{Allergens: []string{"海鲜"}, AvoidFoods: []string{"清淡"}},
				history:  []string{"a"},
				excluded: catalog.LevelRed,
			},
			wantStage: StageFullCatalog,
			wantPool:  2,
			wantReset: true,
		},
		{
			name: "first call skips restriction and history",
			in: stageInput{
				criteria: Criteria{Restriction: Restriction{Level: SeverityStrict}},
				history:  []string{"b"},
				isFirst:  true,
				excluded: catalog.LevelRed,
			},
			wantStage: StageFull,
			wantPool:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := tt.in
			pool, stage, reset := selectPool(dishes, &in)
			if stage != tt.wantStage || len(pool) != tt.wantPool || reset != tt.wantReset {
				t.Errorf("selectPool() = (%d dishes, %s, %v), want (%d, %s, %v)",
					len(pool), stage, reset, tt.wantPool, tt.wantStage, tt.wantReset)
			}
		})
	}
}

func TestFallbackChainOrder(t *testing.T) {
	t.Parallel()

	want := []Stage{StageFull, StageRelaxed, StageFullCatalog}
	if len(fallbackChain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(fallbackChain), len(want))
	}
	for i, st := range fallbackChain {
		if st.name != want[i] {
			t.Errorf("stage %d = %s, want %s", i, st.name, want[i])
		}
		if st.resetHistory != (st.name == StageRelaxed) {
			t.Errorf("stage %s resetHistory = %v", st.name, st.resetHistory)
		}
	}
}
