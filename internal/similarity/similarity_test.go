// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    []int64
		b    []int64
		want float64
	}{
		{
			name: "perfect overlap",
			a:    []int64{1, 2, 3},
			b:    []int64{1, 2, 3},
			want: 1.0,
		},
		{
			name: "partial overlap two of four",
			a:    []int64{1, 2, 3},
			b:    []int64{2, 3, 4},
			want: 0.5,
		},
		{
			name: "no overlap",
			a:    []int64{1, 2},
			b:    []int64{3, 4},
			want: 0.0,
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 1.0,
		},
		{
			name: "left empty",
			a:    nil,
			b:    []int64{1, 2},
			want: 0.0,
		},
		{
			name: "right empty",
			a:    []int64{1, 2},
			b:    nil,
			want: 0.0,
		},
		{
			name: "duplicates collapse before membership",
			a:    []int64{1, 1, 2, 2, 3},
			b:    []int64{2, 3, 3, 4},
			want: 0.5,
		},
		{
			name: "subset",
			a:    []int64{1, 2},
			b:    []int64{1, 2, 3, 4},
			want: 0.5,
		},
		{
			name: "single shared element of many",
			a:    []int64{1},
			b:    []int64{1, 2, 3, 4, 5},
			want: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestJaccardProperties(t *testing.T) {
	cases := [][2][]int64{
		{{1, 2, 3}, {2, 3, 4}},
		{{}, {1}},
		{{5}, {5}},
		{{1, 2, 3, 4, 5}, {}},
		{{7, 8}, {9, 10, 11}},
		{{1, 1, 1}, {1}},
	}

	for _, c := range cases {
		a, b := c[0], c[1]

		got := Jaccard(a, b)

		// Range.
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)

		// Symmetry.
		assert.InDelta(t, got, Jaccard(b, a), 1e-12)

		// Identity on non-empty input.
		if len(a) > 0 {
			assert.InDelta(t, 1.0, Jaccard(a, a), 1e-12)
		}
	}
}

func TestJaccardMonotonicity(t *testing.T) {
	// Adding a shared element to both sides never decreases the score.
	a := []int64{1, 2, 3}
	b := []int64{3, 4, 5}

	base := Jaccard(a, b)
	grown := Jaccard(append(a, 99), append(b, 99))

	assert.GreaterOrEqual(t, grown, base)
}

func TestIntersectionAndUnionCount(t *testing.T) {
	a := []int64{1, 2, 2, 3}
	b := []int64{2, 3, 4}

	assert.Equal(t, 2, IntersectionCount(a, b))
	assert.Equal(t, 4, UnionCount(a, b))
	assert.Equal(t, 0, IntersectionCount[int64](nil, nil))
	assert.Equal(t, 0, UnionCount[int64](nil, nil))
}

func TestCommonItems(t *testing.T) {
	t.Run("preserves first-appearance order of a", func(t *testing.T) {
		got := CommonItems([]int64{5, 3, 1, 4}, []int64{4, 1, 5})
		assert.Equal(t, []int64{5, 1, 4}, got)
	})

	t.Run("deduplicates", func(t *testing.T) {
		got := CommonItems([]int64{2, 2, 2, 7}, []int64{2, 7})
		assert.Equal(t, []int64{2, 7}, got)
	})

	t.Run("disjoint", func(t *testing.T) {
		got := CommonItems([]int64{1}, []int64{2})
		assert.Empty(t, got)
	})

	t.Run("works with string keys", func(t *testing.T) {
		got := CommonItems([]string{"go", "sql"}, []string{"sql"})
		assert.Equal(t, []string{"sql"}, got)
	})
}

func TestWeightedJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    map[int64]float64
		b    map[int64]float64
		want float64
	}{
		{
			name: "identical weights",
			a:    map[int64]float64{1: 1, 2: 2},
			b:    map[int64]float64{1: 1, 2: 2},
			want: 1.0,
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 1.0,
		},
		{
			name: "one empty",
			a:    map[int64]float64{1: 1},
			b:    nil,
			want: 0.0,
		},
		{
			name: "disjoint keys",
			a:    map[int64]float64{1: 1},
			b:    map[int64]float64{2: 1},
			want: 0.0,
		},
		{
			name: "min over max accumulation",
			a:    map[int64]float64{1: 2, 2: 1},
			b:    map[int64]float64{1: 1, 3: 1},
			// min: 1 over max: 2 + 1 + 1
			want: 0.25,
		},
		{
			name: "all zero weights",
			a:    map[int64]float64{1: 0},
			b:    map[int64]float64{1: 0},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeightedJaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestWeightedJaccardSymmetry(t *testing.T) {
	a := map[int64]float64{1: 0.5, 2: 3, 5: 1}
	b := map[int64]float64{2: 1, 5: 4, 9: 2}

	x := WeightedJaccard(a, b)
	y := WeightedJaccard(b, a)

	require.False(t, math.IsNaN(x))
	assert.InDelta(t, x, y, 1e-12)
}

func TestWeightedJaccardReducesToJaccardOnUnitWeights(t *testing.T) {
	a := []int64{1, 2, 3}
	b := []int64{2, 3, 4}

	unit := func(ids []int64) map[int64]float64 {
		m := make(map[int64]float64, len(ids))
		for _, id := range ids {
			m[id] = 1
		}
		return m
	}

	assert.InDelta(t, Jaccard(a, b), WeightedJaccard(unit(a), unit(b)), 1e-12)
}
