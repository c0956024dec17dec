// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package similarity provides pure set-similarity primitives used by the
// recommendation engine. All functions treat their inputs as mathematical
// sets: duplicate identifiers are collapsed before any computation, and no
// function performs I/O or retains state.
package similarity

// Jaccard returns the Jaccard index |A∩B| / |A∪B| of two identifier
// collections, in [0, 1].
//
// Edge semantics:
//   - both inputs empty: 1.0 (identical by vacuous truth)
//   - exactly one input empty: 0.0
//
// Duplicates within an input are collapsed before membership is computed.
func Jaccard[K comparable](a, b []K) float64 {
	setA := toSet(a)
	setB := toSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	inter := intersectionSize(setA, setB)
	union := len(setA) + len(setB) - inter

	return float64(inter) / float64(union)
}

// IntersectionCount returns |A∩B| using set semantics.
func IntersectionCount[K comparable](a, b []K) int {
	return intersectionSize(toSet(a), toSet(b))
}

// UnionCount returns |A∪B| using set semantics.
func UnionCount[K comparable](a, b []K) int {
	setA := toSet(a)
	setB := toSet(b)
	return len(setA) + len(setB) - intersectionSize(setA, setB)
}

// CommonItems returns the elements present in both inputs. The result
// preserves the first-appearance order of a, so callers get deterministic
// output for deterministic input.
func CommonItems[K comparable](a, b []K) []K {
	setB := toSet(b)
	seen := make(map[K]struct{}, len(a))

	common := make([]K, 0, min(len(a), len(b)))
	for _, k := range a {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := setB[k]; ok {
			common = append(common, k)
		}
	}
	return common
}

// WeightedJaccard returns the weighted Jaccard similarity of two weight
// maps. For every identifier appearing in either map, min(weightA, weightB)
// accumulates into the numerator and max(weightA, weightB) into the
// denominator; an identifier missing from one side contributes weight 0 on
// that side.
//
// Edge semantics match Jaccard: both maps empty yields 1.0, exactly one
// empty yields 0.0. A zero denominator (all weights zero) yields 0.0.
//
// Weights are expected to be non-negative; negative weights are a caller
// contract violation, not an error condition.
func WeightedJaccard[K comparable](a, b map[K]float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var num, den float64
	for k, wa := range a {
		wb := b[k] // zero when absent
		num += min(wa, wb)
		den += max(wa, wb)
	}
	for k, wb := range b {
		if _, ok := a[k]; !ok {
			den += wb
		}
	}

	if den == 0 {
		return 0.0
	}
	return num / den
}

// toSet collapses a slice into a membership set.
func toSet[K comparable](items []K) map[K]struct{} {
	set := make(map[K]struct{}, len(items))
	for _, k := range items {
		set[k] = struct{}{}
	}
	return set
}

// intersectionSize counts keys present in both sets, iterating the smaller.
func intersectionSize[K comparable](a, b map[K]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
