// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package recommend

import (
	"fmt"
	"time"
)

// Scoring modes.
const (
	// ScoringJaccard scores with the plain Jaccard index over skill IDs.
	ScoringJaccard = "jaccard"
	// ScoringWeighted scores with weighted Jaccard, giving mandatory
	// project skills MandatoryWeight and everything else weight 1.
	ScoringWeighted = "weighted"
)

// Config holds engine tuning. Zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// DefaultLimit is the result count used when a request passes limit 0
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`
	// MaxLimit is the largest accepted limit
	MaxLimit int `json:"max_limit" koanf:"max_limit"`
	// ScoringMode selects ScoringJaccard or ScoringWeighted
	ScoringMode string `json:"scoring_mode" koanf:"scoring_mode"`
	// MandatoryWeight is the weight of mandatory project skills in
	// weighted mode; optional skills and user skills weigh 1
	MandatoryWeight float64 `json:"mandatory_weight" koanf:"mandatory_weight"`
	// CacheEnabled toggles the recommendation cache
	CacheEnabled bool `json:"cache_enabled" koanf:"cache_enabled"`
	// CacheTTL is how long a cached response stays valid
	CacheTTL time.Duration `json:"cache_ttl" koanf:"cache_ttl"`
}

// DefaultConfig returns production defaults: limit 10 capped at 100,
// plain Jaccard scoring, caching on with a one hour TTL.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:    10,
		MaxLimit:        100,
		ScoringMode:     ScoringJaccard,
		MandatoryWeight: 2.0,
		CacheEnabled:    true,
		CacheTTL:        time.Hour,
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be >= 1, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.ScoringMode != ScoringJaccard && c.ScoringMode != ScoringWeighted {
		return fmt.Errorf("scoring_mode must be %q or %q, got %q", ScoringJaccard, ScoringWeighted, c.ScoringMode)
	}
	if c.ScoringMode == ScoringWeighted && c.MandatoryWeight < 1 {
		return fmt.Errorf("mandatory_weight must be >= 1, got %g", c.MandatoryWeight)
	}
	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive when caching is enabled, got %s", c.CacheTTL)
	}
	return nil
}
