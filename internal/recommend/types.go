// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package recommend

import (
	"context"
	"time"
)

// Skill is a single skill attached to a user profile.
type Skill struct {
	// ID is the platform-wide skill identifier
	ID int64 `json:"id"`
	// Name is the human-readable skill name
	Name string `json:"name"`
}

// ProjectSkill is a skill a project asks for. Mandatory skills carry extra
// weight when weighted scoring is enabled.
type ProjectSkill struct {
	// ID is the platform-wide skill identifier
	ID int64 `json:"id"`
	// Name is the human-readable skill name
	Name string `json:"name"`
	// Mandatory marks the skill as required rather than nice-to-have
	Mandatory bool `json:"mandatory"`
}

// ProjectSkillSet is the scoring view of a project: its identity plus the
// skills it asks for. The batch scorer works exclusively on this shape so
// the candidate universe can be fetched in a single round trip.
type ProjectSkillSet struct {
	// ProjectID is the project identifier
	ProjectID int64 `json:"project_id"`
	// Name is the project display name
	Name string `json:"name"`
	// Skills are the skills the project asks for
	Skills []ProjectSkill `json:"skills"`
}

// PublicUser is the sanitized member view embedded in enriched results.
// It deliberately carries no credentials, email, or role internals.
type PublicUser struct {
	// ID is the user identifier
	ID int64 `json:"id"`
	// Name is the user display name
	Name string `json:"name"`
	// Headline is an optional short self-description
	Headline string `json:"headline,omitempty"`
	// AvatarURL is an optional profile image URL
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Category is a project category label.
type Category struct {
	// ID is the category identifier
	ID int64 `json:"id"`
	// Name is the category display name
	Name string `json:"name"`
}

// ProjectDetail is the enriched project representation returned to clients.
type ProjectDetail struct {
	// ID is the project identifier
	ID int64 `json:"id"`
	// Name is the project display name
	Name string `json:"name"`
	// Description is the long-form project description
	Description string `json:"description"`
	// Status is the project lifecycle state (e.g. "active")
	Status string `json:"status"`
	// Creator is the sanitized project owner
	Creator PublicUser `json:"creator"`
	// Categories are the project's category labels
	Categories []Category `json:"categories"`
	// Skills are the skills the project asks for
	Skills []ProjectSkill `json:"skills"`
	// Volunteers are active members with the volunteer role
	Volunteers []PublicUser `json:"volunteers"`
	// Mentors are active members with the mentor role
	Mentors []PublicUser `json:"mentors"`
	// CreatedAt is the project creation timestamp
	CreatedAt time.Time `json:"created_at"`
}

// SimilarityScore is the scored pairing of a user and a project.
type SimilarityScore struct {
	// ProjectID is the scored project
	ProjectID int64 `json:"project_id"`
	// ProjectName is the scored project's display name
	ProjectName string `json:"project_name"`
	// Score is the raw similarity in [0, 1]
	Score float64 `json:"score"`
	// Percent is round(Score*100), half away from zero
	Percent int `json:"percent"`
	// MatchingSkills is the number of skills shared by user and project
	MatchingSkills int `json:"matching_skills"`
	// ProjectSkillCount is the total number of skills the project asks for
	ProjectSkillCount int `json:"project_skill_count"`
	// MatchingSkillNames lists the shared skills by name
	MatchingSkillNames []string `json:"matching_skill_names,omitempty"`
}

// Recommendation is one ranked, enriched entry in a recommendation response.
type Recommendation struct {
	// SimilarityScore carries the ranking signal
	SimilarityScore
	// Project is the enriched project detail
	Project *ProjectDetail `json:"project"`
}

// Request is a recommendation request after handler-level parsing.
type Request struct {
	// UserID is the subject user
	UserID int64 `json:"user_id"`
	// Limit caps the number of results; 0 means the configured default
	Limit int `json:"limit"`
	// MinSimilarity is the inclusive percent threshold, 0-100
	MinSimilarity int `json:"min_similarity"`
	// RequestID correlates logs, events, and the response envelope;
	// generated when empty
	RequestID string `json:"request_id,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	// RequestID correlates this response with logs and events
	RequestID string `json:"request_id"`
	// UserID is the subject user
	UserID int64 `json:"user_id"`
	// CacheHit is true when the response was served from cache
	CacheHit bool `json:"cache_hit"`
	// TotalCandidates is the eligible-universe size before scoring
	TotalCandidates int `json:"total_candidates"`
	// LatencyMS is the scoring-pass duration in milliseconds; a
	// cache-served response carries the latency of the computation
	// that produced it
	LatencyMS int64 `json:"latency_ms"`
	// GeneratedAt is when the result set was computed
	GeneratedAt time.Time `json:"generated_at"`
}

// Response is a full recommendation response.
type Response struct {
	// Recommendations are ranked best-first
	Recommendations []Recommendation `json:"recommendations"`
	// Metadata describes the computation
	Metadata Metadata `json:"metadata"`
}

// DataProvider supplies the engine with platform data. Implementations
// return an error wrapping ErrNotFound when the requested subject does not
// exist; a subject that exists but has no skills is a valid empty result.
type DataProvider interface {
	// GetUserSkills returns the skills registered on a user profile.
	GetUserSkills(ctx context.Context, userID int64) ([]Skill, error)

	// GetProjectSkills returns a single project's scoring view.
	GetProjectSkills(ctx context.Context, projectID int64) (*ProjectSkillSet, error)

	// GetEligibleProjects returns the full candidate universe: projects in
	// a recommendable lifecycle state, each with its skill set.
	GetEligibleProjects(ctx context.Context) ([]ProjectSkillSet, error)

	// GetExcludedProjects returns the IDs of projects the user created or
	// has any membership record in, regardless of membership status.
	GetExcludedProjects(ctx context.Context, userID int64) (map[int64]struct{}, error)

	// GetProjectDetail returns the enriched view of a project.
	GetProjectDetail(ctx context.Context, projectID int64) (*ProjectDetail, error)
}

// Cache is the engine's view of the recommendation cache. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the cached payload for key, if present and unexpired.
	Get(key string) ([]byte, bool)

	// Set stores a payload under key for ttl.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes the single entry under key, if present.
	Delete(key string)

	// DeletePrefix removes every entry whose key starts with prefix and
	// returns the number of entries removed.
	DeletePrefix(prefix string) int
}

// ScoringEvent is emitted after every full scoring pass.
type ScoringEvent struct {
	// RequestID correlates the event with the request that produced it
	RequestID string `json:"request_id"`
	// UserID is the subject user
	UserID int64 `json:"user_id"`
	// Candidates is the eligible-universe size before scoring
	Candidates int `json:"candidates"`
	// Scored is the number of candidates with a positive score
	Scored int `json:"scored"`
	// Returned is the number of recommendations after ranking and limit
	Returned int `json:"returned"`
	// LatencyMS is the scoring-pass duration in milliseconds
	LatencyMS int64 `json:"latency_ms"`
	// Timestamp is when the pass completed
	Timestamp time.Time `json:"timestamp"`
}

// CacheHitEvent is emitted when a recommendation request is served from
// cache.
type CacheHitEvent struct {
	// RequestID correlates the event with the request that produced it
	RequestID string `json:"request_id"`
	// UserID is the subject user
	UserID int64 `json:"user_id"`
	// Key is the cache key that was hit
	Key string `json:"key"`
	// Timestamp is when the hit occurred
	Timestamp time.Time `json:"timestamp"`
}

// Emitter receives instrumentation events from the engine. Implementations
// must never block; the engine treats emission as fire-and-forget.
type Emitter interface {
	// EmitScoring publishes a completed scoring pass.
	EmitScoring(ev ScoringEvent)

	// EmitCacheHit publishes a cache hit.
	EmitCacheHit(ev CacheHitEvent)
}
