// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/skillbridge/skillbridge/internal/similarity"
)

// Engine computes skill-based project recommendations. It is safe for
// concurrent use; all state besides the injected collaborators is
// request-scoped.
type Engine struct {
	provider DataProvider
	cache    Cache
	emitter  Emitter
	config   Config
	logger   zerolog.Logger

	// group collapses concurrent identical cache misses into one
	// scoring pass
	group singleflight.Group
}

// New creates an Engine. cache and emitter may be nil, which disables
// caching and event emission respectively.
func New(provider DataProvider, cache Cache, emitter Emitter, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("recommend: provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("recommend: invalid config: %w", err)
	}

	return &Engine{
		provider: provider,
		cache:    cache,
		emitter:  emitter,
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// ComputeSimilarity scores a single user/project pair. It returns an error
// wrapping ErrNotFound when either subject does not exist or has no skills
// registered.
func (e *Engine) ComputeSimilarity(ctx context.Context, userID, projectID int64) (*SimilarityScore, error) {
	if userID < 1 {
		return nil, fmt.Errorf("%w: user id %d", ErrInvalidArgument, userID)
	}
	if projectID < 1 {
		return nil, fmt.Errorf("%w: project id %d", ErrInvalidArgument, projectID)
	}

	var (
		userSkills []Skill
		project    *ProjectSkillSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userSkills, err = e.provider.GetUserSkills(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch user %d skills: %w", userID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		project, err = e.provider.GetProjectSkills(gctx, projectID)
		if err != nil {
			return fmt.Errorf("fetch project %d skills: %w", projectID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(userSkills) == 0 {
		return nil, fmt.Errorf("%w: user %d has no skills registered", ErrNotFound, userID)
	}
	if len(project.Skills) == 0 {
		return nil, fmt.Errorf("%w: project %d has no skills registered", ErrNotFound, projectID)
	}

	score := e.scorePair(userSkills, project)
	return &score, nil
}

// GetRecommendations returns ranked, enriched project recommendations for a
// user. Limit 0 selects the configured default; results below the
// min-similarity percent threshold are excluded.
func (e *Engine) GetRecommendations(ctx context.Context, req Request) (*Response, error) {
	if err := e.normalize(&req); err != nil {
		return nil, err
	}

	key := e.cacheKey(req)

	if e.cacheEnabled() {
		if resp, ok := e.checkCache(key); ok {
			e.logger.Debug().
				Str("request_id", req.RequestID).
				Int64("user_id", req.UserID).
				Str("key", key).
				Msg("recommendation cache hit")
			e.emitCacheHit(req, key)
			resp.Metadata.CacheHit = true
			return resp, nil
		}
	}

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		return e.compute(ctx, req, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Response), nil
}

// InvalidateUserCache removes every cached recommendation response for the
// user, across all limit and threshold combinations. It returns the number
// of entries removed.
func (e *Engine) InvalidateUserCache(userID int64) int {
	if !e.cacheEnabled() {
		return 0
	}

	removed := e.cache.DeletePrefix(userCachePrefix(userID))
	e.logger.Debug().
		Int64("user_id", userID).
		Int("removed", removed).
		Msg("invalidated recommendation cache")
	return removed
}

// compute runs the full scoring pipeline on a cache miss.
func (e *Engine) compute(ctx context.Context, req Request, key string) (*Response, error) {
	start := time.Now()

	var (
		userSkills []Skill
		excluded   map[int64]struct{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userSkills, err = e.provider.GetUserSkills(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("fetch user %d skills: %w", req.UserID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		excluded, err = e.provider.GetExcludedProjects(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("fetch user %d exclusions: %w", req.UserID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A user with no skills matches nothing; skip the universe fetch.
	if len(userSkills) == 0 {
		resp := e.buildResponse(req, nil, 0, start)
		e.storeCache(key, resp)
		e.emitScoring(req, 0, 0, 0, start)
		return resp, nil
	}

	universe, err := e.provider.GetEligibleProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch eligible projects: %w", err)
	}

	scores := e.scoreUniverse(userSkills, universe, excluded)
	ranked := e.rank(scores, req)
	recs := e.enrich(ctx, req, ranked)

	resp := e.buildResponse(req, recs, len(universe), start)
	e.storeCache(key, resp)
	e.emitScoring(req, len(universe), len(scores), len(recs), start)

	e.logger.Info().
		Str("request_id", req.RequestID).
		Int64("user_id", req.UserID).
		Int("candidates", len(universe)).
		Int("scored", len(scores)).
		Int("returned", len(recs)).
		Dur("latency", time.Since(start)).
		Msg("recommendations computed")

	return resp, nil
}

// scoreUniverse scores every eligible project against the user's skills.
// Excluded projects, projects without skills, and non-positive scores are
// dropped.
func (e *Engine) scoreUniverse(userSkills []Skill, universe []ProjectSkillSet, excluded map[int64]struct{}) []SimilarityScore {
	scores := make([]SimilarityScore, 0, len(universe))
	for i := range universe {
		proj := &universe[i]
		if _, skip := excluded[proj.ProjectID]; skip {
			continue
		}
		if len(proj.Skills) == 0 {
			continue
		}
		s := e.scorePair(userSkills, proj)
		if s.Score <= 0 {
			continue
		}
		scores = append(scores, s)
	}
	return scores
}

// scorePair computes the similarity of one user/project pair.
func (e *Engine) scorePair(userSkills []Skill, proj *ProjectSkillSet) SimilarityScore {
	userIDs := make([]int64, len(userSkills))
	for i, s := range userSkills {
		userIDs[i] = s.ID
	}
	projIDs := make([]int64, len(proj.Skills))
	nameByID := make(map[int64]string, len(proj.Skills))
	for i, s := range proj.Skills {
		projIDs[i] = s.ID
		nameByID[s.ID] = s.Name
	}

	var score float64
	if e.config.ScoringMode == ScoringWeighted {
		projWeights := e.projectWeights(proj)
		score = similarity.WeightedJaccard(userWeights(userIDs, projWeights), projWeights)
	} else {
		score = similarity.Jaccard(userIDs, projIDs)
	}

	common := similarity.CommonItems(projIDs, userIDs)
	names := make([]string, len(common))
	for i, id := range common {
		names[i] = nameByID[id]
	}

	return SimilarityScore{
		ProjectID:          proj.ProjectID,
		ProjectName:        proj.Name,
		Score:              score,
		Percent:            Percent(score),
		MatchingSkills:     len(common),
		ProjectSkillCount:  len(nameByID),
		MatchingSkillNames: names,
	}
}

// rank orders scores best-first with a deterministic tie-break, applies the
// percent threshold, and truncates to the request limit.
func (e *Engine) rank(scores []SimilarityScore, req Request) []SimilarityScore {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].ProjectID < scores[j].ProjectID
	})

	if req.MinSimilarity > 0 {
		kept := scores[:0]
		for _, s := range scores {
			if s.Percent >= req.MinSimilarity {
				kept = append(kept, s)
			}
		}
		scores = kept
	}

	if len(scores) > req.Limit {
		scores = scores[:req.Limit]
	}
	return scores
}

// enrich attaches full project detail to each ranked score. A project that
// disappeared between scoring and enrichment is dropped, not an error.
func (e *Engine) enrich(ctx context.Context, req Request, ranked []SimilarityScore) []Recommendation {
	recs := make([]Recommendation, 0, len(ranked))
	for _, s := range ranked {
		detail, err := e.provider.GetProjectDetail(ctx, s.ProjectID)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Str("request_id", req.RequestID).
				Int64("project_id", s.ProjectID).
				Msg("dropping recommendation, enrichment failed")
			continue
		}
		recs = append(recs, Recommendation{SimilarityScore: s, Project: detail})
	}
	return recs
}

func (e *Engine) buildResponse(req Request, recs []Recommendation, candidates int, start time.Time) *Response {
	if recs == nil {
		recs = []Recommendation{}
	}
	return &Response{
		Recommendations: recs,
		Metadata: Metadata{
			RequestID:       req.RequestID,
			UserID:          req.UserID,
			CacheHit:        false,
			TotalCandidates: candidates,
			LatencyMS:       time.Since(start).Milliseconds(),
			GeneratedAt:     time.Now().UTC(),
		},
	}
}

// normalize validates request parameters and applies defaults in place.
func (e *Engine) normalize(req *Request) error {
	if req.UserID < 1 {
		return fmt.Errorf("%w: user id %d", ErrInvalidArgument, req.UserID)
	}
	if req.Limit < 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidArgument, req.Limit)
	}
	if req.Limit == 0 {
		req.Limit = e.config.DefaultLimit
	}
	if req.Limit > e.config.MaxLimit {
		return fmt.Errorf("%w: limit %d exceeds maximum %d", ErrInvalidArgument, req.Limit, e.config.MaxLimit)
	}
	if req.MinSimilarity < 0 || req.MinSimilarity > 100 {
		return fmt.Errorf("%w: min_similarity %d outside [0, 100]", ErrInvalidArgument, req.MinSimilarity)
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	return nil
}

func (e *Engine) cacheEnabled() bool {
	return e.config.CacheEnabled && e.cache != nil
}

// cacheKey builds the cache key for a normalized request. Limit and
// threshold are part of the key because they change the result set.
func (e *Engine) cacheKey(req Request) string {
	return fmt.Sprintf("%s%d:%d", userCachePrefix(req.UserID), req.Limit, req.MinSimilarity)
}

// userCachePrefix is the key prefix shared by every cached response for a
// user; prefix deletion is what makes invalidation complete.
func userCachePrefix(userID int64) string {
	return fmt.Sprintf("rec:user:%d:", userID)
}

func (e *Engine) checkCache(key string) (*Response, bool) {
	payload, ok := e.cache.Get(key)
	if !ok {
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		e.cache.Delete(key)
		return nil, false
	}
	return &resp, true
}

func (e *Engine) storeCache(key string, resp *Response) {
	if !e.cacheEnabled() {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("skipping cache write, encode failed")
		return
	}
	e.cache.Set(key, payload, e.config.CacheTTL)
}

func (e *Engine) emitScoring(req Request, candidates, scored, returned int, start time.Time) {
	if e.emitter == nil {
		return
	}
	e.emitter.EmitScoring(ScoringEvent{
		RequestID:  req.RequestID,
		UserID:     req.UserID,
		Candidates: candidates,
		Scored:     scored,
		Returned:   returned,
		LatencyMS:  time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	})
}

func (e *Engine) emitCacheHit(req Request, key string) {
	if e.emitter == nil {
		return
	}
	e.emitter.EmitCacheHit(CacheHitEvent{
		RequestID: req.RequestID,
		UserID:    req.UserID,
		Key:       key,
		Timestamp: time.Now().UTC(),
	})
}

// projectWeights builds the weighted-scoring view of a project's skills.
func (e *Engine) projectWeights(proj *ProjectSkillSet) map[int64]float64 {
	w := make(map[int64]float64, len(proj.Skills))
	for _, s := range proj.Skills {
		if s.Mandatory {
			w[s.ID] = e.config.MandatoryWeight
		} else {
			w[s.ID] = 1
		}
	}
	return w
}

// userWeights mirrors the project's weight for skills the user shares, so a
// matched mandatory skill contributes its full weight to the numerator.
// Skills the project does not ask for weigh 1.
func userWeights(ids []int64, projWeights map[int64]float64) map[int64]float64 {
	w := make(map[int64]float64, len(ids))
	for _, id := range ids {
		if pw, ok := projWeights[id]; ok {
			w[id] = pw
		} else {
			w[id] = 1
		}
	}
	return w
}

// Percent converts a similarity score in [0, 1] to an integer percentage,
// rounding halves away from zero. Thresholding happens on this value so
// clients and the ranker agree on what "75%" means.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}
