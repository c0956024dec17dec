// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge/internal/config"
	"github.com/skillbridge/skillbridge/internal/recommend"
)

// fakeProvider is a fixed two-user, three-project platform.
type fakeProvider struct {
	pingErr error
}

func (f *fakeProvider) GetUserSkills(_ context.Context, userID int64) ([]recommend.Skill, error) {
	switch userID {
	case 1:
		return []recommend.Skill{{ID: 10, Name: "Go"}, {ID: 11, Name: "SQL"}}, nil
	case 2:
		return nil, nil // exists, no skills
	default:
		return nil, fmt.Errorf("user %d: %w", userID, recommend.ErrNotFound)
	}
}

func (f *fakeProvider) GetProjectSkills(_ context.Context, projectID int64) (*recommend.ProjectSkillSet, error) {
	for _, p := range f.universe() {
		if p.ProjectID == projectID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("project %d: %w", projectID, recommend.ErrNotFound)
}

func (f *fakeProvider) GetEligibleProjects(_ context.Context) ([]recommend.ProjectSkillSet, error) {
	return f.universe(), nil
}

func (f *fakeProvider) GetExcludedProjects(_ context.Context, _ int64) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}

func (f *fakeProvider) GetProjectDetail(_ context.Context, projectID int64) (*recommend.ProjectDetail, error) {
	for _, p := range f.universe() {
		if p.ProjectID == projectID {
			return &recommend.ProjectDetail{
				ID:     p.ProjectID,
				Name:   p.Name,
				Status: "active",
				Skills: p.Skills,
			}, nil
		}
	}
	return nil, fmt.Errorf("project %d: %w", projectID, recommend.ErrNotFound)
}

func (f *fakeProvider) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeProvider) universe() []recommend.ProjectSkillSet {
	return []recommend.ProjectSkillSet{
		{ProjectID: 100, Name: "Full Match", Skills: []recommend.ProjectSkill{
			{ID: 10, Name: "Go"}, {ID: 11, Name: "SQL"},
		}},
		{ProjectID: 101, Name: "Half Match", Skills: []recommend.ProjectSkill{
			{ID: 10, Name: "Go"}, {ID: 12, Name: "Rust"},
		}},
		{ProjectID: 102, Name: "No Match", Skills: []recommend.ProjectSkill{
			{ID: 13, Name: "Swift"},
		}},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeProvider) {
	t.Helper()

	provider := &fakeProvider{}
	eng, err := recommend.New(provider, nil, nil, recommend.DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	h := NewHandler(eng, provider, provider, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(h, config.SecurityConfig{}))
	t.Cleanup(srv.Close)
	return srv, provider
}

func get(t *testing.T, url string) (*http.Response, APIResponse) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestGetRecommendationsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, envelope := get(t, srv.URL+"/api/v1/recommendations/user/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)
	require.NotNil(t, envelope.Meta)
	assert.NotEmpty(t, envelope.Meta.RequestID)

	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var rec recommend.Response
	require.NoError(t, json.Unmarshal(payload, &rec))

	require.Len(t, rec.Recommendations, 2, "the no-match project is dropped")
	assert.Equal(t, int64(100), rec.Recommendations[0].ProjectID)
	assert.Equal(t, 100, rec.Recommendations[0].Percent)
	assert.Equal(t, 3, rec.Metadata.TotalCandidates)
	require.NotNil(t, rec.Recommendations[0].Project)
	assert.Equal(t, "Full Match", rec.Recommendations[0].Project.Name)
}

func TestGetRecommendationsQueryParameters(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, envelope := get(t, srv.URL+"/api/v1/recommendations/user/1?limit=1&min_similarity=50")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload, _ := json.Marshal(envelope.Data)
	var rec recommend.Response
	require.NoError(t, json.Unmarshal(payload, &rec))
	require.Len(t, rec.Recommendations, 1)
}

func TestGetRecommendationsRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		url  string
		code string
	}{
		{"non-numeric user", "/api/v1/recommendations/user/abc", CodeInvalidArgument},
		{"zero user", "/api/v1/recommendations/user/0", CodeInvalidArgument},
		{"non-numeric limit", "/api/v1/recommendations/user/1?limit=ten", CodeInvalidArgument},
		{"limit above cap", "/api/v1/recommendations/user/1?limit=500", CodeValidationFailed},
		{"threshold above 100", "/api/v1/recommendations/user/1?min_similarity=200", CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, envelope := get(t, srv.URL+tt.url)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.code, envelope.Error.Code)
		})
	}
}

func TestGetRecommendationsUnknownUser(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, envelope := get(t, srv.URL+"/api/v1/recommendations/user/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, CodeNotFound, envelope.Error.Code)
}

func TestGetSimilarityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, envelope := get(t, srv.URL+"/api/v1/similarity/user/1/project/101")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload, _ := json.Marshal(envelope.Data)
	var score recommend.SimilarityScore
	require.NoError(t, json.Unmarshal(payload, &score))

	assert.Equal(t, int64(101), score.ProjectID)
	assert.InDelta(t, 1.0/3.0, score.Score, 1e-9)
	assert.Equal(t, 33, score.Percent)

	t.Run("skill-less user is 404", func(t *testing.T) {
		resp, envelope := get(t, srv.URL+"/api/v1/similarity/user/2/project/101")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, CodeNotFound, envelope.Error.Code)
	})
}

func TestInvalidateCacheEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/recommendations/user/1/cache", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
}

func TestGetProjectEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, envelope := get(t, srv.URL+"/api/v1/projects/100")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload, _ := json.Marshal(envelope.Data)
	var detail recommend.ProjectDetail
	require.NoError(t, json.Unmarshal(payload, &detail))
	assert.Equal(t, "Full Match", detail.Name)

	resp, envelope = get(t, srv.URL+"/api/v1/projects/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, envelope.Error.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv, provider := newTestServer(t)

	resp, _ := get(t, srv.URL+"/api/v1/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	provider.pingErr = errors.New("db gone")
	resp, envelope := get(t, srv.URL+"/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "NOT_READY", envelope.Error.Code)
}

func TestMetricsEndpointExposed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDEchoed(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health/live", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "corr-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "corr-123", resp.Header.Get("X-Request-ID"))

	var envelope APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, "corr-123", envelope.Meta.RequestID)
}
