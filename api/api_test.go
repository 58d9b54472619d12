package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtmetrics/adjrate/adjust"
	"github.com/courtmetrics/adjrate/api"
)

// sampleResult fabricates a converged run with a known net ordering:
// A (net 0.04) > C (net 0.03) > B (net -0.05).
func sampleResult() *adjust.Result {
	return &adjust.Result{
		Ratings: map[string]adjust.Rating{
			"A": {Off: 1.00, Def: 0.96, Games: 2},
			"B": {Off: 0.97, Def: 1.02, Games: 2},
			"C": {Off: 0.99, Def: 0.96, Games: 2},
		},
		Status:     adjust.StatusConverged,
		Iterations: 17,
		MaxDelta:   4.2e-7,
	}
}

func newServer(t *testing.T, holder *api.Holder, rec api.Recomputer) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.New(holder, rec))
	t.Cleanup(srv.Close)

	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))

	return resp.StatusCode
}

// TestHealth_Empty reports "empty" before any solve has run.
func TestHealth_Empty(t *testing.T) {
	srv := newServer(t, &api.Holder{}, nil)

	var health api.HealthResponse
	code := getJSON(t, srv.URL+"/api/v1/health", &health)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "empty", health.Status)
	assert.Zero(t, health.Teams)
}

// TestHealth_AfterSolve carries status and snapshot metadata.
func TestHealth_AfterSolve(t *testing.T) {
	holder := &api.Holder{}
	holder.Set(sampleResult(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	srv := newServer(t, holder, nil)

	var health api.HealthResponse
	code := getJSON(t, srv.URL+"/api/v1/health", &health)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "converged", health.Status)
	assert.Equal(t, 17, health.Iterations)
	assert.Equal(t, 3, health.Teams)
	assert.Equal(t, 2026, health.ComputedAt.Year())
}

// TestRatings_SortedByNet lists all teams best net first.
func TestRatings_SortedByNet(t *testing.T) {
	holder := &api.Holder{}
	holder.Set(sampleResult(), time.Now())
	srv := newServer(t, holder, nil)

	var list []api.RatingResponse
	code := getJSON(t, srv.URL+"/api/v1/ratings", &list)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].Team)
	assert.Equal(t, "C", list[1].Team)
	assert.Equal(t, "B", list[2].Team)
	assert.InDelta(t, 0.04, list[0].Net, 1e-12)
}

// TestRatings_NoSnapshot answers 503 before the first solve.
func TestRatings_NoSnapshot(t *testing.T) {
	srv := newServer(t, &api.Holder{}, nil)

	var e api.ErrorResponse
	code := getJSON(t, srv.URL+"/api/v1/ratings", &e)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, e.Error, "no ratings")
}

// TestRating_SingleTeam fetches one team and 404s on unknown ids.
func TestRating_SingleTeam(t *testing.T) {
	holder := &api.Holder{}
	holder.Set(sampleResult(), time.Now())
	srv := newServer(t, holder, nil)

	var r api.RatingResponse
	code := getJSON(t, srv.URL+"/api/v1/ratings/B", &r)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "B", r.Team)
	assert.InDelta(t, -0.05, r.Net, 1e-12)
	assert.Equal(t, 2, r.Games)

	var e api.ErrorResponse
	code = getJSON(t, srv.URL+"/api/v1/ratings/Nowhere", &e)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, e.Error, "Nowhere")
}

// TestRecompute_SwapsSnapshot re-solves and serves the new run.
func TestRecompute_SwapsSnapshot(t *testing.T) {
	holder := &api.Holder{}
	calls := 0
	srv := newServer(t, holder, func(context.Context) (*adjust.Result, error) {
		calls++
		return sampleResult(), nil
	})

	resp, err := http.Post(srv.URL+"/api/v1/recompute", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var rec api.RecomputeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "converged", rec.Status)
	assert.Equal(t, 1, calls)
	require.NotNil(t, holder.Get(), "snapshot must be swapped in")
	assert.Len(t, holder.Get().Result.Ratings, 3)
}

// TestRecompute_Failure keeps the old snapshot on error.
func TestRecompute_Failure(t *testing.T) {
	holder := &api.Holder{}
	old := sampleResult()
	holder.Set(old, time.Now())
	srv := newServer(t, holder, func(context.Context) (*adjust.Result, error) {
		return nil, errors.New("db gone")
	})

	resp, err := http.Post(srv.URL+"/api/v1/recompute", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Same(t, old, holder.Get().Result, "failed recompute must not touch the snapshot")
}

// TestRecompute_EmptySeason maps ErrNoGames onto 409.
func TestRecompute_EmptySeason(t *testing.T) {
	srv := newServer(t, &api.Holder{}, func(context.Context) (*adjust.Result, error) {
		return nil, adjust.ErrNoGames
	})

	resp, err := http.Post(srv.URL+"/api/v1/recompute", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// TestRecompute_NotConfigured answers 501 without a recomputer.
func TestRecompute_NotConfigured(t *testing.T) {
	srv := newServer(t, &api.Holder{}, nil)

	resp, err := http.Post(srv.URL+"/api/v1/recompute", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

// TestMethodNotAllowed rejects wrong verbs on matched paths.
func TestMethodNotAllowed(t *testing.T) {
	holder := &api.Holder{}
	holder.Set(sampleResult(), time.Now())
	srv := newServer(t, holder, nil)

	resp, err := http.Post(srv.URL+"/api/v1/ratings", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/recompute", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
