package matching

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-engine/internal/domain"
)

type stubLive struct {
	orgs  []domain.OrganizationProfile
	err   error
	calls int
}

func (s *stubLive) Search(ctx context.Context, query string) ([]domain.OrganizationProfile, error) {
	s.calls++
	return s.orgs, s.err
}

func liveOrgs(n int) []domain.OrganizationProfile {
	out := make([]domain.OrganizationProfile, n)
	for i := range out {
		out[i] = domain.OrganizationProfile{
			ID:                  "live-" + string(rune('a'+i)),
			Name:                "Live Org",
			Domain:              "marine",
			SelectedForOutreach: true,
		}
	}
	return out
}

func TestSearchNGOsWithoutLiveSearcher(t *testing.T) {
	s := NewSearcher(newTestMatcher(), nil, time.Second)

	analysis, results := s.SearchNGOs(context.Background(), coralBrief, Options{})
	require.NotNil(t, analysis)
	require.NotEmpty(t, results)
	assert.Equal(t, "org-coral-reach", results[0].ID)
}

func TestSearchNGOsLiveFailureFallsBack(t *testing.T) {
	live := &stubLive{err: errors.New("upstream timeout")}
	s := NewSearcher(newTestMatcher(), live, time.Second)

	analysis, results := s.SearchNGOs(context.Background(), coralBrief, Options{})
	require.NotNil(t, analysis)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, live.calls)
	assert.Equal(t, "org-coral-reach", results[0].ID)
}

func TestSearchNGOsLiveEmptyFallsBack(t *testing.T) {
	live := &stubLive{}
	s := NewSearcher(newTestMatcher(), live, time.Second)

	_, results := s.SearchNGOs(context.Background(), coralBrief, Options{})
	require.NotEmpty(t, results)
	assert.Equal(t, "org-coral-reach", results[0].ID)
}

func TestSearchNGOsLiveResultsStamped(t *testing.T) {
	live := &stubLive{orgs: liveOrgs(3)}
	s := NewSearcher(newTestMatcher(), live, time.Second)

	analysis, results := s.SearchNGOs(context.Background(), coralBrief, Options{})
	require.NotNil(t, analysis)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, 0, res.Score)
		assert.False(t, res.SelectedForOutreach)
	}
}

func TestSearchNGOsLiveResultsTruncatedToTopK(t *testing.T) {
	live := &stubLive{orgs: liveOrgs(5)}
	s := NewSearcher(newTestMatcher(), live, time.Second)

	_, results := s.SearchNGOs(context.Background(), coralBrief, Options{TopK: 2})
	assert.Len(t, results, 2)
}

func TestHTTPSearcherSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/organizations/search", r.URL.Path)
		assert.Equal(t, "coral reefs", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organizations":[{"id":"live-1","name":"Reef Relief","domain":"marine"}]}`))
	}))
	defer server.Close()

	h := NewHTTPSearcher(server.URL, "secret-key", server.Client())
	orgs, err := h.Search(context.Background(), "coral reefs")
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "live-1", orgs[0].ID)
	assert.Equal(t, "Reef Relief", orgs[0].Name)
}

func TestHTTPSearcherNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	h := NewHTTPSearcher(server.URL, "", server.Client())
	_, err := h.Search(context.Background(), "coral reefs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPSearcherBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	h := NewHTTPSearcher(server.URL, "", server.Client())
	_, err := h.Search(context.Background(), "coral reefs")
	assert.Error(t, err)
}
