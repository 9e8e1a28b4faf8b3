package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ignite/outreach-engine/internal/brief"
	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/httpretry"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// LiveSearcher is the optional best-effort external organization search.
type LiveSearcher interface {
	Search(ctx context.Context, query string) ([]domain.OrganizationProfile, error)
}

// Searcher fronts the matcher with an optional live search. Any live
// failure or empty result falls through to the local matcher; the
// fallback is mandatory and never surfaces as a user-facing error.
type Searcher struct {
	matcher *Matcher
	live    LiveSearcher
	timeout time.Duration
}

// NewSearcher builds a Searcher. live may be nil, in which case every
// search goes straight to the matcher.
func NewSearcher(matcher *Matcher, live LiveSearcher, timeout time.Duration) *Searcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Searcher{matcher: matcher, live: live, timeout: timeout}
}

// SearchNGOs returns ranked candidates for a raw brief. The analysis and
// the ranked list are both returned so callers can show brief feedback
// alongside the candidates.
func (s *Searcher) SearchNGOs(ctx context.Context, rawBrief string, opts Options) (*brief.Analysis, []ScoredOrganization) {
	if s.live != nil {
		liveCtx, cancel := context.WithTimeout(ctx, s.timeout)
		orgs, err := s.live.Search(liveCtx, rawBrief)
		cancel()
		switch {
		case err != nil:
			logger.Warn("search: live search failed, falling back to local matcher", "error", err.Error())
		case len(orgs) == 0:
			logger.Info("search: live search returned no results, falling back to local matcher")
		default:
			analysis := s.matcher.analyzer.Analyze(ctx, rawBrief)
			return analysis, stampLiveResults(orgs, opts)
		}
	}

	analysis := s.matcher.analyzer.Analyze(ctx, rawBrief)
	return analysis, s.matcher.Match(analysis, opts)
}

func stampLiveResults(orgs []domain.OrganizationProfile, opts Options) []ScoredOrganization {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(orgs) > topK {
		orgs = orgs[:topK]
	}
	out := make([]ScoredOrganization, len(orgs))
	for i, org := range orgs {
		org.SelectedForOutreach = false
		out[i] = ScoredOrganization{OrganizationProfile: org}
	}
	return out
}

// HTTPSearcher implements LiveSearcher against a JSON search API, with
// retry and backoff on transient failures.
type HTTPSearcher struct {
	baseURL string
	apiKey  string
	client  httpretry.HTTPDoer
}

// NewHTTPSearcher builds an HTTPSearcher. client may be nil; a retrying
// client with sane defaults is used.
func NewHTTPSearcher(baseURL, apiKey string, client httpretry.HTTPDoer) *HTTPSearcher {
	if client == nil {
		client = httpretry.NewRetryClient(nil, 2)
	}
	return &HTTPSearcher{baseURL: baseURL, apiKey: apiKey, client: client}
}

// Search queries the external API. Errors are returned to the caller,
// which is expected to fall back to the local matcher.
func (h *HTTPSearcher) Search(ctx context.Context, query string) ([]domain.OrganizationProfile, error) {
	endpoint := fmt.Sprintf("%s/v1/organizations/search?q=%s", h.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("live search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("live search returned status %d", resp.StatusCode)
	}

	var payload struct {
		Organizations []domain.OrganizationProfile `json:"organizations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return payload.Organizations, nil
}
