// Package matching implements the candidate ranking engine: scoring every
// registry organization against a brief analysis with a weighted
// multi-factor formula. Scoring is a pure function of (brief, registry
// entry); ties preserve registry order so results are reproducible.
package matching

import (
	"context"
	"sort"
	"strings"

	"github.com/ignite/outreach-engine/internal/brief"
	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/registry"
)

// DefaultTopK is how many candidates a search returns at most.
const DefaultTopK = 12

// Signal weights. Each raw signal is capped at 5 before weighting; the
// ratios are what matter. Lexical signals carry roughly 40% of the
// achievable total, contextual alignment the remaining 60%.
const (
	weightFocus   = 20
	weightDomain  = 15
	weightGeo     = 10
	weightOrgType = 5

	weightIntent    = 20
	weightEntity    = 15
	weightTone      = 10
	weightGeoEntity = 10
	weightScope     = 5
)

// SignalBreakdown records the weighted contribution of each signal group,
// for explainability in the review UI.
type SignalBreakdown struct {
	FocusOverlap    int `json:"focus_overlap"`
	DomainTerms     int `json:"domain_terms"`
	Geography       int `json:"geography"`
	OrgType         int `json:"org_type"`
	IntentAlignment int `json:"intent_alignment"`
	EntityOverlap   int `json:"entity_overlap"`
	ToneFit         int `json:"tone_fit"`
	GeoEntityFit    int `json:"geo_entity_fit"`
	ScopeAlignment  int `json:"scope_alignment"`
}

// ScoredOrganization is one ranked candidate. The profile is a copy; the
// registry is never mutated.
type ScoredOrganization struct {
	domain.OrganizationProfile
	Score     int             `json:"score"`
	Breakdown SignalBreakdown `json:"breakdown"`
}

// Options tunes a match run.
type Options struct {
	// TopK caps the result length. Zero means DefaultTopK.
	TopK int
	// FloorScore, when positive, is assigned to organizations that match
	// nothing, so a broad query still sees the whole registry. Zero keeps
	// the strict score>0 filter.
	FloorScore int
}

// Matcher ranks registry organizations against brief analyses.
type Matcher struct {
	reg      *registry.Registry
	lex      *brief.Lexicon
	analyzer *brief.Analyzer
}

// NewMatcher builds a matcher over a registry. The analyzer is used only
// when a caller hands in raw text instead of a finished analysis.
func NewMatcher(reg *registry.Registry, lex *brief.Lexicon, analyzer *brief.Analyzer) *Matcher {
	if lex == nil {
		lex = brief.DefaultLexicon()
	}
	return &Matcher{reg: reg, lex: lex, analyzer: analyzer}
}

// MatchText normalizes and analyzes raw brief text, then ranks. An empty
// or whitespace-only brief returns an empty list, not an error.
func (m *Matcher) MatchText(ctx context.Context, rawBrief string, opts Options) []ScoredOrganization {
	if strings.TrimSpace(rawBrief) == "" {
		return []ScoredOrganization{}
	}
	analysis := m.analyzer.Analyze(ctx, rawBrief)
	return m.Match(analysis, opts)
}

// Match ranks every registry entry against a finished analysis.
func (m *Matcher) Match(analysis *brief.Analysis, opts Options) []ScoredOrganization {
	if analysis == nil || strings.TrimSpace(analysis.Brief.CleanedText) == "" {
		return []ScoredOrganization{}
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	briefCtx := newBriefContext(analysis, m.lex)

	var scored []ScoredOrganization
	for _, org := range m.reg.All() {
		breakdown := m.scoreOrganization(briefCtx, &org)
		score := breakdown.total()
		if score <= 0 {
			if opts.FloorScore <= 0 {
				continue
			}
			score = opts.FloorScore
		}
		org.SelectedForOutreach = false
		scored = append(scored, ScoredOrganization{
			OrganizationProfile: org,
			Score:               score,
			Breakdown:           breakdown,
		})
	}

	// Stable: equal scores keep registry order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	if scored == nil {
		scored = []ScoredOrganization{}
	}
	return scored
}

func (b SignalBreakdown) total() int {
	return b.FocusOverlap + b.DomainTerms + b.Geography + b.OrgType +
		b.IntentAlignment + b.EntityOverlap + b.ToneFit + b.GeoEntityFit + b.ScopeAlignment
}

// scoreOrganization runs the two phases. Contextual alignment refines
// lexical relevance; it cannot rescue an organization with zero lexical
// overlap, which keeps the score>0 filter meaningful.
func (m *Matcher) scoreOrganization(bc *briefContext, org *domain.OrganizationProfile) SignalBreakdown {
	b := SignalBreakdown{
		FocusOverlap: weightFocus * scoreFocusOverlap(bc, org),
		DomainTerms:  weightDomain * scoreDomainTerms(bc, org, m.lex),
		Geography:    weightGeo * scoreGeography(bc, org),
		OrgType:      weightOrgType * scoreOrgType(bc, org),
	}
	if b.total() == 0 {
		return b
	}
	b.IntentAlignment = weightIntent * scoreIntentAlignment(bc, org)
	b.EntityOverlap = weightEntity * scoreEntityOverlap(bc, org)
	b.ToneFit = weightTone * scoreToneFit(bc, org)
	b.GeoEntityFit = weightGeoEntity * scoreGeoEntityFit(bc, org)
	b.ScopeAlignment = weightScope * scoreScopeAlignment(bc, org)
	return b
}
