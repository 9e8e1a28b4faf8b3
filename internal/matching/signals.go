package matching

import (
	"strings"

	"github.com/ignite/outreach-engine/internal/brief"
	"github.com/ignite/outreach-engine/internal/domain"
)

const signalCap = 5

// briefContext precomputes everything the signal functions need so one
// match run tokenizes the brief exactly once.
type briefContext struct {
	lowerText  string
	words      map[string]struct{}
	locations  []string // lowercased
	causes     []string
	activities []string
	orgNames   []string
	intent     brief.Intent
	tone       brief.Tone
	scope      string // local | national | regional | broad
}

func newBriefContext(a *brief.Analysis, lex *brief.Lexicon) *briefContext {
	lower := strings.ToLower(a.Brief.CleanedText)
	words := map[string]struct{}{}
	for _, w := range strings.Fields(lower) {
		words[strings.Trim(w, `.,!?;:()[]{}"'`)] = struct{}{}
	}

	bc := &briefContext{
		lowerText:  lower,
		words:      words,
		intent:     a.Intent,
		tone:       a.Tone,
		causes:     lowerAll(a.Entities.Causes),
		activities: lowerAll(a.Entities.Activities),
		orgNames:   lowerAll(a.Entities.Organizations),
		locations:  lowerAll(a.Entities.Locations),
	}
	bc.scope = detectScope(a.Intent.Localization, bc.locations)
	return bc
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// detectScope classifies how geographically specific the brief is.
func detectScope(loc brief.Localization, locations []string) string {
	switch {
	case loc.City != "":
		return "local"
	case loc.Country != "" && loc.Confidence >= 70:
		return "national"
	case loc.Country != "" || len(locations) > 0:
		return "regional"
	default:
		return "broad"
	}
}

func capSignal(v int) int {
	if v > signalCap {
		return signalCap
	}
	if v < 0 {
		return 0
	}
	return v
}

// scoreFocusOverlap counts brief words hitting the organization's focus
// areas. The highest-value lexical signal.
func scoreFocusOverlap(bc *briefContext, org *domain.OrganizationProfile) int {
	hits := 0
	seen := map[string]struct{}{}
	for _, area := range org.FocusAreas {
		for _, tok := range strings.Fields(strings.ToLower(area)) {
			if len(tok) < 4 {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			if _, ok := bc.words[tok]; ok {
				hits++
			}
		}
	}
	return capSignal(hits)
}

// scoreDomainTerms counts hits from the organization's domain vocabulary.
func scoreDomainTerms(bc *briefContext, org *domain.OrganizationProfile, lex *brief.Lexicon) int {
	keywords, ok := lex.DomainKeywords[strings.ToLower(org.Domain)]
	if !ok {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(bc.lowerText, kw) {
			hits++
		}
	}
	return capSignal(hits)
}

// scoreGeography is a flat bonus: the brief mentions a place contained in
// the organization's geography, or the organization is global.
func scoreGeography(bc *briefContext, org *domain.OrganizationProfile) int {
	geo := strings.ToLower(org.Geography)
	for _, loc := range bc.locations {
		if loc != "" && strings.Contains(geo, loc) {
			return 1
		}
	}
	if strings.Contains(geo, "global") && len(bc.locations) > 0 {
		return 1
	}
	return 0
}

// scoreOrgType is a small flat bonus for name/keyword alignment.
func scoreOrgType(bc *briefContext, org *domain.OrganizationProfile) int {
	for _, tok := range strings.Fields(strings.ToLower(org.Name)) {
		if len(tok) < 4 {
			continue
		}
		if _, ok := bc.words[tok]; ok {
			return 1
		}
	}
	return 0
}

// goalPatterns maps each primary goal to name/focus-area vocabulary that
// marks an organization as a natural fit for that goal.
var goalPatterns = map[brief.Goal][]string{
	brief.GoalFunding:     {"fund", "foundation", "trust", "grant", "donor", "philanthrop"},
	brief.GoalPartnership: {"alliance", "network", "coalition", "collective", "partner", "initiative"},
	brief.GoalResearch:    {"research", "institute", "council", "science", "study", "monitoring"},
	brief.GoalVolunteers:  {"community", "volunteer", "collective", "network", "grassroots"},
	brief.GoalAdvocacy:    {"advocacy", "policy", "watch", "action", "justice", "rights"},
}

// scoreIntentAlignment matches goal-specific vocabulary against the
// organization's name and focus areas.
func scoreIntentAlignment(bc *briefContext, org *domain.OrganizationProfile) int {
	haystack := strings.ToLower(org.Name + " " + strings.Join(org.FocusAreas, " "))
	hits := 0
	for _, pat := range goalPatterns[bc.intent.PrimaryGoal] {
		if strings.Contains(haystack, pat) {
			hits++
		}
	}
	return capSignal(hits)
}

// scoreEntityOverlap weighs brief entities against the organization:
// direct name mentions x3, cause overlap x2, activity overlap x1.
func scoreEntityOverlap(bc *briefContext, org *domain.OrganizationProfile) int {
	name := strings.ToLower(org.Name)
	focus := strings.ToLower(strings.Join(org.FocusAreas, " "))

	score := 0
	for _, mention := range bc.orgNames {
		if mention != "" && (strings.Contains(name, mention) || strings.Contains(mention, name)) {
			score += 3
		}
	}
	for _, cause := range bc.causes {
		if strings.Contains(focus, cause) {
			score += 2
		}
	}
	for _, act := range bc.activities {
		if strings.Contains(focus, act) {
			score++
		}
	}
	return capSignal(score)
}

var formalOrgMarkers = []string{"institute", "council", "trust", "foundation", "commission"}

// scoreToneFit starts at a neutral base and adjusts for tone affinity
// between the brief and the organization's character.
func scoreToneFit(bc *briefContext, org *domain.OrganizationProfile) int {
	name := strings.ToLower(org.Name)
	focus := strings.ToLower(strings.Join(org.FocusAreas, " "))

	formalOrg := false
	for _, marker := range formalOrgMarkers {
		if strings.Contains(name, marker) {
			formalOrg = true
			break
		}
	}

	score := 2
	if formalOrg && bc.tone.Formality == brief.FormalityFormal {
		score++
	}
	if formalOrg && bc.tone.Formality == brief.FormalityCasual {
		score--
	}
	if strings.Contains(focus, "advocacy") || strings.Contains(focus, "policy") {
		if bc.tone.EmotionalLanguage {
			score++
		}
	}
	if strings.Contains(focus, "research") || strings.Contains(focus, "monitoring") {
		if bc.tone.Sentiment == brief.SentimentNeutral {
			score++
		}
	}
	return capSignal(score)
}

// scoreGeoEntityFit rewards each brief location mention by how well it
// matches the organization's geography: direct containment beats a global
// footprint.
func scoreGeoEntityFit(bc *briefContext, org *domain.OrganizationProfile) int {
	geo := strings.ToLower(org.Geography)
	global := strings.Contains(geo, "global")

	score := 0
	for _, loc := range bc.locations {
		if loc == "" {
			continue
		}
		switch {
		case strings.Contains(geo, loc):
			score += 2
		case global:
			score++
		}
	}
	return capSignal(score)
}

// scopeTable maps (brief scope, organization footprint) to an alignment
// score in [2,5]. A specific-footprint organization fits local and
// national work best; global organizations fit broad briefs.
var scopeTable = map[string]map[string]int{
	"local":    {"specific": 5, "global": 3},
	"national": {"specific": 5, "global": 3},
	"regional": {"specific": 4, "global": 4},
	"broad":    {"specific": 2, "global": 4},
}

func scoreScopeAlignment(bc *briefContext, org *domain.OrganizationProfile) int {
	footprint := "specific"
	if strings.Contains(strings.ToLower(org.Geography), "global") {
		footprint = "global"
	}
	return scopeTable[bc.scope][footprint]
}
