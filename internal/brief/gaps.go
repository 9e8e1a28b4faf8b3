package brief

import (
	"regexp"
	"strings"
)

var (
	emailAddrRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe     = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

// GapAnalyzer scores brief completeness and clarity and lists what a
// brief is missing, keyed off the classified intent.
type GapAnalyzer struct {
	lex *Lexicon
}

// NewGapAnalyzer returns a GapAnalyzer.
func NewGapAnalyzer(lex *Lexicon) *GapAnalyzer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &GapAnalyzer{lex: lex}
}

// Analyze produces the gap report for one brief.
func (g *GapAnalyzer) Analyze(pb *ProcessedBrief, intent Intent, entities Entities, tone Tone) Gaps {
	lower := strings.ToLower(pb.CleanedText)

	gaps := Gaps{
		MissingInformation: g.missingInformation(pb, intent, entities, lower),
		SuggestedAdditions: g.suggestions(pb, intent, entities, tone),
	}
	gaps.CompletenessScore = g.completeness(pb, intent, entities, lower)
	gaps.ClarityScore = g.clarity(pb, entities, lower)
	gaps.PriorityImprovements = g.priorities(gaps)
	return gaps
}

func (g *GapAnalyzer) missingInformation(pb *ProcessedBrief, intent Intent, entities Entities, lower string) []string {
	dedup := newDedup()

	if pb.WordCount < 10 {
		dedup.add("Brief is too short to analyze meaningfully")
	}

	switch intent.PrimaryGoal {
	case GoalFunding:
		if !hasAny(lower, "budget", "$", "usd", "amount", "grant size", "funding level") {
			dedup.add("No funding amount or budget specified")
		}
		if !hasAny(lower, "will be used", "allocated", "spend", "cover the cost") {
			dedup.add("No explanation of how funds will be used")
		}
	case GoalPartnership:
		if len(entities.Organizations) == 0 {
			dedup.add("No specific partner organizations named")
		}
		if !hasAny(lower, "role", "contribute", "responsibilit", "expect") {
			dedup.add("Partner roles and expected contributions are not described")
		}
	case GoalVolunteers:
		if !hasAny(lower, "volunteers needed", "number of volunteers", "people", "participants") {
			dedup.add("Number of volunteers needed is not stated")
		}
		if !hasAny(lower, "skill", "experience", "training") {
			dedup.add("Required volunteer skills are not described")
		}
	case GoalAdvocacy:
		if !hasAny(lower, "policy", "decision maker", "audience", "public", "government") {
			dedup.add("Advocacy target audience is not identified")
		}
	case GoalResearch:
		if !hasAny(lower, "methodology", "method", "approach", "protocol") {
			dedup.add("No research methodology described")
		}
		if !hasAny(lower, "outcome", "result", "publication", "finding") {
			dedup.add("Expected research outcomes are not described")
		}
	}

	// Universal checks.
	if intent.Localization.Confidence < 30 && len(entities.Locations) == 0 {
		dedup.add("Geographic focus is missing or unclear")
	}
	if intent.Timeline == TimelineShortTerm && !hasAny(lower, "deadline", "by ", "before ", "due") {
		dedup.add("Short-term timeline mentioned but no deadline given")
	}
	if !emailAddrRe.MatchString(pb.CleanedText) && !phoneRe.MatchString(pb.CleanedText) {
		dedup.add("No contact information provided")
	}

	return dedup.items()
}

func (g *GapAnalyzer) suggestions(pb *ProcessedBrief, intent Intent, entities Entities, tone Tone) []string {
	dedup := newDedup()

	if pb.WordCount > 0 && pb.WordCount < 50 {
		dedup.add("Expand the brief with specific details about scope and goals")
	}
	if len(entities.Metrics) == 0 {
		dedup.add("Add measurable targets (area, people reached, budget, dates)")
	}
	if len(entities.Causes) == 0 {
		dedup.add("Name the specific cause or problem the project addresses")
	}
	if len(entities.Activities) == 0 {
		dedup.add("Describe the concrete activities the project will carry out")
	}
	if intent.PrimaryGoal == GoalFunding && tone.Formality == FormalityCasual {
		dedup.add("Use a more formal tone for a funding request")
	}
	if n := len(pb.Sentences); n > 15 {
		dedup.add("Make the brief more concise; lead with the clear ask")
	}

	return dedup.items()
}

// completeness starts at 40 and rewards length, populated entity
// categories, and goal-relevant vocabulary. Capped at 100.
func (g *GapAnalyzer) completeness(pb *ProcessedBrief, intent Intent, entities Entities, lower string) int {
	score := 40
	if pb.WordCount >= 30 {
		score += 10
	}
	if pb.WordCount >= 100 {
		score += 10
	}
	for _, set := range [][]string{
		entities.Organizations, entities.Locations, entities.Causes,
		entities.Activities, entities.Metrics,
	} {
		if len(set) > 0 {
			score += 5
		}
	}
	for _, kw := range g.lex.GoalKeywords[string(intent.PrimaryGoal)] {
		if strings.Contains(lower, kw) {
			score += 10
			break
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// clarity starts at 50 and rewards readable structure and specific
// vocabulary, penalizing vague filler. Capped at 100.
func (g *GapAnalyzer) clarity(pb *ProcessedBrief, entities Entities, lower string) int {
	score := 50
	if n := len(pb.Sentences); n >= 3 && n <= 8 {
		score += 10
	}
	if avg := averageSentenceLength(pb); avg >= 10 && avg <= 20 {
		score += 10
	}
	if len(entities.Causes) > 0 {
		score += 5
	}
	if len(entities.Activities) > 0 {
		score += 5
	}
	if len(entities.Metrics) > 0 {
		score += 5
	}
	vague := 0
	for _, w := range g.lex.VagueWords {
		vague += strings.Count(lower, w)
	}
	switch {
	case vague == 0:
		score += 10
	case vague <= 2:
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}

// priorities picks at most three improvements: low scores first, then
// missing items about funding/timeline/contact, then the most actionable
// suggestions.
func (g *GapAnalyzer) priorities(gaps Gaps) []string {
	dedup := newDedup()

	if gaps.CompletenessScore < 50 {
		dedup.add("Add the missing core details; the brief is incomplete")
	}
	if gaps.ClarityScore < 50 {
		dedup.add("Rewrite for clarity; the brief is hard to follow")
	}
	for _, item := range gaps.MissingInformation {
		if hasAny(strings.ToLower(item), "funding", "timeline", "deadline", "contact") {
			dedup.add(item)
		}
	}
	picked := 0
	for _, s := range gaps.SuggestedAdditions {
		if picked >= 2 {
			break
		}
		if hasAny(strings.ToLower(s), "specific", "measurable", "clear") {
			dedup.add(s)
			picked++
		}
	}

	items := dedup.items()
	if len(items) > 3 {
		items = items[:3]
	}
	return items
}

func hasAny(lower string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
