package brief

import (
	"context"
	"regexp"
	"strings"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// LocationResolver is the geo collaborator the classifier consults for
// localization. Implementations live in internal/geo.
type LocationResolver interface {
	ExtractLocations(ctx context.Context, text string) ([]domain.LocationInfo, error)
}

var digitRe = regexp.MustCompile(`\d`)

// ordered ladders for first-match-wins scans
var (
	urgencyOrder  = []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}
	timelineOrder = []Timeline{TimelineImmediate, TimelineShortTerm, TimelineLongTerm, TimelineOngoing}
)

// Classifier derives the intent of a brief: primary goal, project type,
// domain, urgency, timeline and localization.
type Classifier struct {
	lex      *Lexicon
	resolver LocationResolver
}

// NewClassifier returns a Classifier. resolver may be nil, in which case
// localization always comes back empty with confidence 0.
func NewClassifier(lex *Lexicon, resolver LocationResolver) *Classifier {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Classifier{lex: lex, resolver: resolver}
}

// Classify derives the intent for a processed brief.
func (c *Classifier) Classify(ctx context.Context, pb *ProcessedBrief) Intent {
	lower := strings.ToLower(pb.CleanedText)

	intent := Intent{
		PrimaryGoal: Goal(argmax(lower, c.lex.GoalKeywords, string(GoalPartnership))),
		ProjectType: argmax(lower, c.lex.ProjectTypeKeywords, "conservation"),
		Domain:      argmax(lower, c.lex.DomainKeywords, "forest"),
		Urgency:     c.classifyUrgency(lower),
		Timeline:    c.classifyTimeline(lower),
	}
	intent.Localization = c.localize(ctx, pb.CleanedText)
	intent.Confidence = c.confidence(pb, lower)
	return intent
}

// argmax scores every category by summed substring hits and picks the
// winner, falling back to def when nothing matches.
func argmax(lower string, categories map[string][]string, def string) string {
	best, bestScore := def, 0
	for category, keywords := range categories {
		score := 0
		for _, kw := range keywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore || (score == bestScore && score > 0 && category < best) {
			best, bestScore = category, score
		}
	}
	return best
}

func (c *Classifier) classifyUrgency(lower string) Urgency {
	for _, level := range urgencyOrder {
		for _, kw := range c.lex.UrgencyKeywords[string(level)] {
			if strings.Contains(lower, kw) {
				return level
			}
		}
	}
	return UrgencyMedium
}

func (c *Classifier) classifyTimeline(lower string) Timeline {
	for _, bucket := range timelineOrder {
		for _, kw := range c.lex.TimelineKeywords[string(bucket)] {
			if strings.Contains(lower, kw) {
				return bucket
			}
		}
	}
	return TimelineShortTerm
}

// localize keeps the highest-confidence candidate from the geo
// collaborator. Resolver failure degrades to an empty localization; it is
// never surfaced as an error.
func (c *Classifier) localize(ctx context.Context, text string) Localization {
	if c.resolver == nil || strings.TrimSpace(text) == "" {
		return Localization{}
	}
	candidates, err := c.resolver.ExtractLocations(ctx, text)
	if err != nil {
		logger.Warn("intent: location resolution failed", "error", err.Error())
		return Localization{}
	}
	var best *domain.LocationInfo
	for i := range candidates {
		if best == nil || candidates[i].Confidence > best.Confidence {
			best = &candidates[i]
		}
	}
	if best == nil {
		return Localization{}
	}
	return Localization{
		Country:    best.Country,
		State:      best.State,
		District:   best.District,
		City:       best.City,
		Confidence: best.Confidence,
	}
}

// confidence: base 50, length bonuses at >50 and >150 chars, 5 points per
// specific-indicator hit (max 4 hits), small bonuses for multi-sentence
// structure and digits. Capped at 100.
func (c *Classifier) confidence(pb *ProcessedBrief, lower string) int {
	conf := 50
	if len(pb.CleanedText) > 50 {
		conf += 10
	}
	if len(pb.CleanedText) > 150 {
		conf += 10
	}
	hits := 0
	for _, ind := range c.lex.SpecificIndicators {
		if strings.Contains(lower, ind) {
			hits++
		}
	}
	if hits > 4 {
		hits = 4
	}
	conf += 5 * hits
	if len(pb.Sentences) >= 2 {
		conf += 5
	}
	if digitRe.MatchString(pb.CleanedText) {
		conf += 5
	}
	if conf > 100 {
		conf = 100
	}
	return conf
}
