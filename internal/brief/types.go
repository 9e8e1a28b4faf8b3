package brief

// Format classifies the overall structure of a brief.
type Format string

const (
	FormatParagraph Format = "paragraph"
	FormatList      Format = "list"
	FormatMixed     Format = "mixed"
	FormatUnknown   Format = "unknown"
)

// LineKind classifies a single line of cleaned text.
type LineKind string

const (
	LineBullet    LineKind = "bullet"
	LineNumbered  LineKind = "numbered"
	LineHeading   LineKind = "heading"
	LineParagraph LineKind = "paragraph"
)

// Quality is the completeness/clarity record attached to a ProcessedBrief.
type Quality struct {
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// ProcessedBrief is the immutable normalized snapshot of one input brief.
// It is created once per request and never mutated after construction.
type ProcessedBrief struct {
	OriginalText     string   `json:"original_text"`
	CleanedText      string   `json:"cleaned_text"`
	Sentences        []string `json:"sentences"`
	Paragraphs       []string `json:"paragraphs"`
	WordCount        int      `json:"word_count"`
	HasBullets       bool     `json:"has_bullets"`
	HasNumberedList  bool     `json:"has_numbered_list"`
	HasMultiParas    bool     `json:"has_multiple_paragraphs"`
	EstimatedFormat  Format   `json:"estimated_format"`
	Quality          Quality  `json:"quality"`
}

// Goal is the primary goal of a brief.
type Goal string

const (
	GoalPartnership Goal = "partnership"
	GoalFunding     Goal = "funding"
	GoalVolunteers  Goal = "volunteers"
	GoalAdvocacy    Goal = "advocacy"
	GoalResearch    Goal = "research"
)

// Urgency levels, ordered most to least urgent for first-match-wins scans.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// Timeline buckets, ordered for first-match-wins scans.
type Timeline string

const (
	TimelineImmediate Timeline = "immediate"
	TimelineShortTerm Timeline = "short-term"
	TimelineLongTerm  Timeline = "long-term"
	TimelineOngoing   Timeline = "ongoing"
)

// Localization is the best geographic resolution for a brief. Confidence 0
// with empty fields means nothing resolved.
type Localization struct {
	Country    string `json:"country"`
	State      string `json:"state,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	Confidence int    `json:"confidence"`
}

// Intent is the classified purpose of a brief.
type Intent struct {
	PrimaryGoal  Goal         `json:"primary_goal"`
	ProjectType  string       `json:"project_type"`
	Domain       string       `json:"domain"`
	Urgency      Urgency      `json:"urgency"`
	Timeline     Timeline     `json:"timeline"`
	Localization Localization `json:"localization"`
	Confidence   int          `json:"confidence"`
}

// Entities are the five deduplicated term sets pulled from a brief.
// Insertion order is first-seen; a term may appear in multiple sets.
type Entities struct {
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
	Causes        []string `json:"causes"`
	Activities    []string `json:"activities"`
	Metrics       []string `json:"metrics"`
}

// Sentiment of a brief.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Formality of a brief.
type Formality string

const (
	FormalityFormal     Formality = "formal"
	FormalitySemiFormal Formality = "semi-formal"
	FormalityCasual     Formality = "casual"
)

// Tone is the analyzed tone of a brief.
type Tone struct {
	Sentiment         Sentiment `json:"sentiment"`
	Formality         Formality `json:"formality"`
	UrgencyIndicators []string  `json:"urgency_indicators"`
	EmotionalLanguage bool      `json:"emotional_language"`
	Confidence        int       `json:"confidence"`
}

// Gaps lists what a brief is missing and how to improve it.
type Gaps struct {
	MissingInformation   []string `json:"missing_information"`
	SuggestedAdditions   []string `json:"suggested_additions"`
	CompletenessScore    int      `json:"completeness_score"`
	ClarityScore         int      `json:"clarity_score"`
	PriorityImprovements []string `json:"priority_improvements"`
}

// Analysis bundles everything the pipeline derives from one brief.
type Analysis struct {
	Brief    *ProcessedBrief `json:"brief"`
	Intent   Intent          `json:"intent"`
	Entities Entities        `json:"entities"`
	Tone     Tone            `json:"tone"`
	Gaps     Gaps            `json:"gaps"`
}
