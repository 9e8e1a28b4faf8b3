package brief

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lexicon holds every keyword table the pipeline scores against. Tables are
// data, not control flow: extending the vocabulary never touches scoring
// logic. A YAML file may override any table; unset tables keep defaults.
type Lexicon struct {
	// Intent classification
	GoalKeywords        map[string][]string `yaml:"goal_keywords"`
	ProjectTypeKeywords map[string][]string `yaml:"project_type_keywords"`
	DomainKeywords      map[string][]string `yaml:"domain_keywords"`
	UrgencyKeywords     map[string][]string `yaml:"urgency_keywords"`
	TimelineKeywords    map[string][]string `yaml:"timeline_keywords"`
	SpecificIndicators  []string            `yaml:"specific_indicators"`

	// Entity extraction
	KnownOrganizations []string `yaml:"known_organizations"`
	OrgSuffixes        []string `yaml:"org_suffixes"`
	Regions            []string `yaml:"regions"`
	GeoIndicators      []string `yaml:"geo_indicators"`
	CommonWords        []string `yaml:"common_words"`
	CauseKeywords      map[string][]string `yaml:"cause_keywords"`
	ActivityKeywords   map[string][]string `yaml:"activity_keywords"`
	MetricVocabulary   []string            `yaml:"metric_vocabulary"`

	// Tone analysis
	PositiveWords    []string `yaml:"positive_words"`
	NegativeWords    []string `yaml:"negative_words"`
	FormalIndicators []string `yaml:"formal_indicators"`
	CasualIndicators []string `yaml:"casual_indicators"`
	EmotionalWords   []string `yaml:"emotional_words"`
	EmotionalPhrases []string `yaml:"emotional_phrases"`

	// Gap analysis
	VagueWords []string `yaml:"vague_words"`
}

// DefaultLexicon returns the compiled-in vocabulary.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		GoalKeywords: map[string][]string{
			string(GoalPartnership): {"partner", "partnership", "collaborate", "collaboration", "alliance", "joint", "together", "cooperation", "work with"},
			string(GoalFunding):     {"fund", "funding", "grant", "donation", "donor", "sponsor", "budget", "financial support", "invest", "raise"},
			string(GoalVolunteers):  {"volunteer", "volunteers", "volunteering", "helpers", "participants", "community members", "hands-on"},
			string(GoalAdvocacy):    {"advocacy", "advocate", "awareness", "campaign for", "policy", "lobby", "petition", "rights", "mobilize"},
			string(GoalResearch):    {"research", "study", "data", "survey", "analysis", "publication", "scientific", "methodology"},
		},
		ProjectTypeKeywords: map[string][]string{
			"restoration":    {"restore", "restoration", "rehabilitate", "rehabilitation", "replant", "regenerate", "recovery"},
			"conservation":   {"conserve", "conservation", "protect", "protection", "preserve", "safeguard", "sanctuary"},
			"education":      {"educate", "education", "training", "workshop", "curriculum", "school", "teach"},
			"community":      {"community", "local", "grassroots", "livelihood", "empowerment", "capacity building"},
			"infrastructure": {"build", "construction", "facility", "infrastructure", "installation", "equipment"},
		},
		DomainKeywords: map[string][]string{
			"forest":      {"forest", "tree", "trees", "reforestation", "deforestation", "woodland", "rainforest", "mangrove"},
			"marine":      {"marine", "ocean", "coral", "reef", "coastal", "sea", "fisheries", "underwater"},
			"wetland":     {"wetland", "marsh", "swamp", "river", "lake", "watershed", "freshwater"},
			"grassland":   {"grassland", "savanna", "prairie", "steppe", "rangeland"},
			"urban":       {"urban", "city", "green space", "park", "rooftop", "neighborhood"},
			"agriculture": {"agriculture", "farm", "farming", "soil", "crop", "agroforestry", "permaculture"},
			"climate":     {"climate", "carbon", "emission", "renewable", "solar", "mitigation", "adaptation"},
		},
		UrgencyKeywords: map[string][]string{
			string(UrgencyCritical): {"emergency", "immediately", "crisis", "urgent deadline", "critical"},
			string(UrgencyHigh):     {"urgent", "asap", "as soon as possible", "pressing", "time-sensitive", "quickly"},
			string(UrgencyMedium):   {"soon", "upcoming", "this quarter", "near-term"},
			string(UrgencyLow):      {"eventually", "when possible", "no rush", "flexible timing"},
		},
		TimelineKeywords: map[string][]string{
			string(TimelineImmediate): {"immediately", "right away", "this week", "this month", "now"},
			string(TimelineShortTerm): {"short-term", "short term", "in the coming months", "this year", "next quarter", "within months"},
			string(TimelineLongTerm):  {"long-term", "long term", "multi-year", "over the next", "years", "decade"},
			string(TimelineOngoing):   {"ongoing", "continuous", "permanent", "sustained", "indefinitely"},
		},
		SpecificIndicators: []string{
			"hectare", "hectares", "acre", "acres", "budget", "deadline", "timeline",
			"measurable", "target", "goal", "milestone", "kpi", "metric", "deliverable",
		},
		KnownOrganizations: []string{
			"united nations", "unep", "unesco", "world wildlife fund", "wwf",
			"the nature conservancy", "greenpeace", "conservation international",
			"rainforest alliance", "sierra club", "wetlands international",
			"birdlife international", "iucn", "world resources institute",
		},
		OrgSuffixes: []string{
			"foundation", "alliance", "institute", "association", "coalition",
			"society", "trust", "initiative", "network", "fund", "council",
			"organization", "organisation", "ngo",
		},
		Regions: []string{
			"africa", "asia", "europe", "north america", "south america", "latin america",
			"oceania", "caribbean", "amazon", "congo basin", "southeast asia",
			"kenya", "brazil", "indonesia", "india", "philippines", "madagascar",
			"tanzania", "colombia", "peru", "mexico", "vietnam", "nepal",
			"united states", "canada", "australia", "germany", "netherlands",
			"costa rica", "ecuador", "ghana", "uganda", "global",
		},
		GeoIndicators: []string{
			"region", "province", "district", "county", "coast", "basin", "valley",
			"island", "islands", "delta", "highlands", "lowlands", "border",
		},
		CommonWords: []string{
			"The", "We", "Our", "This", "That", "These", "Those", "With", "And",
			"For", "From", "Into", "After", "Before", "During", "While", "Please",
			"Thank", "You", "Your", "They", "Their", "It", "Its", "In", "On", "At",
			"An", "As", "By", "To", "Of", "Is", "Are", "Will", "Would", "Should",
		},
		CauseKeywords: map[string][]string{
			"environmental": {"biodiversity", "habitat", "wildlife", "ecosystem", "endangered species", "pollution", "climate change", "deforestation", "conservation"},
			"social":        {"education", "health", "poverty", "equality", "indigenous", "community development", "food security", "water access"},
			"economic":      {"livelihood", "employment", "income", "sustainable development", "ecotourism", "fair trade", "microfinance"},
		},
		ActivityKeywords: map[string][]string{
			"research":     {"monitoring", "data collection", "field study", "mapping", "assessment", "survey"},
			"conservation": {"reforestation", "restoration", "habitat protection", "species recovery", "anti-poaching", "replanting"},
			"education":    {"training", "workshops", "awareness campaigns", "curriculum development", "mentoring"},
			"support":      {"fundraising", "grant writing", "capacity building", "volunteer coordination", "advocacy"},
		},
		MetricVocabulary: []string{
			"goal", "target", "budget", "deadline", "kpi", "milestone", "baseline",
			"objective", "quota", "benchmark",
		},
		PositiveWords: []string{
			"excited", "great", "excellent", "wonderful", "impactful", "successful",
			"thriving", "hopeful", "opportunity", "promising", "proud", "inspiring",
			"committed", "passionate",
		},
		NegativeWords: []string{
			"crisis", "failing", "threat", "threatened", "destroyed", "declining",
			"loss", "danger", "devastating", "severe", "collapse", "degraded",
			"urgent", "alarming",
		},
		FormalIndicators: []string{
			"hereby", "pursuant", "regarding", "furthermore", "therefore", "respectively",
			"accordingly", "we are writing to", "we wish to", "kindly", "sincerely",
			"per our", "in accordance with",
		},
		CasualIndicators: []string{
			"hey", "hi there", "awesome", "cool", "stuff", "guys", "gonna", "wanna",
			"super", "btw", "thanks a lot", "really great",
		},
		EmotionalWords: []string{
			"love", "heartbreaking", "devastating", "amazing", "incredible",
			"tragic", "beautiful", "precious", "desperate", "thrilled",
		},
		EmotionalPhrases: []string{
			"we cannot stand by", "time is running out", "before it is too late",
			"once in a lifetime", "make a real difference", "close to our hearts",
		},
		VagueWords: []string{
			"stuff", "things", "various", "some", "somehow", "something", "etc",
			"many", "several", "a lot", "kind of", "sort of",
		},
	}
}

// LoadLexicon reads a YAML override file and merges it over the defaults.
// Only tables present in the file replace their default counterparts.
func LoadLexicon(path string) (*Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}
	var overlay Lexicon
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing lexicon file: %w", err)
	}
	lex.merge(&overlay)
	return lex, nil
}

func (l *Lexicon) merge(o *Lexicon) {
	if len(o.GoalKeywords) > 0 {
		l.GoalKeywords = o.GoalKeywords
	}
	if len(o.ProjectTypeKeywords) > 0 {
		l.ProjectTypeKeywords = o.ProjectTypeKeywords
	}
	if len(o.DomainKeywords) > 0 {
		l.DomainKeywords = o.DomainKeywords
	}
	if len(o.UrgencyKeywords) > 0 {
		l.UrgencyKeywords = o.UrgencyKeywords
	}
	if len(o.TimelineKeywords) > 0 {
		l.TimelineKeywords = o.TimelineKeywords
	}
	if len(o.SpecificIndicators) > 0 {
		l.SpecificIndicators = o.SpecificIndicators
	}
	if len(o.KnownOrganizations) > 0 {
		l.KnownOrganizations = o.KnownOrganizations
	}
	if len(o.OrgSuffixes) > 0 {
		l.OrgSuffixes = o.OrgSuffixes
	}
	if len(o.Regions) > 0 {
		l.Regions = o.Regions
	}
	if len(o.GeoIndicators) > 0 {
		l.GeoIndicators = o.GeoIndicators
	}
	if len(o.CommonWords) > 0 {
		l.CommonWords = o.CommonWords
	}
	if len(o.CauseKeywords) > 0 {
		l.CauseKeywords = o.CauseKeywords
	}
	if len(o.ActivityKeywords) > 0 {
		l.ActivityKeywords = o.ActivityKeywords
	}
	if len(o.MetricVocabulary) > 0 {
		l.MetricVocabulary = o.MetricVocabulary
	}
	if len(o.PositiveWords) > 0 {
		l.PositiveWords = o.PositiveWords
	}
	if len(o.NegativeWords) > 0 {
		l.NegativeWords = o.NegativeWords
	}
	if len(o.FormalIndicators) > 0 {
		l.FormalIndicators = o.FormalIndicators
	}
	if len(o.CasualIndicators) > 0 {
		l.CasualIndicators = o.CasualIndicators
	}
	if len(o.EmotionalWords) > 0 {
		l.EmotionalWords = o.EmotionalWords
	}
	if len(o.EmotionalPhrases) > 0 {
		l.EmotionalPhrases = o.EmotionalPhrases
	}
	if len(o.VagueWords) > 0 {
		l.VagueWords = o.VagueWords
	}
}
