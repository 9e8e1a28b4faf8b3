package brief

import (
	"fmt"
	"strings"
)

// possessive 's is deliberately excluded; it is not a formality signal
var contractionSuffixes = []string{"n't", "'re", "'ve", "'ll", "'d", "'m"}

// ToneAnalyzer derives sentiment, formality and emotional signals from a
// processed brief.
type ToneAnalyzer struct {
	lex *Lexicon
}

// NewToneAnalyzer returns a ToneAnalyzer.
func NewToneAnalyzer(lex *Lexicon) *ToneAnalyzer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &ToneAnalyzer{lex: lex}
}

// Analyze returns the tone of a processed brief.
func (t *ToneAnalyzer) Analyze(pb *ProcessedBrief) Tone {
	lower := strings.ToLower(pb.CleanedText)
	return Tone{
		Sentiment:         t.sentiment(lower),
		Formality:         t.formality(pb, lower),
		UrgencyIndicators: t.urgencyIndicators(lower),
		EmotionalLanguage: t.emotional(pb.CleanedText, lower),
		Confidence:        t.confidence(pb),
	}
}

// sentiment applies the 1.5x dominance rule over whole-word lexicon hits.
func (t *ToneAnalyzer) sentiment(lower string) Sentiment {
	pos, neg := 0, 0
	for _, w := range t.lex.PositiveWords {
		if containsWord(lower, w) {
			pos++
		}
	}
	for _, w := range t.lex.NegativeWords {
		if containsWord(lower, w) {
			neg++
		}
	}
	switch {
	case float64(pos) > float64(neg)*1.5 && pos > 0:
		return SentimentPositive
	case float64(neg) > float64(pos)*1.5 && neg > 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func (t *ToneAnalyzer) formality(pb *ProcessedBrief, lower string) Formality {
	formal, casual := 0, 0
	for _, ind := range t.lex.FormalIndicators {
		if strings.Contains(lower, ind) {
			formal++
		}
	}
	for _, ind := range t.lex.CasualIndicators {
		if strings.Contains(lower, ind) {
			casual++
		}
	}
	casual += countContractions(lower)

	if avg := averageSentenceLength(pb); avg > 15 {
		formal += 2
	} else if avg > 0 && avg < 8 {
		casual += 2
	}

	switch {
	case float64(formal) > float64(casual)*1.5 && formal > 0:
		return FormalityFormal
	case float64(casual) > float64(formal)*1.5 && casual > 0:
		return FormalityCasual
	default:
		return FormalitySemiFormal
	}
}

// urgencyIndicators collects every tier hit tagged "<tier>: <phrase>".
func (t *ToneAnalyzer) urgencyIndicators(lower string) []string {
	var out []string
	for _, level := range urgencyOrder {
		for _, kw := range t.lex.UrgencyKeywords[string(level)] {
			if strings.Contains(lower, kw) {
				out = append(out, fmt.Sprintf("%s: %s", level, kw))
			}
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// emotional flags the brief when the weighted signal count reaches 2:
// emotional words x1, emotional phrases x2, exclamation marks x1,
// ALL-CAPS runs x2.
func (t *ToneAnalyzer) emotional(cleaned, lower string) bool {
	score := 0
	for _, w := range t.lex.EmotionalWords {
		if containsWord(lower, w) {
			score++
		}
	}
	for _, p := range t.lex.EmotionalPhrases {
		if strings.Contains(lower, p) {
			score += 2
		}
	}
	score += strings.Count(cleaned, "!")
	score += 2 * countAllCapsRuns(cleaned)
	return score >= 2
}

func (t *ToneAnalyzer) confidence(pb *ProcessedBrief) int {
	conf := 60
	if pb.WordCount > 30 {
		conf += 10
	}
	if pb.WordCount > 100 {
		conf += 5
	}
	if n := len(pb.Sentences); n >= 3 && n <= 10 {
		conf += 10
	}
	if pb.EstimatedFormat != FormatUnknown {
		conf += 5
	}
	if vocabularyDiversity(pb.CleanedText) > 0.6 {
		conf += 10
	}
	if conf > 100 {
		conf = 100
	}
	return conf
}

func countContractions(lower string) int {
	count := 0
	for _, tok := range strings.Fields(lower) {
		tok = strings.Trim(tok, `.,!?;:()[]{}"`)
		for _, suf := range contractionSuffixes {
			if strings.HasSuffix(tok, suf) && len(tok) > len(suf) {
				count++
				break
			}
		}
	}
	return count
}

func averageSentenceLength(pb *ProcessedBrief) float64 {
	if len(pb.Sentences) == 0 {
		return 0
	}
	total := 0
	for _, s := range pb.Sentences {
		total += len(strings.Fields(s))
	}
	return float64(total) / float64(len(pb.Sentences))
}

// vocabularyDiversity is the unique-word ratio of the text, 0 when empty.
func vocabularyDiversity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.Trim(w, `.,!?;:()[]{}"'`)] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

// countAllCapsRuns counts words of three or more letters written entirely
// in capitals ("URGENT", "NOW").
func countAllCapsRuns(text string) int {
	count := 0
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, `.,!?;:()[]{}"'`)
		if len(tok) < 3 {
			continue
		}
		if tok == strings.ToUpper(tok) && letterRe.MatchString(tok) && tok != strings.ToLower(tok) {
			count++
		}
	}
	return count
}
