package brief

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToneSentiment(t *testing.T) {
	ta := NewToneAnalyzer(nil)

	tests := []struct {
		name     string
		text     string
		expected Sentiment
	}{
		{
			name:     "positive",
			text:     "We are excited about this wonderful opportunity.",
			expected: SentimentPositive,
		},
		{
			name:     "negative",
			text:     "The crisis is devastating and the reef is declining.",
			expected: SentimentNegative,
		},
		{
			name:     "neutral",
			text:     "We plant trees near the coast.",
			expected: SentimentNeutral,
		},
		{
			name:     "balanced stays neutral",
			text:     "We are excited but the reef is declining.",
			expected: SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tone := ta.Analyze(processed(t, tt.text))
			assert.Equal(t, tt.expected, tone.Sentiment)
		})
	}
}

func TestToneFormality(t *testing.T) {
	ta := NewToneAnalyzer(nil)

	tests := []struct {
		name     string
		text     string
		expected Formality
	}{
		{
			name:     "formal",
			text:     "We are writing to request support for mangrove restoration along the northern coast of the island province.",
			expected: FormalityFormal,
		},
		{
			name:     "casual",
			text:     "Hey guys, we're gonna do some cool stuff!",
			expected: FormalityCasual,
		},
		{
			name:     "semi-formal default",
			text:     "We plant mangroves and train local divers regularly.",
			expected: FormalitySemiFormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tone := ta.Analyze(processed(t, tt.text))
			assert.Equal(t, tt.expected, tone.Formality)
		})
	}
}

func TestToneEmotionalLanguage(t *testing.T) {
	ta := NewToneAnalyzer(nil)

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "emotional phrase alone is enough",
			text:     "Time is running out for the reef.",
			expected: true,
		},
		{
			name:     "single emotional word is not",
			text:     "It is a beautiful reef.",
			expected: false,
		},
		{
			name:     "two exclamation marks",
			text:     "Act today! Save the reef!",
			expected: true,
		},
		{
			name:     "all-caps run",
			text:     "This is URGENT for the reef.",
			expected: true,
		},
		{
			name:     "plain text",
			text:     "We monitor the reef every month.",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tone := ta.Analyze(processed(t, tt.text))
			assert.Equal(t, tt.expected, tone.EmotionalLanguage)
		})
	}
}

func TestToneUrgencyIndicators(t *testing.T) {
	ta := NewToneAnalyzer(nil)

	tone := ta.Analyze(processed(t, "This is urgent, we must act immediately."))
	assert.Contains(t, tone.UrgencyIndicators, "critical: immediately")
	assert.Contains(t, tone.UrgencyIndicators, "high: urgent")

	calm := ta.Analyze(processed(t, "We plant trees along the river."))
	assert.NotNil(t, calm.UrgencyIndicators)
	assert.Empty(t, calm.UrgencyIndicators)
}

func TestToneConfidenceBounds(t *testing.T) {
	ta := NewToneAnalyzer(nil)

	tone := ta.Analyze(processed(t, "We plant mangroves."))
	assert.GreaterOrEqual(t, tone.Confidence, 60)
	assert.LessOrEqual(t, tone.Confidence, 100)
}

func TestCountContractions(t *testing.T) {
	assert.Equal(t, 2, countContractions("we're sure it won't fail"))
	// possessive 's is not a contraction signal
	assert.Equal(t, 0, countContractions("the reef's edge"))
}

func TestVocabularyDiversity(t *testing.T) {
	assert.Equal(t, 0.0, vocabularyDiversity(""))
	assert.InDelta(t, 1.0, vocabularyDiversity("every word here differs"), 0.001)
	assert.InDelta(t, 0.5, vocabularyDiversity("reef reef coral coral"), 0.001)
}
