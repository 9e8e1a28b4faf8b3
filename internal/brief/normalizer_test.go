package brief

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanNormalizesArtifacts(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "smart quotes and dashes",
			input:    "“Restore” the reef — it’s urgent",
			expected: `"Restore" the reef - it's urgent`,
		},
		{
			name:     "whitespace runs collapse",
			input:    "We   plant\ttrees.",
			expected: "We plant trees.",
		},
		{
			name:     "missing space after sentence end",
			input:    "First phase done.Second phase starts",
			expected: "First phase done. Second phase starts",
		},
		{
			name:     "space before punctuation removed",
			input:    "We need help , soon .",
			expected: "We need help, soon.",
		},
		{
			name:     "disallowed characters stripped",
			input:    "Save the reef ~ tomorrow ^ at dawn",
			expected: "Save the reef tomorrow at dawn",
		},
		{
			name:     "currency, percent and email symbols survive",
			input:    "Budget is $50,000 (about €46,000) for 30% more cover; write lead@reef.org",
			expected: "Budget is $50,000 (about €46,000) for 30% more cover; write lead@reef.org",
		},
		{
			name:     "blank line runs collapse",
			input:    "first paragraph\n\n\n\nsecond paragraph",
			expected: "first paragraph\n\nsecond paragraph",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \n  coral nursery  \n ",
			expected: "coral nursery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Clean(tt.input))
		})
	}
}

func TestProcessEmptyInput(t *testing.T) {
	n := NewNormalizer()

	for _, raw := range []string{"", "   \n\t  ", "@@@"} {
		pb := n.Process(raw)
		require.NotNil(t, pb)
		assert.Equal(t, "", pb.CleanedText)
		assert.Equal(t, 0, pb.WordCount)
		assert.Empty(t, pb.Sentences)
		assert.Empty(t, pb.Paragraphs)
		assert.Equal(t, FormatUnknown, pb.EstimatedFormat)
	}
}

func TestProcessFormatEstimation(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected Format
	}{
		{
			name:     "single plain line",
			input:    "We want to restore coral reefs together.",
			expected: FormatUnknown,
		},
		{
			name:     "multiple paragraphs",
			input:    "We restore coral reefs in the Caribbean.\n\nOur divers replant nurseries every season.",
			expected: FormatParagraph,
		},
		{
			name:     "bulleted list",
			input:    "- Restore coral nurseries\n- Train local divers",
			expected: FormatList,
		},
		{
			name:     "paragraph plus numbered list",
			input:    "Our goals for this year:\n\n1. Map the degraded reef\n2) Train thirty divers",
			expected: FormatMixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := n.Process(tt.input)
			assert.Equal(t, tt.expected, pb.EstimatedFormat)
		})
	}
}

func TestProcessListMarkersStripped(t *testing.T) {
	n := NewNormalizer()

	pb := n.Process("- Restore coral nurseries\n2. Train local divers")
	require.Len(t, pb.Sentences, 2)
	assert.Equal(t, "Restore coral nurseries", pb.Sentences[0])
	assert.Equal(t, "Train local divers", pb.Sentences[1])
	assert.True(t, pb.HasBullets)
	assert.True(t, pb.HasNumberedList)
}

func TestProcessHeadingKeptVerbatim(t *testing.T) {
	n := NewNormalizer()

	pb := n.Process("PROJECT BACKGROUND\n\nWe restore coral reefs along the coast.")
	require.NotEmpty(t, pb.Sentences)
	assert.Equal(t, "PROJECT BACKGROUND", pb.Sentences[0])
}

func TestProcessDiscardsShortFragments(t *testing.T) {
	n := NewNormalizer()

	pb := n.Process("We plant mangroves along the coast. Yes.")
	require.Len(t, pb.Sentences, 1)
	assert.Equal(t, "We plant mangroves along the coast", pb.Sentences[0])
}

func TestProcessFallbackSegment(t *testing.T) {
	n := NewNormalizer()

	pb := n.Process("short note without punctuation")
	require.Len(t, pb.Sentences, 1)
	assert.Equal(t, "short note without punctuation", pb.Sentences[0])
	assert.Equal(t, 4, pb.WordCount)
}

func TestProcessWordCountAndParagraphs(t *testing.T) {
	n := NewNormalizer()

	pb := n.Process("We restore reefs.\n\nWe also train divers.")
	assert.Equal(t, 7, pb.WordCount)
	require.Len(t, pb.Paragraphs, 2)
	assert.True(t, pb.HasMultiParas)
	assert.Equal(t, "We restore reefs.", pb.Paragraphs[0])
}
